package models

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"go.hackfix.me/curator/db/types"
)

// Site is a curated link listed in the directory.
type Site struct {
	ID           string
	Name         string
	URL          string
	Description  string
	Icon         string
	Screenshot   string
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	IsHot        bool
	IsNew        bool
	HotUntil     sql.Null[time.Time]
	NewUntil     sql.Null[time.Time]
	TutorialURL  string
	// Only the ID and Name of the assigned categories and tags are loaded.
	Categories []*Category
	Tags       []*Tag
}

// Hot returns true if the site is flagged as hot at time t. The flag expires
// at HotUntil, if set.
func (s *Site) Hot(t time.Time) bool {
	return s.IsHot && (!s.HotUntil.Valid || t.Before(s.HotUntil.V))
}

// New returns true if the site is flagged as new at time t. The flag expires
// at NewUntil, if set.
func (s *Site) New(t time.Time) bool {
	return s.IsNew && (!s.NewUntil.Valid || t.Before(s.NewUntil.V))
}

// Validate checks that the required fields are set, and that URLs are
// absolute.
func (s *Site) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return types.InvalidInputError{Msg: "site name must not be empty"}
	}
	if err := validateURL("site URL", s.URL, true); err != nil {
		return err
	}

	return validateURL("tutorial URL", s.TutorialURL, false)
}

func validateURL(field, raw string, required bool) error {
	if raw == "" {
		if required {
			return types.InvalidInputError{Msg: fmt.Sprintf("%s must not be empty", field)}
		}
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return types.InvalidInputError{Msg: fmt.Sprintf("invalid %s: '%s'", field, raw)}
	}

	return nil
}

// Save stores the site and its category and tag assignments in the database.
// New sites are placed after all existing ones.
func (s *Site) Save(ctx context.Context, d types.Schema, update bool) error {
	if err := s.Validate(); err != nil {
		return err
	}

	timeNow := d.TimeNow().UTC()

	return d.Tx(ctx, func(tx types.Schema) error {
		if update {
			if s.ID == "" {
				return types.InvalidInputError{Msg: "site ID must be set"}
			}
			err := execOne(ctx, tx, "site", fmt.Sprintf("ID %s", s.ID),
				`UPDATE sites
				SET name = ?, url = ?, description = ?, icon = ?, screenshot = ?,
				    is_hot = ?, is_new = ?, hot_until = ?, new_until = ?,
				    tutorial_url = ?, updatedAt = ?
				WHERE id = ?`,
				s.Name, s.URL, nullStr(s.Description), nullStr(s.Icon), nullStr(s.Screenshot),
				s.IsHot, s.IsNew, s.HotUntil, s.NewUntil,
				nullStr(s.TutorialURL), timeNow, s.ID)
			if err != nil {
				return err
			}
			s.UpdatedAt = timeNow
		} else {
			if s.ID == "" {
				s.ID = uuid.NewString()
			}
			var maxOrder sql.Null[int]
			err := tx.QueryRowContext(ctx, `SELECT MAX(displayOrder) FROM sites`).Scan(&maxOrder)
			if err != nil {
				return fmt.Errorf("failed reading display order: %w", err)
			}
			s.DisplayOrder = 0
			if maxOrder.Valid {
				s.DisplayOrder = maxOrder.V + 1
			}

			_, err = tx.ExecContext(ctx, `INSERT INTO sites
				(id, name, url, description, icon, screenshot, displayOrder,
				 createdAt, updatedAt, is_hot, is_new, hot_until, new_until, tutorial_url)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				s.ID, s.Name, s.URL, nullStr(s.Description), nullStr(s.Icon), nullStr(s.Screenshot),
				s.DisplayOrder, timeNow, timeNow, s.IsHot, s.IsNew, s.HotUntil, s.NewUntil,
				nullStr(s.TutorialURL))
			if err != nil {
				return types.Err("site", fmt.Sprintf("ID %s", s.ID), err)
			}
			s.CreatedAt = timeNow
			s.UpdatedAt = timeNow
		}

		if err := setTerms(ctx, tx, categoryKind, s.ID, categoryIDs(s.Categories)); err != nil {
			return err
		}

		return setTerms(ctx, tx, tagKind, s.ID, tagIDs(s.Tags))
	})
}

// Load the site with the set ID from the database.
func (s *Site) Load(ctx context.Context, d types.Querier) error {
	if s.ID == "" {
		return types.InvalidInputError{Msg: "site ID must be set"}
	}

	sites, err := Sites(ctx, d, types.NewFilter("s.id = ?", []any{s.ID}))
	if err != nil {
		return err
	}
	if len(sites) == 0 {
		return types.NoResultError{ModelName: "site", ID: fmt.Sprintf("ID %s", s.ID)}
	}
	*s = *sites[0]

	return nil
}

// Delete removes the site and its category and tag assignments from the
// database.
func (s *Site) Delete(ctx context.Context, d types.Schema) error {
	if s.ID == "" {
		return types.InvalidInputError{Msg: "site ID must be set"}
	}

	return d.Tx(ctx, func(tx types.Schema) error {
		for _, kind := range []termKind{categoryKind, tagKind} {
			_, err := tx.ExecContext(ctx,
				fmt.Sprintf(`DELETE FROM %s WHERE siteId = ?`, kind.join), s.ID)
			if err != nil {
				return fmt.Errorf("failed removing site %s: %w", kind.table, err)
			}
		}

		return execOne(ctx, tx, "site", fmt.Sprintf("ID %s", s.ID),
			`DELETE FROM sites WHERE id = ?`, s.ID)
	})
}

// Sites returns sites from the database ordered by display order, and newest
// first for equal display orders. An optional filter can be passed to limit
// the results.
func Sites(ctx context.Context, d types.Querier, filter *types.Filter) (sites []*Site, rerr error) {
	where, args, limit := filterClause(filter)
	query := fmt.Sprintf(`SELECT
			s.id, s.name, s.url, s.description, s.icon, s.screenshot, s.displayOrder,
			s.createdAt, s.updatedAt, s.is_hot, s.is_new, s.hot_until, s.new_until,
			s.tutorial_url
		FROM sites s
		%s
		ORDER BY s.displayOrder ASC, s.createdAt DESC %s`, where, limit)

	rows, err := d.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, types.LoadError{ModelName: "sites", Err: err}
	}
	defer func() {
		if err = rows.Close(); err != nil {
			rerr = fmt.Errorf("failed closing sites rows: %w", err)
		}
	}()

	sites = make([]*Site, 0)
	byID := map[string]*Site{}
	for rows.Next() {
		var (
			s                                Site
			desc, icon, screenshot, tutorial sql.Null[string]
			createdAt, updatedAt             sql.Null[time.Time]
			isHot, isNew                     sql.Null[bool]
		)
		err = rows.Scan(&s.ID, &s.Name, &s.URL, &desc, &icon, &screenshot, &s.DisplayOrder,
			&createdAt, &updatedAt, &isHot, &isNew, &s.HotUntil, &s.NewUntil, &tutorial)
		if err != nil {
			return nil, types.ScanError{ModelName: "site", Err: err}
		}
		s.Description, s.Icon, s.Screenshot, s.TutorialURL = desc.V, icon.V, screenshot.V, tutorial.V
		s.CreatedAt, s.UpdatedAt = createdAt.V, updatedAt.V
		s.IsHot, s.IsNew = isHot.V, isNew.V
		s.Categories = []*Category{}
		s.Tags = []*Tag{}
		sites = append(sites, &s)
		byID[s.ID] = &s
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating over sites rows: %w", err)
	}

	if len(sites) == 0 {
		return sites, nil
	}

	if err = loadSiteTerms(ctx, d, categoryKind, byID, func(s *Site, t *term) {
		s.Categories = append(s.Categories, (*Category)(t))
	}); err != nil {
		return nil, err
	}
	if err = loadSiteTerms(ctx, d, tagKind, byID, func(s *Site, t *term) {
		s.Tags = append(s.Tags, (*Tag)(t))
	}); err != nil {
		return nil, err
	}

	return sites, nil
}

// ReorderSites sets the display order of the sites to their position in ids.
// All updates happen in a single transaction, and unknown IDs fail the whole
// operation.
func ReorderSites(ctx context.Context, d types.Schema, ids []string) error {
	if len(ids) == 0 {
		return types.InvalidInputError{Msg: "no site IDs provided"}
	}

	return d.Tx(ctx, func(tx types.Schema) error {
		for i, id := range ids {
			err := execOne(ctx, tx, "site", fmt.Sprintf("ID %s", id),
				`UPDATE sites SET displayOrder = ? WHERE id = ?`, i, id)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func loadSiteTerms(
	ctx context.Context, d types.Querier, kind termKind, byID map[string]*Site,
	add func(*Site, *term),
) (rerr error) {
	rows, err := d.QueryContext(ctx, fmt.Sprintf(`SELECT j.siteId, t.id, t.name
		FROM %s j
		JOIN %s t ON t.id = j.%s
		ORDER BY t.name ASC`, kind.join, kind.table, kind.fk))
	if err != nil {
		return types.LoadError{ModelName: kind.table, Err: err}
	}
	defer func() {
		if err = rows.Close(); err != nil {
			rerr = fmt.Errorf("failed closing %s rows: %w", kind.join, err)
		}
	}()

	for rows.Next() {
		var (
			siteID string
			t      term
		)
		if err = rows.Scan(&siteID, &t.ID, &t.Name); err != nil {
			return types.ScanError{ModelName: kind.model, Err: err}
		}
		if s, ok := byID[siteID]; ok {
			add(s, &t)
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("failed iterating over %s rows: %w", kind.join, err)
	}

	return nil
}

// setTerms replaces the terms of the given kind assigned to a site.
func setTerms(ctx context.Context, d types.Querier, kind termKind, siteID string, ids []string) error {
	_, err := d.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE siteId = ?`, kind.join), siteID)
	if err != nil {
		return fmt.Errorf("failed clearing site %s: %w", kind.table, err)
	}

	stmt := fmt.Sprintf(`INSERT OR IGNORE INTO %s (siteId, %s) VALUES (?, ?)`, kind.join, kind.fk)
	for _, id := range ids {
		if _, err = d.ExecContext(ctx, stmt, siteID, id); err != nil {
			return types.Err(kind.model, fmt.Sprintf("ID %s", id), err)
		}
	}

	return nil
}

func categoryIDs(cats []*Category) []string {
	ids := make([]string, 0, len(cats))
	for _, c := range cats {
		ids = append(ids, c.ID)
	}
	return ids
}

func tagIDs(tags []*Tag) []string {
	ids := make([]string, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids
}

func nullStr(s string) sql.Null[string] {
	return sql.Null[string]{V: s, Valid: s != ""}
}
