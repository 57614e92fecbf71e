package models

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"go.hackfix.me/curator/db/types"
)

// Category groups sites by subject.
type Category term

// Tag is a free-form label attached to sites.
type Tag term

// term is the common structure of categories and tags.
type term struct {
	ID          string
	Name        string
	Description string
	// SiteCount is the number of sites the term is assigned to. It's only set
	// when loading from the database.
	SiteCount int
}

// termKind describes where a kind of term is stored.
type termKind struct {
	model string
	table string
	join  string
	fk    string
}

var (
	categoryKind = termKind{model: "category", table: "categories", join: "site_categories", fk: "categoryId"}
	tagKind      = termKind{model: "tag", table: "tags", join: "site_tags", fk: "tagId"}
)

// Save stores the category in the database.
func (c *Category) Save(ctx context.Context, d types.Querier, update bool) error {
	return (*term)(c).save(ctx, d, categoryKind, update)
}

// Load the category with the set ID from the database.
func (c *Category) Load(ctx context.Context, d types.Querier) error {
	return (*term)(c).load(ctx, d, categoryKind)
}

// Delete removes the category from the database. It fails with
// types.InUseError if any site is assigned to it.
func (c *Category) Delete(ctx context.Context, d types.Querier) error {
	return (*term)(c).delete(ctx, d, categoryKind)
}

// Categories returns categories from the database, ordered by name. An
// optional filter can be passed to limit the results.
func Categories(ctx context.Context, d types.Querier, filter *types.Filter) ([]*Category, error) {
	terms, err := loadTerms(ctx, d, categoryKind, filter)
	if err != nil {
		return nil, err
	}
	cats := make([]*Category, len(terms))
	for i, t := range terms {
		cats[i] = (*Category)(t)
	}

	return cats, nil
}

// Save stores the tag in the database.
func (t *Tag) Save(ctx context.Context, d types.Querier, update bool) error {
	return (*term)(t).save(ctx, d, tagKind, update)
}

// Load the tag with the set ID from the database.
func (t *Tag) Load(ctx context.Context, d types.Querier) error {
	return (*term)(t).load(ctx, d, tagKind)
}

// Delete removes the tag from the database. It fails with types.InUseError if
// any site is labeled with it.
func (t *Tag) Delete(ctx context.Context, d types.Querier) error {
	return (*term)(t).delete(ctx, d, tagKind)
}

// Tags returns tags from the database, ordered by name. An optional filter can
// be passed to limit the results.
func Tags(ctx context.Context, d types.Querier, filter *types.Filter) ([]*Tag, error) {
	terms, err := loadTerms(ctx, d, tagKind, filter)
	if err != nil {
		return nil, err
	}
	tags := make([]*Tag, len(terms))
	for i, t := range terms {
		tags[i] = (*Tag)(t)
	}

	return tags, nil
}

func (t *term) save(ctx context.Context, d types.Querier, kind termKind, update bool) error {
	if t.Name == "" {
		return types.InvalidInputError{Msg: fmt.Sprintf("%s name must not be empty", kind.model)}
	}
	desc := sql.Null[string]{V: t.Description, Valid: t.Description != ""}

	if update {
		if t.ID == "" {
			return types.InvalidInputError{Msg: fmt.Sprintf("%s ID must be set", kind.model)}
		}
		stmt := fmt.Sprintf(`UPDATE %s SET name = ?, description = ? WHERE id = ?`, kind.table)
		err := execOne(ctx, d, kind.model, fmt.Sprintf("ID %s", t.ID), stmt, t.Name, desc, t.ID)
		if err != nil {
			return fixDuplicateID(err, t.Name)
		}
		return nil
	}

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	stmt := fmt.Sprintf(`INSERT INTO %s (id, name, description) VALUES (?, ?, ?)`, kind.table)
	if _, err := d.ExecContext(ctx, stmt, t.ID, t.Name, desc); err != nil {
		return types.Err(kind.model, fmt.Sprintf("name '%s'", t.Name), err)
	}

	return nil
}

// fixDuplicateID replaces the ID in a duplicate error with the name, since
// that's the unique column that can conflict on update.
func fixDuplicateID(err error, name string) error {
	if dupErr, ok := err.(*types.DuplicateError); ok { //nolint:errorlint // Returned unwrapped by types.Err.
		dupErr.ID = fmt.Sprintf("name '%s'", name)
		return dupErr
	}
	return err
}

func (t *term) load(ctx context.Context, d types.Querier, kind termKind) error {
	if t.ID == "" {
		return types.InvalidInputError{Msg: fmt.Sprintf("%s ID must be set", kind.model)}
	}

	terms, err := loadTerms(ctx, d, kind, types.NewFilter("t.id = ?", []any{t.ID}))
	if err != nil {
		return err
	}
	if len(terms) == 0 {
		return types.NoResultError{ModelName: kind.model, ID: fmt.Sprintf("ID %s", t.ID)}
	}
	*t = *terms[0]

	return nil
}

func (t *term) delete(ctx context.Context, d types.Querier, kind termKind) error {
	if t.ID == "" {
		return types.InvalidInputError{Msg: fmt.Sprintf("%s ID must be set", kind.model)}
	}

	count, err := filterCount(ctx, d, kind.join,
		types.NewFilter(fmt.Sprintf("%s = ?", kind.fk), []any{t.ID}))
	if err != nil {
		return err
	}
	if count > 0 {
		return types.InUseError{ModelName: kind.model, ID: fmt.Sprintf("ID %s", t.ID), Count: count}
	}

	return execOne(ctx, d, kind.model, fmt.Sprintf("ID %s", t.ID),
		fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, kind.table), t.ID)
}

func loadTerms(ctx context.Context, d types.Querier, kind termKind, filter *types.Filter) (terms []*term, rerr error) {
	where, args, limit := filterClause(filter)
	query := fmt.Sprintf(`SELECT t.id, t.name, t.description, COUNT(j.siteId)
		FROM %s t
		LEFT JOIN %s j ON j.%s = t.id
		%s
		GROUP BY t.id
		ORDER BY t.name ASC %s`, kind.table, kind.join, kind.fk, where, limit)

	rows, err := d.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, types.LoadError{ModelName: kind.table, Err: err}
	}
	defer func() {
		if err = rows.Close(); err != nil {
			rerr = fmt.Errorf("failed closing %s rows: %w", kind.table, err)
		}
	}()

	terms = make([]*term, 0)
	for rows.Next() {
		var (
			t    term
			desc sql.Null[string]
		)
		if err = rows.Scan(&t.ID, &t.Name, &desc, &t.SiteCount); err != nil {
			return nil, types.ScanError{ModelName: kind.model, Err: err}
		}
		t.Description = desc.V
		terms = append(terms, &t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating over %s rows: %w", kind.table, err)
	}

	return terms, nil
}
