package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"go.hackfix.me/curator/db/types"
)

// Settings are the site-wide presentation settings of the directory. There is
// a single settings record.
type Settings struct {
	ID              string
	SiteName        string
	SiteDescription string
	FooterText      string
	GithubURL       string
	TwitterURL      string
	Email           string
	ContactQRCode   string
	DonationQRCode  string
	HeroTitle       string
	HeroSubtitle    string
	UpdatedAt       time.Time
}

// Validate checks that the required fields are set.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.SiteName) == "" {
		return types.InvalidInputError{Msg: "site name must not be empty"}
	}
	if err := validateURL("GitHub URL", s.GithubURL, false); err != nil {
		return err
	}

	return validateURL("Twitter URL", s.TwitterURL, false)
}

// Save stores the settings in the database. The hero fields are only written
// once the columns exist, so that settings can be seeded before migrations
// run.
func (s *Settings) Save(ctx context.Context, d types.Schema, update bool) error {
	if err := s.Validate(); err != nil {
		return err
	}

	cols, err := d.Columns(ctx, "site_settings")
	if err != nil {
		return fmt.Errorf("failed reading settings columns: %w", err)
	}
	hero := types.HasColumn(cols, "hero_title") && types.HasColumn(cols, "hero_subtitle")

	timeNow := d.TimeNow().UTC()
	fields := []string{
		"site_name", "site_description", "footer_text", "github_url", "twitter_url",
		"email", "contact_qrcode", "donation_qrcode", "updated_at",
	}
	args := []any{
		s.SiteName, nullStr(s.SiteDescription), nullStr(s.FooterText), nullStr(s.GithubURL),
		nullStr(s.TwitterURL), nullStr(s.Email), nullStr(s.ContactQRCode),
		nullStr(s.DonationQRCode), timeNow,
	}
	if hero {
		fields = append(fields, "hero_title", "hero_subtitle")
		args = append(args, nullStr(s.HeroTitle), nullStr(s.HeroSubtitle))
	}

	if update {
		if s.ID == "" {
			return types.InvalidInputError{Msg: "settings ID must be set"}
		}
		stmt := fmt.Sprintf(`UPDATE site_settings SET %s = ? WHERE id = ?`,
			strings.Join(fields, " = ?, "))
		err = execOne(ctx, d, "settings", fmt.Sprintf("ID %s", s.ID), stmt, append(args, s.ID)...)
		if err != nil {
			return err
		}
		s.UpdatedAt = timeNow
		return nil
	}

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	stmt := fmt.Sprintf(`INSERT INTO site_settings (id, %s) VALUES (?%s)`,
		strings.Join(fields, ", "), strings.Repeat(", ?", len(fields)))
	if _, err = d.ExecContext(ctx, stmt, append([]any{s.ID}, args...)...); err != nil {
		return types.Err("settings", fmt.Sprintf("ID %s", s.ID), err)
	}
	s.UpdatedAt = timeNow

	return nil
}

// Load reads the settings from the database. If ID is set, the record with
// that ID is loaded, otherwise the first record is.
func (s *Settings) Load(ctx context.Context, d types.Schema) error {
	cols, err := d.Columns(ctx, "site_settings")
	if err != nil {
		return fmt.Errorf("failed reading settings columns: %w", err)
	}
	heroCols := "NULL, NULL"
	if types.HasColumn(cols, "hero_title") && types.HasColumn(cols, "hero_subtitle") {
		heroCols = "hero_title, hero_subtitle"
	}

	where, args := "1=1", []any{}
	filterStr := "first record"
	if s.ID != "" {
		where, args = "id = ?", []any{s.ID}
		filterStr = fmt.Sprintf("ID %s", s.ID)
	}

	query := fmt.Sprintf(`SELECT id, site_name, site_description, footer_text, github_url,
			twitter_url, email, contact_qrcode, donation_qrcode, updated_at, %s
		FROM site_settings
		WHERE %s
		ORDER BY rowid ASC
		LIMIT 1`, heroCols, where)

	var (
		desc, footer, github, twitter, email sql.Null[string]
		contactQR, donationQR, hero, heroSub sql.Null[string]
		updatedAt                            sql.Null[time.Time]
	)
	err = d.QueryRowContext(ctx, query, args...).Scan(
		&s.ID, &s.SiteName, &desc, &footer, &github, &twitter, &email,
		&contactQR, &donationQR, &updatedAt, &hero, &heroSub)
	if errors.Is(err, sql.ErrNoRows) {
		return types.NoResultError{ModelName: "settings", ID: filterStr}
	}
	if err != nil {
		return types.ScanError{ModelName: "settings", Err: err}
	}

	s.SiteDescription, s.FooterText, s.GithubURL = desc.V, footer.V, github.V
	s.TwitterURL, s.Email = twitter.V, email.V
	s.ContactQRCode, s.DonationQRCode = contactQR.V, donationQR.V
	s.HeroTitle, s.HeroSubtitle = hero.V, heroSub.V
	s.UpdatedAt = updatedAt.V

	return nil
}
