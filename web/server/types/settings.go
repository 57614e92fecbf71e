package types

import (
	"mime/multipart"
	"net/http"
	"time"

	"go.hackfix.me/curator/db/models"
)

// Settings is the API representation of the directory settings.
type Settings struct {
	ID              string    `json:"id"`
	SiteName        string    `json:"site_name"`
	SiteDescription string    `json:"site_description,omitempty"`
	FooterText      string    `json:"footer_text,omitempty"`
	GithubURL       string    `json:"github_url,omitempty"`
	TwitterURL      string    `json:"twitter_url,omitempty"`
	Email           string    `json:"email,omitempty"`
	ContactQRCode   string    `json:"contact_qrcode,omitempty"`
	DonationQRCode  string    `json:"donation_qrcode,omitempty"`
	HeroTitle       string    `json:"hero_title,omitempty"`
	HeroSubtitle    string    `json:"hero_subtitle,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewSettings converts a settings model into its API representation.
func NewSettings(s *models.Settings) Settings {
	return Settings{
		ID:              s.ID,
		SiteName:        s.SiteName,
		SiteDescription: s.SiteDescription,
		FooterText:      s.FooterText,
		GithubURL:       s.GithubURL,
		TwitterURL:      s.TwitterURL,
		Email:           s.Email,
		ContactQRCode:   s.ContactQRCode,
		DonationQRCode:  s.DonationQRCode,
		HeroTitle:       s.HeroTitle,
		HeroSubtitle:    s.HeroSubtitle,
		UpdatedAt:       s.UpdatedAt,
	}
}

// SettingsFormRequest is the multipart form request to update the settings.
// Fields that aren't submitted are cleared, except for the QR codes, which
// are only replaced when a new image is uploaded.
type SettingsFormRequest struct {
	IDRequest
	Settings       Settings
	ContactQRCode  *multipart.FileHeader
	DonationQRCode *multipart.FileHeader
}

var _ FormRequest = (*SettingsFormRequest)(nil)

// DecodeForm populates the request from the submitted form.
func (r *SettingsFormRequest) DecodeForm(form *multipart.Form) error {
	r.Settings = Settings{
		SiteName:        formValue(form, "site_name"),
		SiteDescription: formValue(form, "site_description"),
		FooterText:      formValue(form, "footer_text"),
		GithubURL:       formValue(form, "github_url"),
		TwitterURL:      formValue(form, "twitter_url"),
		Email:           formValue(form, "email"),
		HeroTitle:       formValue(form, "hero_title"),
		HeroSubtitle:    formValue(form, "hero_subtitle"),
	}
	r.ContactQRCode = formFile(form, "contact_qrcode")
	r.DonationQRCode = formFile(form, "donation_qrcode")

	return nil
}

// SettingsResponse is the response with the directory settings.
type SettingsResponse struct {
	BaseResponse
	Data Settings `json:"data"`
}

// NewSettingsResponse creates a new SettingsResponse with HTTP 200 status.
func NewSettingsResponse(s *models.Settings) *SettingsResponse {
	return &SettingsResponse{
		BaseResponse: NewBaseResponse(http.StatusOK, nil),
		Data:         NewSettings(s),
	}
}
