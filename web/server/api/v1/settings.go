package api

import (
	"context"

	"go.hackfix.me/curator/db/models"
	"go.hackfix.me/curator/web/server/types"
	"go.hackfix.me/curator/web/server/upload"
)

// SettingsGet returns the directory settings.
func (h *Handler) SettingsGet(ctx context.Context, _ *types.BaseRequest) (*types.SettingsResponse, error) {
	settings := &models.Settings{}
	if err := settings.Load(ctx, h.appCtx.DB); err != nil {
		return nil, apiError(err)
	}

	return types.NewSettingsResponse(settings), nil
}

// SettingsUpdate replaces the directory settings. The QR code images are only
// replaced when new ones are uploaded.
func (h *Handler) SettingsUpdate(
	ctx context.Context, req *types.SettingsFormRequest,
) (*types.SettingsResponse, error) {
	settings := &models.Settings{ID: req.ID()}
	if err := settings.Load(ctx, h.appCtx.DB); err != nil {
		return nil, apiError(err)
	}

	oldContact, oldDonation := settings.ContactQRCode, settings.DonationQRCode
	data := req.Settings
	settings.SiteName = data.SiteName
	settings.SiteDescription = data.SiteDescription
	settings.FooterText = data.FooterText
	settings.GithubURL = data.GithubURL
	settings.TwitterURL = data.TwitterURL
	settings.Email = data.Email
	settings.HeroTitle = data.HeroTitle
	settings.HeroSubtitle = data.HeroSubtitle

	saved, err := h.saveUploads(
		pendingUpload{&settings.ContactQRCode, upload.KindQRCode, "contact_qrcode", req.ContactQRCode},
		pendingUpload{&settings.DonationQRCode, upload.KindQRCode, "donation_qrcode", req.DonationQRCode},
	)
	if err != nil {
		return nil, apiError(err)
	}

	if err = settings.Save(ctx, h.appCtx.DB, true); err != nil {
		h.removeUploads(saved...)
		return nil, apiError(err)
	}

	if settings.ContactQRCode != oldContact {
		h.removeUploads(oldContact)
	}
	if settings.DonationQRCode != oldDonation {
		h.removeUploads(oldDonation)
	}

	return types.NewSettingsResponse(settings), nil
}
