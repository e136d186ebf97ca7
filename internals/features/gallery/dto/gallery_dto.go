package dto

import (
	"time"

	"github.com/google/uuid"

	"shutterhub_backend/internals/features/gallery/model"
)

type CreateGalleryRequest struct {
	Title           string     `json:"title" validate:"required,max=255"`
	Description     string     `json:"description" validate:"max=5000"`
	Privacy         string     `json:"privacy" validate:"omitempty,oneof=public password private"`
	Password        string     `json:"password" validate:"required_if=Privacy password,omitempty,min=4,max=72"`
	ExpiresAt       *time.Time `json:"expires_at"`
	DownloadEnabled *bool      `json:"download_enabled"`
}

type UpdateGallerySettingsRequest struct {
	Title           *string    `json:"title" validate:"omitempty,max=255"`
	Description     *string    `json:"description" validate:"omitempty,max=5000"`
	Privacy         *string    `json:"privacy" validate:"omitempty,oneof=public password private"`
	Password        *string    `json:"password" validate:"omitempty,min=4,max=72"`
	ExpiresAt       *time.Time `json:"expires_at"`
	DownloadEnabled *bool      `json:"download_enabled"`
}

type AddPhotoRequest struct {
	URL          string `json:"url" validate:"required,url"`
	ThumbnailURL string `json:"thumbnail_url" validate:"omitempty,url"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
}

type ReorderPhotosRequest struct {
	PhotoIDs []uuid.UUID `json:"photo_ids" validate:"required,min=1"`
}

type VerifyPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

type PhotoResponse struct {
	PhotoID       uuid.UUID `json:"photo_id"`
	URL           string    `json:"url"`
	ThumbnailURL  string    `json:"thumbnail_url,omitempty"`
	DisplayOrder  int       `json:"display_order"`
	ViewCount     int64     `json:"view_count"`
	DownloadCount int64     `json:"download_count"`
}

type GalleryResponse struct {
	GalleryID        uuid.UUID       `json:"gallery_id"`
	QRToken          string          `json:"qr_token"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Privacy          string          `json:"privacy"`
	ExpiresAt        *time.Time      `json:"expires_at,omitempty"`
	DownloadEnabled  bool            `json:"download_enabled"`
	PhotosCount      int64           `json:"photos_count"`
	AccessCount      int64           `json:"access_count"`
	DownloadCount    int64           `json:"download_count"`
	PasswordRequired bool            `json:"password_required"`
	Photos           []PhotoResponse `json:"photos"`
	CreatedAt        time.Time       `json:"created_at"`
}

func FromModelPhoto(p *model.GalleryPhoto) PhotoResponse {
	return PhotoResponse{
		PhotoID:       p.GalleryPhotoID,
		URL:           p.GalleryPhotoURL,
		ThumbnailURL:  p.GalleryPhotoThumbnailURL,
		DisplayOrder:  p.GalleryPhotoDisplayOrder,
		ViewCount:     p.GalleryPhotoViewCount,
		DownloadCount: p.GalleryPhotoDownloadCount,
	}
}

// FromModelGallery renders the viewer-facing shape. Photos stay empty while a
// password challenge is pending.
func FromModelGallery(g *model.Gallery, photos []model.GalleryPhoto, passwordRequired bool) GalleryResponse {
	resp := GalleryResponse{
		GalleryID:        g.GalleryID,
		QRToken:          g.GalleryQRToken,
		Title:            g.GalleryTitle,
		Description:      g.GalleryDescription,
		Privacy:          g.GalleryPrivacy,
		ExpiresAt:        g.GalleryExpiresAt,
		DownloadEnabled:  g.GalleryDownloadEnabled,
		PhotosCount:      g.GalleryPhotosCount,
		AccessCount:      g.GalleryAccessCount,
		DownloadCount:    g.GalleryDownloadCount,
		PasswordRequired: passwordRequired,
		Photos:           make([]PhotoResponse, 0, len(photos)),
		CreatedAt:        g.CreatedAt,
	}
	for i := range photos {
		resp.Photos = append(resp.Photos, FromModelPhoto(&photos[i]))
	}
	return resp
}
