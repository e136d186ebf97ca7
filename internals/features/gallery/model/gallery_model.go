package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PrivacyPublic   = "public"
	PrivacyPassword = "password"
	PrivacyPrivate  = "private"
)

// Gallery is a client-facing photo set reachable through an opaque QR token.
// The token is a capability: anyone holding it may attempt access, the
// privacy mode decides what they get.
type Gallery struct {
	GalleryID uuid.UUID `gorm:"column:gallery_id;type:uuid;primaryKey" json:"gallery_id"`

	GalleryPhotographerID uuid.UUID `gorm:"column:gallery_photographer_id;type:uuid;not null;index" json:"gallery_photographer_id"`

	// immutable after creation
	GalleryQRToken string `gorm:"column:gallery_qr_token;type:varchar(64);not null;uniqueIndex" json:"gallery_qr_token"`

	GalleryTitle       string `gorm:"column:gallery_title;type:varchar(255);not null" json:"gallery_title"`
	GalleryDescription string `gorm:"column:gallery_description;type:text" json:"gallery_description"`

	GalleryPrivacy      string `gorm:"column:gallery_privacy;type:varchar(20);not null;default:'public'" json:"gallery_privacy"`
	GalleryPasswordHash string `gorm:"column:gallery_password_hash;type:text" json:"-"`

	GalleryExpiresAt *time.Time `gorm:"column:gallery_expires_at" json:"gallery_expires_at,omitempty"`

	// no column default: gorm would skip a false value on insert and the
	// database would flip it back to true. The controller sets it explicitly.
	GalleryDownloadEnabled bool `gorm:"column:gallery_download_enabled;not null" json:"gallery_download_enabled"`

	GalleryPhotosCount   int64 `gorm:"column:gallery_photos_count;not null;default:0" json:"gallery_photos_count"`
	GalleryAccessCount   int64 `gorm:"column:gallery_access_count;not null;default:0" json:"gallery_access_count"`
	GalleryDownloadCount int64 `gorm:"column:gallery_download_count;not null;default:0" json:"gallery_download_count"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (Gallery) TableName() string {
	return "galleries"
}

func (g *Gallery) BeforeCreate(tx *gorm.DB) error {
	if g.GalleryID == uuid.Nil {
		g.GalleryID = uuid.New()
	}
	return nil
}

// IsExpired reports whether the gallery's expiry (if any) has passed.
func (g *Gallery) IsExpired(now time.Time) bool {
	return g.GalleryExpiresAt != nil && g.GalleryExpiresAt.Before(now)
}
