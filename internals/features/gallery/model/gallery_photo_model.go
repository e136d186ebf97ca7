package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GalleryPhoto belongs to exactly one gallery and dies with it.
type GalleryPhoto struct {
	GalleryPhotoID uuid.UUID `gorm:"column:gallery_photo_id;type:uuid;primaryKey" json:"gallery_photo_id"`

	GalleryPhotoGalleryID uuid.UUID `gorm:"column:gallery_photo_gallery_id;type:uuid;not null;index" json:"gallery_photo_gallery_id"`

	GalleryPhotoURL          string `gorm:"column:gallery_photo_url;type:text;not null" json:"gallery_photo_url"`
	GalleryPhotoThumbnailURL string `gorm:"column:gallery_photo_thumbnail_url;type:text" json:"gallery_photo_thumbnail_url"`

	// stable sort key inside the gallery
	GalleryPhotoDisplayOrder int `gorm:"column:gallery_photo_display_order;not null;default:0" json:"gallery_photo_display_order"`

	GalleryPhotoViewCount     int64 `gorm:"column:gallery_photo_view_count;not null;default:0" json:"gallery_photo_view_count"`
	GalleryPhotoDownloadCount int64 `gorm:"column:gallery_photo_download_count;not null;default:0" json:"gallery_photo_download_count"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (GalleryPhoto) TableName() string {
	return "gallery_photos"
}

func (p *GalleryPhoto) BeforeCreate(tx *gorm.DB) error {
	if p.GalleryPhotoID == uuid.Nil {
		p.GalleryPhotoID = uuid.New()
	}
	return nil
}
