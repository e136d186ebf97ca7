package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	userModel "shutterhub_backend/internals/features/users/model"
)

const (
	PostTypeImage   = "image"
	PostTypeVideo   = "video"
	PostTypeGallery = "gallery"
)

// MediaItem is one entry of the JSONB media list on a post.
type MediaItem struct {
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Type      string `json:"type"` // image|video
}

type Post struct {
	PostID uuid.UUID `gorm:"column:post_id;type:uuid;primaryKey" json:"post_id"`

	PostUserID uuid.UUID `gorm:"column:post_user_id;type:uuid;not null;index" json:"post_user_id"`

	PostContentType string         `gorm:"column:post_content_type;type:varchar(20);not null;default:'image'" json:"post_content_type"`
	PostMedia       datatypes.JSON `gorm:"column:post_media;type:jsonb" json:"post_media"`
	PostCaption     string         `gorm:"column:post_caption;type:text" json:"post_caption"`
	PostLocation    string         `gorm:"column:post_location;type:varchar(255)" json:"post_location"`
	PostTags        pq.StringArray `gorm:"column:post_tags;type:text[]" json:"post_tags"`

	// Denormalized counters. Always mutated in the same transaction as the
	// child row so they never drift from the real counts.
	PostLikesCount    int64 `gorm:"column:post_likes_count;not null;default:0" json:"post_likes_count"`
	PostCommentsCount int64 `gorm:"column:post_comments_count;not null;default:0" json:"post_comments_count"`
	PostSharesCount   int64 `gorm:"column:post_shares_count;not null;default:0" json:"post_shares_count"`

	User *userModel.User `gorm:"foreignKey:PostUserID;references:UserID" json:"user,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (Post) TableName() string {
	return "posts"
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.PostID == uuid.Nil {
		p.PostID = uuid.New()
	}
	return nil
}

// MediaItems decodes the JSONB media column.
func (p *Post) MediaItems() ([]MediaItem, error) {
	if len(p.PostMedia) == 0 {
		return nil, nil
	}
	var items []MediaItem
	if err := json.Unmarshal(p.PostMedia, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SetMediaItems encodes items into the JSONB media column.
func (p *Post) SetMediaItems(items []MediaItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	p.PostMedia = datatypes.JSON(raw)
	return nil
}
