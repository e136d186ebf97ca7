package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostLike is one (post, user) pair. The composite unique index is what makes
// the toggle safe against rapid double submits.
type PostLike struct {
	PostLikeID uuid.UUID `gorm:"column:post_like_id;type:uuid;primaryKey" json:"post_like_id"`

	PostLikePostID uuid.UUID `gorm:"column:post_like_post_id;type:uuid;not null;uniqueIndex:idx_post_likes_post_user" json:"post_like_post_id"`
	PostLikeUserID uuid.UUID `gorm:"column:post_like_user_id;type:uuid;not null;uniqueIndex:idx_post_likes_post_user" json:"post_like_user_id"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PostLike) TableName() string {
	return "post_likes"
}

func (l *PostLike) BeforeCreate(tx *gorm.DB) error {
	if l.PostLikeID == uuid.Nil {
		l.PostLikeID = uuid.New()
	}
	return nil
}
