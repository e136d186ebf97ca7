package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "shutterhub_backend/internals/features/users/model"
)

// PostComment supports exactly one level of nesting: a comment either has no
// parent, or its parent is itself top-level. Replies to replies are rejected
// at creation time.
type PostComment struct {
	PostCommentID uuid.UUID `gorm:"column:post_comment_id;type:uuid;primaryKey" json:"post_comment_id"`

	PostCommentPostID   uuid.UUID  `gorm:"column:post_comment_post_id;type:uuid;not null;index" json:"post_comment_post_id"`
	PostCommentUserID   uuid.UUID  `gorm:"column:post_comment_user_id;type:uuid;not null" json:"post_comment_user_id"`
	PostCommentParentID *uuid.UUID `gorm:"column:post_comment_parent_id;type:uuid;index" json:"post_comment_parent_id,omitempty"`

	PostCommentBody string `gorm:"column:post_comment_body;type:text;not null" json:"post_comment_body"`

	User *userModel.User `gorm:"foreignKey:PostCommentUserID;references:UserID" json:"user,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (PostComment) TableName() string {
	return "post_comments"
}

func (cm *PostComment) BeforeCreate(tx *gorm.DB) error {
	if cm.PostCommentID == uuid.Nil {
		cm.PostCommentID = uuid.New()
	}
	return nil
}
