package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RolePhotographer = "photographer"
	RoleCustomer     = "customer"
	RoleAdmin        = "admin"
)

type User struct {
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`

	UserName  string `gorm:"column:user_name;type:varchar(100);not null" json:"user_name"`
	UserEmail string `gorm:"column:user_email;type:varchar(255);not null;uniqueIndex" json:"user_email"`

	// empty for Google-only accounts
	UserPasswordHash string `gorm:"column:user_password_hash;type:text" json:"-"`

	UserRole      string `gorm:"column:user_role;type:varchar(20);not null;default:'customer'" json:"user_role"`
	UserAvatarURL string `gorm:"column:user_avatar_url;type:text" json:"user_avatar_url"`
	UserBio       string `gorm:"column:user_bio;type:text" json:"user_bio"`

	// set explicitly on create; a column default would silently override a
	// false value because gorm omits defaulted zero fields on insert
	UserIsActive bool `gorm:"column:user_is_active;not null" json:"user_is_active"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}
