package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "shutterhub_backend/internals/features/users/model"
)

type ChatGroup struct {
	ChatGroupID          uuid.UUID `gorm:"column:chat_group_id;type:uuid;primaryKey" json:"chat_group_id"`
	ChatGroupName        string    `gorm:"column:chat_group_name;type:varchar(100);not null" json:"chat_group_name"`
	ChatGroupDescription string    `gorm:"column:chat_group_description;type:text" json:"chat_group_description"`
	ChatGroupImageURL    string    `gorm:"column:chat_group_image_url;type:text" json:"chat_group_image_url"`
	ChatGroupOwnerID     uuid.UUID `gorm:"column:chat_group_owner_id;type:uuid;not null;index" json:"chat_group_owner_id"`

	ChatGroupMembersCount int `gorm:"column:chat_group_members_count;default:0" json:"chat_group_members_count"`

	ChatGroupCreatedAt time.Time `gorm:"column:chat_group_created_at;autoCreateTime" json:"chat_group_created_at"`
	ChatGroupUpdatedAt time.Time `gorm:"column:chat_group_updated_at;autoUpdateTime" json:"chat_group_updated_at"`

	Owner *userModel.User `gorm:"foreignKey:ChatGroupOwnerID;references:UserID" json:"owner,omitempty"`
}

func (ChatGroup) TableName() string {
	return "chat_groups"
}

func (g *ChatGroup) BeforeCreate(tx *gorm.DB) error {
	if g.ChatGroupID == uuid.Nil {
		g.ChatGroupID = uuid.New()
	}
	return nil
}
