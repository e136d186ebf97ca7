package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatGroupMember struct {
	ChatGroupMemberID      uuid.UUID `gorm:"column:chat_group_member_id;type:uuid;primaryKey" json:"chat_group_member_id"`
	ChatGroupMemberGroupID uuid.UUID `gorm:"column:chat_group_member_group_id;type:uuid;not null;uniqueIndex:idx_chat_members_group_user" json:"chat_group_member_group_id"`
	ChatGroupMemberUserID  uuid.UUID `gorm:"column:chat_group_member_user_id;type:uuid;not null;uniqueIndex:idx_chat_members_group_user" json:"chat_group_member_user_id"`

	ChatGroupMemberJoinedAt time.Time `gorm:"column:chat_group_member_joined_at;autoCreateTime" json:"chat_group_member_joined_at"`
}

func (ChatGroupMember) TableName() string {
	return "chat_group_members"
}

func (m *ChatGroupMember) BeforeCreate(tx *gorm.DB) error {
	if m.ChatGroupMemberID == uuid.Nil {
		m.ChatGroupMemberID = uuid.New()
	}
	return nil
}
