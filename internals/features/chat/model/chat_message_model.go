package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "shutterhub_backend/internals/features/users/model"
)

// Attachment kinds carried alongside a message body
const (
	AttachmentNone  = ""
	AttachmentImage = "image"
	AttachmentFile  = "file"
)

// ChatMessage rows are append-only: no edit, no delete.
type ChatMessage struct {
	ChatMessageID       uuid.UUID `gorm:"column:chat_message_id;type:uuid;primaryKey" json:"chat_message_id"`
	ChatMessageGroupID  uuid.UUID `gorm:"column:chat_message_group_id;type:uuid;not null;index:idx_chat_messages_group_created" json:"chat_message_group_id"`
	ChatMessageSenderID uuid.UUID `gorm:"column:chat_message_sender_id;type:uuid;not null" json:"chat_message_sender_id"`

	ChatMessageBody           string `gorm:"column:chat_message_body;type:text" json:"chat_message_body"`
	ChatMessageAttachmentURL  string `gorm:"column:chat_message_attachment_url;type:text" json:"chat_message_attachment_url"`
	ChatMessageAttachmentType string `gorm:"column:chat_message_attachment_type;type:varchar(10)" json:"chat_message_attachment_type"`

	ChatMessageCreatedAt time.Time `gorm:"column:chat_message_created_at;autoCreateTime;index:idx_chat_messages_group_created" json:"chat_message_created_at"`

	Sender *userModel.User `gorm:"foreignKey:ChatMessageSenderID;references:UserID" json:"sender,omitempty"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ChatMessageID == uuid.Nil {
		m.ChatMessageID = uuid.New()
	}
	return nil
}
