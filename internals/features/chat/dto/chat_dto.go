package dto

import (
	"time"

	"github.com/google/uuid"

	"shutterhub_backend/internals/features/chat/model"
	userDto "shutterhub_backend/internals/features/users/dto"
)

type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
}

type SendMessageRequest struct {
	Body           string `json:"body" validate:"required_without=AttachmentURL,max=4000"`
	AttachmentURL  string `json:"attachment_url" validate:"omitempty,url"`
	AttachmentType string `json:"attachment_type" validate:"omitempty,oneof=image file"`
}

type GroupResponse struct {
	GroupID      uuid.UUID `json:"group_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image_url"`
	OwnerID      uuid.UUID `json:"owner_id"`
	MembersCount int       `json:"members_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type MessageResponse struct {
	MessageID      uuid.UUID             `json:"message_id"`
	GroupID        uuid.UUID             `json:"group_id"`
	Body           string                `json:"body"`
	AttachmentURL  string                `json:"attachment_url,omitempty"`
	AttachmentType string                `json:"attachment_type,omitempty"`
	Sender         *userDto.UserResponse `json:"sender,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

func FromModelGroup(g *model.ChatGroup) GroupResponse {
	return GroupResponse{
		GroupID:      g.ChatGroupID,
		Name:         g.ChatGroupName,
		Description:  g.ChatGroupDescription,
		ImageURL:     g.ChatGroupImageURL,
		OwnerID:      g.ChatGroupOwnerID,
		MembersCount: g.ChatGroupMembersCount,
		CreatedAt:    g.ChatGroupCreatedAt,
	}
}

func FromModelMessage(m *model.ChatMessage) MessageResponse {
	resp := MessageResponse{
		MessageID:      m.ChatMessageID,
		GroupID:        m.ChatMessageGroupID,
		Body:           m.ChatMessageBody,
		AttachmentURL:  m.ChatMessageAttachmentURL,
		AttachmentType: m.ChatMessageAttachmentType,
		CreatedAt:      m.ChatMessageCreatedAt,
	}
	if m.Sender != nil {
		u := userDto.FromModelUser(m.Sender)
		resp.Sender = &u
	}
	return resp
}
