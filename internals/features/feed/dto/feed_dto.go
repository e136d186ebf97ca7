package dto

import (
	"time"

	"github.com/google/uuid"

	"shutterhub_backend/internals/features/feed/model"
	userDto "shutterhub_backend/internals/features/users/dto"
)

type CreatePostRequest struct {
	ContentType string            `json:"content_type" validate:"required,oneof=image video gallery"`
	Media       []model.MediaItem `json:"media" validate:"required,min=1,dive"`
	Caption     string            `json:"caption" validate:"max=2200"`
	Location    string            `json:"location" validate:"max=255"`
	Tags        []string          `json:"tags" validate:"max=30,dive,max=50"`
}

type CreateCommentRequest struct {
	Body            string     `json:"body" validate:"required,max=2200"`
	ParentCommentID *uuid.UUID `json:"parent_comment_id"`
}

type PostResponse struct {
	PostID        uuid.UUID             `json:"post_id"`
	ContentType   string                `json:"content_type"`
	Media         []model.MediaItem     `json:"media"`
	Caption       string                `json:"caption"`
	Location      string                `json:"location"`
	Tags          []string              `json:"tags"`
	LikesCount    int64                 `json:"likes_count"`
	CommentsCount int64                 `json:"comments_count"`
	SharesCount   int64                 `json:"shares_count"`
	IsLiked       bool                  `json:"is_liked_by_current_user"`
	User          *userDto.UserResponse `json:"user,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

type CommentResponse struct {
	CommentID       uuid.UUID             `json:"comment_id"`
	PostID          uuid.UUID             `json:"post_id"`
	ParentCommentID *uuid.UUID            `json:"parent_comment_id,omitempty"`
	Body            string                `json:"body"`
	User            *userDto.UserResponse `json:"user,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

func FromModelPost(p *model.Post, isLiked bool) PostResponse {
	resp := PostResponse{
		PostID:        p.PostID,
		ContentType:   p.PostContentType,
		Media:         mediaFromJSON(p),
		Caption:       p.PostCaption,
		Location:      p.PostLocation,
		Tags:          p.PostTags,
		LikesCount:    p.PostLikesCount,
		CommentsCount: p.PostCommentsCount,
		SharesCount:   p.PostSharesCount,
		IsLiked:       isLiked,
		CreatedAt:     p.CreatedAt,
	}
	if p.User != nil {
		u := userDto.FromModelUser(p.User)
		resp.User = &u
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	return resp
}

func FromModelComment(cm *model.PostComment) CommentResponse {
	resp := CommentResponse{
		CommentID:       cm.PostCommentID,
		PostID:          cm.PostCommentPostID,
		ParentCommentID: cm.PostCommentParentID,
		Body:            cm.PostCommentBody,
		CreatedAt:       cm.CreatedAt,
	}
	if cm.User != nil {
		u := userDto.FromModelUser(cm.User)
		resp.User = &u
	}
	return resp
}

func mediaFromJSON(p *model.Post) []model.MediaItem {
	items, err := p.MediaItems()
	if err != nil || items == nil {
		return []model.MediaItem{}
	}
	return items
}
