package controller

import (
	"errors"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "shutterhub_backend/internals/features/feed/dto"
	"shutterhub_backend/internals/features/feed/service"
	helper "shutterhub_backend/internals/helpers"
)

type CommentController struct {
	DB        *gorm.DB
	Service   *service.FeedService
	Validator *validator.Validate
}

func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{
		DB:        db,
		Service:   service.NewFeedService(db),
		Validator: validator.New(),
	}
}

// POST /api/u/posts/:post_id/comments
func (ctl *CommentController) Create(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	postID, err := parseParamUUID(c, "post_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid post_id")
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	comment, err := ctl.Service.AddComment(c.Context(), postID, userID, strings.TrimSpace(req.Body), req.ParentCommentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Post not found")
		case errors.Is(err, service.ErrParentNotFound):
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Parent comment not found")
		case errors.Is(err, service.ErrParentDifferentPost):
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Parent comment belongs to a different post")
		case errors.Is(err, service.ErrReplyToReply):
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Replies to replies are not allowed")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "Comment added", dto.FromModelComment(comment))
}

// GET /api/u/posts/:post_id/comments — flat list, oldest first
func (ctl *CommentController) List(c *fiber.Ctx) error {
	postID, err := parseParamUUID(c, "post_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid post_id")
	}

	comments, err := ctl.Service.ListComments(c.Context(), postID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Post not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, dto.FromModelComment(&comments[i]))
	}
	return helper.JsonOK(c, "ok", items)
}

// DELETE /api/u/comments/:comment_id
func (ctl *CommentController) Delete(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	commentID, err := parseParamUUID(c, "comment_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid comment_id")
	}

	if err := ctl.Service.DeleteComment(c.Context(), commentID, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrCommentNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Comment not found")
		case errors.Is(err, service.ErrNotCommentOwner):
			return helper.JsonError(c, fiber.StatusForbidden, "Not your comment")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "Comment deleted", fiber.Map{"comment_id": commentID})
}
