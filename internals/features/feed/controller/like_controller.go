package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"shutterhub_backend/internals/features/feed/service"
	helper "shutterhub_backend/internals/helpers"
)

type LikeController struct {
	DB      *gorm.DB
	Service *service.FeedService
}

func NewLikeController(db *gorm.DB) *LikeController {
	return &LikeController{DB: db, Service: service.NewFeedService(db)}
}

// POST /api/u/posts/:post_id/like — toggle
func (ctl *LikeController) Toggle(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	postID, err := parseParamUUID(c, "post_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid post_id")
	}

	result, err := ctl.Service.ToggleLike(c.Context(), postID, userID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Post not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "Like toggled", result)
}

// GET /api/u/posts/:post_id/likes — full likers list
func (ctl *LikeController) Likers(c *fiber.Ctx) error {
	postID, err := parseParamUUID(c, "post_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid post_id")
	}

	likers, err := ctl.Service.ListLikers(c.Context(), postID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Post not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", likers)
}
