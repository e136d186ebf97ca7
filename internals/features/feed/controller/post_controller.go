// file: internals/features/feed/controller/post_controller.go
package controller

import (
	"errors"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "shutterhub_backend/internals/features/feed/dto"
	model "shutterhub_backend/internals/features/feed/model"
	"shutterhub_backend/internals/features/feed/service"
	helper "shutterhub_backend/internals/helpers"
)

/* ==============================
   Controller
============================== */

type PostController struct {
	DB        *gorm.DB
	Service   *service.FeedService
	Validator *validator.Validate
}

func NewPostController(db *gorm.DB) *PostController {
	return &PostController{
		DB:        db,
		Service:   service.NewFeedService(db),
		Validator: validator.New(),
	}
}

func parseParamUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

/* ==============================
   Handlers
============================== */

// GET /api/u/posts — paginated feed with per-viewer like flags
func (ctl *PostController) List(c *fiber.Ctx) error {
	viewerID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	paging := helper.ResolvePaging(c, 20, 100)
	posts, liked, total, err := ctl.Service.ListFeed(c.Context(), viewerID, paging.Limit, paging.Offset)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	items := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		items = append(items, dto.FromModelPost(&posts[i], liked[posts[i].PostID]))
	}
	return helper.JsonList(c, "ok", items, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// POST /api/u/posts — Create
func (ctl *PostController) Create(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	m := model.Post{
		PostUserID:      userID,
		PostContentType: req.ContentType,
		PostCaption:     strings.TrimSpace(req.Caption),
		PostLocation:    strings.TrimSpace(req.Location),
		PostTags:        req.Tags,
	}
	if err := m.SetMediaItems(req.Media); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid media payload")
	}

	if err := ctl.DB.WithContext(c.Context()).Create(&m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "Post created", dto.FromModelPost(&m, false))
}

// GET /api/u/posts/:post_id — detail
func (ctl *PostController) Detail(c *fiber.Ctx) error {
	viewerID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	postID, err := parseParamUUID(c, "post_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid post_id")
	}

	var m model.Post
	if err := ctl.DB.WithContext(c.Context()).
		Preload("User").
		First(&m, "post_id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Post not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var likeRows int64
	if err := ctl.DB.WithContext(c.Context()).Model(&model.PostLike{}).
		Where("post_like_post_id = ? AND post_like_user_id = ?", postID, viewerID).
		Count(&likeRows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", dto.FromModelPost(&m, likeRows > 0))
}

// DELETE /api/u/posts/:post_id — owner only
func (ctl *PostController) Delete(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	postID, err := parseParamUUID(c, "post_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid post_id")
	}

	var m model.Post
	if err := ctl.DB.WithContext(c.Context()).First(&m, "post_id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Post not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if m.PostUserID != userID {
		return helper.JsonError(c, fiber.StatusForbidden, "Not your post")
	}
	if err := ctl.DB.WithContext(c.Context()).Delete(&m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "Post deleted", fiber.Map{"post_id": postID})
}

// POST /api/u/posts/:post_id/share — bump share counter
func (ctl *PostController) Share(c *fiber.Ctx) error {
	postID, err := parseParamUUID(c, "post_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid post_id")
	}
	count, err := ctl.Service.IncrementShare(c.Context(), postID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Post not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "Share recorded", fiber.Map{"post_id": postID, "shares_count": count})
}
