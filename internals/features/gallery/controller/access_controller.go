// file: internals/features/gallery/controller/access_controller.go
package controller

import (
	"errors"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "shutterhub_backend/internals/features/gallery/dto"
	"shutterhub_backend/internals/features/gallery/service"
	helper "shutterhub_backend/internals/helpers"
	"shutterhub_backend/internals/observability/logger"
)

// AccessController is the public surface in front of galleries. No auth:
// the QR token is the capability.
type AccessController struct {
	DB        *gorm.DB
	Service   *service.AccessService
	Validator *validator.Validate
}

func NewAccessController(db *gorm.DB) *AccessController {
	return &AccessController{
		DB:        db,
		Service:   service.NewAccessService(db),
		Validator: validator.New(),
	}
}

func gateError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrGalleryNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Gallery not found")
	case errors.Is(err, service.ErrGalleryGone):
		return helper.JsonError(c, fiber.StatusGone, "Gallery has expired")
	case errors.Is(err, service.ErrGalleryPrivate):
		return helper.JsonError(c, fiber.StatusForbidden, "Gallery is private")
	case errors.Is(err, service.ErrWrongPassword):
		return helper.JsonError(c, fiber.StatusUnauthorized, "Wrong password")
	case errors.Is(err, service.ErrDownloadsDisabled):
		return helper.JsonError(c, fiber.StatusForbidden, "Downloads are disabled for this gallery")
	case errors.Is(err, service.ErrPhotoNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Photo not found")
	}
	return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
}

// GET /api/public/galleries/:token
func (ctl *AccessController) Access(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Params("token"))
	if token == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Missing token")
	}

	result, err := ctl.Service.Access(c.Context(), token)
	if err != nil {
		return gateError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModelGallery(result.Gallery, result.Photos, result.PasswordRequired))
}

// POST /api/public/galleries/:token/verify
func (ctl *AccessController) VerifyPassword(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Params("token"))
	if token == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Missing token")
	}

	var req dto.VerifyPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := ctl.Service.VerifyPassword(c.Context(), token, req.Password)
	if err != nil {
		return gateError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModelGallery(result.Gallery, result.Photos, false))
}

// POST /api/public/galleries/:token/photos/:photo_id/download
// Counter failures never block the client's download: policy errors are
// surfaced, everything else is logged and answered with ok.
func (ctl *AccessController) TrackDownload(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Params("token"))
	photoID, err := uuid.Parse(strings.TrimSpace(c.Params("photo_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid photo_id")
	}

	if err := ctl.Service.TrackDownload(c.Context(), token, photoID); err != nil {
		switch {
		case errors.Is(err, service.ErrGalleryNotFound),
			errors.Is(err, service.ErrGalleryGone),
			errors.Is(err, service.ErrGalleryPrivate),
			errors.Is(err, service.ErrDownloadsDisabled),
			errors.Is(err, service.ErrPhotoNotFound):
			return gateError(c, err)
		}
		logger.Log.Warn().Err(err).Str("token", token).Msg("download tracking failed")
	}
	return helper.JsonOK(c, "Download recorded", fiber.Map{"photo_id": photoID})
}

// POST /api/public/galleries/:token/photos/:photo_id/view
func (ctl *AccessController) TrackPhotoView(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Params("token"))
	photoID, err := uuid.Parse(strings.TrimSpace(c.Params("photo_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid photo_id")
	}

	if err := ctl.Service.TrackPhotoView(c.Context(), token, photoID); err != nil {
		switch {
		case errors.Is(err, service.ErrGalleryNotFound), errors.Is(err, service.ErrPhotoNotFound):
			return gateError(c, err)
		}
		logger.Log.Warn().Err(err).Str("token", token).Msg("view tracking failed")
	}
	return helper.JsonOK(c, "View recorded", fiber.Map{"photo_id": photoID})
}
