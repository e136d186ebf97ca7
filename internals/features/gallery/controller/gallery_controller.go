// file: internals/features/gallery/controller/gallery_controller.go
package controller

import (
	"errors"
	"fmt"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"shutterhub_backend/internals/configs"
	dto "shutterhub_backend/internals/features/gallery/dto"
	model "shutterhub_backend/internals/features/gallery/model"
	helper "shutterhub_backend/internals/helpers"
)

const uploadDir = "uploads"

/* ==============================
   Controller (owner surface)
============================== */

type GalleryController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewGalleryController(db *gorm.DB) *GalleryController {
	return &GalleryController{
		DB:        db,
		Validator: validator.New(),
	}
}

func mintQRToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// loadOwnedGallery fetches :gallery_id and checks ownership.
func (ctl *GalleryController) loadOwnedGallery(c *fiber.Ctx) (*model.Gallery, error) {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	galleryID, err := uuid.Parse(strings.TrimSpace(c.Params("gallery_id")))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid gallery_id")
	}

	var g model.Gallery
	if err := ctl.DB.WithContext(c.Context()).First(&g, "gallery_id = ?", galleryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Gallery not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if g.GalleryPhotographerID != userID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Not your gallery")
	}
	return &g, nil
}

func asJsonError(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return helper.JsonError(c, fe.Code, fe.Message)
	}
	return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
}

/* ==============================
   Handlers
============================== */

// POST /api/u/galleries — Create (photographer only)
func (ctl *GalleryController) Create(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreateGalleryRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	privacy := req.Privacy
	if privacy == "" {
		privacy = model.PrivacyPublic
	}

	g := model.Gallery{
		GalleryPhotographerID:  userID,
		GalleryQRToken:         mintQRToken(),
		GalleryTitle:           strings.TrimSpace(req.Title),
		GalleryDescription:     strings.TrimSpace(req.Description),
		GalleryPrivacy:         privacy,
		GalleryExpiresAt:       req.ExpiresAt,
		GalleryDownloadEnabled: true,
	}
	if req.DownloadEnabled != nil {
		g.GalleryDownloadEnabled = *req.DownloadEnabled
	}
	if privacy == model.PrivacyPassword {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to hash password")
		}
		g.GalleryPasswordHash = string(hash)
	}

	if err := ctl.DB.WithContext(c.Context()).Create(&g).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "Gallery created", dto.FromModelGallery(&g, nil, false))
}

// GET /api/u/galleries — own galleries
func (ctl *GalleryController) ListMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	paging := helper.ResolvePaging(c, 20, 100)

	var total int64
	if err := ctl.DB.WithContext(c.Context()).Model(&model.Gallery{}).
		Where("gallery_photographer_id = ?", userID).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var galleries []model.Gallery
	if err := ctl.DB.WithContext(c.Context()).
		Where("gallery_photographer_id = ?", userID).
		Order("created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&galleries).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	items := make([]dto.GalleryResponse, 0, len(galleries))
	for i := range galleries {
		items = append(items, dto.FromModelGallery(&galleries[i], nil, false))
	}
	return helper.JsonList(c, "ok", items, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// PATCH /api/u/galleries/:gallery_id — settings (privacy/password/expiry/downloads)
func (ctl *GalleryController) UpdateSettings(c *fiber.Ctx) error {
	g, err := ctl.loadOwnedGallery(c)
	if err != nil {
		return asJsonError(c, err)
	}

	var req dto.UpdateGallerySettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["gallery_title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["gallery_description"] = strings.TrimSpace(*req.Description)
	}
	if req.ExpiresAt != nil {
		updates["gallery_expires_at"] = *req.ExpiresAt
	}
	if req.DownloadEnabled != nil {
		updates["gallery_download_enabled"] = *req.DownloadEnabled
	}
	if req.Privacy != nil {
		updates["gallery_privacy"] = *req.Privacy
		if *req.Privacy == model.PrivacyPassword && req.Password == nil && g.GalleryPasswordHash == "" {
			return helper.JsonError(c, fiber.StatusBadRequest, "Password privacy needs a password")
		}
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to hash password")
		}
		updates["gallery_password_hash"] = string(hash)
	}

	if len(updates) == 0 {
		return helper.JsonUpdated(c, "No changes", dto.FromModelGallery(g, nil, false))
	}

	if err := ctl.DB.WithContext(c.Context()).Model(&model.Gallery{}).
		Where("gallery_id = ?", g.GalleryID).
		Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := ctl.DB.WithContext(c.Context()).First(g, "gallery_id = ?", g.GalleryID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "Gallery updated", dto.FromModelGallery(g, nil, false))
}

// DELETE /api/u/galleries/:gallery_id — photos go with the gallery
func (ctl *GalleryController) Delete(c *fiber.Ctx) error {
	g, err := ctl.loadOwnedGallery(c)
	if err != nil {
		return asJsonError(c, err)
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("gallery_photo_gallery_id = ?", g.GalleryID).
			Delete(&model.GalleryPhoto{}).Error; err != nil {
			return err
		}
		return tx.Delete(g).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "Gallery deleted", fiber.Map{"gallery_id": g.GalleryID})
}

// POST /api/u/galleries/:gallery_id/photos
// Accepts either a multipart "image" (stored locally, webp thumbnail
// generated) or a JSON body with a pre-hosted URL.
func (ctl *GalleryController) AddPhoto(c *fiber.Ctx) error {
	g, err := ctl.loadOwnedGallery(c)
	if err != nil {
		return asJsonError(c, err)
	}

	photo := model.GalleryPhoto{GalleryPhotoGalleryID: g.GalleryID}

	if fileHeader, err := c.FormFile("image"); err == nil && fileHeader != nil {
		url, thumb, err := helper.SaveUploadedImage(uploadDir, "galleries/"+g.GalleryID.String(), fileHeader)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		photo.GalleryPhotoURL = url
		photo.GalleryPhotoThumbnailURL = thumb
	} else {
		var req dto.AddPhotoRequest
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
		}
		if err := ctl.Validator.Struct(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		photo.GalleryPhotoURL = req.URL
		photo.GalleryPhotoThumbnailURL = req.ThumbnailURL
		photo.GalleryPhotoDisplayOrder = req.DisplayOrder
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if photo.GalleryPhotoDisplayOrder == 0 {
			// append to the end by default
			var maxOrder int
			row := tx.Model(&model.GalleryPhoto{}).
				Where("gallery_photo_gallery_id = ?", g.GalleryID).
				Select("COALESCE(MAX(gallery_photo_display_order), 0)").Row()
			if err := row.Scan(&maxOrder); err == nil {
				photo.GalleryPhotoDisplayOrder = maxOrder + 1
			}
		}
		if err := tx.Create(&photo).Error; err != nil {
			return err
		}
		return tx.Model(&model.Gallery{}).
			Where("gallery_id = ?", g.GalleryID).
			UpdateColumn("gallery_photos_count", gorm.Expr("gallery_photos_count + 1")).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "Photo added", dto.FromModelPhoto(&photo))
}

// DELETE /api/u/galleries/:gallery_id/photos/:photo_id
func (ctl *GalleryController) DeletePhoto(c *fiber.Ctx) error {
	g, err := ctl.loadOwnedGallery(c)
	if err != nil {
		return asJsonError(c, err)
	}
	photoID, err := uuid.Parse(strings.TrimSpace(c.Params("photo_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid photo_id")
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("gallery_photo_id = ? AND gallery_photo_gallery_id = ?", photoID, g.GalleryID).
			Delete(&model.GalleryPhoto{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Photo not found")
		}
		return tx.Model(&model.Gallery{}).
			Where("gallery_id = ? AND gallery_photos_count > 0", g.GalleryID).
			UpdateColumn("gallery_photos_count", gorm.Expr("gallery_photos_count - 1")).Error
	})
	if err != nil {
		return asJsonError(c, err)
	}
	return helper.JsonDeleted(c, "Photo deleted", fiber.Map{"photo_id": photoID})
}

// PUT /api/u/galleries/:gallery_id/photos/order — display order follows the
// position in photo_ids
func (ctl *GalleryController) ReorderPhotos(c *fiber.Ctx) error {
	g, err := ctl.loadOwnedGallery(c)
	if err != nil {
		return asJsonError(c, err)
	}

	var req dto.ReorderPhotosRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		for i, photoID := range req.PhotoIDs {
			res := tx.Model(&model.GalleryPhoto{}).
				Where("gallery_photo_id = ? AND gallery_photo_gallery_id = ?", photoID, g.GalleryID).
				UpdateColumn("gallery_photo_display_order", i+1)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fiber.NewError(fiber.StatusUnprocessableEntity, "Photo "+photoID.String()+" is not in this gallery")
			}
		}
		return nil
	})
	if err != nil {
		return asJsonError(c, err)
	}
	return helper.JsonUpdated(c, "Photos reordered", fiber.Map{"gallery_id": g.GalleryID})
}

// GET /api/u/galleries/:gallery_id/qr — PNG of the public gallery URL
func (ctl *GalleryController) QRCode(c *fiber.Ctx) error {
	g, err := ctl.loadOwnedGallery(c)
	if err != nil {
		return asJsonError(c, err)
	}

	publicURL := fmt.Sprintf("%s/g/%s", configs.PublicBaseURL, g.GalleryQRToken)
	png, err := qrcode.Encode(publicURL, qrcode.Medium, 512)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to render QR code")
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
