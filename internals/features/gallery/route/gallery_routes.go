package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"shutterhub_backend/internals/features/gallery/controller"
	"shutterhub_backend/internals/middlewares"
	authMw "shutterhub_backend/internals/middlewares/auth"
)

// PublicGalleryRoutes: token-capability surface, no auth.
func PublicGalleryRoutes(public fiber.Router, db *gorm.DB) {
	ctl := controller.NewAccessController(db)

	g := public.Group("/galleries")
	g.Get("/:token", ctl.Access)
	g.Post("/:token/verify", middlewares.GalleryPasswordRateLimiter(), ctl.VerifyPassword)
	g.Post("/:token/photos/:photo_id/download", ctl.TrackDownload)
	g.Post("/:token/photos/:photo_id/view", ctl.TrackPhotoView)
}

// OwnerGalleryRoutes: photographer-only management surface.
func OwnerGalleryRoutes(private fiber.Router, db *gorm.DB) {
	ctl := controller.NewGalleryController(db)

	g := private.Group("/galleries", authMw.RequireRoles("photographer", "admin"))
	g.Post("/", ctl.Create)
	g.Get("/", ctl.ListMine)
	g.Patch("/:gallery_id", ctl.UpdateSettings)
	g.Delete("/:gallery_id", ctl.Delete)
	g.Post("/:gallery_id/photos", ctl.AddPhoto)
	g.Delete("/:gallery_id/photos/:photo_id", ctl.DeletePhoto)
	g.Put("/:gallery_id/photos/order", ctl.ReorderPhotos)
	g.Get("/:gallery_id/qr", ctl.QRCode)
}
