package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"shutterhub_backend/internals/features/admin/controller"
)

// AdminRoutes wires the admin-only surface. Role enforcement happens on the
// parent group.
func AdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := controller.NewExportController(db)
	admin.Get("/export/bookings", ctl.ExportBookings)
}
