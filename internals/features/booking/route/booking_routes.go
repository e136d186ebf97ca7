package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"shutterhub_backend/internals/features/booking/controller"
	authMw "shutterhub_backend/internals/middlewares/auth"
)

// BookingRoutes wires the booking workflow under the authenticated group.
func BookingRoutes(private fiber.Router, db *gorm.DB) {
	ctl := controller.NewBookingController(db)

	req := private.Group("/booking-requests")
	req.Post("/", authMw.RequireRoles("customer", "admin"), ctl.CreateRequest)
	req.Get("/", ctl.ListRequests)
	req.Post("/:request_id/accept", authMw.RequireRoles("photographer", "admin"), ctl.AcceptRequest)
	req.Post("/:request_id/decline", authMw.RequireRoles("photographer", "admin"), ctl.DeclineRequest)

	b := private.Group("/bookings")
	b.Get("/", ctl.ListBookings)
	b.Post("/:booking_id/start", ctl.StartBooking)
	b.Post("/:booking_id/complete", ctl.CompleteBooking)
	b.Post("/:booking_id/cancel", ctl.CancelBooking)
}

// PaymentWebhookRoutes mounts the gateway callback on the public surface.
func PaymentWebhookRoutes(app fiber.Router, db *gorm.DB) {
	ctl := controller.NewWebhookController(db)
	app.Post("/api/payments/notification", ctl.HandleNotification)
}
