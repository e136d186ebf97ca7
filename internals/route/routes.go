package route

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	adminRoute "shutterhub_backend/internals/features/admin/route"
	bookingRoute "shutterhub_backend/internals/features/booking/route"
	chatRoute "shutterhub_backend/internals/features/chat/route"
	feedRoute "shutterhub_backend/internals/features/feed/route"
	galleryRoute "shutterhub_backend/internals/features/gallery/route"
	userRoute "shutterhub_backend/internals/features/users/route"
	authMw "shutterhub_backend/internals/middlewares/auth"
	"shutterhub_backend/internals/realtime"
)

/* ===============================
   Route groups
   /api/public — no auth (gallery token surface, webhook)
   /api/auth   — register/login surface
   /api/u      — authenticated users
   /api/a      — admin only
   /ws         — websocket fan-out
=================================*/

func SetupRoutes(app *fiber.App, db *gorm.DB, hub *realtime.Hub) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	public := app.Group("/api/public")
	galleryRoute.PublicGalleryRoutes(public, db)
	bookingRoute.PaymentWebhookRoutes(app, db)

	private := app.Group("/api/u", authMw.AuthMiddleware())
	userRoute.AuthRoutes(app.Group("/api"), private, db)
	feedRoute.FeedRoutes(private, db)
	galleryRoute.OwnerGalleryRoutes(private, db)
	chatRoute.ChatRoutes(private, db, hub)
	bookingRoute.BookingRoutes(private, db)

	admin := app.Group("/api/a", authMw.AuthMiddleware(), authMw.RequireRoles("admin"))
	adminRoute.AdminRoutes(admin, db)

	app.Get("/ws", authMw.AuthMiddleware(), realtime.UpgradeRequired, realtime.Handler(hub))
}
