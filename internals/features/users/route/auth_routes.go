package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"shutterhub_backend/internals/features/users/controller"
	"shutterhub_backend/internals/middlewares"
)

// AuthRoutes: public register/login + authenticated profile.
func AuthRoutes(public fiber.Router, private fiber.Router, db *gorm.DB) {
	ctl := controller.NewAuthController(db)

	auth := public.Group("/auth")
	auth.Post("/register", middlewares.RegisterRateLimiter(), ctl.Register)
	auth.Post("/login", middlewares.LoginRateLimiter(), ctl.Login)
	auth.Post("/google", middlewares.LoginRateLimiter(), ctl.GoogleLogin)

	private.Get("/me", ctl.Me)
}
