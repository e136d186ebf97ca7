package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"shutterhub_backend/internals/features/booking/service"
	helper "shutterhub_backend/internals/helpers"
	"shutterhub_backend/internals/observability/logger"
)

type WebhookController struct {
	Service *service.BookingService
}

func NewWebhookController(db *gorm.DB) *WebhookController {
	return &WebhookController{Service: service.NewBookingService(db)}
}

// POST /api/payments/notification — called by the payment gateway, no auth.
// Always answers 200 for statuses we ignore so the gateway stops retrying.
func (ctl *WebhookController) HandleNotification(c *fiber.Ctx) error {
	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid notification payload")
	}

	if err := ctl.Service.HandleNotification(body); err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Unknown order")
		}
		logger.Log.Error().Err(err).Msg("❌ payment notification failed")
		return helper.JsonError(c, fiber.StatusInternalServerError, "notification processing failed")
	}
	return helper.JsonOK(c, "ok", nil)
}
