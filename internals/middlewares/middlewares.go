package middlewares

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"shutterhub_backend/internals/observability/logger"
	"shutterhub_backend/internals/observability/metrics"
)

// SetupMiddlewares wires the base middleware chain.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
	app.Use(RequestLogger())
}

// RequestLogger logs every request and feeds the HTTP counter.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		route := c.Route().Path
		metrics.IncHTTP(c.Method(), route, strconv.Itoa(status))

		logger.Log.Info().
			Str("reqid", requestID(c)).
			Str("method", c.Method()).
			Str("path", c.OriginalURL()).
			Int("status", status).
			Dur("dur", time.Since(start)).
			Msg("request")
		return err
	}
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("reqid").(string)
	return id
}
