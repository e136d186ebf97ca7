package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/redis/go-redis/v9"

	"shutterhub_backend/internals/configs"
	database "shutterhub_backend/internals/databases"
	bookingService "shutterhub_backend/internals/features/booking/service"
	middlewares "shutterhub_backend/internals/middlewares"
	"shutterhub_backend/internals/observability/logger"
	"shutterhub_backend/internals/observability/metrics"
	"shutterhub_backend/internals/realtime"
	routes "shutterhub_backend/internals/route"
)

func main() {
	configs.LoadEnv()
	logger.Setup(configs.GetEnv("LOG_LEVEL", "info"), configs.GetEnv("LOG_PRETTY") == "true")
	metrics.Register()

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// Request-ID + per-request timeout, aligned with the DB statement_timeout
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})

	middlewares.SetupMiddlewares(app)

	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()
	database.MigrateAll()

	bookingService.InitMidtrans(configs.MidtransServerKey)

	hub := realtime.NewHub()

	var rdb *redis.Client
	var bridge *realtime.Bridge
	if configs.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     configs.RedisAddr,
			Password: configs.RedisPassword,
		})
		bridge = realtime.NewBridge(rdb, hub)
	}

	routes.SetupRoutes(app, database.DB, hub)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		logger.Log.Info().Str("port", port).Msg("🚀 Listening")
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			logger.Log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if bridge != nil {
		bridge.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
