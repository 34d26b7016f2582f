package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/redis/go-redis/v9"

	"geotab-reformatter/internal/config"
	"geotab-reformatter/internal/database"
	"geotab-reformatter/internal/router"
	"geotab-reformatter/internal/utils"
)

func main() {
	log := utils.GetLogger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	for _, w := range cfg.Warnings() {
		log.Warn(w)
	}

	// Redis is only needed when sessions are shared between instances
	var redisClient *redis.Client
	if cfg.SessionStore == "redis" {
		redisClient, err = database.NewRedis(cfg)
		if err != nil {
			log.WithError(err).Warn("Failed to connect to Redis, upload sessions will be kept in memory")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// Initialize template engine
	engine := html.New("./views", ".html")
	engine.Reload(cfg.IsDevelopment())

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		Views:        engine,
		BodyLimit:    cfg.UploadMaxSize,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Session-ID",
		AllowMethods:  "GET, POST, DELETE, OPTIONS",
		ExposeHeaders: "Content-Disposition, X-Session-ID",
	}))

	// Static files
	app.Static("/static", "./public")

	// Setup routes
	router.Setup(app, redisClient, cfg)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := fmt.Sprintf(":%s", cfg.AppPort)
	log.WithField("port", port).Info("Server starting")
	if err := app.Listen(port); err != nil {
		log.WithError(err).Fatal("Failed to start server")
	}

	log.Info("Server exited")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Check if request expects JSON
	if c.Accepts("text/html") == "" {
		return utils.ErrorResponse(c, code, message, err)
	}

	// Return HTML error page
	return c.Status(code).Render("error", fiber.Map{
		"Code":    code,
		"Message": message,
	})
}
