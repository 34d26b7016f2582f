package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"geotab-reformatter/internal/config"
	"geotab-reformatter/internal/middleware"
	"geotab-reformatter/internal/models"
)

// Setup wires the add-in page and the JSON API. redis may be nil, in which case the
// upload sessions live in process memory.
func Setup(app *fiber.App, redis *redis.Client, cfg *config.Config) {
	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":        "ok",
			"app":           cfg.AppName,
			"session_store": sessionStoreName(redis),
		})
	})

	// Web routes (HTML)
	web := app.Group("")
	setupWebRoutes(web, cfg)

	// API routes (JSON)
	api := app.Group("/api/v1", middleware.Session(cfg), middleware.ExposeErrors(cfg))
	SetupAPIRoutes(api, redis, cfg)
}

func setupWebRoutes(router fiber.Router, cfg *config.Config) {
	// Add-in page
	router.Get("/", middleware.Session(cfg), func(c *fiber.Ctx) error {
		return c.Render("index", fiber.Map{
			"Title":       cfg.AppName,
			"NoFile":      models.NoFileName,
			"Development": cfg.IsDevelopment(),
		})
	})
}

func sessionStoreName(redis *redis.Client) string {
	if redis != nil {
		return "redis"
	}
	return "memory"
}
