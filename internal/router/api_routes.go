package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"geotab-reformatter/internal/config"
	"geotab-reformatter/internal/handler"
	"geotab-reformatter/internal/middleware"
	"geotab-reformatter/internal/repository"
	"geotab-reformatter/internal/service"
	"geotab-reformatter/internal/utils"
)

func SetupAPIRoutes(
	router fiber.Router,
	redis *redis.Client,
	cfg *config.Config,
) {
	logger := utils.GetLogger()

	// Initialize repositories
	var uploads repository.UploadRepository
	if redis != nil {
		uploads = repository.NewRedisUploadRepository(redis, cfg.SessionTTL)
	} else {
		uploads = repository.NewMemoryUploadRepository(cfg.SessionTTL)
	}

	// Initialize services
	excelService := service.NewExcelService(logger)
	engine := service.NewReportEngine(excelService, logger)

	// Initialize handlers
	uploadHandler := handler.NewUploadHandler(uploads, engine, cfg, logger)
	reportHandler := handler.NewReportHandler(uploads, engine, cfg, logger)

	// Protected routes
	protected := router.Group("", middleware.AuthMiddleware(cfg))

	// Upload routes
	uploadRoutes := protected.Group("/uploads")
	uploadRoutes.Post("/:kind", uploadHandler.UploadFile)
	uploadRoutes.Get("/:kind", uploadHandler.GetUpload)
	uploadRoutes.Delete("/:kind", uploadHandler.ResetUpload)

	// Report routes
	protected.Post("/reports", reportHandler.GenerateReport)

	// Development diagnostics
	if cfg.IsDevelopment() {
		debugHandler := handler.NewDebugHandler(uploads, cfg, logger)
		protected.Get("/debug/session", debugHandler.GetSession)
	}
}
