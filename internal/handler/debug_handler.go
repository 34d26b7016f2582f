package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"geotab-reformatter/internal/config"
	"geotab-reformatter/internal/middleware"
	"geotab-reformatter/internal/models"
	"geotab-reformatter/internal/repository"
	"geotab-reformatter/internal/utils"
)

// DebugHandler exposes session state while developing the add-in. Only routed when
// APP_ENV=development.
type DebugHandler struct {
	uploads repository.UploadRepository
	cfg     *config.Config
	logger  *logrus.Logger
}

func NewDebugHandler(uploads repository.UploadRepository, cfg *config.Config, logger *logrus.Logger) *DebugHandler {
	return &DebugHandler{uploads: uploads, cfg: cfg, logger: logger}
}

func (h *DebugHandler) GetSession(c *fiber.Ctx) error {
	sessionID := middleware.SessionID(c)
	uploads := fiber.Map{}

	for _, kind := range []models.ReportKind{models.KindExceptions, models.KindTrips} {
		info, err := h.uploads.Get(c.UserContext(), sessionID, kind)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load session", err)
		}
		uploads[string(kind)] = info.Summary()
	}

	return utils.SuccessResponse(c, "Session retrieved successfully", fiber.Map{
		"session_id":    sessionID,
		"session_store": h.cfg.SessionStore,
		"session_ttl":   h.cfg.SessionTTL.String(),
		"report_file":   h.cfg.ReportFileName,
		"uploads":       uploads,
	})
}
