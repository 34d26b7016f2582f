package handler

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"geotab-reformatter/internal/config"
	"geotab-reformatter/internal/middleware"
	"geotab-reformatter/internal/models"
	"geotab-reformatter/internal/repository"
	"geotab-reformatter/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	uploads repository.UploadRepository
	engine  *service.ReportEngine
	cfg     *config.Config
	logger  *logrus.Logger
}

func NewReportHandler(
	uploads repository.UploadRepository,
	engine *service.ReportEngine,
	cfg *config.Config,
	logger *logrus.Logger,
) *ReportHandler {
	return &ReportHandler{
		uploads: uploads,
		engine:  engine,
		cfg:     cfg,
		logger:  logger,
	}
}

// GenerateReport builds the processed workbook from the session's two uploads and
// sends it as a download
func (h *ReportHandler) GenerateReport(c *fiber.Ctx) error {
	ctx := c.UserContext()
	sessionID := middleware.SessionID(c)

	exceptions, err := h.uploads.Get(ctx, sessionID, models.KindExceptions)
	if err != nil {
		return failure(c, h.logger, fmt.Errorf("%v: %w", err, service.ErrReadFailure), service.StageGenerate)
	}
	trips, err := h.uploads.Get(ctx, sessionID, models.KindTrips)
	if err != nil {
		return failure(c, h.logger, fmt.Errorf("%v: %w", err, service.ErrReadFailure), service.StageGenerate)
	}

	report, err := h.engine.Generate(exceptions, trips)
	if err != nil {
		return failure(c, h.logger, err, service.StageGenerate)
	}

	var buf bytes.Buffer
	if err := h.engine.WriteReport(&buf, report); err != nil {
		return failure(c, h.logger, err, service.StageGenerate)
	}

	h.logger.WithFields(logrus.Fields{
		"session": sessionID,
		"bytes":   buf.Len(),
	}).Info("Report downloaded")

	c.Attachment(h.cfg.ReportFileName)
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(buf.Bytes())
}
