package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"geotab-reformatter/internal/config"
	"geotab-reformatter/internal/middleware"
	"geotab-reformatter/internal/models"
	"geotab-reformatter/internal/repository"
	"geotab-reformatter/internal/service"
)

type UploadHandler struct {
	uploads repository.UploadRepository
	engine  *service.ReportEngine
	cfg     *config.Config
	logger  *logrus.Logger
}

func NewUploadHandler(
	uploads repository.UploadRepository,
	engine *service.ReportEngine,
	cfg *config.Config,
	logger *logrus.Logger,
) *UploadHandler {
	return &UploadHandler{
		uploads: uploads,
		engine:  engine,
		cfg:     cfg,
		logger:  logger,
	}
}

// UploadFile ingests one exceptions or trips report. Any failure leaves that kind
// reset to the empty record.
func (h *UploadHandler) UploadFile(c *fiber.Ctx) error {
	kind, err := reportKind(c)
	if err != nil {
		return err
	}
	sessionID := middleware.SessionID(c)

	// the previous upload of this kind is gone whatever the new one turns out to be
	if err := h.uploads.Reset(c.UserContext(), sessionID, kind); err != nil {
		h.logger.WithError(err).Error("Failed to reset upload")
		return h.fail(c, fmt.Errorf("%v: %w", err, service.ErrProcessingFailure), service.StageUpload)
	}

	info, err := h.ingest(c, kind)
	if err != nil {
		return h.fail(c, err, service.StageUpload)
	}

	if err := h.uploads.Save(c.UserContext(), sessionID, info); err != nil {
		h.logger.WithError(err).Error("Failed to store upload")
		return h.fail(c, fmt.Errorf("%v: %w", err, service.ErrProcessingFailure), service.StageUpload)
	}

	return SuccessFileInfo(c, "File uploaded successfully", info)
}

func (h *UploadHandler) ingest(c *fiber.Ctx, kind models.ReportKind) (*models.FileInfo, error) {
	file, err := c.FormFile("file")
	if err != nil || file.Filename == "" {
		return nil, service.ErrNoFileSelected
	}

	if !service.IsExcelFileName(file.Filename) {
		return nil, service.ErrWrongExtension
	}

	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, service.ErrReadFailure)
	}
	defer f.Close()

	data, err := service.ReadUpload(c.UserContext(), f, int64(h.cfg.UploadMaxSize))
	if err != nil {
		return nil, err
	}

	return h.engine.Ingest(kind, file.Filename, data)
}

// GetUpload returns the current state of one kind
func (h *UploadHandler) GetUpload(c *fiber.Ctx) error {
	kind, err := reportKind(c)
	if err != nil {
		return err
	}

	info, err := h.uploads.Get(c.UserContext(), middleware.SessionID(c), kind)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load upload")
		return h.fail(c, fmt.Errorf("%v: %w", err, service.ErrReadFailure), service.StageUpload)
	}

	return SuccessFileInfo(c, "Upload retrieved successfully", info)
}

// ResetUpload drops the staged file of one kind
func (h *UploadHandler) ResetUpload(c *fiber.Ctx) error {
	kind, err := reportKind(c)
	if err != nil {
		return err
	}

	if err := h.uploads.Reset(c.UserContext(), middleware.SessionID(c), kind); err != nil {
		h.logger.WithError(err).Error("Failed to reset upload")
		return h.fail(c, fmt.Errorf("%v: %w", err, service.ErrReadFailure), service.StageUpload)
	}

	return SuccessFileInfo(c, "Upload cleared", models.NewFileInfo(kind))
}

func reportKind(c *fiber.Ctx) (models.ReportKind, error) {
	kind, ok := models.ParseReportKind(c.Params("kind"))
	if !ok {
		return "", fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("unknown report kind %q", c.Params("kind")))
	}
	return kind, nil
}

func (h *UploadHandler) fail(c *fiber.Ctx, err error, stage service.Stage) error {
	return failure(c, h.logger, err, stage)
}
