package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"geotab-reformatter/internal/models"
	"geotab-reformatter/internal/service"
	"geotab-reformatter/internal/utils"
)

// SuccessFileInfo answers with the FileInfo summary, never the row payload
func SuccessFileInfo(c *fiber.Ctx, message string, info *models.FileInfo) error {
	return utils.SuccessResponse(c, message, info.Summary())
}

// failure maps a pipeline error to its operator message. Read and processing failures
// are server-side (500), everything else is a bad upload (400).
func failure(c *fiber.Ctx, log *logrus.Logger, err error, stage service.Stage) error {
	status := fiber.StatusBadRequest
	if errors.Is(err, service.ErrReadFailure) || errors.Is(err, service.ErrProcessingFailure) {
		status = fiber.StatusInternalServerError
	}

	log.WithFields(logrus.Fields{
		"path":   c.Path(),
		"status": status,
	}).WithError(err).Warn("Request failed")

	return utils.ErrorResponse(c, status, service.UserMessage(err, stage), err)
}
