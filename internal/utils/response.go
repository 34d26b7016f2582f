package utils

import (
	"github.com/gofiber/fiber/v2"
)

// Response is the JSON envelope returned by every API endpoint
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SuccessResponse writes a 200 envelope with data
func SuccessResponse(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse writes an error envelope. The message is what the operator sees;
// err is only included outside production.
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	resp := Response{
		Success: false,
		Message: message,
	}
	if err != nil && c.Locals("expose_errors") == true {
		resp.Error = err.Error()
	}
	return c.Status(status).JSON(resp)
}
