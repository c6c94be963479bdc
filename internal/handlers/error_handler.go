package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-matcher/internal/models"
)

const GenericErrorMessage = "Internal Server Error. Please try again."

// NewErrorHandler returns the top-level fiber error handler. Server errors are
// logged in full and answered with a generic message only.
func NewErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		detail := GenericErrorMessage

		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
			code = fe.Code
			detail = fe.Message
		} else {
			log.Error("unhandled exception",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		return c.Status(code).JSON(models.ErrorResponse{Detail: detail})
	}
}
