package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/thiagoricci/Rewlio/internal/constants"
	"github.com/thiagoricci/Rewlio/internal/service"
)

func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var serviceErr service.Error
		if errors.As(err, &serviceErr) {
			return handleServiceError(c, serviceErr)
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    constants.ErrCodeInternalError,
			"message": constants.GetErrorMessage(constants.ErrCodeInternalError),
		})
	}
}

func handleServiceError(c *fiber.Ctx, err service.Error) error {
	errorCode := err.Code

	// Unregistered codes surface as a plain internal error.
	if constants.GetErrorMessage(errorCode) == constants.ErrMsgInternalError &&
		errorCode != constants.ErrCodeInternalError {
		errorCode = constants.ErrCodeInternalError
	}

	return c.Status(constants.GetHTTPStatus(errorCode)).JSON(fiber.Map{
		"code":    errorCode,
		"message": constants.GetErrorMessage(errorCode),
	})
}
