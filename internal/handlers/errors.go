package handlers

import (
	"errors"

	"github.com/artmarket/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return utils.CodeValidationFailed
	case fiber.StatusUnauthorized:
		return utils.CodeUnauthenticated
	case fiber.StatusForbidden:
		return utils.CodeForbidden
	case fiber.StatusNotFound:
		return utils.CodeNotFound
	case fiber.StatusConflict:
		return utils.CodeConflict
	case fiber.StatusTooManyRequests:
		return utils.CodeRateLimited
	default:
		return utils.CodeInternalError
	}
}

// ErrorHandler is the app-level fallback for errors that escape handlers.
// Production responses never carry internal error detail.
func ErrorHandler(isProduction bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
		}

		message := err.Error()
		if isProduction && status >= fiber.StatusInternalServerError {
			message = "Internal server error"
		}

		return utils.Error(c, status, codeForStatus(status), message)
	}
}

// NotFoundHandler terminates the chain for unknown routes.
func NotFoundHandler(c *fiber.Ctx) error {
	return utils.Error(c, fiber.StatusNotFound, utils.CodeNotFound, "Route not found")
}
