package utils

import "github.com/gofiber/fiber/v2"

// Stable error codes carried in the "error" field of every failure envelope.
const (
	CodeValidationFailed = "ValidationFailed"
	CodeUnauthenticated  = "Unauthenticated"
	CodeForbidden        = "Forbidden"
	CodeNotFound         = "NotFound"
	CodeConflict         = "Conflict"
	CodeRateLimited      = "RateLimited"
	CodeUploadRejected   = "UploadRejected"
	CodeInternalError    = "InternalError"
)

func Success(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   code,
		"message": message,
	})
}

// ValidationError reports every violated field at once.
func ValidationError(c *fiber.Ctx, details interface{}) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   CodeValidationFailed,
		"message": "Validation failed",
		"details": details,
	})
}

func RateLimited(c *fiber.Ctx, retryAfterSeconds int) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"success":    false,
		"error":      CodeRateLimited,
		"message":    "Too many requests from this IP, please try again later.",
		"retryAfter": retryAfterSeconds,
	})
}
