package utils

import (
	"commitbot/internal/errmsg"

	"github.com/gofiber/fiber/v3"
)

// StatusError writes se as the JSON response body with its status code.
func StatusError(c fiber.Ctx, se errmsg.StatusError) error {
	return c.Status(se.StatusCode).JSON(se)
}
