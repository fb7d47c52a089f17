package http

import (
	"errors"

	"github.com/everscaleid/backend/internal/common"
	"github.com/gofiber/fiber/v2"
)

// writeError maps a sentinel error to its status code and writes the
// uniform {"error": "..."} body.
func writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, common.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, common.ErrChallengeExpired):
		status = fiber.StatusGone
	case errors.Is(err, common.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, common.ErrAccountInactive):
		status = fiber.StatusMethodNotAllowed
	case errors.Is(err, common.ErrLedgerUnavailable):
		status = fiber.StatusBadGateway
	case errors.Is(err, common.ErrInvalidArgument):
		status = fiber.StatusBadRequest
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
