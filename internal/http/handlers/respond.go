package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"supermarket/internal/domain"
	applog "supermarket/internal/log"
)

// fail maps service errors onto the response taxonomy: not-found and
// non-owned resources both read as 404, stock failures carry the failing
// line, authorization failures are explicit 403s.
func fail(c *fiber.Ctx, action string, err error) error {
	var se *domain.StockError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, domain.ErrForbidden):
		applog.Security(c, action+".denied", nil)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	case errors.As(err, &se):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "insufficient stock",
			"line": fiber.Map{
				"purchase_id": se.PurchaseID,
				"item_id":     se.ItemID,
				"title":       se.Title,
				"requested":   se.Requested,
				"available":   se.Available,
			},
		})
	default:
		applog.Error(c, action, err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}

func badRequest(c *fiber.Ctx, field string) error {
	applog.Security(c, "validation.fail", map[string]any{"field": field})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid " + field})
}
