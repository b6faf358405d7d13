package handlers

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	applog "supermarket/internal/log"
	"supermarket/internal/repos"
	"supermarket/internal/services"
	"supermarket/internal/validate"
)

type UserHandler struct {
	Users   *repos.UserRepo
	Catalog *services.CatalogService
}

// Profile shows a user's public page: username plus their listed items.
func (h *UserHandler) Profile(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	u, err := h.Users.ByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
		}
		return fail(c, "users.profile", err)
	}
	items, err := h.Catalog.Items.ByUser(id)
	if err != nil {
		return fail(c, "users.profile", err)
	}
	return c.JSON(fiber.Map{
		"id":       u.ID,
		"username": u.Username,
		"items":    items,
	})
}

func (h *UserHandler) Image(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	img, err := h.Users.Image(id)
	if err != nil || len(img) == 0 {
		return c.SendStatus(fiber.StatusNotFound)
	}
	c.Set(fiber.HeaderContentType, "image/jpeg")
	return c.Send(img)
}

// UploadImage replaces the logged-in user's profile image.
func (h *UserHandler) UploadImage(c *fiber.Ctx) error {
	u := currentUser(c)
	image, err := readImage(c, "image")
	if err != nil || image == nil {
		return badRequest(c, "image")
	}
	if err := h.Users.UpdateImage(u.ID, image); err != nil {
		return fail(c, "users.image", err)
	}
	applog.Audit(c, "users.image", map[string]any{"user_id": u.ID})
	return c.JSON(fiber.Map{"ok": true})
}
