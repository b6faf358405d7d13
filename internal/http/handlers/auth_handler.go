package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"supermarket/internal/domain"
	applog "supermarket/internal/log"
	"supermarket/internal/services"
	"supermarket/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	username, ok := validate.Username(c.FormValue("username"))
	if !ok {
		return badRequest(c, "username")
	}
	password := c.FormValue("password1")
	if password != c.FormValue("password2") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "passwords do not match"})
	}
	if !validate.Password(password) {
		return badRequest(c, "password")
	}

	id, err := h.Auth.Register(username, password)
	if err != nil {
		if errors.Is(err, domain.ErrTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "username already taken"})
		}
		return fail(c, "auth.register", err)
	}
	applog.Audit(c, "auth.register", map[string]any{"user_id": id, "username": username})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "username": username})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	username, ok := validate.Username(c.FormValue("username"))
	if !ok {
		applog.Security(c, "auth.login.fail", map[string]any{"reason": "bad_format"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid username or password"})
	}

	u, err := h.Auth.Login(sid, username, c.FormValue("password"))
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"username": username})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid username or password"})
	}

	applog.Audit(c, "auth.login.success", map[string]any{"user_id": u.ID})
	return c.JSON(fiber.Map{"id": u.ID, "username": u.Username})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	// Expire cookie
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	applog.Audit(c, "auth.logout", nil)
	return c.JSON(fiber.Map{"ok": true})
}
