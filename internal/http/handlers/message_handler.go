package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "supermarket/internal/log"
	"supermarket/internal/services"
	"supermarket/internal/validate"
)

type MessageHandler struct {
	Messages *services.MessageService
}

func (h *MessageHandler) List(c *fiber.Ctx) error {
	u := currentUser(c)
	conversations, err := h.Messages.Conversations(u.ID)
	if err != nil {
		return fail(c, "messages.list", err)
	}
	return c.JSON(fiber.Map{"conversations": conversations})
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	u := currentUser(c)
	recipientID, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "recipient")
	}
	content, ok := validate.Content(c.FormValue("content"))
	if !ok {
		return badRequest(c, "content")
	}
	if err := h.Messages.Send(u.ID, recipientID, content); err != nil {
		return fail(c, "messages.send", err)
	}
	applog.Audit(c, "messages.send", map[string]any{"from": u.ID, "to": recipientID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true})
}

func (h *MessageHandler) DeleteConversation(c *fiber.Ctx) error {
	u := currentUser(c)
	partnerID, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "partner")
	}
	if err := h.Messages.DeleteConversation(u.ID, partnerID); err != nil {
		return fail(c, "messages.delete", err)
	}
	applog.Audit(c, "messages.delete", map[string]any{"user_id": u.ID, "partner_id": partnerID})
	return c.JSON(fiber.Map{"ok": true})
}
