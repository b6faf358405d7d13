package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "supermarket/internal/log"
	"supermarket/internal/services"
	"supermarket/internal/validate"
)

type BasketHandler struct {
	Basket *services.BasketService
}

func (h *BasketHandler) View(c *fiber.Ctx) error {
	u := currentUser(c)
	cv, err := h.Basket.View(u.ID)
	if err != nil {
		return fail(c, "basket.view", err)
	}
	return c.JSON(fiber.Map{"lines": cv.Lines, "total": cv.Total, "stock": cv.Stock})
}

func (h *BasketHandler) Add(c *fiber.Ctx) error {
	u := currentUser(c)
	itemID, ok := validate.ID(c.FormValue("item_id"))
	if !ok {
		return badRequest(c, "item_id")
	}
	quantity, ok := validate.Qty(c.FormValue("quantity"))
	if !ok {
		return badRequest(c, "quantity")
	}

	id, err := h.Basket.AddToCart(u.ID, itemID, quantity)
	if err != nil {
		return fail(c, "basket.add", err)
	}
	applog.Audit(c, "basket.add", map[string]any{"purchase_id": id, "item_id": itemID, "user_id": u.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"purchase_id": id})
}

// Update reads quantity_<purchase_id> form fields, the same field shape the
// basket form posts, and clamps each to current stock.
func (h *BasketHandler) Update(c *fiber.Ctx) error {
	u := currentUser(c)
	requested := map[int64]int{}
	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		key := string(k)
		if !strings.HasPrefix(key, "quantity_") {
			return
		}
		pid, ok := validate.ID(strings.TrimPrefix(key, "quantity_"))
		if !ok {
			return
		}
		quantity, ok := validate.Qty(string(v))
		if !ok {
			return
		}
		requested[pid] = quantity
	})

	if err := h.Basket.UpdateQuantities(u.ID, requested); err != nil {
		return fail(c, "basket.update", err)
	}
	cv, err := h.Basket.View(u.ID)
	if err != nil {
		return fail(c, "basket.update", err)
	}
	return c.JSON(fiber.Map{"lines": cv.Lines, "total": cv.Total, "stock": cv.Stock})
}

func (h *BasketHandler) Remove(c *fiber.Ctx) error {
	u := currentUser(c)
	purchaseID, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	if err := h.Basket.Remove(u.ID, purchaseID); err != nil {
		return fail(c, "basket.remove", err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *BasketHandler) Checkout(c *fiber.Ctx) error {
	u := currentUser(c)
	if err := h.Basket.Checkout(u.ID); err != nil {
		applog.Security(c, "basket.checkout.fail", map[string]any{"user_id": u.ID, "error": err.Error()})
		return fail(c, "basket.checkout", err)
	}
	applog.Audit(c, "basket.checkout", map[string]any{"user_id": u.ID})
	return c.JSON(fiber.Map{"ok": true})
}

func (h *BasketHandler) History(c *fiber.Ctx) error {
	u := currentUser(c)
	lines, err := h.Basket.History(u.ID)
	if err != nil {
		return fail(c, "basket.history", err)
	}
	return c.JSON(fiber.Map{"lines": lines})
}
