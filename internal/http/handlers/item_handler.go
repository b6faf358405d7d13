package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "supermarket/internal/log"
	"supermarket/internal/services"
	"supermarket/internal/validate"
)

type ItemHandler struct {
	Catalog *services.CatalogService
}

const maxImageBytes = 100 * 1024

var errBadImage = errors.New("bad image")

// readImage pulls an optional uploaded image out of the form. Returns nil when
// the field is absent.
func readImage(c *fiber.Ctx, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return nil, nil
	}
	return readImageHeader(fh)
}

func readImageHeader(fh *multipart.FileHeader) ([]byte, error) {
	name := strings.ToLower(fh.Filename)
	if !strings.HasSuffix(name, ".png") && !strings.HasSuffix(name, ".jpg") &&
		!strings.HasSuffix(name, ".jpeg") && !strings.HasSuffix(name, ".gif") {
		return nil, errBadImage
	}
	if fh.Size > maxImageBytes {
		return nil, errBadImage
	}
	f, err := fh.Open()
	if err != nil {
		return nil, errBadImage
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil || len(data) > maxImageBytes {
		return nil, errBadImage
	}
	return data, nil
}

func (h *ItemHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	items, pageCount, err := h.Catalog.ListItems(page, 10)
	if err != nil {
		return fail(c, "items.list", err)
	}
	return c.JSON(fiber.Map{"items": items, "page": page, "page_count": pageCount})
}

func (h *ItemHandler) Search(c *fiber.Ctx) error {
	rawQ := c.Query("q")
	if strings.TrimSpace(rawQ) == "" {
		return c.JSON(fiber.Map{"q": "", "items": []any{}, "count": 0})
	}
	q, ok := validate.Q(rawQ)
	if !ok {
		return badRequest(c, "q")
	}
	page := c.QueryInt("page", 1)
	items, total, err := h.Catalog.Search(q, page, 10)
	if err != nil {
		return fail(c, "items.search", err)
	}
	return c.JSON(fiber.Map{"q": q, "items": items, "count": total, "page": page})
}

func (h *ItemHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	detail, err := h.Catalog.GetItem(id)
	if err != nil {
		return fail(c, "items.detail", err)
	}
	resp := fiber.Map{
		"item":     detail.Item,
		"classes":  detail.Classes,
		"comments": detail.Comments,
	}
	if detail.Rated {
		resp["average_rating"] = detail.AverageRating
	}
	return c.JSON(resp)
}

// itemForm holds validated create/update fields.
type itemForm struct {
	title       string
	description string
	price       int64
	quantity    int
}

func (h *ItemHandler) parseForm(c *fiber.Ctx) (itemForm, string, bool) {
	var f itemForm
	var ok bool
	if f.title, ok = validate.Title(c.FormValue("title")); !ok {
		return f, "title", false
	}
	if f.description, ok = validate.Description(c.FormValue("description")); !ok {
		return f, "description", false
	}
	if f.price, ok = validate.Price(c.FormValue("price")); !ok {
		return f, "price", false
	}
	if f.quantity, ok = validate.Qty(c.FormValue("quantity")); !ok {
		return f, "quantity", false
	}
	return f, "", true
}

func formValues(c *fiber.Ctx, key string) []string {
	var out []string
	for _, v := range c.Request().PostArgs().PeekMulti(key) {
		out = append(out, string(v))
	}
	return out
}

func (h *ItemHandler) Create(c *fiber.Ctx) error {
	u := currentUser(c)
	f, field, ok := h.parseForm(c)
	if !ok {
		return badRequest(c, field)
	}
	classes, err := h.Catalog.ParseClasses(formValues(c, "classes"))
	if err != nil {
		return badRequest(c, "classes")
	}
	image, err := readImage(c, "image")
	if err != nil {
		return badRequest(c, "image")
	}

	id, err := h.Catalog.CreateItem(f.title, f.description, f.price, f.quantity, u.ID, classes, image)
	if err != nil {
		return fail(c, "items.create", err)
	}
	applog.Audit(c, "items.create", map[string]any{"item_id": id, "user_id": u.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *ItemHandler) Update(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	detail, err := h.Catalog.GetItem(id)
	if err != nil {
		return fail(c, "items.update", err)
	}
	if detail.Item.UserID != u.ID {
		applog.Security(c, "access.denied.item", map[string]any{"item_id": id, "user_id": u.ID})
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	}

	f, field, ok := h.parseForm(c)
	if !ok {
		return badRequest(c, field)
	}
	classes, err := h.Catalog.ParseClasses(formValues(c, "classes"))
	if err != nil {
		return badRequest(c, "classes")
	}
	image, err := readImage(c, "new_image")
	if err != nil {
		return badRequest(c, "image")
	}
	if image == nil && c.FormValue("remove_image") != "" {
		image = []byte{}
	}

	if err := h.Catalog.UpdateItem(id, f.title, f.description, f.price, f.quantity, classes, image); err != nil {
		return fail(c, "items.update", err)
	}
	applog.Audit(c, "items.update", map[string]any{"item_id": id, "user_id": u.ID})
	return c.JSON(fiber.Map{"ok": true})
}

func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	detail, err := h.Catalog.GetItem(id)
	if err != nil {
		return fail(c, "items.delete", err)
	}
	if detail.Item.UserID != u.ID {
		applog.Security(c, "access.denied.item", map[string]any{"item_id": id, "user_id": u.ID})
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	}
	if err := h.Catalog.DeleteItem(id); err != nil {
		return fail(c, "items.delete", err)
	}
	applog.Audit(c, "items.delete", map[string]any{"item_id": id, "user_id": u.ID})
	return c.JSON(fiber.Map{"ok": true})
}

func (h *ItemHandler) Image(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	img, err := h.Catalog.Items.Image(id)
	if err != nil || len(img) == 0 {
		return c.SendStatus(fiber.StatusNotFound)
	}
	c.Set(fiber.HeaderContentType, "image/jpeg")
	return c.Send(img)
}

func (h *ItemHandler) AddComment(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id")
	}
	content, ok := validate.Content(c.FormValue("content"))
	if !ok {
		return badRequest(c, "content")
	}
	rating, ok := validate.Rating(c.FormValue("rating"))
	if !ok {
		return badRequest(c, "rating")
	}
	if err := h.Catalog.AddComment(id, u.ID, content, rating); err != nil {
		return fail(c, "items.comment", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true})
}

func (h *ItemHandler) Classes(c *fiber.Ctx) error {
	all, err := h.Catalog.Items.AllClasses()
	if err != nil {
		return fail(c, "items.classes", err)
	}
	return c.JSON(all)
}
