package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"supermarket/internal/config"
	"supermarket/internal/http/handlers"
	applog "supermarket/internal/log"
	"supermarket/internal/repos"
	"supermarket/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			// Avoid leaking internals
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "something went wrong, please try again",
			})
		},
	})
	// Global body size guard; item/user images are capped far below this
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "security check failed"})
		},
	}))

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, authSvc)
	requireUser := handlers.RequireUser(authSvc)

	// Catalog (public)
	app.Get("/", deps.ItemHandler.List)
	app.Get("/search", limiter.New(limiter.Config{Max: 20, Expiration: time.Minute}), deps.ItemHandler.Search)
	app.Get("/classes", deps.ItemHandler.Classes)
	app.Get("/items/:id", deps.ItemHandler.Detail)
	app.Get("/items/:id/image", deps.ItemHandler.Image)

	// Catalog (owner)
	app.Post("/items", requireUser, deps.ItemHandler.Create)
	app.Post("/items/:id", requireUser, deps.ItemHandler.Update)
	app.Post("/items/:id/delete", requireUser, deps.ItemHandler.Delete)
	app.Post("/items/:id/comments", requireUser, deps.ItemHandler.AddComment)

	// Basket & checkout
	app.Get("/basket", requireUser, deps.BasketHandler.View)
	app.Post("/basket", requireUser, deps.BasketHandler.Add)
	app.Post("/basket/update", requireUser, deps.BasketHandler.Update)
	app.Post("/basket/remove/:id", requireUser, deps.BasketHandler.Remove)
	app.Post("/checkout", requireUser, deps.BasketHandler.Checkout)
	app.Get("/purchases", requireUser, deps.BasketHandler.History)

	// Messages
	app.Get("/messages", requireUser, deps.MessageHandler.List)
	app.Post("/messages/:id", requireUser, deps.MessageHandler.Send)
	app.Post("/messages/:id/delete", requireUser, deps.MessageHandler.DeleteConversation)

	// Users
	app.Get("/users/:id", deps.UserHandler.Profile)
	app.Get("/users/:id/image", deps.UserHandler.Image)
	app.Post("/profile/image", requireUser, deps.UserHandler.UploadImage)

	// Auth (login throttled)
	app.Post("/register", deps.AuthHandler.Register)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	}), deps.AuthHandler.Login)
	app.Post("/logout", deps.AuthHandler.Logout)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
