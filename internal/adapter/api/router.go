package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HomeMessage is served on GET / regardless of provider credentials.
const HomeMessage = "Gemini API working locally!"

type RouterConfig struct {
	Version     string
	Env         string
	Development bool
}

// NewApp builds the Fiber app with all routes attached.
func NewApp(cfg RouterConfig, handler *GenerateHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "TravelBuddy Hubli Relay",
		DisableStartupMessage: !cfg.Development,
		EnablePrintRoutes:     cfg.Development,
	})
	SetupRouter(app, handler, cfg)
	return app
}

func SetupRouter(app *fiber.App, handler *GenerateHandler, cfg RouterConfig) {
	// Middleware
	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.Development}))
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	if cfg.Development {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString(HomeMessage)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"version": cfg.Version,
			"env":     cfg.Env,
		})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Post("/api/generate", handler.HandleGenerate)
}
