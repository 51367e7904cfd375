package handler

import (
	"strings"

	"carmodel-inventory/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// bodyLimit admits several 5MB images in one submission.
const bodyLimit = 64 * 1024 * 1024

// Routes collects what the store app serves.
type Routes struct {
	CarModels *CarModelHandler
	Reports   *ReportHandler
	Assets    *AssetHandler
	Hub       *ws.Hub
	AssetPath string
	Guard     fiber.Handler
}

// NewApp builds the record store fiber app.
func NewApp(r Routes, accessLog bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "Car Model Store v1.0",
		BodyLimit: bodyLimit,
	})

	// Middleware
	if accessLog {
		app.Use(logger.New())
	}
	app.Use(recover.New())
	app.Use(cors.New())

	guard := r.Guard
	if guard == nil {
		guard = func(c *fiber.Ctx) error { return c.Next() }
	}

	api := app.Group("/api/car-models")
	api.Get("/report/:name", r.Reports.GetReport)
	r.CarModels.Register(api, guard)

	assetPath := "/" + strings.Trim(r.AssetPath, "/")
	app.Get(assetPath+"/:key", r.Assets.GetAsset)

	if r.Hub != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return c.SendStatus(fiber.StatusUpgradeRequired)
		})
		app.Get("/ws", websocket.New(r.Hub.Handler()))
	}
	return app
}
