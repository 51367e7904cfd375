package console

import (
	"carmodel-inventory/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// bodyLimit leaves room for several images per request; the 5MB ceiling is
// enforced per file by the attachment set.
const bodyLimit = 64 * 1024 * 1024

// NewApp builds the console fiber app.
func NewApp(h *Handler, m *metrics.Metrics, accessLog bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "Car Model Inventory Console",
		BodyLimit: bodyLimit,
	})

	if accessLog {
		app.Use(logger.New())
	}
	app.Use(recover.New())
	app.Use(cors.New())

	h.Register(app.Group("/api"))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	return app
}
