package handler

import (
	"errors"
	"log"

	"carmodel-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GetReport serves /report/:name (count, status, price, images).
func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	name := c.Params("name")
	rows, err := h.service.Report(name)
	if errors.Is(err, service.ErrUnknownReport) {
		return c.Status(404).JSON(fiber.Map{"error": "Unknown report: " + name})
	}
	if err != nil {
		log.Printf("%s report: %v", name, err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load " + name + " report"})
	}
	return c.JSON(rows)
}
