package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"accommodations/internal/telemetry"
)

type OpsHandler struct {
	Ready    func(ctx context.Context) error
	Registry *telemetry.Registry
}

func (h *OpsHandler) Healthz(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) }

// Readyz reports 503 until the store answers a ping.
func (h *OpsHandler) Readyz(c *fiber.Ctx) error {
	if h.Ready != nil {
		if err := h.Ready(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false, "error": "store unavailable"})
		}
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *OpsHandler) Metrics(c *fiber.Ctx) error {
	if h.Registry == nil {
		return c.JSON(fiber.Map{})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	h.Registry.WriteJSON(c)
	return nil
}
