package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"accommodations/internal/clients"
	"accommodations/internal/domain"
	applog "accommodations/internal/log"
	"accommodations/internal/validate"
)

// DirectoryHandler proxies the users and notifications peers. Upstream
// failures are returned to the app ErrorHandler and surface as a generic 500.
type DirectoryHandler struct {
	Directory *clients.DirectoryClient
}

// GET /v1/accommodations/users
func (h *DirectoryHandler) Users(c *fiber.Ctx) error {
	raw, err := h.Directory.Users(c.UserContext())
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(raw)
}

// GET /v1/accommodations/users/:userId
func (h *DirectoryHandler) User(c *fiber.Ctx) error {
	u, err := h.Directory.User(c.UserContext(), c.Params("userId"))
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(u)
}

// POST /v1/accommodations/notification
func (h *DirectoryHandler) Notify(c *fiber.Ctx) error {
	var n domain.Notification
	if err := c.BodyParser(&n); err != nil {
		return badRequest(c, "unreadable body")
	}
	if err := validate.Struct(n); err != nil {
		applog.Warn(c, "notification.invalid", err, nil)
		return badRequest(c, err.Error())
	}
	status, err := h.Directory.SendNotification(c.UserContext(), n)
	if err != nil {
		return err
	}
	applog.Info(c, "notification.sent", map[string]any{"recipient": n.Recipient})
	return c.SendString(status)
}
