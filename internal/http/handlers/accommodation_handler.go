package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"accommodations/internal/domain"
	applog "accommodations/internal/log"
	"accommodations/internal/services"
	"accommodations/internal/validate"
)

const msgBookingsUnavailable = "Bookings service unavailable!"

type AccommodationHandler struct {
	Accommodations *services.AccommodationService
	Checker        *services.AvailabilityService
}

// accommodationForm binds both form-encoded and JSON bodies.
type accommodationForm struct {
	ID          int64    `form:"id" json:"id" validate:"gte=0"`
	Name        string   `form:"name" json:"name" validate:"max=255"`
	Location    string   `form:"location" json:"location" validate:"max=255"`
	Description string   `form:"description" json:"description"`
	Capacity    int      `form:"capacity" json:"capacity" validate:"gte=0"`
	PricePerDay *float64 `form:"pricePerDay" json:"pricePerDay" validate:"omitempty,gte=0"`
}

func (f accommodationForm) accommodation() domain.Accommodation {
	return domain.Accommodation{
		ID:          f.ID,
		Name:        f.Name,
		Location:    f.Location,
		Description: f.Description,
		Capacity:    f.Capacity,
		PricePerDay: f.PricePerDay,
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "accommodation not found"})
}

func isForm(c *fiber.Ctx) bool {
	ct := c.Get(fiber.HeaderContentType)
	return strings.HasPrefix(ct, fiber.MIMEApplicationForm) || strings.HasPrefix(ct, fiber.MIMEMultipartForm)
}

func (h *AccommodationHandler) bind(c *fiber.Ctx) (accommodationForm, error) {
	var f accommodationForm
	if err := c.BodyParser(&f); err != nil {
		return f, fmt.Errorf("%w: unreadable body", domain.ErrInvalidInput)
	}
	// a blank form price means no price, not zero
	if isForm(c) && strings.TrimSpace(c.FormValue("pricePerDay")) == "" {
		f.PricePerDay = nil
	}
	if err := validate.Struct(f); err != nil {
		return f, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return f, nil
}

// GET /v1/accommodations
func (h *AccommodationHandler) List(c *fiber.Ctx) error {
	items, err := h.Accommodations.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// GET /v1/accommodations/:id
func (h *AccommodationHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid accommodation id")
	}
	a, err := h.Accommodations.Get(c.UserContext(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return notFound(c)
	}
	if err != nil {
		return err
	}
	return c.JSON(a)
}

// GET /v1/accommodations/location/:location
func (h *AccommodationHandler) ByLocation(c *fiber.Ctx) error {
	items, err := h.Accommodations.ByLocation(c.UserContext(), c.Params("location"))
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// GET /v1/accommodations/capacity/:capacity
func (h *AccommodationHandler) ByCapacity(c *fiber.Ctx) error {
	capacity, ok := validate.Capacity(c.Params("capacity"))
	if !ok {
		return badRequest(c, "capacity must be a non-negative integer")
	}
	items, err := h.Accommodations.ByCapacity(c.UserContext(), capacity)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// POST /v1/accommodations
func (h *AccommodationHandler) Create(c *fiber.Ctx) error {
	f, err := h.bind(c)
	if err != nil {
		applog.Warn(c, "accommodation.create.invalid", err, nil)
		return badRequest(c, err.Error())
	}
	created, err := h.Accommodations.Create(c.UserContext(), f.accommodation())
	if err != nil {
		return err
	}
	applog.Audit(c, "accommodation.create", map[string]any{"id": created.ID})
	c.Location(fmt.Sprintf("/v1/accommodations/%d", created.ID))
	return c.Status(fiber.StatusCreated).JSON(created)
}

// PUT /v1/accommodations/:id
func (h *AccommodationHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid accommodation id")
	}
	f, err := h.bind(c)
	if err != nil {
		applog.Warn(c, "accommodation.update.invalid", err, map[string]any{"id": id})
		return badRequest(c, err.Error())
	}
	updated, err := h.Accommodations.Update(c.UserContext(), id, f.accommodation().Fields())
	if errors.Is(err, domain.ErrNotFound) {
		return notFound(c)
	}
	if err != nil {
		return err
	}
	applog.Audit(c, "accommodation.update", map[string]any{"id": id})
	return c.JSON(updated)
}

// DELETE /v1/accommodations/:id
func (h *AccommodationHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.Int64(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid accommodation id")
	}
	if err := h.Accommodations.Delete(c.UserContext(), id); err != nil {
		return err
	}
	applog.Audit(c, "accommodation.delete", map[string]any{"id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /v1/accommodations/:id/availability?fromTime=&toTime=
func (h *AccommodationHandler) Availability(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid accommodation id")
	}
	from, okFrom := validate.Millis(c.Query("fromTime"))
	to, okTo := validate.Millis(c.Query("toTime"))
	if !okFrom || !okTo {
		return badRequest(c, "fromTime and toTime must be epoch milliseconds")
	}

	available, err := h.Checker.Check(c.UserContext(), id, from, to)
	switch {
	case errors.Is(err, domain.ErrInvalidInterval):
		// empty body, not the default status text
		return c.Status(fiber.StatusBadRequest).Send(nil)
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		applog.Warn(c, "availability.bookings.unavailable", err, map[string]any{"id": id})
		return badRequest(c, msgBookingsUnavailable)
	case err != nil:
		return err
	}
	return c.JSON(available)
}
