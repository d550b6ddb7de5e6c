package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"accommodations/internal/clients"
	"accommodations/internal/config"
	applog "accommodations/internal/log"
)

// ErrorHandler keeps the status of *fiber.Error values and hides everything
// else behind a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			msg = fe.Message
		}
	}
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

// NewApp builds the fiber app with middleware and every route mounted.
func NewApp(cfg config.Config, deps *Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName + " " + cfg.AppVersion,
		ErrorHandler:          ErrorHandler,
		UnescapePath:          true,
		DisableStartupMessage: true,
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	// Carry the request id into outbound calls
	app.Use(func(c *fiber.Ctx) error {
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			c.SetUserContext(clients.WithRequestID(c.UserContext(), rid))
		}
		return c.Next()
	})
	app.Use(logger.New(logger.Config{
		Format: "${time} [" + cfg.AppName + "|" + cfg.AppVersion + "] ${locals:requestid} ${ip} ${method} ${path} ${status} ${latency}\n",
		Output: log.Writer(),
	}))
	app.Use(helmet.New())

	// ---------- Ops ----------
	ops := deps.OpsHandler
	app.Get("/healthz", ops.Healthz)
	app.Get("/readyz", ops.Readyz)
	app.Get("/metrics", ops.Metrics)

	// ---------- API ----------
	acc := deps.AccommodationHandler
	dir := deps.DirectoryHandler
	api := app.Group("/v1/accommodations")

	api.Get("/", acc.List)
	api.Post("/", acc.Create)

	// Peer passthroughs; registered before /:id so they are not shadowed
	api.Get("/users", dir.Users)
	api.Get("/users/:userId", dir.User)
	api.Post("/notification", dir.Notify)

	api.Get("/location/:location", acc.ByLocation)
	api.Get("/capacity/:capacity", acc.ByCapacity)

	// Every availability check fans out to the bookings service
	availLimiter := limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|avail"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Warn(c, "rate.availability.hit", nil, nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Get("/:id/availability", availLimiter, acc.Availability)

	api.Get("/:id", acc.Get)
	api.Put("/:id", acc.Update)
	api.Delete("/:id", acc.Delete)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})
	return app
}
