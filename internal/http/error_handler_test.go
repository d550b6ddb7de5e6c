package handlers_test

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"accommodations/internal/http/handlers"
)

// internal errors surface as a generic message
func TestErrorHandlerHidesInternals(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())

	app.Get("/err", func(c *fiber.Ctx) error {
		return errors.New("db timeout: secret trace")
	})
	app.Get("/fiber500", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "pool exhausted: secret")
	})

	for _, path := range []string{"/err", "/fiber500"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("test request failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusInternalServerError {
			t.Fatalf("%s: expected 500, got %d", path, resp.StatusCode)
		}
		body, _ := io.ReadAll(resp.Body)
		s := string(body)
		if !strings.Contains(s, "internal server error") {
			t.Fatalf("%s: generic message missing; body=%s", path, s)
		}
		if strings.Contains(s, "secret") {
			t.Fatalf("%s: internal details leaked; body=%s", path, s)
		}
	}
}

// client errors raised as *fiber.Error keep their status and message
func TestErrorHandlerKeepsClientErrors(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/teapot", nil))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusTeapot || !strings.Contains(string(body), "short and stout") {
		t.Fatalf("got %d %s", resp.StatusCode, body)
	}
}
