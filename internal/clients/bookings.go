package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"accommodations/internal/domain"
)

// BookingsClient lists every booking known to the bookings service.
type BookingsClient struct {
	URL     string
	Timeout time.Duration
}

func NewBookingsClient(url string, timeout time.Duration) *BookingsClient {
	return &BookingsClient{URL: url, Timeout: timeout}
}

func (c *BookingsClient) List(ctx context.Context) ([]domain.Booking, error) {
	body, err := send(ctx, "bookings", fiber.Get(c.URL), c.Timeout)
	if err != nil {
		return nil, err
	}
	var out []domain.Booking
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("bookings: decode: %w", err)
	}
	return out, nil
}
