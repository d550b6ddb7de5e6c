package services

import (
	"context"
	"fmt"
	"time"

	"accommodations/internal/domain"
	"accommodations/internal/telemetry"
)

const GaugeAvailabilityError = "services.accommodations.availability.error"

type BookingLister interface {
	List(ctx context.Context) ([]domain.Booking, error)
}

type AvailabilityService struct {
	Bookings BookingLister
	Metrics  telemetry.Telemetry
}

func NewAvailabilityService(bookings BookingLister, metrics telemetry.Telemetry) *AvailabilityService {
	if metrics == nil {
		metrics = telemetry.Noop{}
	}
	return &AvailabilityService{Bookings: bookings, Metrics: metrics}
}

// Check answers whether accommodationID is free at from. The interval must be
// non-empty; to only takes part in that validation.
func (s *AvailabilityService) Check(ctx context.Context, accommodationID int64, from, to time.Time) (bool, error) {
	if !from.Before(to) {
		return false, domain.ErrInvalidInterval
	}
	bookings, err := s.Bookings.List(ctx)
	if err != nil {
		s.Metrics.Submit(GaugeAvailabilityError, 1)
		return false, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}
	s.Metrics.Submit(GaugeAvailabilityError, 0)
	return IsAvailable(bookings, accommodationID, from), nil
}

// IsAvailable reports whether no booking of accommodationID covers start.
// Only the start instant is tested, not overlap with the whole requested
// interval; callers relying on full-interval semantics must not use it.
func IsAvailable(bookings []domain.Booking, accommodationID int64, start time.Time) bool {
	for _, b := range bookings {
		if b.IDAccommodation != accommodationID {
			continue
		}
		if b.Covers(start) {
			return false
		}
	}
	return true
}
