package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"accommodations/internal/domain"
	"accommodations/internal/events"
	"accommodations/internal/telemetry"
)

const CounterGetAllInvoked = "meter.services.accommodations.getAll.invoked"

// AccommodationStore is the persistence contract. Implementations must be
// safe for concurrent use.
type AccommodationStore interface {
	Insert(ctx context.Context, a domain.Accommodation) (domain.Accommodation, error)
	FindAll(ctx context.Context) ([]domain.Accommodation, error)
	FindByID(ctx context.Context, id int64) (*domain.Accommodation, error)
	FindByLocation(ctx context.Context, location string) ([]domain.Accommodation, error)
	FindByCapacity(ctx context.Context, capacity int) ([]domain.Accommodation, error)
	Update(ctx context.Context, id int64, f domain.AccommodationFields) (domain.Accommodation, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

type AccommodationService struct {
	Store   AccommodationStore
	Events  events.Publisher
	Metrics telemetry.Telemetry
}

func NewAccommodationService(store AccommodationStore, pub events.Publisher, metrics telemetry.Telemetry) *AccommodationService {
	if pub == nil {
		pub = events.Noop{}
	}
	if metrics == nil {
		metrics = telemetry.Noop{}
	}
	return &AccommodationService{Store: store, Events: pub, Metrics: metrics}
}

func (s *AccommodationService) List(ctx context.Context) ([]domain.Accommodation, error) {
	s.Metrics.Increment(CounterGetAllInvoked)
	return s.Store.FindAll(ctx)
}

// Get returns domain.ErrNotFound when no record has the id.
func (s *AccommodationService) Get(ctx context.Context, id int64) (domain.Accommodation, error) {
	a, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return domain.Accommodation{}, err
	}
	if a == nil {
		return domain.Accommodation{}, domain.ErrNotFound
	}
	return *a, nil
}

func (s *AccommodationService) ByLocation(ctx context.Context, location string) ([]domain.Accommodation, error) {
	return s.Store.FindByLocation(ctx, location)
}

func (s *AccommodationService) ByCapacity(ctx context.Context, capacity int) ([]domain.Accommodation, error) {
	return s.Store.FindByCapacity(ctx, capacity)
}

func (s *AccommodationService) Create(ctx context.Context, a domain.Accommodation) (domain.Accommodation, error) {
	created, err := s.Store.Insert(ctx, a)
	if err != nil {
		return domain.Accommodation{}, err
	}
	s.publish(ctx, domain.EventAccommodationCreated, created.ID, &created)
	return created, nil
}

func (s *AccommodationService) Update(ctx context.Context, id int64, f domain.AccommodationFields) (domain.Accommodation, error) {
	updated, err := s.Store.Update(ctx, id, f)
	if err != nil {
		return domain.Accommodation{}, err
	}
	s.publish(ctx, domain.EventAccommodationUpdated, id, &updated)
	return updated, nil
}

func (s *AccommodationService) Delete(ctx context.Context, id int64) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, domain.EventAccommodationDeleted, id, nil)
	return nil
}

func (s *AccommodationService) Ready(ctx context.Context) error { return s.Store.Ping(ctx) }

// publish is best effort: a broker outage never fails the request.
func (s *AccommodationService) publish(ctx context.Context, typ string, id int64, a *domain.Accommodation) {
	ev := domain.AccommodationEvent{
		ID:              uuid.NewString(),
		Type:            typ,
		AccommodationID: id,
		Accommodation:   a,
		OccurredAt:      time.Now().UTC(),
	}
	if err := s.Events.Publish(ctx, ev); err != nil {
		log.Printf("[events] publish %s id=%d failed: %v", typ, id, err)
	}
}
