package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"

	"accommodations/internal/domain"
)

func TestKafkaPublisherSendsEventJSON(t *testing.T) {
	sp := mocks.NewSyncProducer(t, sarama.NewConfig())
	sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var ev domain.AccommodationEvent
		if err := json.Unmarshal(val, &ev); err != nil {
			return err
		}
		if ev.Type != domain.EventAccommodationCreated || ev.AccommodationID != 7 {
			return fmt.Errorf("unexpected event %+v", ev)
		}
		return nil
	})

	p := NewKafkaPublisherFromProducer(sp, "accommodations.events")
	err := p.Publish(context.Background(), domain.AccommodationEvent{
		ID:              "ev-1",
		Type:            domain.EventAccommodationCreated,
		AccommodationID: 7,
		Accommodation:   &domain.Accommodation{ID: 7, Name: "Hotel Tabor"},
		OccurredAt:      time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestKafkaPublisherReturnsBrokerError(t *testing.T) {
	sp := mocks.NewSyncProducer(t, sarama.NewConfig())
	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewKafkaPublisherFromProducer(sp, "accommodations.events")
	err := p.Publish(context.Background(), domain.AccommodationEvent{Type: domain.EventAccommodationDeleted, AccommodationID: 3})
	if !errors.Is(err, sarama.ErrOutOfBrokers) {
		t.Fatalf("want ErrOutOfBrokers, got %v", err)
	}
	_ = p.Close()
}
