// Package events publishes accommodation change notifications.
package events

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/IBM/sarama"

	"accommodations/internal/domain"
)

type Publisher interface {
	Publish(ctx context.Context, ev domain.AccommodationEvent) error
	Close() error
}

type Noop struct{}

func (Noop) Publish(context.Context, domain.AccommodationEvent) error { return nil }
func (Noop) Close() error                                             { return nil }

type KafkaPublisher struct {
	sync  sarama.SyncProducer
	topic string
}

func NewKafkaPublisher(brokers []string, topic string, cfg *sarama.Config) (*KafkaPublisher, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	sync, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return NewKafkaPublisherFromProducer(sync, topic), nil
}

func NewKafkaPublisherFromProducer(p sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{sync: p, topic: topic}
}

// Publish keys messages by accommodation id so all events of one record land
// on the same partition.
func (p *KafkaPublisher) Publish(ctx context.Context, ev domain.AccommodationEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(ev.AccommodationID, 10)),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(ev.Type)},
			{Key: []byte("event-id"), Value: []byte(ev.ID)},
		},
	}
	_, _, err = p.sync.SendMessage(msg)
	return err
}

func (p *KafkaPublisher) Close() error {
	if p.sync == nil {
		return nil
	}
	return p.sync.Close()
}
