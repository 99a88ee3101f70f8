package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/segmentio/kafka-go"

	"github.com/Aniket19c/FundooNotes/internal/events"
	"github.com/Aniket19c/FundooNotes/pkg/logger"
)

type EventHandler func(event events.NoteEvent) error

// Consumer reads note activity events and dispatches them to registered
// handlers by event type.
type Consumer struct {
	reader   *kafka.Reader
	handlers map[string][]EventHandler
}

func NewConsumer(brokers []string, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    events.NoteActivityTopic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	return &Consumer{
		reader:   reader,
		handlers: make(map[string][]EventHandler),
	}
}

// RegisterHandler registers a handler for a specific event type.
func (c *Consumer) RegisterHandler(eventType string, handler EventHandler) {
	c.handlers[eventType] = append(c.handlers[eventType], handler)
}

// Start consumes messages until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	for {
		message, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			logger.Log.Error().Err(err).Msg("kafka read failed")
			continue
		}

		var event events.NoteEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			logger.Log.Error().Err(err).Msg("failed to unmarshal note event")
			continue
		}

		for _, handler := range c.handlers[event.EventType] {
			if err := handler(event); err != nil {
				logger.Log.Error().Err(err).Str("eventType", event.EventType).Msg("event handler failed")
			}
		}
	}
}

// Close closes the Kafka reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
