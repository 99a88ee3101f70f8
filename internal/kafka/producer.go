package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Aniket19c/FundooNotes/internal/events"
	"github.com/Aniket19c/FundooNotes/pkg/logger"
)

type Producer struct {
	noteWriter *kafka.Writer
}

// NewProducer creates a Kafka producer for the note activity topic.
func NewProducer(brokers []string) *Producer {
	noteWriter := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        events.NoteActivityTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	return &Producer{noteWriter: noteWriter}
}

// PublishNoteEvent publishes a note event to the note.activity topic.
// Keyed by note id so events for one note stay ordered.
func (p *Producer) PublishNoteEvent(ctx context.Context, event *events.NoteEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		logger.Log.Error().Err(err).Msg("failed to marshal note event")
		return err
	}

	message := kafka.Message{
		Key:   []byte(event.NoteID),
		Value: value,
		Time:  event.Timestamp,
	}

	if err := p.noteWriter.WriteMessages(ctx, message); err != nil {
		logger.Log.Error().Err(err).Str("eventType", event.EventType).Msg("failed to publish note event")
		return err
	}

	logger.Log.Info().Str("eventType", event.EventType).Str("noteId", event.NoteID).Msg("published note event")
	return nil
}

// Close closes the Kafka writer.
func (p *Producer) Close() error {
	if p.noteWriter != nil {
		return p.noteWriter.Close()
	}
	return nil
}
