package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Aniket19c/FundooNotes/internal/config"
	"github.com/Aniket19c/FundooNotes/internal/events"
	"github.com/Aniket19c/FundooNotes/internal/kafka"
	"github.com/Aniket19c/FundooNotes/pkg/logger"
)

// Audit consumer for the note activity topic. Runs separately from the
// data-access layer; it only listens, it never writes back.
func main() {
	logger.Init()
	cfg := config.Load()

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, "note-audit")

	consumer.RegisterHandler(events.NoteCreated, logNoteActivity)
	consumer.RegisterHandler(events.NoteUpdated, logNoteActivity)
	consumer.RegisterHandler(events.NoteDeleted, logNoteActivity)
	consumer.RegisterHandler(events.CollaboratorAdded, logCollaboratorActivity)
	consumer.RegisterHandler(events.CollaboratorRemoved, logCollaboratorActivity)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.Start(ctx)
	logger.Log.Info().Strs("brokers", cfg.KafkaBrokers).Msg("note activity consumer started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info().Msg("shutting down consumer")
	cancel()

	if err := consumer.Close(); err != nil {
		logger.Log.Error().Err(err).Msg("failed to close consumer")
	}
}

func logNoteActivity(event events.NoteEvent) error {
	logger.Log.Info().
		Str("eventType", event.EventType).
		Str("noteId", event.NoteID).
		Str("actorId", event.ActorID).
		Time("at", event.Timestamp).
		Msg("note activity")
	return nil
}

func logCollaboratorActivity(event events.NoteEvent) error {
	logger.Log.Info().
		Str("eventType", event.EventType).
		Str("noteId", event.NoteID).
		Str("actorId", event.ActorID).
		Str("targetUserId", event.TargetUserID).
		Time("at", event.Timestamp).
		Msg("collaborator change")
	return nil
}
