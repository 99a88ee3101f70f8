package events

import (
	"time"

	"github.com/google/uuid"
)

// NoteEvent describes a completed note mutation. Events are published after
// the store write and cache invalidation are done; downstream consumers
// (audit log, notification fan-out) are never part of request correctness.
type NoteEvent struct {
	EventType    string    `json:"eventType"`
	NoteID       string    `json:"noteId"`
	OwnerID      string    `json:"ownerId"`
	ActorID      string    `json:"actorId"`
	TargetUserID string    `json:"targetUserId,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewNoteEvent creates a note activity event.
func NewNoteEvent(eventType string, noteID, ownerID, actorID uuid.UUID) *NoteEvent {
	return &NoteEvent{
		EventType: eventType,
		NoteID:    noteID.String(),
		OwnerID:   ownerID.String(),
		ActorID:   actorID.String(),
		Timestamp: time.Now(),
	}
}

// NewCollaboratorEvent creates a collaborator add/remove event carrying the
// affected user.
func NewCollaboratorEvent(eventType string, noteID, ownerID, actorID, targetUserID uuid.UUID) *NoteEvent {
	event := NewNoteEvent(eventType, noteID, ownerID, actorID)
	event.TargetUserID = targetUserID.String()
	return event
}
