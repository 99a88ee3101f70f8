package events

// Note activity event types
const (
	NoteCreated         = "NOTE_CREATED"
	NoteUpdated         = "NOTE_UPDATED"
	NoteDeleted         = "NOTE_DELETED"
	CollaboratorAdded   = "COLLABORATOR_ADDED"
	CollaboratorRemoved = "COLLABORATOR_REMOVED"
)

// Kafka topics
const (
	NoteActivityTopic = "note.activity"
)
