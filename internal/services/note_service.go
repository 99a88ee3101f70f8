package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Aniket19c/FundooNotes/internal/cache"
	"github.com/Aniket19c/FundooNotes/internal/dto"
	"github.com/Aniket19c/FundooNotes/internal/events"
	"github.com/Aniket19c/FundooNotes/internal/models"
	"github.com/Aniket19c/FundooNotes/internal/repositories"
	"github.com/Aniket19c/FundooNotes/pkg/logger"
	"github.com/Aniket19c/FundooNotes/pkg/responses"
)

// EventPublisher pushes completed-mutation events to the activity topic.
// Publishing is best-effort and happens after invalidation; a nil publisher
// disables it.
type EventPublisher interface {
	PublishNoteEvent(ctx context.Context, event *events.NoteEvent) error
}

// ImageStore holds note image binaries outside the database.
type ImageStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// NoteFlag names one of the independently toggleable note booleans.
type NoteFlag string

const (
	FlagTrash   NoteFlag = "trash"
	FlagPin     NoteFlag = "pin"
	FlagArchive NoteFlag = "archive"
)

// column maps a flag to its note column. The set is closed on purpose:
// anything outside it is rejected instead of reaching the database.
func (f NoteFlag) column() (string, bool) {
	switch f {
	case FlagTrash:
		return "trashed", true
	case FlagPin:
		return "pinned", true
	case FlagArchive:
		return "archived", true
	default:
		return "", false
	}
}

// NoteService coordinates every note mutation: authorize through the
// resolver, write the store, then synchronously invalidate every cache entry
// the change could have made stale.
type NoteService struct {
	notes    repositories.NoteRepository
	collabs  repositories.CollaboratorRepository
	resolver *Resolver
	cache    *cache.Service
	producer EventPublisher
	images   ImageStore
}

func NewNoteService(
	notes repositories.NoteRepository,
	collabs repositories.CollaboratorRepository,
	resolver *Resolver,
	c *cache.Service,
	producer EventPublisher,
	images ImageStore,
) *NoteService {
	return &NoteService{
		notes:    notes,
		collabs:  collabs,
		resolver: resolver,
		cache:    c,
		producer: producer,
		images:   images,
	}
}

// Create inserts a note owned by ownerID and primes the owner's aggregate.
func (s *NoteService) Create(ctx context.Context, ownerID uuid.UUID, req dto.CreateNoteReq) responses.Response[*dto.NoteView] {
	note := &models.Note{
		OwnerID:         ownerID,
		Title:           req.Title,
		Description:     req.Description,
		Reminder:        req.Reminder,
		BackgroundColor: req.BackgroundColor,
		Pinned:          req.Pinned,
		Archived:        req.Archived,
		Trashed:         req.Trashed,
	}

	if err := s.notes.Create(note); err != nil {
		logger.Log.Error().Err(err).Str("ownerId", ownerID.String()).Msg("failed to create note")
		return responses.Fail[*dto.NoteView]("Failed to create note")
	}

	s.cache.Invalidate(ctx, cache.UserNotesKey(ownerID))
	s.primeAggregate(ctx, ownerID)

	s.publish(ctx, events.NewNoteEvent(events.NoteCreated, note.ID, note.OwnerID, ownerID))

	view := dto.NoteViewFrom(note)
	return responses.Ok("Note created successfully", &view)
}

// Retrieve returns the note when the caller is its owner or a collaborator.
func (s *NoteService) Retrieve(ctx context.Context, noteID, userID uuid.UUID) responses.Response[*dto.NoteView] {
	note, err := s.resolver.Resolve(ctx, noteID, userID)
	if err != nil {
		return s.failNote(err, "retrieve", noteID, userID)
	}
	view := dto.NoteViewFrom(note)
	return responses.Ok("Note retrieved successfully", &view)
}

// RetrieveAll returns every note visible to userID: owned plus collaborated.
// Read-through on the user's aggregate key.
func (s *NoteService) RetrieveAll(ctx context.Context, userID uuid.UUID) responses.Response[[]dto.NoteView] {
	if views, ok := s.cache.GetNoteList(ctx, userID); ok {
		return responses.Ok("All notes retrieved successfully", views)
	}

	views, err := s.loadVisibleNotes(userID)
	if err != nil {
		logger.Log.Error().Err(err).Str("userId", userID.String()).Msg("failed to list notes")
		return responses.Fail[[]dto.NoteView]("Failed to retrieve notes")
	}

	s.cache.SetNoteList(ctx, userID, views)
	return responses.Ok("All notes retrieved successfully", views)
}

// Update replaces title and description. Any authorized viewer may update;
// afterwards no viewer, owner or collaborator, sees the old content.
func (s *NoteService) Update(ctx context.Context, noteID, userID uuid.UUID, title, description string) responses.Response[*dto.NoteView] {
	note, err := s.resolver.Resolve(ctx, noteID, userID)
	if err != nil {
		return s.failNote(err, "update", noteID, userID)
	}

	viewerIDs, err := s.affectedViewers(note)
	if err != nil {
		logger.Log.Error().Err(err).Str("noteId", noteID.String()).Msg("failed to load collaborators")
		return responses.Fail[*dto.NoteView]("Failed to update note")
	}

	note.Title = title
	note.Description = description
	note.EditedAt = time.Now()
	if err := s.notes.Save(note); err != nil {
		logger.Log.Error().Err(err).Str("noteId", noteID.String()).Msg("failed to update note")
		return responses.Fail[*dto.NoteView]("Failed to update note")
	}

	s.invalidateNote(ctx, note.ID, viewerIDs)
	s.publish(ctx, events.NewNoteEvent(events.NoteUpdated, note.ID, note.OwnerID, userID))

	view := dto.NoteViewFrom(note)
	return responses.Ok("Note updated successfully", &view)
}

// Delete permanently removes a note. Owner-only: collaborators can see and
// edit, not destroy.
func (s *NoteService) Delete(ctx context.Context, noteID, userID uuid.UUID) responses.Response[*dto.NoteView] {
	note, err := s.resolver.Resolve(ctx, noteID, userID)
	if err != nil {
		return s.failNote(err, "delete", noteID, userID)
	}
	if note.OwnerID != userID {
		return responses.Fail[*dto.NoteView]("Only the owner can delete this note")
	}

	viewerIDs, err := s.affectedViewers(note)
	if err != nil {
		logger.Log.Error().Err(err).Str("noteId", noteID.String()).Msg("failed to load collaborators")
		return responses.Fail[*dto.NoteView]("Failed to delete note")
	}

	if err := s.notes.DeleteCascade(note); err != nil {
		logger.Log.Error().Err(err).Str("noteId", noteID.String()).Msg("failed to delete note")
		return responses.Fail[*dto.NoteView]("Failed to delete note")
	}

	s.invalidateNote(ctx, note.ID, viewerIDs)
	// Collaborator rows and label links went with the note.
	s.cache.Invalidate(ctx,
		cache.CollaboratorsKey(note.ID),
		cache.LabelsKey(note.OwnerID),
	)
	s.publish(ctx, events.NewNoteEvent(events.NoteDeleted, note.ID, note.OwnerID, userID))

	return responses.Ok[*dto.NoteView]("Note deleted successfully", nil)
}

// SetFlag sets one of the trash/pin/archive booleans. Idempotent; permitted
// for any authorized viewer.
func (s *NoteService) SetFlag(ctx context.Context, noteID, userID uuid.UUID, flag NoteFlag, value bool) responses.Response[*dto.NoteView] {
	col, ok := flag.column()
	if !ok {
		return responses.Fail[*dto.NoteView](fmt.Sprintf("Unknown note flag %q", flag))
	}

	note, err := s.resolver.Resolve(ctx, noteID, userID)
	if err != nil {
		return s.failNote(err, string(flag), noteID, userID)
	}

	viewerIDs, err := s.affectedViewers(note)
	if err != nil {
		logger.Log.Error().Err(err).Str("noteId", noteID.String()).Msg("failed to load collaborators")
		return responses.Fail[*dto.NoteView]("Failed to update note")
	}

	if err := s.notes.UpdateFields(note.ID, map[string]interface{}{col: value}); err != nil {
		logger.Log.Error().Err(err).Str("noteId", noteID.String()).Str("flag", string(flag)).Msg("failed to set flag")
		return responses.Fail[*dto.NoteView]("Failed to update note")
	}

	s.invalidateNote(ctx, note.ID, viewerIDs)
	s.publish(ctx, events.NewNoteEvent(events.NoteUpdated, note.ID, note.OwnerID, userID))

	return responses.Ok[*dto.NoteView](flagMessage(flag, value), nil)
}

// The flag operations exposed upward are thin wrappers over SetFlag.

func (s *NoteService) Trash(ctx context.Context, noteID, userID uuid.UUID) responses.Response[*dto.NoteView] {
	return s.SetFlag(ctx, noteID, userID, FlagTrash, true)
}

func (s *NoteService) Restore(ctx context.Context, noteID, userID uuid.UUID) responses.Response[*dto.NoteView] {
	return s.SetFlag(ctx, noteID, userID, FlagTrash, false)
}

func (s *NoteService) Pin(ctx context.Context, noteID, userID uuid.UUID) responses.Response[*dto.NoteView] {
	return s.SetFlag(ctx, noteID, userID, FlagPin, true)
}

func (s *NoteService) Archive(ctx context.Context, noteID, userID uuid.UUID) responses.Response[*dto.NoteView] {
	return s.SetFlag(ctx, noteID, userID, FlagArchive, true)
}

func (s *NoteService) Unarchive(ctx context.Context, noteID, userID uuid.UUID) responses.Response[*dto.NoteView] {
	return s.SetFlag(ctx, noteID, userID, FlagArchive, false)
}

// SetBackgroundColor recolors a note. Routed through the resolver like every
// other mutation so an unrelated caller cannot touch the row.
func (s *NoteService) SetBackgroundColor(ctx context.Context, noteID, userID uuid.UUID, color string) responses.Response[*dto.NoteView] {
	note, err := s.resolver.Resolve(ctx, noteID, userID)
	if err != nil {
		return s.failNote(err, "recolor", noteID, userID)
	}

	viewerIDs, err := s.affectedViewers(note)
	if err != nil {
		logger.Log.Error().Err(err).Str("noteId", noteID.String()).Msg("failed to load collaborators")
		return responses.Fail[*dto.NoteView]("Failed to update background color")
	}

	if err := s.notes.UpdateFields(note.ID, map[string]interface{}{"background_color": color}); err != nil {
		logger.Log.Error().Err(err).Str("noteId", noteID.String()).Msg("failed to update background color")
		return responses.Fail[*dto.NoteView]("Failed to update background color")
	}

	s.invalidateNote(ctx, note.ID, viewerIDs)
	s.publish(ctx, events.NewNoteEvent(events.NoteUpdated, note.ID, note.OwnerID, userID))

	return responses.Ok[*dto.NoteView]("Note background color updated successfully", nil)
}

// AttachImage uploads the image bytes to the blob store and persists only the
// returned reference on the note row.
func (s *NoteService) AttachImage(ctx context.Context, noteID, userID uuid.UUID, filename, contentType string, data []byte) responses.Response[*dto.NoteView] {
	note, err := s.resolver.Resolve(ctx, noteID, userID)
	if err != nil {
		return s.failNote(err, "attach image", noteID, userID)
	}

	if s.images == nil {
		return responses.Fail[*dto.NoteView]("Image storage is not configured")
	}

	viewerIDs, err := s.affectedViewers(note)
	if err != nil {
		logger.Log.Error().Err(err).Str("noteId", noteID.String()).Msg("failed to load collaborators")
		return responses.Fail[*dto.NoteView]("Failed to add image")
	}

	key := fmt.Sprintf("notes/%s/%s", note.ID, path.Base(filename))
	ref, err := s.images.Upload(ctx, key, data, contentType)
	if err != nil {
		logger.Log.Error().Err(err).Str("noteId", noteID.String()).Msg("image upload failed")
		return responses.Fail[*dto.NoteView]("Failed to add image")
	}

	if err := s.notes.UpdateFields(note.ID, map[string]interface{}{"image": ref}); err != nil {
		logger.Log.Error().Err(err).Str("noteId", noteID.String()).Msg("failed to persist image reference")
		return responses.Fail[*dto.NoteView]("Failed to add image")
	}
	note.Image = ref

	s.invalidateNote(ctx, note.ID, viewerIDs)
	s.publish(ctx, events.NewNoteEvent(events.NoteUpdated, note.ID, note.OwnerID, userID))

	view := dto.NoteViewFrom(note)
	return responses.Ok("Image added successfully", &view)
}

// affectedViewers lists every user whose caches the mutation can make stale:
// the owner plus all current collaborators. Computed from pre-mutation state
// so a viewer being removed still gets their entries cleared.
func (s *NoteService) affectedViewers(note *models.Note) ([]uuid.UUID, error) {
	rows, err := s.collabs.ListByNote(note.ID)
	if err != nil {
		return nil, err
	}
	viewers := make([]uuid.UUID, 0, len(rows)+1)
	viewers = append(viewers, note.OwnerID)
	for _, c := range rows {
		viewers = append(viewers, c.UserID)
	}
	return viewers, nil
}

// invalidateNote clears the per-viewer entry and the aggregate for every
// affected viewer in one round trip.
func (s *NoteService) invalidateNote(ctx context.Context, noteID uuid.UUID, viewerIDs []uuid.UUID) {
	keys := make([]string, 0, len(viewerIDs)*2)
	for _, v := range viewerIDs {
		keys = append(keys, cache.NoteKey(noteID, v), cache.UserNotesKey(v))
	}
	s.cache.Invalidate(ctx, keys...)
}

func (s *NoteService) loadVisibleNotes(userID uuid.UUID) ([]dto.NoteView, error) {
	owned, err := s.notes.FindByOwner(userID)
	if err != nil {
		return nil, err
	}
	sharedIDs, err := s.collabs.ListNoteIDsByUser(userID)
	if err != nil {
		return nil, err
	}
	shared, err := s.notes.FindByIDs(sharedIDs)
	if err != nil {
		return nil, err
	}
	return dto.NoteViewsFrom(append(owned, shared...)), nil
}

func (s *NoteService) primeAggregate(ctx context.Context, userID uuid.UUID) {
	views, err := s.loadVisibleNotes(userID)
	if err != nil {
		logger.Log.Warn().Err(err).Str("userId", userID.String()).Msg("failed to prime note aggregate")
		return
	}
	s.cache.SetNoteList(ctx, userID, views)
}

func (s *NoteService) publish(ctx context.Context, event *events.NoteEvent) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishNoteEvent(ctx, event); err != nil {
		logger.Log.Warn().Err(err).Str("eventType", event.EventType).Msg("note event publish failed")
	}
}

func (s *NoteService) failNote(err error, op string, noteID, userID uuid.UUID) responses.Response[*dto.NoteView] {
	if errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		return responses.Fail[*dto.NoteView]("Note not found")
	}
	logger.Log.Error().Err(err).Str("op", op).Str("noteId", noteID.String()).Str("userId", userID.String()).Msg("note operation failed")
	return responses.Fail[*dto.NoteView]("Internal error")
}

func flagMessage(flag NoteFlag, value bool) string {
	switch flag {
	case FlagTrash:
		if value {
			return "Note trashed successfully"
		}
		return "Note restored from trash successfully"
	case FlagPin:
		if value {
			return "Note pinned successfully"
		}
		return "Note unpinned successfully"
	case FlagArchive:
		if value {
			return "Note archived successfully"
		}
		return "Note unarchived successfully"
	}
	return "Note updated successfully"
}
