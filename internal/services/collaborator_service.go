package services

import (
	"context"
	"errors"

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

// CollaboratorService grants and revokes shared access to notes. Only the
// owner may change the collaborator set; membership is resolved against the
// external user directory by email.
type CollaboratorService struct {
	collabs  repositories.CollaboratorRepository
	notes    repositories.NoteRepository
	resolver *Resolver
	cache    *cache.Service
	users    UserDirectory
	producer EventPublisher
}

func NewCollaboratorService(
	collabs repositories.CollaboratorRepository,
	notes repositories.NoteRepository,
	resolver *Resolver,
	c *cache.Service,
	users UserDirectory,
	producer EventPublisher,
) *CollaboratorService {
	return &CollaboratorService{
		collabs:  collabs,
		notes:    notes,
		resolver: resolver,
		cache:    c,
		users:    users,
		producer: producer,
	}
}

// Add grants email's user read/write access to the note. Owner-only.
func (s *CollaboratorService) Add(ctx context.Context, noteID, ownerID uuid.UUID, email string) responses.Response[*dto.CollaboratorView] {
	note, err := s.notes.FindByIDAndOwner(noteID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return responses.Fail[*dto.CollaboratorView]("Note not found")
		}
		logger.Log.Error().Err(err).Str("noteId", noteID.String()).Msg("failed to load note")
		return responses.Fail[*dto.CollaboratorView]("Internal error")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return responses.Fail[*dto.CollaboratorView]("Collaborator not found")
		}
		logger.Log.Error().Err(err).Str("email", email).Msg("user directory lookup failed")
		return responses.Fail[*dto.CollaboratorView]("Internal error")
	}

	exists, err := s.collabs.Exists(note.ID, user.UserID)
	if err != nil {
		logger.Log.Error().Err(err).Str("noteId", noteID.String()).Msg("failed to check collaborator")
		return responses.Fail[*dto.CollaboratorView]("Internal error")
	}
	if exists {
		return responses.Fail[*dto.CollaboratorView]("Collaborator is already added to this note")
	}

	row := &models.Collaborator{NoteID: note.ID, UserID: user.UserID, Email: user.Email}
	if err := s.collabs.Create(row); err != nil {
		logger.Log.Error().Err(err).Str("noteId", noteID.String()).Msg("failed to add collaborator")
		return responses.Fail[*dto.CollaboratorView]("Failed to add collaborator")
	}

	s.invalidateFor(ctx, note, user.UserID)
	s.publish(ctx, events.NewCollaboratorEvent(events.CollaboratorAdded, note.ID, note.OwnerID, ownerID, user.UserID))

	view := dto.CollaboratorView{ID: row.ID, NoteID: row.NoteID, UserID: row.UserID, Email: row.Email}
	return responses.Ok("Collaborator added successfully", &view)
}

// Remove revokes email's access. The removed user's cache entries are
// cleared so the note stops resolving for them immediately.
func (s *CollaboratorService) Remove(ctx context.Context, noteID, ownerID uuid.UUID, email string) responses.Response[*dto.CollaboratorView] {
	note, err := s.notes.FindByIDAndOwner(noteID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return responses.Fail[*dto.CollaboratorView]("Note not found")
		}
		logger.Log.Error().Err(err).Str("noteId", noteID.String()).Msg("failed to load note")
		return responses.Fail[*dto.CollaboratorView]("Internal error")
	}

	row, err := s.collabs.FindByNoteAndEmail(note.ID, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return responses.Fail[*dto.CollaboratorView]("Collaborator not found")
		}
		logger.Log.Error().Err(err).Str("noteId", noteID.String()).Msg("failed to load collaborator")
		return responses.Fail[*dto.CollaboratorView]("Internal error")
	}

	if err := s.collabs.Delete(row); err != nil {
		logger.Log.Error().Err(err).Str("noteId", noteID.String()).Msg("failed to remove collaborator")
		return responses.Fail[*dto.CollaboratorView]("Failed to remove collaborator")
	}

	s.invalidateFor(ctx, note, row.UserID)
	s.publish(ctx, events.NewCollaboratorEvent(events.CollaboratorRemoved, note.ID, note.OwnerID, ownerID, row.UserID))

	return responses.Ok[*dto.CollaboratorView]("Collaborator removed successfully", nil)
}

// List returns the note's collaborators to any authorized viewer.
// Read-through on the per-note collaborators key.
func (s *CollaboratorService) List(ctx context.Context, noteID, userID uuid.UUID) responses.Response[[]dto.CollaboratorView] {
	if _, err := s.resolver.Resolve(ctx, noteID, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return responses.Fail[[]dto.CollaboratorView]("Note not found")
		}
		logger.Log.Error().Err(err).Str("noteId", noteID.String()).Msg("failed to resolve note")
		return responses.Fail[[]dto.CollaboratorView]("Internal error")
	}

	if views, ok := s.cache.GetCollaborators(ctx, noteID); ok {
		return responses.Ok("Collaborators retrieved successfully", views)
	}

	rows, err := s.collabs.ListByNote(noteID)
	if err != nil {
		logger.Log.Error().Err(err).Str("noteId", noteID.String()).Msg("failed to list collaborators")
		return responses.Fail[[]dto.CollaboratorView]("Failed to retrieve collaborators")
	}

	views := dto.CollaboratorViewsFrom(rows)
	s.cache.SetCollaborators(ctx, noteID, views)
	return responses.Ok("Collaborators retrieved successfully", views)
}

// invalidateFor clears the entries a membership change makes stale: the
// note's collaborator list, and the per-note plus aggregate entries of both
// the owner and the affected user.
func (s *CollaboratorService) invalidateFor(ctx context.Context, note *models.Note, affected uuid.UUID) {
	s.cache.Invalidate(ctx,
		cache.CollaboratorsKey(note.ID),
		cache.NoteKey(note.ID, note.OwnerID),
		cache.NoteKey(note.ID, affected),
		cache.UserNotesKey(note.OwnerID),
		cache.UserNotesKey(affected),
	)
}

func (s *CollaboratorService) publish(ctx context.Context, event *events.NoteEvent) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishNoteEvent(ctx, event); err != nil {
		logger.Log.Warn().Err(err).Str("eventType", event.EventType).Msg("collaborator event publish failed")
	}
}
