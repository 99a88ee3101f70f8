package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Aniket19c/FundooNotes/internal/cache"
	"github.com/Aniket19c/FundooNotes/internal/dto"
	"github.com/Aniket19c/FundooNotes/internal/models"
	"github.com/Aniket19c/FundooNotes/internal/repositories"
	"github.com/Aniket19c/FundooNotes/pkg/logger"
	"github.com/Aniket19c/FundooNotes/pkg/responses"
)

// LabelService manages per-user labels and their note associations. Labels
// are strictly owner-scoped: collaborators never see each other's labels.
type LabelService struct {
	labels  repositories.LabelRepository
	notes   repositories.NoteRepository
	collabs repositories.CollaboratorRepository
	cache   *cache.Service
}

func NewLabelService(
	labels repositories.LabelRepository,
	notes repositories.NoteRepository,
	collabs repositories.CollaboratorRepository,
	c *cache.Service,
) *LabelService {
	return &LabelService{labels: labels, notes: notes, collabs: collabs, cache: c}
}

// CreateLabel creates a label for ownerID and, when noteID is given and the
// note is owned by the caller, links it in the same call. A bad noteID does
// not fail label creation, the link is just skipped.
func (s *LabelService) CreateLabel(ctx context.Context, ownerID uuid.UUID, name string, noteID *uuid.UUID) responses.Response[*dto.LabelView] {
	label := &models.Label{OwnerID: ownerID, Name: name}
	if err := s.labels.Create(label); err != nil {
		logger.Log.Error().Err(err).Str("ownerId", ownerID.String()).Msg("failed to create label")
		return responses.Fail[*dto.LabelView]("Failed to create label")
	}

	linked := false
	if noteID != nil {
		if _, err := s.notes.FindByIDAndOwner(*noteID, ownerID); err != nil {
			logger.Log.Warn().Err(err).Str("noteId", noteID.String()).Msg("skipping label link, note not owned by caller")
		} else if err := s.labels.CreateLink(&models.NoteLabel{NoteID: *noteID, LabelID: label.ID}); err != nil {
			logger.Log.Warn().Err(err).Str("noteId", noteID.String()).Msg("failed to link label to note")
		} else {
			linked = true
		}
	}

	keys := []string{cache.LabelsKey(ownerID)}
	if linked {
		keys = append(keys, cache.NoteKey(*noteID, ownerID), cache.UserNotesKey(ownerID))
	}
	s.cache.Invalidate(ctx, keys...)

	view := dto.LabelView{ID: label.ID, Name: label.Name, CreatedAt: label.CreatedAt}
	return responses.Ok("Label added successfully", &view)
}

// DeleteLabel removes a label and all its note links. The linked notes
// themselves are untouched.
func (s *LabelService) DeleteLabel(ctx context.Context, labelID, ownerID uuid.UUID) responses.Response[string] {
	label, err := s.labels.FindByIDAndOwner(labelID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return responses.Fail[string]("Label not found")
		}
		logger.Log.Error().Err(err).Str("labelId", labelID.String()).Msg("failed to load label")
		return responses.Fail[string]("Internal error")
	}

	// Snapshot links before the cascade so their cache entries can be cleared.
	noteIDs, err := s.labels.LinkedNoteIDs(label.ID)
	if err != nil {
		logger.Log.Error().Err(err).Str("labelId", labelID.String()).Msg("failed to load label links")
		return responses.Fail[string]("Failed to delete label")
	}

	if err := s.labels.DeleteCascade(label); err != nil {
		logger.Log.Error().Err(err).Str("labelId", labelID.String()).Msg("failed to delete label")
		return responses.Fail[string]("Failed to delete label")
	}

	keys := []string{cache.LabelsKey(ownerID), cache.UserNotesKey(ownerID)}
	for _, id := range noteIDs {
		keys = append(keys, cache.NoteKey(id, ownerID))
	}
	s.cache.Invalidate(ctx, keys...)

	return responses.Ok("Label deleted successfully", "")
}

// ListLabels returns all of the caller's labels with the notes linked to
// each. Read-through on the labels key.
func (s *LabelService) ListLabels(ctx context.Context, ownerID uuid.UUID) responses.Response[[]dto.LabelView] {
	if views, ok := s.cache.GetLabels(ctx, ownerID); ok {
		return responses.Ok("Labels retrieved successfully", views)
	}

	labels, err := s.labels.ListByOwner(ownerID)
	if err != nil {
		logger.Log.Error().Err(err).Str("ownerId", ownerID.String()).Msg("failed to list labels")
		return responses.Fail[[]dto.LabelView]("Failed to retrieve labels")
	}

	labelIDs := make([]uuid.UUID, 0, len(labels))
	for _, l := range labels {
		labelIDs = append(labelIDs, l.ID)
	}
	links, err := s.labels.ListLinks(labelIDs)
	if err != nil {
		logger.Log.Error().Err(err).Str("ownerId", ownerID.String()).Msg("failed to list label links")
		return responses.Fail[[]dto.LabelView]("Failed to retrieve labels")
	}

	notesByLabel := make(map[uuid.UUID][]dto.NoteSummary)
	for _, link := range links {
		notesByLabel[link.LabelID] = append(notesByLabel[link.LabelID], dto.NoteSummary{
			ID:          link.Note.ID,
			Title:       link.Note.Title,
			Description: link.Note.Description,
		})
	}

	views := make([]dto.LabelView, 0, len(labels))
	for _, l := range labels {
		views = append(views, dto.LabelView{
			ID:        l.ID,
			Name:      l.Name,
			CreatedAt: l.CreatedAt,
			Notes:     notesByLabel[l.ID],
		})
	}

	s.cache.SetLabels(ctx, ownerID, views)
	return responses.Ok("Labels retrieved successfully", views)
}

// LinkNoteToLabel associates an owned note with an owned label. Linking the
// same pair twice is rejected.
func (s *LabelService) LinkNoteToLabel(ctx context.Context, labelID, noteID, ownerID uuid.UUID) responses.Response[string] {
	label, err := s.labels.FindByIDAndOwner(labelID, ownerID)
	if err != nil {
		return s.failLink(err, labelID)
	}
	note, err := s.notes.FindByIDAndOwner(noteID, ownerID)
	if err != nil {
		return s.failLink(err, labelID)
	}

	exists, err := s.labels.LinkExists(label.ID, note.ID)
	if err != nil {
		logger.Log.Error().Err(err).Str("labelId", labelID.String()).Msg("failed to check label link")
		return responses.Fail[string]("Internal error")
	}
	if exists {
		return responses.Fail[string]("Note is already associated with this label")
	}

	if err := s.labels.CreateLink(&models.NoteLabel{NoteID: note.ID, LabelID: label.ID}); err != nil {
		logger.Log.Error().Err(err).Str("labelId", labelID.String()).Msg("failed to link note to label")
		return responses.Fail[string]("Failed to add note to label")
	}

	s.cache.Invalidate(ctx,
		cache.LabelsKey(ownerID),
		cache.NoteKey(note.ID, ownerID),
		cache.UserNotesKey(ownerID),
	)

	return responses.Ok("Note added to label successfully", "")
}

func (s *LabelService) failLink(err error, labelID uuid.UUID) responses.Response[string] {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return responses.Fail[string]("Label or note not found")
	}
	logger.Log.Error().Err(err).Str("labelId", labelID.String()).Msg("label link lookup failed")
	return responses.Fail[string]("Internal error")
}
