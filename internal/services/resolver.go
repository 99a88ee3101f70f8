package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Aniket19c/FundooNotes/internal/cache"
	"github.com/Aniket19c/FundooNotes/internal/models"
	"github.com/Aniket19c/FundooNotes/internal/repositories"
)

// Resolver answers the single question every operation starts with: may this
// user see this note? Access is granted to the owner or to an explicit
// collaborator; anything else is ErrNotFound.
type Resolver struct {
	cache   *cache.Service
	notes   repositories.NoteRepository
	collabs repositories.CollaboratorRepository
}

func NewResolver(c *cache.Service, notes repositories.NoteRepository, collabs repositories.CollaboratorRepository) *Resolver {
	return &Resolver{cache: c, notes: notes, collabs: collabs}
}

// Resolve returns the note when userID is its owner or a collaborator.
// Every successful resolution populates the per-viewer cache entry, so the
// cache warms itself on the read path.
func (r *Resolver) Resolve(ctx context.Context, noteID, userID uuid.UUID) (*models.Note, error) {
	if note, ok := r.cache.GetNote(ctx, noteID, userID); ok {
		return note, nil
	}

	note, err := r.notes.FindByIDAndOwner(noteID, userID)
	if err == nil {
		r.cache.SetNote(ctx, note, userID)
		return note, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("note lookup failed: %w", err)
	}

	isCollaborator, err := r.collabs.Exists(noteID, userID)
	if err != nil {
		return nil, fmt.Errorf("collaborator lookup failed: %w", err)
	}
	if isCollaborator {
		note, err := r.notes.FindByID(noteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Dangling collaborator row; treat as absent.
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("note lookup failed: %w", err)
		}
		r.cache.SetNote(ctx, note, userID)
		return note, nil
	}

	return nil, ErrNotFound
}
