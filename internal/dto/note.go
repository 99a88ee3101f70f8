package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/Aniket19c/FundooNotes/internal/models"
)

type CreateNoteReq struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Reminder        *time.Time `json:"reminder"`
	BackgroundColor string     `json:"backgroundColor"`
	Pinned          bool       `json:"pinned"`
	Archived        bool       `json:"archived"`
	Trashed         bool       `json:"trashed"`
}

// NoteView is the read model returned across the library boundary.
// The persisted entity never leaves the services package.
type NoteView struct {
	ID              uuid.UUID  `json:"id"`
	OwnerID         uuid.UUID  `json:"ownerId"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Reminder        *time.Time `json:"reminder,omitempty"`
	BackgroundColor string     `json:"backgroundColor"`
	Image           string     `json:"image"`
	Pinned          bool       `json:"pinned"`
	Archived        bool       `json:"archived"`
	Trashed         bool       `json:"trashed"`
	CreatedAt       time.Time  `json:"createdAt"`
	EditedAt        time.Time  `json:"editedAt"`
}

func NoteViewFrom(n *models.Note) NoteView {
	return NoteView{
		ID:              n.ID,
		OwnerID:         n.OwnerID,
		Title:           n.Title,
		Description:     n.Description,
		Reminder:        n.Reminder,
		BackgroundColor: n.BackgroundColor,
		Image:           n.Image,
		Pinned:          n.Pinned,
		Archived:        n.Archived,
		Trashed:         n.Trashed,
		CreatedAt:       n.CreatedAt,
		EditedAt:        n.EditedAt,
	}
}

func NoteViewsFrom(notes []models.Note) []NoteView {
	views := make([]NoteView, 0, len(notes))
	for i := range notes {
		views = append(views, NoteViewFrom(&notes[i]))
	}
	return views
}

// NoteSummary is the trimmed shape embedded in label listings.
type NoteSummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

type LabelView struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	CreatedAt time.Time     `json:"createdAt"`
	Notes     []NoteSummary `json:"notes"`
}

type CollaboratorView struct {
	ID     uuid.UUID `json:"id"`
	NoteID uuid.UUID `json:"noteId"`
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
}

func CollaboratorViewsFrom(rows []models.Collaborator) []CollaboratorView {
	views := make([]CollaboratorView, 0, len(rows))
	for _, c := range rows {
		views = append(views, CollaboratorView{
			ID:     c.ID,
			NoteID: c.NoteID,
			UserID: c.UserID,
			Email:  c.Email,
		})
	}
	return views
}
