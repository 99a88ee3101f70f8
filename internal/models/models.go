package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Note is the durable row behind every note operation. Exactly one owner;
// pinned/archived/trashed are independent booleans.
type Note struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"ownerId"`
	Title           string     `gorm:"size:255;not null" json:"title"`
	Description     string     `gorm:"type:text" json:"description"`
	Reminder        *time.Time `json:"reminder,omitempty"`
	BackgroundColor string     `gorm:"size:32" json:"backgroundColor"`
	Image           string     `gorm:"size:512" json:"image"`
	Pinned          bool       `gorm:"default:false" json:"pinned"`
	Archived        bool       `gorm:"default:false" json:"archived"`
	Trashed         bool       `gorm:"default:false" json:"trashed"`
	CreatedAt       time.Time  `json:"createdAt"`
	EditedAt        time.Time  `json:"editedAt"`
}

func (n *Note) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.EditedAt.IsZero() {
		n.EditedAt = time.Now()
	}
	return
}

// Collaborator grants a user access to somebody else's note.
// A (noteId, userId) pair is unique.
type Collaborator struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	NoteID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_note_user" json:"noteId"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_note_user" json:"userId"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	CreatedAt time.Time `json:"createdAt"`

	Note Note `gorm:"foreignKey:NoteID" json:"-"`
}

func (c *Collaborator) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// Label is owned by a single user and linked to notes through NoteLabel.
type Label struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"ownerId"`
	Name      string    `gorm:"size:150;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (l *Label) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

// NoteLabel is the note<->label junction row. Both sides must belong to the
// same owning user; uniqueness keeps link attempts idempotent.
type NoteLabel struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	NoteID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_note_label" json:"noteId"`
	LabelID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_note_label" json:"labelId"`

	Note  Note  `gorm:"foreignKey:NoteID" json:"-"`
	Label Label `gorm:"foreignKey:LabelID" json:"-"`
}

func (nl *NoteLabel) BeforeCreate(tx *gorm.DB) (err error) {
	if nl.ID == uuid.Nil {
		nl.ID = uuid.New()
	}
	return
}
