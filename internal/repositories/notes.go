package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Aniket19c/FundooNotes/internal/models"
)

// NoteRepository is the durable source of truth for note rows.
type NoteRepository interface {
	FindByID(id uuid.UUID) (*models.Note, error)
	FindByIDAndOwner(id, ownerID uuid.UUID) (*models.Note, error)
	FindByOwner(ownerID uuid.UUID) ([]models.Note, error)
	FindByIDs(ids []uuid.UUID) ([]models.Note, error)
	Create(note *models.Note) error
	Save(note *models.Note) error
	UpdateFields(id uuid.UUID, updates map[string]interface{}) error
	DeleteCascade(note *models.Note) error
}

type noteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) FindByID(id uuid.UUID) (*models.Note, error) {
	var note models.Note
	if err := r.db.First(&note, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) FindByIDAndOwner(id, ownerID uuid.UUID) (*models.Note, error) {
	var note models.Note
	if err := r.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) FindByOwner(ownerID uuid.UUID) ([]models.Note, error) {
	var notes []models.Note
	err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&notes).Error
	return notes, err
}

func (r *noteRepository) FindByIDs(ids []uuid.UUID) ([]models.Note, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var notes []models.Note
	err := r.db.Where("id IN ?", ids).Order("created_at DESC").Find(&notes).Error
	return notes, err
}

func (r *noteRepository) Create(note *models.Note) error {
	return r.db.Create(note).Error
}

func (r *noteRepository) Save(note *models.Note) error {
	return r.db.Save(note).Error
}

func (r *noteRepository) UpdateFields(id uuid.UUID, updates map[string]interface{}) error {
	return r.db.Model(&models.Note{}).Where("id = ?", id).Updates(updates).Error
}

// DeleteCascade removes the note together with its collaborator and label
// link rows in a single transaction. Labels themselves are untouched.
func (r *noteRepository) DeleteCascade(note *models.Note) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("note_id = ?", note.ID).Delete(&models.Collaborator{}).Error; err != nil {
			return err
		}
		if err := tx.Where("note_id = ?", note.ID).Delete(&models.NoteLabel{}).Error; err != nil {
			return err
		}
		return tx.Delete(note).Error
	})
}
