package repositories

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Aniket19c/FundooNotes/internal/models"
)

type LabelRepository interface {
	FindByIDAndOwner(id, ownerID uuid.UUID) (*models.Label, error)
	ListByOwner(ownerID uuid.UUID) ([]models.Label, error)
	Create(label *models.Label) error
	LinkExists(labelID, noteID uuid.UUID) (bool, error)
	CreateLink(link *models.NoteLabel) error
	LinkedNoteIDs(labelID uuid.UUID) ([]uuid.UUID, error)
	ListLinks(labelIDs []uuid.UUID) ([]models.NoteLabel, error)
	DeleteCascade(label *models.Label) error
}

type labelRepository struct {
	db *gorm.DB
}

func NewLabelRepository(db *gorm.DB) LabelRepository {
	return &labelRepository{db: db}
}

func (r *labelRepository) FindByIDAndOwner(id, ownerID uuid.UUID) (*models.Label, error) {
	var label models.Label
	if err := r.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&label).Error; err != nil {
		return nil, err
	}
	return &label, nil
}

func (r *labelRepository) ListByOwner(ownerID uuid.UUID) ([]models.Label, error) {
	var labels []models.Label
	err := r.db.Where("owner_id = ?", ownerID).Order("created_at ASC").Find(&labels).Error
	return labels, err
}

func (r *labelRepository) Create(label *models.Label) error {
	return r.db.Create(label).Error
}

func (r *labelRepository) LinkExists(labelID, noteID uuid.UUID) (bool, error) {
	var link models.NoteLabel
	err := r.db.Where("label_id = ? AND note_id = ?", labelID, noteID).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *labelRepository) CreateLink(link *models.NoteLabel) error {
	return r.db.Create(link).Error
}

func (r *labelRepository) LinkedNoteIDs(labelID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.NoteLabel{}).Where("label_id = ?", labelID).Pluck("note_id", &ids).Error
	return ids, err
}

// ListLinks returns the junction rows for the given labels with their notes
// preloaded, for building label summary views.
func (r *labelRepository) ListLinks(labelIDs []uuid.UUID) ([]models.NoteLabel, error) {
	if len(labelIDs) == 0 {
		return nil, nil
	}
	var links []models.NoteLabel
	err := r.db.Preload("Note").Where("label_id IN ?", labelIDs).Find(&links).Error
	return links, err
}

// DeleteCascade removes the label and all of its note links in one
// transaction. Notes formerly linked to it are left fully intact.
func (r *labelRepository) DeleteCascade(label *models.Label) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("label_id = ?", label.ID).Delete(&models.NoteLabel{}).Error; err != nil {
			return err
		}
		return tx.Delete(label).Error
	})
}
