package repositories

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Aniket19c/FundooNotes/internal/models"
)

type CollaboratorRepository interface {
	Find(noteID, userID uuid.UUID) (*models.Collaborator, error)
	FindByNoteAndEmail(noteID uuid.UUID, email string) (*models.Collaborator, error)
	Exists(noteID, userID uuid.UUID) (bool, error)
	ListByNote(noteID uuid.UUID) ([]models.Collaborator, error)
	ListNoteIDsByUser(userID uuid.UUID) ([]uuid.UUID, error)
	Create(c *models.Collaborator) error
	Delete(c *models.Collaborator) error
}

type collaboratorRepository struct {
	db *gorm.DB
}

func NewCollaboratorRepository(db *gorm.DB) CollaboratorRepository {
	return &collaboratorRepository{db: db}
}

func (r *collaboratorRepository) Find(noteID, userID uuid.UUID) (*models.Collaborator, error) {
	var c models.Collaborator
	if err := r.db.Where("note_id = ? AND user_id = ?", noteID, userID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *collaboratorRepository) FindByNoteAndEmail(noteID uuid.UUID, email string) (*models.Collaborator, error) {
	var c models.Collaborator
	if err := r.db.Where("note_id = ? AND email = ?", noteID, email).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *collaboratorRepository) Exists(noteID, userID uuid.UUID) (bool, error) {
	_, err := r.Find(noteID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *collaboratorRepository) ListByNote(noteID uuid.UUID) ([]models.Collaborator, error) {
	var rows []models.Collaborator
	err := r.db.Where("note_id = ?", noteID).Find(&rows).Error
	return rows, err
}

func (r *collaboratorRepository) ListNoteIDsByUser(userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.Collaborator{}).Where("user_id = ?", userID).Pluck("note_id", &ids).Error
	return ids, err
}

func (r *collaboratorRepository) Create(c *models.Collaborator) error {
	return r.db.Create(c).Error
}

func (r *collaboratorRepository) Delete(c *models.Collaborator) error {
	return r.db.Delete(c).Error
}
