package repositories

import (
	"errors"

	"github.com/nahid-dev/devconnect/backend/internal/models"
	"github.com/nahid-dev/devconnect/backend/pkg/apperrors"
	"gorm.io/gorm"
)

// EndorsementRepository defines the interface for skill endorsement operations
type EndorsementRepository interface {
	CreateEndorsement(endorsement *models.Endorsement) error
	GetByRecipient(toID uint) ([]models.Endorsement, error)
	GetByGiver(fromID uint) ([]models.Endorsement, error)
	DeleteEndorsement(id, fromID uint) error
}

type postgresEndorsementRepository struct {
	db *gorm.DB
}

func NewPostgresEndorsementRepository(db *gorm.DB) EndorsementRepository {
	return &postgresEndorsementRepository{db: db}
}

func (r *postgresEndorsementRepository) CreateEndorsement(endorsement *models.Endorsement) error {
	if err := r.db.Create(endorsement).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflictf("already endorsed this skill")
		}
		return err
	}
	return nil
}

func (r *postgresEndorsementRepository) GetByRecipient(toID uint) ([]models.Endorsement, error) {
	var endorsements []models.Endorsement
	err := r.db.Where("to_id = ?", toID).Order("created_at DESC").Find(&endorsements).Error
	return endorsements, err
}

func (r *postgresEndorsementRepository) GetByGiver(fromID uint) ([]models.Endorsement, error) {
	var endorsements []models.Endorsement
	err := r.db.Where("from_id = ?", fromID).Order("created_at DESC").Find(&endorsements).Error
	return endorsements, err
}

// DeleteEndorsement removes an endorsement; only its giver may delete it.
func (r *postgresEndorsementRepository) DeleteEndorsement(id, fromID uint) error {
	res := r.db.Where("id = ? AND from_id = ?", id, fromID).Delete(&models.Endorsement{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("endorsement not found or not yours")
	}
	return nil
}
