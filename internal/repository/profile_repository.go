package repository

import (
	"errors"

	"github.com/pizzeria-next/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository profile data access interface
type ProfileRepository interface {
	GetByID(id string) (*models.Profile, error)
	Upsert(profile *models.Profile) error
}

// GormProfileRepository GORM implementation
type GormProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a profile repository.
func NewProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// GetByID fetches one profile, nil when absent.
func (r *GormProfileRepository) GetByID(id string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("id = ?", id).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// Upsert creates or updates a profile by id.
func (r *GormProfileRepository) Upsert(profile *models.Profile) error {
	if profile == nil || profile.ID == "" {
		return nil
	}
	var existing models.Profile
	err := r.db.Where("id = ?", profile.ID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(profile).Error
	}
	if err != nil {
		return err
	}
	updates := map[string]interface{}{
		"full_name": profile.FullName,
		"phone":     profile.Phone,
		"address":   profile.Address,
	}
	return r.db.Model(&existing).Updates(updates).Error
}
