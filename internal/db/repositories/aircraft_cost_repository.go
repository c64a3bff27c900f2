package repositories

import (
	"context"

	"charterops/flightdeck/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// AircraftCostRepository handles the aircraft cost profile table
type AircraftCostRepository struct {
	db *gormlib.DB
}

// NewAircraftCostRepository creates a new aircraft cost repository
func NewAircraftCostRepository(db *gormlib.DB) *AircraftCostRepository {
	return &AircraftCostRepository{db: db}
}

// FindByModel finds a cost profile by aircraft model (case-insensitive)
func (r *AircraftCostRepository) FindByModel(ctx context.Context, model string) (*gorm.AircraftCostProfile, error) {
	var profile gorm.AircraftCostProfile

	err := r.db.WithContext(ctx).
		Where("UPPER(model) = UPPER(?)", model).
		First(&profile).Error

	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &profile, nil
}

// All returns every cost profile
func (r *AircraftCostRepository) All(ctx context.Context) ([]gorm.AircraftCostProfile, error) {
	var profiles []gorm.AircraftCostProfile
	err := r.db.WithContext(ctx).Find(&profiles).Error
	return profiles, err
}

// Upsert creates or updates the profile for one model
func (r *AircraftCostRepository) Upsert(ctx context.Context, profile *gorm.AircraftCostProfile) error {
	var existing gorm.AircraftCostProfile
	err := r.db.WithContext(ctx).
		Where("UPPER(model) = UPPER(?)", profile.Model).
		First(&existing).Error

	if err == gormlib.ErrRecordNotFound {
		return r.db.WithContext(ctx).Create(profile).Error
	}
	if err != nil {
		return err
	}

	profile.ID = existing.ID
	return r.db.WithContext(ctx).Save(profile).Error
}

// Count returns total number of cost profiles
func (r *AircraftCostRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&gorm.AircraftCostProfile{}).Count(&count).Error
	return count, err
}
