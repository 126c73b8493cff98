package repository

import (
	"context"
	"errors"

	"github.com/aman-churiwal/root-panel/internal/models"
	"github.com/aman-churiwal/root-panel/internal/storage"
	"gorm.io/gorm"
)

type ShootingSpeedRepository struct {
	db *storage.Postgres
}

func NewShootingSpeedRepository(db *storage.Postgres) *ShootingSpeedRepository {
	return &ShootingSpeedRepository{db: db}
}

func (r *ShootingSpeedRepository) Create(ctx context.Context, speed *models.ShootingSpeed) error {
	return r.db.DB.WithContext(ctx).Create(speed).Error
}

func (r *ShootingSpeedRepository) FindByID(ctx context.Context, id uint) (*models.ShootingSpeed, error) {
	var speed models.ShootingSpeed
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&speed).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &speed, nil
}

// Returns all profiles ordered for display: by sequence, then by insertion
func (r *ShootingSpeedRepository) List(ctx context.Context) ([]models.ShootingSpeed, error) {
	speeds := make([]models.ShootingSpeed, 0)
	err := r.db.DB.WithContext(ctx).
		Order("sequence ASC").
		Order("id ASC").
		Find(&speeds).Error

	return speeds, err
}

// Writes every editable column of speed, zero values included
func (r *ShootingSpeedRepository) Save(ctx context.Context, speed *models.ShootingSpeed) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.ShootingSpeed{ID: speed.ID}).
		Select("name", "sequence", "number_shots", "time_between_shots", "time_rest", "status", "shooting_per_day").
		Updates(speed)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *ShootingSpeedRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.ShootingSpeed{}).
		Count(&count).Error

	return count, err
}

func (r *ShootingSpeedRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.ShootingSpeed{}).
		Where("status = ?", true).
		Count(&count).Error

	return count, err
}
