package repository

import (
	"context"
	"errors"

	"github.com/aman-churiwal/root-panel/internal/models"
	"github.com/aman-churiwal/root-panel/internal/storage"
	"gorm.io/gorm"
)

type RootRepository struct {
	db *storage.Postgres
}

func NewRootRepository(db *storage.Postgres) *RootRepository {
	return &RootRepository{db: db}
}

// Inserts root only while no root exists. Reports false when another root
// was already registered.
func (r *RootRepository) CreateFirst(ctx context.Context, root *models.Root) (bool, error) {
	created := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.WithContext(ctx).Model(&models.Root{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		if err := tx.WithContext(ctx).Create(root).Error; err != nil {
			return err
		}
		created = true
		return nil
	})

	return created, err
}

// Retrieves a root by email
func (r *RootRepository) FindByEmail(ctx context.Context, email string) (*models.Root, error) {
	var root models.Root
	err := r.db.DB.WithContext(ctx).
		Where("email = ?", email).
		First(&root).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &root, nil
}

// Retrieves a root by id
func (r *RootRepository) FindByID(ctx context.Context, id string) (*models.Root, error) {
	var root models.Root
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&root).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &root, nil
}

// Reports whether any root account has been registered
func (r *RootRepository) Exists(ctx context.Context) (bool, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.Root{}).
		Count(&count).Error

	return count > 0, err
}
