package repository

import (
	"context"
	"time"

	"github.com/aman-churiwal/root-panel/internal/models"
	"github.com/aman-churiwal/root-panel/internal/storage"
)

type GeralLogRepository struct {
	db *storage.Postgres
}

func NewGeralLogRepository(db *storage.Postgres) *GeralLogRepository {
	return &GeralLogRepository{db: db}
}

// Inserts multiple log lines in one statement
func (r *GeralLogRepository) CreateBatch(ctx context.Context, logs []models.GeralLog) error {
	if len(logs) == 0 {
		return nil
	}

	return r.db.DB.WithContext(ctx).Create(&logs).Error
}

// Retrieves logs newest first, optionally filtered by level
func (r *GeralLogRepository) List(ctx context.Context, logType models.LogType, limit, offset int) ([]models.GeralLog, error) {
	logs := make([]models.GeralLog, 0)

	query := r.db.DB.WithContext(ctx).Model(&models.GeralLog{})
	if logType != "" {
		query = query.Where("type = ?", logType)
	}

	err := query.
		Order("create_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error

	return logs, err
}

// Counts logs of one level (all levels when logType is empty)
func (r *GeralLogRepository) Count(ctx context.Context, logType models.LogType) (int64, error) {
	var count int64

	query := r.db.DB.WithContext(ctx).Model(&models.GeralLog{})
	if logType != "" {
		query = query.Where("type = ?", logType)
	}

	err := query.Count(&count).Error
	return count, err
}

// Deletes logs older than the specified time
func (r *GeralLogRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.DB.WithContext(ctx).
		Where("create_at < ?", before).
		Delete(&models.GeralLog{})

	return result.RowsAffected, result.Error
}
