package repository

import (
	"context"
	"testing"
	"time"

	"github.com/aman-churiwal/root-panel/internal/models"
	"github.com/aman-churiwal/root-panel/internal/storage/storagetest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logAt(logType models.LogType, value string, at time.Time) models.GeralLog {
	return models.GeralLog{
		Type:     logType,
		Hash:     uuid.NewString(),
		Entity:   "test",
		Value:    value,
		CreateAt: at,
	}
}

func TestGeralLogRepository(t *testing.T) {
	repo := NewGeralLogRepository(storagetest.NewDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.CreateBatch(ctx, nil))
	require.NoError(t, repo.CreateBatch(ctx, []models.GeralLog{
		logAt(models.LogInfo, "old", now.Add(-48*time.Hour)),
		logAt(models.LogError, "boom", now.Add(-time.Minute)),
		logAt(models.LogInfo, "fresh", now),
	}))

	all, err := repo.List(ctx, "", 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "fresh", all[0].Value)
	assert.Equal(t, "old", all[2].Value)

	errorsOnly, err := repo.List(ctx, models.LogError, 10, 0)
	require.NoError(t, err)
	require.Len(t, errorsOnly, 1)
	assert.Equal(t, "boom", errorsOnly[0].Value)

	page, err := repo.List(ctx, "", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "boom", page[0].Value)

	count, err := repo.Count(ctx, models.LogInfo)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	deleted, err := repo.DeleteOlderThan(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
