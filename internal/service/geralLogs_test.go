package service

import (
	"context"
	"testing"
	"time"

	"github.com/aman-churiwal/root-panel/internal/models"
	"github.com/aman-churiwal/root-panel/internal/repository"
	"github.com/aman-churiwal/root-panel/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeralLogService_FlushOnBatchSize(t *testing.T) {
	repo := repository.NewGeralLogRepository(storagetest.NewDB(t))
	svc := NewGeralLogService(repo, 10, 2, time.Hour)
	svc.Start()
	defer svc.Close()

	svc.Record(models.LogInfo, "a", "one")
	svc.Record(models.LogWarn, "a", "two")

	assert.Eventually(t, func() bool {
		n, err := repo.Count(context.Background(), "")
		return err == nil && n == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGeralLogService_FlushOnTicker(t *testing.T) {
	repo := repository.NewGeralLogRepository(storagetest.NewDB(t))
	svc := NewGeralLogService(repo, 10, 100, 20*time.Millisecond)
	svc.Start()
	defer svc.Close()

	svc.Record(models.LogError, "http", "boom")

	assert.Eventually(t, func() bool {
		n, err := repo.Count(context.Background(), models.LogError)
		return err == nil && n == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGeralLogService_CloseDrainsQueue(t *testing.T) {
	repo := repository.NewGeralLogRepository(storagetest.NewDB(t))
	svc := NewGeralLogService(repo, 10, 100, time.Hour)
	svc.Start()

	for i := 0; i < 5; i++ {
		svc.Record(models.LogDebug, "drain", "entry")
	}
	svc.Close()
	svc.Close() // idempotent

	logs, err := svc.List(context.Background(), models.LogDebug, 10, 0)
	require.NoError(t, err)
	assert.Len(t, logs, 5)
	assert.NotEqual(t, logs[0].Hash, logs[1].Hash)
}

func TestGeralLogService_DropsWhenFull(t *testing.T) {
	repo := repository.NewGeralLogRepository(storagetest.NewDB(t))
	svc := NewGeralLogService(repo, 1, 100, time.Hour)

	// not started: the buffer holds exactly one entry
	svc.Record(models.LogInfo, "x", "kept")
	svc.Record(models.LogInfo, "x", "dropped")
	assert.Len(t, svc.entries, 1)

	var nilSvc *GeralLogService
	assert.NotPanics(t, func() { nilSvc.Record(models.LogInfo, "x", "y") })
}

func TestGeralLogService_Prune(t *testing.T) {
	repo := repository.NewGeralLogRepository(storagetest.NewDB(t))
	svc := NewGeralLogService(repo, 10, 100, time.Hour)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, repo.CreateBatch(ctx, []models.GeralLog{
		{Type: models.LogInfo, Hash: "old", CreateAt: now.Add(-48 * time.Hour)},
		{Type: models.LogInfo, Hash: "new", CreateAt: now},
	}))

	deleted, err := svc.Prune(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	logs, err := svc.List(ctx, "", 10, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "new", logs[0].Hash)
}
