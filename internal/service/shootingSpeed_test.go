package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/aman-churiwal/root-panel/internal/circuitbreaker"
	"github.com/aman-churiwal/root-panel/internal/models"
	"github.com/aman-churiwal/root-panel/internal/repository"
	"github.com/aman-churiwal/root-panel/internal/shooting"
	"github.com/aman-churiwal/root-panel/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func newShootingSpeedService(t *testing.T) (*ShootingSpeedService, *GeralLogService) {
	t.Helper()
	db := storagetest.NewDB(t)
	redis, _ := storagetest.NewRedis(t)
	logs := NewGeralLogService(repository.NewGeralLogRepository(db), 100, 10, time.Hour)
	svc := NewShootingSpeedService(repository.NewShootingSpeedRepository(db), redis, logs, time.Minute)
	return svc, logs
}

func TestValidateShootingSpeed(t *testing.T) {
	assert.NoError(t, ValidateShootingSpeed(ShootingSpeedInput{Name: "ok"}))

	err := ValidateShootingSpeed(ShootingSpeedInput{
		Name:             "  ",
		NumberShots:      -1,
		TimeBetweenShots: math.NaN(),
		TimeRest:         -3,
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.Equal(t, []string{"name", "numberShots", "timeBetweenShots", "timeRest"}, fields)
	assert.Equal(t, "name: name is required", err.Error())
}

func TestShootingSpeedService_CreateComputesDailyShots(t *testing.T) {
	svc, _ := newShootingSpeedService(t)
	ctx := context.Background()

	in := ShootingSpeedInput{Name: " burst ", Sequence: 1, NumberShots: 5, TimeBetweenShots: 2, TimeRest: 10}
	speed, err := svc.Create(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, "burst", speed.Name)
	assert.True(t, speed.Status, "status defaults to active")
	assert.Equal(t, 24000, speed.ShootingPerDay)
	assert.Equal(t, shooting.DailyShots(speed.Params()), speed.ShootingPerDay)

	inactive, err := svc.Create(ctx, ShootingSpeedInput{Name: "off", NumberShots: 1, TimeRest: 3600, Status: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, inactive.Status)
	assert.Equal(t, 24, inactive.ShootingPerDay)
}

func TestShootingSpeedService_CreateRejectsInvalid(t *testing.T) {
	svc, _ := newShootingSpeedService(t)

	_, err := svc.Create(context.Background(), ShootingSpeedInput{NumberShots: 2})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestShootingSpeedService_ListCacheInvalidation(t *testing.T) {
	svc, _ := newShootingSpeedService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, ShootingSpeedInput{Name: "b", Sequence: 2, NumberShots: 1, TimeRest: 60})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// served from cache, then invalidated by the next write
	_, err = svc.Create(ctx, ShootingSpeedInput{Name: "a", Sequence: 1, NumberShots: 1, TimeRest: 60})
	require.NoError(t, err)

	list, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Name)
	assert.Equal(t, "b", list[1].Name)
}

func TestShootingSpeedService_Update(t *testing.T) {
	svc, _ := newShootingSpeedService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, ShootingSpeedInput{Name: "x", NumberShots: 1, TimeRest: 3600})
	require.NoError(t, err)

	_, err = svc.List(ctx) // warm the cache
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, ShootingSpeedInput{
		Name: "x2", Sequence: 4, NumberShots: 3, TimeBetweenShots: 0, TimeRest: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, 2592, updated.ShootingPerDay)
	assert.True(t, updated.Status, "nil status keeps the stored value")

	fetched, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "x2", fetched.Name)
	assert.Equal(t, 4, fetched.Sequence)
	assert.Equal(t, 2592, fetched.ShootingPerDay)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2592, list[0].ShootingPerDay, "cache must not serve the stale value")

	_, err = svc.Update(ctx, 777, ShootingSpeedInput{Name: "ghost"})
	assert.ErrorIs(t, err, ErrShootingSpeedNotFound)
}

func TestShootingSpeedService_RecordsGeneralLogs(t *testing.T) {
	svc, logs := newShootingSpeedService(t)
	ctx := context.Background()

	logs.Start()
	_, err := svc.Create(ctx, ShootingSpeedInput{Name: "logged", NumberShots: 1, TimeRest: 60})
	require.NoError(t, err)
	logs.Close()

	entries, err := logs.List(ctx, models.LogInfo, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "shooting-speed", entries[0].Entity)
	assert.Contains(t, entries[0].Value, `"logged"`)
	assert.Contains(t, entries[0].Value, "1440 shots/day")
}

func TestShootingSpeedService_ListSurvivesRedisOutage(t *testing.T) {
	db := storagetest.NewDB(t)
	redis, mr := storagetest.NewRedis(t)
	svc := NewShootingSpeedService(repository.NewShootingSpeedRepository(db), redis, nil, time.Minute)
	ctx := context.Background()

	_, err := svc.Create(ctx, ShootingSpeedInput{Name: "steady", NumberShots: 1, TimeRest: 3600})
	require.NoError(t, err)

	mr.Close()

	for i := 0; i < 6; i++ {
		list, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, 24, list[0].ShootingPerDay)
	}
	assert.Equal(t, circuitbreaker.StateOpen, svc.cache.State())
}
