package healthcheck

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecker_MarksUnhealthyAfterMaxFailures(t *testing.T) {
	var failing atomic.Bool
	failing.Store(true)

	checker := NewChecker(Config{
		Probes: map[string]Probe{
			"database": func(ctx context.Context) error { return nil },
			"redis": func(ctx context.Context) error {
				if failing.Load() {
					return errors.New("connection refused")
				}
				return nil
			},
		},
		MaxFailures: 2,
	})

	checker.CheckAll()
	assert.Equal(t, Healthy, checker.OverallHealth(), "one failure is tolerated")

	checker.CheckAll()
	assert.Equal(t, Degraded, checker.OverallHealth())

	statuses := checker.Statuses()
	require.Len(t, statuses, 2)
	assert.Equal(t, "database", statuses[0].Name)
	assert.True(t, statuses[0].IsHealthy)
	assert.Equal(t, "redis", statuses[1].Name)
	assert.False(t, statuses[1].IsHealthy)
	assert.Equal(t, 2, statuses[1].FailureCount)
	assert.Equal(t, "connection refused", statuses[1].LastError)

	failing.Store(false)
	checker.CheckAll()
	assert.Equal(t, Healthy, checker.OverallHealth())
	assert.Empty(t, checker.Statuses()[1].LastError)
}

func TestChecker_AllDown(t *testing.T) {
	down := func(ctx context.Context) error { return errors.New("down") }
	checker := NewChecker(Config{
		Probes:      map[string]Probe{"a": down, "b": down},
		MaxFailures: 1,
	})

	checker.CheckAll()
	assert.Equal(t, Unhealthy, checker.OverallHealth())
	assert.Equal(t, "unhealthy", checker.OverallHealth().String())
}

func TestChecker_ProbesInBackground(t *testing.T) {
	var calls atomic.Int32
	checker := NewChecker(Config{
		Probes:   map[string]Probe{"x": func(ctx context.Context) error { calls.Add(1); return nil }},
		Interval: 10 * time.Millisecond,
	})

	checker.Start()
	checker.Start() // no second loop
	defer checker.Stop()

	assert.GreaterOrEqual(t, calls.Load(), int32(1), "first probe runs synchronously")
	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	checker.Stop()
	checker.Stop()
}

func TestChecker_ProbeTimeout(t *testing.T) {
	checker := NewChecker(Config{
		Probes: map[string]Probe{"slow": func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}},
		Timeout:     10 * time.Millisecond,
		MaxFailures: 1,
	})

	checker.CheckAll()
	assert.Equal(t, Unhealthy, checker.OverallHealth())
	assert.Contains(t, checker.Statuses()[0].LastError, "deadline exceeded")
}
