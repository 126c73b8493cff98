// Package healthcheck periodically probes the panel's backing services
// (postgres, redis) so /health can answer without touching them.
package healthcheck

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"
)

// Returns nil while the dependency is reachable
type Probe func(ctx context.Context) error

type Config struct {
	Probes      map[string]Probe
	Interval    time.Duration // How often to probe (default: 10s)
	Timeout     time.Duration // Per probe timeout (default: 2s)
	MaxFailures int           // Consecutive failures before marking unhealthy (default: 3)
}

type Checker struct {
	mu          sync.RWMutex
	probes      map[string]Probe
	status      map[string]*Status
	interval    time.Duration
	timeout     time.Duration
	maxFailures int
	stopChan    chan struct{}
	running     bool
}

func NewChecker(cfg Config) *Checker {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 3
	}

	checker := &Checker{
		probes:      cfg.Probes,
		status:      make(map[string]*Status, len(cfg.Probes)),
		interval:    cfg.Interval,
		timeout:     cfg.Timeout,
		maxFailures: cfg.MaxFailures,
		stopChan:    make(chan struct{}),
	}

	for name := range cfg.Probes {
		// Assume healthy until proven otherwise
		checker.status[name] = &Status{Name: name, IsHealthy: true}
	}

	return checker
}

// Probes once synchronously, then keeps probing in the background
func (c *Checker) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.mu.Unlock()

	c.CheckAll()

	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.CheckAll()
			case <-c.stopChan:
				return
			}
		}
	}()
}

func (c *Checker) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		close(c.stopChan)
		c.running = false
	}
}

// Runs every probe concurrently and records the outcomes
func (c *Checker) CheckAll() {
	var wg sync.WaitGroup

	for name, probe := range c.probes {
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
			defer cancel()

			c.record(name, probe(ctx))
		}()
	}

	wg.Wait()
}

func (c *Checker) record(name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := c.status[name]
	now := time.Now()
	status.LastCheck = now

	if err == nil {
		status.LastSuccess = now
		status.FailureCount = 0
		status.LastError = ""
		if !status.IsHealthy {
			log.Printf("Dependency %s is healthy again", name)
			status.IsHealthy = true
		}
		return
	}

	status.LastFailure = now
	status.LastError = err.Error()
	status.FailureCount++

	if status.IsHealthy && status.FailureCount >= c.maxFailures {
		log.Printf("Dependency %s is now unhealthy (failures: %d): %v", name, status.FailureCount, err)
		status.IsHealthy = false
	}
}

// Returns a copy of every dependency's status ordered by name
func (c *Checker) Statuses() []Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Status, 0, len(c.status))
	for _, status := range c.status {
		out = append(out, *status)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

func (c *Checker) OverallHealth() HealthStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	healthy := 0
	for _, status := range c.status {
		if status.IsHealthy {
			healthy++
		}
	}

	switch {
	case healthy == len(c.status):
		return Healthy
	case healthy == 0:
		return Unhealthy
	default:
		return Degraded
	}
}
