package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/aman-churiwal/root-panel/internal/circuitbreaker"
	"github.com/aman-churiwal/root-panel/internal/models"
	"github.com/aman-churiwal/root-panel/internal/repository"
	"github.com/aman-churiwal/root-panel/internal/storage"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const shootingSpeedListKey = "shootingspeeds:list"

// Editable fields of a shooting speed. Status nil means "keep" on update and
// "active" on create.
type ShootingSpeedInput struct {
	Name             string
	Sequence         int
	NumberShots      int
	TimeBetweenShots float64
	TimeRest         float64
	Status           *bool
}

type ShootingSpeedService struct {
	repository *repository.ShootingSpeedRepository
	redis      *storage.RedisClient
	logs       *GeralLogService
	cacheTTL   time.Duration
	cache      *circuitbreaker.CircuitBreaker
}

func NewShootingSpeedService(repo *repository.ShootingSpeedRepository, redis *storage.RedisClient, logs *GeralLogService, cacheTTL time.Duration) *ShootingSpeedService {
	return &ShootingSpeedService{
		repository: repo,
		redis:      redis,
		logs:       logs,
		cacheTTL:   cacheTTL,
		cache:      circuitbreaker.New("profile-cache", circuitbreaker.Config{}),
	}
}

// Checks the domain invariants of a profile input
func ValidateShootingSpeed(in ShootingSpeedInput) error {
	verr := &ValidationError{}

	if strings.TrimSpace(in.Name) == "" {
		verr.add("name", "name is required")
	}
	if in.NumberShots < 0 {
		verr.add("numberShots", "numberShots must be zero or greater")
	}
	if !finiteNonNegative(in.TimeBetweenShots) {
		verr.add("timeBetweenShots", "timeBetweenShots must be zero or greater")
	}
	if !finiteNonNegative(in.TimeRest) {
		verr.add("timeRest", "timeRest must be zero or greater")
	}

	return verr.orNil()
}

func finiteNonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Returns all profiles ordered by sequence, served from cache when possible
func (s *ShootingSpeedService) List(ctx context.Context) ([]models.ShootingSpeed, error) {
	if speeds, ok := s.cachedList(ctx); ok {
		return speeds, nil
	}

	speeds, err := s.repository.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		payload, _ := json.Marshal(speeds)
		err := s.cache.Call(func() error {
			return s.redis.Set(ctx, shootingSpeedListKey, payload, s.cacheTTL)
		})
		if err != nil && !errors.Is(err, circuitbreaker.ErrCircuitOpen) {
			log.Printf("Failed to cache shooting speeds: %v", err)
		}
	}

	return speeds, nil
}

func (s *ShootingSpeedService) cachedList(ctx context.Context) ([]models.ShootingSpeed, bool) {
	if s.redis == nil {
		return nil, false
	}

	var cached string
	err := s.cache.Call(func() error {
		var err error
		cached, err = s.redis.Get(ctx, shootingSpeedListKey)
		if errors.Is(err, redis.Nil) {
			// a miss is not a cache failure
			return nil
		}
		return err
	})
	if err != nil || cached == "" {
		return nil, false
	}

	var speeds []models.ShootingSpeed
	if err := json.Unmarshal([]byte(cached), &speeds); err != nil {
		return nil, false
	}
	return speeds, true
}

// Returns how many profiles are active and how many exist
func (s *ShootingSpeedService) Counts(ctx context.Context) (active, total int64, err error) {
	if active, err = s.repository.CountActive(ctx); err != nil {
		return 0, 0, err
	}
	if total, err = s.repository.Count(ctx); err != nil {
		return 0, 0, err
	}
	return active, total, nil
}

// Returns nil when no profile has the given id
func (s *ShootingSpeedService) Get(ctx context.Context, id uint) (*models.ShootingSpeed, error) {
	return s.repository.FindByID(ctx, id)
}

func (s *ShootingSpeedService) Create(ctx context.Context, in ShootingSpeedInput) (*models.ShootingSpeed, error) {
	if err := ValidateShootingSpeed(in); err != nil {
		return nil, err
	}

	speed := &models.ShootingSpeed{Status: true}
	apply(speed, in)
	speed.Recalculate()

	if err := s.repository.Create(ctx, speed); err != nil {
		return nil, fmt.Errorf("failed to create shooting speed: %w", err)
	}

	s.invalidateCache(ctx)
	s.logs.Record(models.LogInfo, "shooting-speed",
		fmt.Sprintf("created %q (#%d): %d shots/day", speed.Name, speed.ID, speed.ShootingPerDay))

	return speed, nil
}

// Replaces every editable field of the profile and recomputes its throughput
func (s *ShootingSpeedService) Update(ctx context.Context, id uint, in ShootingSpeedInput) (*models.ShootingSpeed, error) {
	if err := ValidateShootingSpeed(in); err != nil {
		return nil, err
	}

	speed, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if speed == nil {
		return nil, ErrShootingSpeedNotFound
	}

	apply(speed, in)
	speed.Recalculate()

	if err := s.repository.Save(ctx, speed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShootingSpeedNotFound
		}
		return nil, fmt.Errorf("failed to update shooting speed: %w", err)
	}

	s.invalidateCache(ctx)
	s.logs.Record(models.LogInfo, "shooting-speed",
		fmt.Sprintf("updated %q (#%d): %d shots/day", speed.Name, speed.ID, speed.ShootingPerDay))

	return speed, nil
}

func apply(speed *models.ShootingSpeed, in ShootingSpeedInput) {
	speed.Name = strings.TrimSpace(in.Name)
	speed.Sequence = in.Sequence
	speed.NumberShots = in.NumberShots
	speed.TimeBetweenShots = in.TimeBetweenShots
	speed.TimeRest = in.TimeRest
	if in.Status != nil {
		speed.Status = *in.Status
	}
}

func (s *ShootingSpeedService) invalidateCache(ctx context.Context) {
	if s.redis == nil {
		return
	}
	err := s.cache.Call(func() error {
		return s.redis.Del(ctx, shootingSpeedListKey)
	})
	if err != nil {
		// an open circuit may leave a stale list behind until its TTL runs out
		log.Printf("Failed to invalidate shooting speed cache: %v", err)
	}
}
