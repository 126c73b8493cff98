package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/aman-churiwal/root-panel/internal/models"
	"github.com/aman-churiwal/root-panel/internal/repository"
	"github.com/google/uuid"
)

// Records operator-facing logs asynchronously and serves them back.
// Record never blocks: entries are dropped when the buffer is full.
type GeralLogService struct {
	repository *repository.GeralLogRepository
	entries    chan models.GeralLog
	batchSize  int
	flushEvery time.Duration

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewGeralLogService(repo *repository.GeralLogRepository, bufferSize, batchSize int, flushEvery time.Duration) *GeralLogService {
	return &GeralLogService{
		repository: repo,
		entries:    make(chan models.GeralLog, bufferSize),
		batchSize:  batchSize,
		flushEvery: flushEvery,
		done:       make(chan struct{}),
	}
}

// Starts the background worker that batch inserts logs
func (s *GeralLogService) Start() {
	s.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		go s.run(ctx)
	})
}

// Stops the worker after flushing everything already queued
func (s *GeralLogService) Close() {
	s.stopOnce.Do(func() {
		if s.cancel == nil {
			return
		}
		s.cancel()
		<-s.done
	})
}

func (s *GeralLogService) run(ctx context.Context) {
	defer close(s.done)

	batch := make([]models.GeralLog, 0, s.batchSize)
	ticker := time.NewTicker(s.flushEvery)
	defer ticker.Stop()

	for {
		select {
		case entry := <-s.entries:
			batch = append(batch, entry)

			// Insert when batch is full
			if len(batch) >= s.batchSize {
				s.insertBatch(batch)
				batch = make([]models.GeralLog, 0, s.batchSize)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.insertBatch(batch)
				batch = make([]models.GeralLog, 0, s.batchSize)
			}
		case <-ctx.Done():
			for {
				select {
				case entry := <-s.entries:
					batch = append(batch, entry)
				default:
					s.insertBatch(batch)
					return
				}
			}
		}
	}
}

func (s *GeralLogService) insertBatch(batch []models.GeralLog) {
	if len(batch) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.repository.CreateBatch(ctx, batch); err != nil {
		// Log error but dont block
		log.Printf("Failed to insert %d general logs: %v", len(batch), err)
	}
}

// Queues a log line. Safe to call on a nil service.
func (s *GeralLogService) Record(logType models.LogType, entity, value string) {
	if s == nil {
		return
	}

	entry := models.GeralLog{
		Type:     logType,
		Hash:     uuid.NewString(),
		Entity:   entity,
		Value:    value,
		CreateAt: time.Now().UTC(),
	}

	select {
	case s.entries <- entry:
	default:
		log.Printf("General log buffer full, dropping %s entry for %s", logType, entity)
	}
}

// Retrieves persisted logs newest first
func (s *GeralLogService) List(ctx context.Context, logType models.LogType, limit, offset int) ([]models.GeralLog, error) {
	return s.repository.List(ctx, logType, limit, offset)
}

// Deletes logs created before the given time and returns how many went
func (s *GeralLogService) Prune(ctx context.Context, before time.Time) (int64, error) {
	return s.repository.DeleteOlderThan(ctx, before)
}
