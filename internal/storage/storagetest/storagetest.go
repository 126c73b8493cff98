// Package storagetest provides throwaway storage backends for tests: an
// in-memory sqlite database behind the gorm wrapper and an in-process redis.
package storagetest

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aman-churiwal/root-panel/internal/storage"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Opens a migrated in-memory database that lives until the test ends.
func NewDB(t testing.TB) *storage.Postgres {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	pg := &storage.Postgres{DB: db}
	if err := pg.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { _ = pg.Close() })
	return pg
}

// Starts an in-process redis and returns a client for it together with the
// server, so tests can inspect keys or fast-forward TTLs.
func NewRedis(t testing.TB) (*storage.RedisClient, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return storage.NewRedisFromClient(client), mr
}
