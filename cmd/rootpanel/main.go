package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aman-churiwal/root-panel/internal/config"
	"github.com/aman-churiwal/root-panel/internal/server"
	"github.com/aman-churiwal/root-panel/internal/storage"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"gorm.io/gorm/logger"
)

func main() {
	// Load env if it exists
	godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logLevel := logger.Info
	if cfg.IsProduction() {
		logLevel = logger.Warn
	}

	postgres, err := storage.NewPostgres(cfg.Database.DSN, logLevel)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer postgres.Close()

	if err := postgres.AutoMigrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Println("Connected to postgres successfully")

	redis, err := storage.NewRedis(
		cfg.Redis.GetRedisAddr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	log.Println("Connected to redis successfully")

	srv, err := server.New(cfg, redis, postgres)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	srv.PruneLogs(context.Background())

	banner(cfg)

	go func() {
		addr := ":" + cfg.Server.Port
		if err := srv.Run(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

func banner(cfg *config.Config) {
	env := color.New(color.FgGreen, color.Bold)
	if cfg.IsProduction() {
		env = color.New(color.FgRed, color.Bold)
	}

	color.Cyan("root panel listening on :%s", cfg.Server.Port)
	env.Printf("environment: %s\n", cfg.Server.Environment)
	color.White("login throttle: %d attempts per %v (%s)",
		cfg.LoginLimit.Attempts, cfg.LoginLimit.Window(), cfg.LoginLimit.Algorithm)
}
