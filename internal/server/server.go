package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/aman-churiwal/root-panel/internal/config"
	"github.com/aman-churiwal/root-panel/internal/handler"
	"github.com/aman-churiwal/root-panel/internal/healthcheck"
	"github.com/aman-churiwal/root-panel/internal/middleware"
	"github.com/aman-churiwal/root-panel/internal/ratelimit"
	"github.com/aman-churiwal/root-panel/internal/repository"
	"github.com/aman-churiwal/root-panel/internal/service"
	"github.com/aman-churiwal/root-panel/internal/storage"
	"github.com/gin-gonic/gin"
)

type Server struct {
	router       *gin.Engine
	config       *config.Config
	redis        *storage.RedisClient
	postgres     *storage.Postgres
	logs         *service.GeralLogService
	authService  *service.AuthService
	speeds       *service.ShootingSpeedService
	loginLimiter ratelimit.Limiter
	health       *healthcheck.Checker
	httpServer   *http.Server
}

// Wires repositories, services and handlers and starts the general log
// writer and dependency probes. Shutdown stops them again.
func New(cfg *config.Config, redis *storage.RedisClient, postgres *storage.Postgres) (*Server, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	loginLimiter, err := ratelimit.NewLimiter(redis,
		cfg.LoginLimit.Algorithm,
		cfg.LoginLimit.Attempts,
		cfg.LoginLimit.Window(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create login limiter: %w", err)
	}

	logs := service.NewGeralLogService(
		repository.NewGeralLogRepository(postgres),
		cfg.Logs.BufferSize,
		cfg.Logs.BatchSize,
		cfg.Logs.FlushInterval(),
	)

	s := &Server{
		router:       gin.New(),
		config:       cfg,
		redis:        redis,
		postgres:     postgres,
		logs:         logs,
		authService:  service.NewAuthService(repository.NewRootRepository(postgres), cfg.Auth.JWTSecret, cfg.Auth.ExpiryHours),
		loginLimiter: loginLimiter,
		health:       healthcheck.NewChecker(healthcheck.Config{
			Probes: map[string]healthcheck.Probe{
				"redis":    redis.Ping,
				"database": postgres.Ping,
			},
		}),
	}

	s.speeds = service.NewShootingSpeedService(
		repository.NewShootingSpeedRepository(postgres),
		redis,
		logs,
		cfg.Cache.ProfileTTL(),
	)

	s.setupMiddleware()
	s.setupRoutes()

	logs.Start()
	s.health.Start()

	return s, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID())
	// outside Recovery so recovered panics are recorded too
	s.router.Use(middleware.ErrorLogRecorder(s.logs))
	s.router.Use(middleware.Recovery())
	s.router.Use(middleware.Logger())
	s.router.Use(middleware.CORS(s.config.Server.AllowedOrigins))
}

func (s *Server) setupRoutes() {
	shootingSpeedHandler := handler.NewShootingSpeedHandler(s.speeds)
	authHandler := handler.NewAuthHandler(s.authService, s.config.Auth.ExpiryHours, s.config.IsProduction())
	geralLogHandler := handler.NewGeralLogHandler(s.logs)

	s.router.GET("/health", s.healthCheck)

	public := s.router.Group("/public")
	{
		public.GET("/ex-root", authHandler.RootExists)
		public.POST("/register-root", authHandler.RegisterRoot)
		public.POST("/login", middleware.Throttle(s.loginLimiter, "login"), authHandler.Login)
	}

	root := s.router.Group("/root")
	root.Use(middleware.RequireAuth(s.authService))
	{
		root.GET("/verify-authorization", authHandler.Verify)
		root.GET("/status", s.rootStatus)

		root.GET("/rate-profiles", shootingSpeedHandler.List)
		root.POST("/rate-profiles", shootingSpeedHandler.Create)
		root.GET("/rate-profiles/:id", shootingSpeedHandler.Get)
		root.PUT("/rate-profiles/:id", shootingSpeedHandler.Update)

		root.GET("/geral-logs", geralLogHandler.List)
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	overall := s.health.OverallHealth()

	statusCode := http.StatusOK
	if overall != healthcheck.Healthy {
		statusCode = http.StatusServiceUnavailable
	}

	checks := gin.H{}
	for _, status := range s.health.Statuses() {
		checks[status.Name] = status.IsHealthy
	}

	c.JSON(statusCode, gin.H{
		"status":    overall.String(),
		"service":   "root-panel",
		"version":   "1.0.0",
		"uptime":    time.Since(startTime).Seconds(),
		"timestamp": time.Now().Unix(),
		"checks":    checks,
	})
}

func (s *Server) rootStatus(c *gin.Context) {
	active, total, err := s.speeds.Counts(c.Request.Context())
	if err != nil {
		log.Printf("[%s] status counts failed: %v", c.GetString("request_id"), err)
		handler.RespondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"panel":  "running",
		"health": s.health.OverallHealth().String(),
		"shootingSpeeds": gin.H{
			"active": active,
			"total":  total,
		},
		"uptime":    time.Since(startTime).Seconds(),
		"timestamp": time.Now().Unix(),
	})
}

// Deletes general logs past the configured retention
func (s *Server) PruneLogs(ctx context.Context) {
	before := time.Now().UTC().Add(-s.config.Logs.Retention())
	deleted, err := s.logs.Prune(ctx, before)
	if err != nil {
		log.Printf("Failed to prune general logs: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Pruned %d general logs older than %s", deleted, before.Format(time.RFC3339))
	}
}

func (s *Server) Run(addr string) error {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	log.Printf("Starting root panel on %s", addr)
	log.Printf("Environment: %s", s.config.Server.Environment)

	return s.httpServer.ListenAndServe()
}

// Stops accepting requests and flushes queued general logs
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down server...")

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	s.health.Stop()
	s.logs.Close()

	return err
}

func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

var startTime = time.Now()
