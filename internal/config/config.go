package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server     ServerConfig     `json:"server"`
	Database   DatabaseConfig   `json:"database"`
	Redis      RedisConfig      `json:"redis"`
	Auth       AuthConfig       `json:"auth"`
	LoginLimit LoginLimitConfig `json:"login_limit"`
	Cache      CacheConfig      `json:"cache"`
	Logs       LogsConfig       `json:"logs"`
}

type ServerConfig struct {
	Port           string   `json:"port"`
	Environment    string   `json:"environment"`
	AllowedOrigins []string `json:"allowed_origins"`
}

type DatabaseConfig struct {
	DSN string `json:"dsn"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type AuthConfig struct {
	JWTSecret   string `json:"jwt_secret"`
	ExpiryHours int    `json:"expiry_hours"`
}

// Throttling applied to POST /public/login per client IP
type LoginLimitConfig struct {
	Algorithm     string `json:"algorithm"` // "fixed_window" "sliding_window" "token_bucket"
	Attempts      int    `json:"attempts"`
	WindowSeconds int    `json:"window_seconds"`
}

type CacheConfig struct {
	ProfileTTLSeconds int `json:"profile_ttl_seconds"`
}

type LogsConfig struct {
	BufferSize           int `json:"buffer_size"`
	BatchSize            int `json:"batch_size"`
	FlushIntervalSeconds int `json:"flush_interval_seconds"`
	RetentionDays        int `json:"retention_days"`
}

var knownAlgorithms = map[string]bool{
	"fixed_window":   true,
	"sliding_window": true,
	"token_bucket":   true,
}

// Reads the JSON config at path, fills defaults and applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	config := Default()

	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// defaults + env only
	default:
		return nil, err
	}

	config.applyDefaults()
	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.Environment == "" {
		c.Server.Environment = "development"
	}
	if c.Redis.Host == "" {
		c.Redis.Host = "localhost"
	}
	if c.Redis.Port == "" {
		c.Redis.Port = "6379"
	}
	if c.Auth.ExpiryHours <= 0 {
		c.Auth.ExpiryHours = 24
	}
	if c.LoginLimit.Algorithm == "" {
		c.LoginLimit.Algorithm = "fixed_window"
	}
	if c.LoginLimit.Attempts <= 0 {
		c.LoginLimit.Attempts = 10
	}
	if c.LoginLimit.WindowSeconds <= 0 {
		c.LoginLimit.WindowSeconds = 60
	}
	if c.Cache.ProfileTTLSeconds <= 0 {
		c.Cache.ProfileTTLSeconds = 300
	}
	if c.Logs.BufferSize <= 0 {
		c.Logs.BufferSize = 1000
	}
	if c.Logs.BatchSize <= 0 {
		c.Logs.BatchSize = 100
	}
	if c.Logs.FlushIntervalSeconds <= 0 {
		c.Logs.FlushIntervalSeconds = 5
	}
	if c.Logs.RetentionDays <= 0 {
		c.Logs.RetentionDays = 30
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.Server.Environment = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		c.Redis.Port = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		c.Redis.DB = db
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("JWT_EXPIRY_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil || hours <= 0 {
			return fmt.Errorf("invalid JWT_EXPIRY_HOURS %q", v)
		}
		c.Auth.ExpiryHours = hours
	}

	return nil
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret (JWT_SECRET) is required")
	}
	if !knownAlgorithms[c.LoginLimit.Algorithm] {
		return fmt.Errorf("unknown login_limit.algorithm: %s", c.LoginLimit.Algorithm)
	}

	return nil
}

func (r RedisConfig) GetRedisAddr() string {
	return r.Host + ":" + r.Port
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (l LoginLimitConfig) Window() time.Duration {
	return time.Duration(l.WindowSeconds) * time.Second
}

func (c CacheConfig) ProfileTTL() time.Duration {
	return time.Duration(c.ProfileTTLSeconds) * time.Second
}

func (l LogsConfig) FlushInterval() time.Duration {
	return time.Duration(l.FlushIntervalSeconds) * time.Second
}

func (l LogsConfig) Retention() time.Duration {
	return time.Duration(l.RetentionDays) * 24 * time.Hour
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
