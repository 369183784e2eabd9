package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Predictor PredictorConfig
	Progress  ProgressConfig
	Jobs      JobsConfig
	Metrics   MetricsConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	Env             string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	IdempotencyTTL  time.Duration
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host           string
	Port           string
	Namespace      string
	Database       string
	User           string
	Password       string
	Secure         bool // connect over wss
	ConnectTimeout time.Duration
}

// PredictorConfig points at the lifestyle and stress model service
type PredictorConfig struct {
	BaseURL   string
	Timeout   time.Duration
	CacheSize int           // 0 disables the response cache
	CacheTTL  time.Duration // 0 keeps cached responses until evicted
}

// ProgressConfig tunes how completed activities become levels
type ProgressConfig struct {
	XPPerLevel      int
	StressMilestone int
}

// JobsConfig holds background job settings
type JobsConfig struct {
	DailyResetEnabled  bool
	DailyResetInterval time.Duration
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// RateLimitConfig holds per-client request limits
type RateLimitConfig struct {
	Enabled bool
	Rate    int
	Window  time.Duration
	Burst   int
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			Env:             getEnv("SERVER_ENV", "development"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			AllowedOrigins:  getSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			IdempotencyTTL:  getDurationEnv("IDEMPOTENCY_TTL", 24*time.Hour),
		},
		Database: DatabaseConfig{
			Host:      getEnv("DB_HOST", "localhost"),
			Port:      getEnv("DB_PORT", "8000"),
			Namespace: getEnv("DB_NAMESPACE", "wellness"),
			Database:  getEnv("DB_DATABASE", "main"),
			User:      getEnv("DB_USER", "root"),
			Password:  getEnv("DB_PASSWORD", "root"),
			Secure:    getBoolEnv("DB_SECURE", false),

			ConnectTimeout: getDurationEnv("DB_CONNECT_TIMEOUT", 10*time.Second),
		},
		Predictor: PredictorConfig{
			BaseURL:   getEnv("PREDICTOR_BASE_URL", "http://localhost:8000"),
			Timeout:   getDurationEnv("PREDICTOR_TIMEOUT", 10*time.Second),
			CacheSize: getIntEnv("PREDICTOR_CACHE_SIZE", 1024),
			CacheTTL:  getDurationEnv("PREDICTOR_CACHE_TTL", 10*time.Minute),
		},
		Progress: ProgressConfig{
			XPPerLevel:      getIntEnv("PROGRESS_XP_PER_LEVEL", 100),
			StressMilestone: getIntEnv("PROGRESS_STRESS_MILESTONE", 100),
		},
		Jobs: JobsConfig{
			DailyResetEnabled:  getBoolEnv("DAILY_RESET_ENABLED", true),
			DailyResetInterval: getDurationEnv("DAILY_RESET_INTERVAL", 24*time.Hour),
		},
		Metrics: MetricsConfig{
			Enabled: getBoolEnv("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
		RateLimit: RateLimitConfig{
			Enabled: getBoolEnv("RATE_LIMIT_ENABLED", true),
			Rate:    getIntEnv("RATE_LIMIT_RATE", 100),
			Window:  getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
			Burst:   getIntEnv("RATE_LIMIT_BURST", 20),
		},
	}, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	// Database validation
	if c.Database.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.Database.Port == "" {
		errs = append(errs, errors.New("DB_PORT is required"))
	}
	if c.Database.Namespace == "" {
		errs = append(errs, errors.New("DB_NAMESPACE is required"))
	}
	if c.Database.Database == "" {
		errs = append(errs, errors.New("DB_DATABASE is required"))
	}

	// Predictor validation
	if err := c.Predictor.Validate(); err != nil {
		errs = append(errs, err)
	}

	// Progress validation
	if c.Progress.XPPerLevel <= 0 {
		errs = append(errs, errors.New("PROGRESS_XP_PER_LEVEL must be positive"))
	}
	if c.Progress.StressMilestone <= 0 {
		errs = append(errs, errors.New("PROGRESS_STRESS_MILESTONE must be positive"))
	}

	// Jobs validation
	if c.Jobs.DailyResetEnabled && c.Jobs.DailyResetInterval < time.Minute {
		errs = append(errs, errors.New("DAILY_RESET_INTERVAL must be at least 1m"))
	}

	// Metrics validation
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("METRICS_PATH must start with '/', got '%s'", c.Metrics.Path))
	}

	// Rate limit validation
	if c.RateLimit.Enabled {
		if c.RateLimit.Rate <= 0 {
			errs = append(errs, errors.New("RATE_LIMIT_RATE must be positive"))
		}
		if c.RateLimit.Window <= 0 {
			errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks the predictor endpoint settings
func (p PredictorConfig) Validate() error {
	var errs []error
	if p.BaseURL == "" {
		errs = append(errs, errors.New("PREDICTOR_BASE_URL is required"))
	} else if u, err := url.Parse(p.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("PREDICTOR_BASE_URL must be an absolute URL, got '%s'", p.BaseURL))
	}
	if p.Timeout <= 0 {
		errs = append(errs, errors.New("PREDICTOR_TIMEOUT must be positive"))
	}
	if p.CacheSize < 0 {
		errs = append(errs, errors.New("PREDICTOR_CACHE_SIZE must not be negative"))
	}
	if p.CacheTTL < 0 {
		errs = append(errs, errors.New("PREDICTOR_CACHE_TTL must not be negative"))
	}
	return errors.Join(errs...)
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
