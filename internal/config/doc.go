// Package config manages application configuration for the wellness API.
//
// Configuration is read from environment variables with defaults, then
// checked as a whole:
//
//	cfg, err := config.Load()
//	if err != nil { ... }
//	if err := cfg.Validate(); err != nil { ... }
//
// Validate reports every problem at once via errors.Join.
//
// # Configuration Groups
//
//   - ServerConfig: port, timeouts, CORS origins, idempotency TTL
//   - DatabaseConfig: SurrealDB connection
//   - PredictorConfig: model service URL, timeout and response cache
//   - ProgressConfig: XP per level and stress milestone
//   - JobsConfig: daily streak reset
//   - MetricsConfig: Prometheus endpoint
//   - RateLimitConfig: per-client token bucket
//
// # Environment Variables
//
//	SERVER_PORT                 - HTTP port (default: 8080)
//	SERVER_ENV                  - development, production or test
//	CORS_ALLOWED_ORIGINS        - comma separated origins
//	DB_HOST, DB_PORT            - SurrealDB address
//	DB_NAMESPACE, DB_DATABASE   - SurrealDB namespace and database
//	PREDICTOR_BASE_URL          - model service root
//	PREDICTOR_TIMEOUT           - per-request timeout (default: 10s)
//	PREDICTOR_CACHE_SIZE        - cached responses, 0 disables (default: 1024)
//	PREDICTOR_CACHE_TTL         - cached response lifetime (default: 10m)
//	PROGRESS_XP_PER_LEVEL       - XP needed per level (default: 100)
//	PROGRESS_STRESS_MILESTONE   - levels per stress reduction (default: 100)
//	DAILY_RESET_INTERVAL        - streak reset period (default: 24h)
//	METRICS_ENABLED, METRICS_PATH
//	RATE_LIMIT_RATE, RATE_LIMIT_WINDOW, RATE_LIMIT_BURST
package config
