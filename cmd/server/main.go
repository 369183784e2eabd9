package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/forgo/wellness/api/internal/config"
	"github.com/forgo/wellness/api/internal/database"
	"github.com/forgo/wellness/api/internal/handler"
	"github.com/forgo/wellness/api/internal/jobs"
	"github.com/forgo/wellness/api/internal/metrics"
	"github.com/forgo/wellness/api/internal/middleware"
	"github.com/forgo/wellness/api/internal/model"
	"github.com/forgo/wellness/api/internal/predictor"
	"github.com/forgo/wellness/api/internal/repository"
	"github.com/forgo/wellness/api/internal/service"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
		Secure:    cfg.Database.Secure,

		ConnectTimeout: cfg.Database.ConnectTimeout,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	if err := database.ApplySchema(ctx, db); err != nil {
		slog.Error("failed to apply schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder, err := metrics.New(metrics.DefaultNamespace, registry)
	if err != nil {
		slog.Error("failed to register metrics", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Prediction service client
	predictorClient, err := predictor.New(predictor.Config{
		BaseURL:   cfg.Predictor.BaseURL,
		Timeout:   cfg.Predictor.Timeout,
		CacheSize: cfg.Predictor.CacheSize,
		CacheTTL:  cfg.Predictor.CacheTTL,
		Observer:  recorder,
	})
	if err != nil {
		slog.Error("failed to create predictor client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	planRepo := repository.NewPlanRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)

	eventHub := service.NewEventHub(0)

	// Initialize services
	assessmentService := service.NewAssessmentService(service.AssessmentServiceConfig{
		Results:   assessmentRepo,
		Users:     userRepo,
		Predictor: predictorClient,
		Observer:  recorder,
	})
	activityService := service.NewActivityService(service.ActivityServiceConfig{
		Activities: activityRepo,
		Plans:      planRepo,
		Users:      userRepo,
	})
	progressService := service.NewProgressService(service.ProgressServiceConfig{
		Users:       userRepo,
		Completions: progressRepo,
		Plans:       planRepo,
		Activities:  activityRepo,
		Rules: model.ProgressRules{
			XPPerLevel:      cfg.Progress.XPPerLevel,
			StressMilestone: cfg.Progress.StressMilestone,
		},
		Observer: recorder,
		Events:   eventHub,
	})

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(db)
	assessmentHandler := handler.NewAssessmentHandler(assessmentService)
	activityHandler := handler.NewActivityHandler(activityService)
	progressHandler := handler.NewProgressHandler(progressService)
	eventsHandler := handler.NewEventsHandler(eventHub, progressService)

	// Setup routes
	mux := http.NewServeMux()

	// Health and metrics
	mux.HandleFunc("GET /health", healthHandler.Health)
	if cfg.Metrics.Enabled {
		mux.Handle("GET "+cfg.Metrics.Path, metrics.Handler(registry))
	}

	// Questionnaire
	mux.HandleFunc("GET /v1/assessment/schema", assessmentHandler.GetSchema)
	mux.HandleFunc("POST /v1/assessment/steps/{step}/validate", assessmentHandler.ValidateStep)
	mux.HandleFunc("POST /v1/assessment/steps/{step}/advance", assessmentHandler.AdvanceStep)

	// Users and assessments
	mux.HandleFunc("POST /v1/users", progressHandler.CreateUser)
	mux.HandleFunc("GET /v1/users/{userId}", progressHandler.GetUser)
	mux.HandleFunc("POST /v1/users/{userId}/assessments", assessmentHandler.Submit)
	mux.HandleFunc("GET /v1/users/{userId}/assessments/latest", assessmentHandler.GetLatest)
	mux.HandleFunc("GET /v1/assessments/{assessmentId}", assessmentHandler.GetResult)

	// Catalog
	mux.HandleFunc("GET /v1/lifestyles", activityHandler.ListLifestyles)
	mux.HandleFunc("GET /v1/activities", activityHandler.ListActivities)
	mux.HandleFunc("GET /v1/activities/{activityId}", activityHandler.GetActivity)

	// Plans
	mux.HandleFunc("GET /v1/users/{userId}/plan", activityHandler.GetPlan)
	mux.HandleFunc("PUT /v1/users/{userId}/plan", activityHandler.ChooseActivities)
	mux.HandleFunc("PATCH /v1/users/{userId}/plan/activities/{activityId}", activityHandler.SetActivityChoice)

	// Progress
	mux.HandleFunc("POST /v1/users/{userId}/complete", progressHandler.CompleteActivity)
	mux.HandleFunc("GET /v1/users/{userId}/dashboard", progressHandler.Dashboard)
	mux.HandleFunc("POST /v1/users/{userId}/streak/increment", progressHandler.IncrementStreak)
	mux.HandleFunc("POST /v1/users/{userId}/streak/reset", progressHandler.ResetStreak)
	mux.HandleFunc("GET /v1/users/{userId}/events", eventsHandler.Stream)

	// Middleware chain
	idempotencyStore := middleware.NewIdempotencyStore(middleware.IdempotencyConfig{
		TTL: cfg.Server.IdempotencyTTL,
	})
	chain := []middleware.Middleware{
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.Metrics(recorder),
		middleware.CORS(cfg.Server.AllowedOrigins),
	}
	if cfg.RateLimit.Enabled {
		chain = append(chain, middleware.RateLimit(middleware.NewRateLimiter(middleware.RateLimitConfig{
			Rate:   cfg.RateLimit.Rate,
			Window: cfg.RateLimit.Window,
			Burst:  cfg.RateLimit.Burst,
		})))
	}
	chain = append(chain, middleware.Compress, middleware.Idempotency(idempotencyStore))
	root := middleware.Chain(mux, chain...)

	// Background jobs
	var dailyReset *jobs.DailyResetJob
	if cfg.Jobs.DailyResetEnabled {
		dailyReset = jobs.NewDailyResetJob(progressService, jobs.DailyResetConfig{
			Interval: cfg.Jobs.DailyResetInterval,
		})
		dailyReset.Start()
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      root,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
			slog.String("predictor", cfg.Predictor.BaseURL),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	if dailyReset != nil {
		dailyReset.Stop()
	}
	// End open event streams so Shutdown does not wait on them
	eventHub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", slog.String("error", err.Error()))
	}

	slog.Info("server stopped")
}
