package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/eventosys/eventosys/internal/app"
	"github.com/eventosys/eventosys/internal/audit"
	audithttp "github.com/eventosys/eventosys/internal/audit/http"
	"github.com/eventosys/eventosys/internal/auth"
	"github.com/eventosys/eventosys/internal/counter"
	"github.com/eventosys/eventosys/internal/events"
	"github.com/eventosys/eventosys/internal/guard"
	"github.com/eventosys/eventosys/internal/platform/cache"
	"github.com/eventosys/eventosys/internal/platform/db"
	"github.com/eventosys/eventosys/internal/profile"
	"github.com/eventosys/eventosys/internal/session"
	"github.com/eventosys/eventosys/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := session.NewManager(redisClient, "eventosys_session", cfg.SessionTTL, cfg.IsProduction())
	counters := counter.NewRedisStore(redisClient, "")

	profileRepo := profile.NewRepository(dbpool)
	profileService := profile.NewService(profileRepo)
	profileHandler := profile.NewHandler(logger, profileService)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	eventsRepo := events.NewRepository(dbpool)
	eventsService := events.NewService(eventsRepo)
	eventsHandler := events.NewHandler(logger, eventsService)

	auditSink := audit.NewSink(dbpool, logger, cfg.AuditWriteTimeout)
	auditRepo := audit.NewRepository(dbpool)
	auditService := audit.NewService(auditRepo)
	auditHandler := audithttp.NewHandler(logger, auditService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	// The guard pipeline, composed once. Headers wrap everything so even
	// terminal 429s carry the full header set; the audit stage wraps the
	// limiter stages the same way.
	interceptors := []guard.Interceptor{
		guard.NewSecurityHeaders(cfg.IsProduction()),
		guard.NewAuditLogger(auditSink, logger),
		guard.NewRateLimiter(counters, logger, cfg.RateLimitAnonymous, guard.DefaultRateWindow),
		guard.NewBruteForceGuard(counters, logger, cfg.LoginPath, cfg.MaxLoginAttempts, cfg.LoginLockoutTime),
	}

	router := app.NewRouter(app.RouterParams{
		Logger: logger,
		Config: cfg,
		Middleware: app.MiddlewareConfig{
			Logger:         logger,
			Config:         cfg,
			SessionManager: sessionManager,
			Profiles:       profileService,
		},
		Guard:          interceptors,
		AuthHandler:    authHandler,
		EventsHandler:  eventsHandler,
		ProfileHandler: profileHandler,
		AuditHandler:   auditHandler,
		JobsHandler:    jobsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
