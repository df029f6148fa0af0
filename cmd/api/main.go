package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aipress24/aipress24-sub001/internal/directory"
	"github.com/aipress24/aipress24-sub001/internal/email"
	"github.com/aipress24/aipress24-sub001/internal/events"
	apphttp "github.com/aipress24/aipress24-sub001/internal/http"
	"github.com/aipress24/aipress24-sub001/internal/http/router"
	"github.com/aipress24/aipress24-sub001/internal/newsroom"
	newsroomrepo "github.com/aipress24/aipress24-sub001/internal/newsroom/repository"
	newsroomservice "github.com/aipress24/aipress24-sub001/internal/newsroom/service"
	"github.com/aipress24/aipress24-sub001/internal/notification"
	"github.com/aipress24/aipress24-sub001/internal/scheduler"
	"github.com/aipress24/aipress24-sub001/internal/targeting"
	"github.com/aipress24/aipress24-sub001/migrations"
	"github.com/aipress24/aipress24-sub001/platform/config"
	"github.com/aipress24/aipress24-sub001/platform/db"
	"github.com/aipress24/aipress24-sub001/platform/logger"
	"github.com/aipress24/aipress24-sub001/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	reminderScheduler, closeScheduler := initReminderScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	// Redis client backing the targeting sessions
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.GetRedisAddr()})
	defer func() { _ = redisClient.Close() }()

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing
	// except for the in-app notification endpoints)
	notificationModule := notification.New(pool, sender, cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	// Targeting service needs the contact list to exclude already
	// contacted experts; outreach needs the targeting shortlist. Both
	// sides are wired through narrow ports here.
	directoryRepo := directory.NewRepository(pool)
	sessionStore := targeting.NewRedisStore(redisClient, cfg.GetSessionTTL())
	targetingSvc := targeting.NewService(directoryRepo, sessionStore, newsroomrepo.New(pool))

	var reminders newsroomservice.ReminderScheduler
	if reminderScheduler != nil {
		reminders = reminderScheduler
	}
	newsroomModule := newsroom.NewModule(pool, val, eventBus, targetingSvc, reminders, log)
	targetingModule := targeting.NewModule(targetingSvc, newsroomModule.Notices, val)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			newsroomModule,
			targetingModule,
			notificationModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initReminderScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisAddr() == "" {
		log.Warn("REDIS_ADDR not configured; RDV reminders disabled")
		return nil, nil
	}

	reminderClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return nil, nil
	}

	return reminderClient, func() {
		_ = reminderClient.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return fmt.Errorf("%s: %w", name, lastErr)
}
