/**
 * @description
 * This is the main entry point for the fixed-deposit service. It initializes
 * configuration, the database pool, the virtual clock, the message broker
 * producer, the sibling-service clients, the batch job dispatcher, and the
 * HTTP server, wires everything together and starts the service.
 */
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/SOOD-11/FD-Module-sub000/internal/api"
	"github.com/SOOD-11/FD-Module-sub000/internal/app"
	appclock "github.com/SOOD-11/FD-Module-sub000/internal/clock"
	"github.com/SOOD-11/FD-Module-sub000/internal/config"
	"github.com/SOOD-11/FD-Module-sub000/internal/engine"
	"github.com/SOOD-11/FD-Module-sub000/internal/store"
	"github.com/SOOD-11/FD-Module-sub000/pkg/calculationclient"
	"github.com/SOOD-11/FD-Module-sub000/pkg/customerclient"
	"github.com/SOOD-11/FD-Module-sub000/pkg/productclient"
	"github.com/SOOD-11/FD-Module-sub000/pkg/rabbitmq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if strings.TrimSpace(cfg.InternalAPIKey) == "" {
		logger.Error("internal api key must be configured", "env", "INTERNAL_API_KEY")
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		logger.Error("invalid time zone", "time_zone", cfg.TimeZone, "error", err)
		os.Exit(1)
	}

	// The clock mode decides whether the admin surface can mutate time.
	var clk appclock.Clock
	var adjustable *appclock.AdjustableClock
	if cfg.ClockMode == config.ClockModeAdjustable {
		adjustable = appclock.NewAdjustableClock(loc)
		clk = adjustable
		logger.Warn("running with adjustable logical clock; not for production")
	} else {
		clk = appclock.NewSystemClock(loc)
	}

	ctx := context.Background()

	// Establish database connection with connection pool configuration
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Error("unable to parse database URL", "error", err)
		os.Exit(1)
	}
	poolConfig.MaxConns = 100
	poolConfig.MinConns = 20
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	// Disable prepared statement caching to prevent conflicts
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	logger.Info("database connection established")

	// The broker is optional: boot degrades to no event publishing.
	var producer app.Publisher
	if strings.TrimSpace(cfg.RabbitMQURL) != "" {
		eventProducer, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL)
		if err != nil {
			logger.Warn("rabbitmq producer unavailable; events disabled", "error", err)
		} else {
			defer eventProducer.Close()
			producer = eventProducer
			logger.Info("rabbitmq producer connected")
		}
	}

	var rateLimiter *api.RedisRateLimiter
	if strings.TrimSpace(cfg.RedisURL) != "" {
		redisOptions, parseErr := redis.ParseURL(cfg.RedisURL)
		if parseErr != nil {
			logger.Warn("redis url parse failed; admin rate limiting disabled", "error", parseErr)
		} else {
			redisClient := redis.NewClient(redisOptions)
			rateLimiter = api.NewRedisRateLimiter(redisClient, cfg.RedisRateLimitPrefix)
			logger.Info("redis rate limiter enabled")
		}
	}

	// Initialize dependencies
	repository := store.NewPostgresRepository(dbpool)
	boundaryEngine := engine.New(logger)
	productClient := productclient.NewClient(cfg.ProductServiceURL)
	customerClient := customerclient.NewClient(cfg.CustomerServiceURL)
	calculationClient := calculationclient.NewClient(cfg.CalculationServiceURL)

	service := app.NewService(repository, productClient, customerClient, calculationClient, producer, clk, logger, cfg)
	jobs := app.NewJobs(repository, boundaryEngine, producer, clk, logger, cfg)

	dispatcher := app.NewDispatcher(clk, logger)
	dispatcher.Register(app.Job{Name: app.JobInterestAccrual, Trigger: app.DailyAt(0), Run: jobs.RunInterestAccrual})
	dispatcher.Register(app.Job{Name: app.JobInterestPayout, Trigger: app.DailyAt(0), Run: jobs.RunInterestPayout})
	dispatcher.Register(app.Job{Name: app.JobMaturityProcessing, Trigger: app.DailyAt(1), Run: jobs.RunMaturityProcessing})
	dispatcher.Register(app.Job{Name: app.JobStatementGeneration, Trigger: app.MonthlyAt(1, 23), Run: jobs.RunStatementGeneration})

	scheduler := app.NewScheduler(dispatcher, logger, cfg)
	scheduler.Start()
	logger.Info("scheduler started", "clock_mode", cfg.ClockMode)

	router := api.Routes(api.RouterDeps{
		Deposits:       api.NewDepositHandlers(service, logger),
		Admin:          api.NewAdminHandlers(clk, adjustable, dispatcher, logger),
		JWKSURL:        cfg.JWKSURL,
		JWTAudience:    cfg.JWTAudience,
		JWTIssuer:      cfg.JWTIssuer,
		InternalAPIKey: cfg.InternalAPIKey,
		RateLimiter:    rateLimiter,
		AdminPerMinute: cfg.AdminRateLimitPerMin,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		logger.Info("starting http server", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal to gracefully shut down
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
	}

	stopCtx := scheduler.Stop()
	<-stopCtx.Done() // Wait for any in-flight job to finish
	logger.Info("scheduler stopped gracefully")
}
