package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/taller/internal/config"
	"github.com/JonMunkholm/taller/internal/core"
	"github.com/JonMunkholm/taller/internal/database"
	"github.com/JonMunkholm/taller/internal/events"
	"github.com/JonMunkholm/taller/internal/jobs"
	"github.com/JonMunkholm/taller/internal/logging"
	"github.com/JonMunkholm/taller/internal/metrics"
	"github.com/JonMunkholm/taller/internal/session"
	"github.com/JonMunkholm/taller/internal/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	_ "go.uber.org/automaxprocs"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return err
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := database.Connect(ctx, poolConfig, cfg.Database.ConnectAttempts, cfg.Database.ConnectDelay)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		return err
	}
	slog.Info("database schema ready")

	columns, err := core.LoadColumns(cfg.Import.ColumnSpecFile)
	if err != nil {
		return err
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	sessions := session.New(m)

	serviceOpts := []core.ServiceOption{
		core.WithMetrics(m),
		core.WithLimiter(core.NewImportLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime)),
		core.WithImportTimeout(cfg.Import.Timeout),
		core.WithImportBatchSize(cfg.Import.BatchSize),
	}
	serverOpts := []web.Option{
		web.WithMetrics(m, prometheus.DefaultGatherer),
		web.WithHealthCheck("postgres", pool.Ping),
	}

	// Job history: Redis when configured, otherwise process memory with
	// a periodic sweep.
	var sweeper core.Sweeper
	if cfg.Redis.Addr != "" {
		store, err := jobs.NewRedisStore(cfg.Redis, cfg.History.TTL)
		if err != nil {
			return err
		}
		defer store.Close()
		serviceOpts = append(serviceOpts, core.WithJobStore(store))
		serverOpts = append(serverOpts, web.WithHealthCheck("redis", store.Ping))
		slog.Info("job history in redis", "addr", cfg.Redis.Addr)
	} else {
		store := core.NewMemoryJobStore(cfg.History.TTL)
		sweeper = store
		serviceOpts = append(serviceOpts, core.WithJobStore(store))
	}

	if len(cfg.Kafka.Brokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.Kafka)
		defer publisher.Close()
		serviceOpts = append(serviceOpts, core.WithPublisher(publisher))
		slog.Info("publishing job events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	service := core.NewService(pool, columns, sessions, serviceOpts...)
	server := web.NewServer(service, sessions, cfg, serverOpts...)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Start(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if sweeper != nil {
		g.Go(func() error {
			core.StartHistorySweeper(gctx, sweeper, cfg.History.SweepInterval)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
