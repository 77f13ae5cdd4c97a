package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"identify/internal/contact"
	contactevents "identify/internal/contact/events"
	contactlock "identify/internal/contact/lock"
	contactmetrics "identify/internal/contact/metrics"
	contactservice "identify/internal/contact/service"
	contactstore "identify/internal/contact/store"
	"identify/internal/platform/config"
	"identify/internal/platform/database"
	"identify/internal/platform/health"
	"identify/internal/platform/httpserver"
	"identify/internal/platform/kafka"
	"identify/internal/platform/logger"
	"identify/internal/platform/metrics"
	redisclient "identify/internal/platform/redis"
	"identify/pkg/platform/circuit"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Server.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

// infra holds the optional backing services so they can be closed in one place.
type infra struct {
	db       *sql.DB
	redis    *redisclient.Client
	producer *kafka.Producer
}

func (i *infra) close(log *slog.Logger) {
	if i.producer != nil {
		i.producer.Close()
	}
	if i.redis != nil {
		if err := i.redis.Close(); err != nil {
			log.Warn("failed to close redis client", "error", err)
		}
	}
	if i.db != nil {
		if err := i.db.Close(); err != nil {
			log.Warn("failed to close database", "error", err)
		}
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := &infra{}
	defer deps.close(log)

	checker := health.NewChecker()

	tx, err := buildContactStore(ctx, cfg, log, deps, checker)
	if err != nil {
		return err
	}
	locker, err := buildLocker(ctx, cfg, log, deps, checker)
	if err != nil {
		return err
	}
	publisher, err := buildPublisher(ctx, cfg, log, deps, checker)
	if err != nil {
		return err
	}

	svc := contact.NewService(tx, locker,
		contactservice.WithLogger(log),
		contactservice.WithEventPublisher(publisher),
		contactservice.WithMetrics(contactmetrics.New(prometheus.DefaultRegisterer)),
		contactservice.WithPublishTimeout(cfg.Kafka.PublishTimeout),
	)
	httpMetrics := metrics.New(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	router := newRouter(log, contact.NewHandler(svc, log), checker, httpMetrics)

	// In-flight requests keep running through graceful shutdown.
	srv := httpserver.New(context.WithoutCancel(ctx), cfg.Server, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting identify", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}

type contactStore interface {
	contactservice.ContactStoreTx
	Ping(ctx context.Context) error
}

func buildContactStore(ctx context.Context, cfg config.Config, log *slog.Logger, deps *infra, checker *health.Checker) (contactservice.ContactStoreTx, error) {
	if cfg.Database.URL == "" {
		log.Info("DATABASE_URL not set, using in-memory contact store")
		var store contactStore = contactstore.NewInMemory(contactstore.WithTxTimeout(cfg.Server.TxTimeout))
		checker.Register("store", store.Ping)
		return store, nil
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	deps.db = db
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, log); err != nil {
			return nil, err
		}
	}
	checker.Register("store", db.PingContext)
	return newContactPostgresTx(db, cfg.Server.TxTimeout), nil
}

func buildLocker(ctx context.Context, cfg config.Config, log *slog.Logger, deps *infra, checker *health.Checker) (contactservice.IdentifierLocker, error) {
	client, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	if client == nil {
		log.Info("REDIS_URL not set, using in-process identifier locks")
		return contactlock.NewLocal(cfg.Lock.Wait), nil
	}
	deps.redis = client
	checker.Register("redis", client.Health)
	return contactlock.NewRedis(client.Client, cfg.Lock.TTL, cfg.Lock.Wait, contactlock.WithRedisLogger(log)), nil
}

func buildPublisher(ctx context.Context, cfg config.Config, log *slog.Logger, deps *infra, checker *health.Checker) (contactservice.EventPublisher, error) {
	producer, err := kafka.NewProducer(ctx, cfg.Kafka)
	if err != nil {
		return nil, err
	}
	if producer == nil {
		log.Info("KAFKA_BROKERS not set, contact events are logged only")
		return contactevents.NewLogPublisher(log), nil
	}
	deps.producer = producer
	if err := producer.EnsureTopic(ctx, 1, 1); err != nil {
		log.Warn("could not ensure contact topic", "topic", producer.Topic(), "error", err)
	}
	checker.Register("kafka", producer.Health)
	return contactevents.NewGuardedPublisher(
		contactevents.NewKafkaPublisher(producer),
		contactevents.NewLogPublisher(log),
		circuit.New("contact-events"),
		log,
	), nil
}
