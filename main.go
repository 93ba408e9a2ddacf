// @title        Feedback API
// @version      1.0
// @description  Accepts member feedback about providers, stores it and publishes feedback-submitted events.
// @BasePath     /api/v1
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/tsgfeedback/feedback-api/config"
	"github.com/tsgfeedback/feedback-api/db"
	_ "github.com/tsgfeedback/feedback-api/docs"
	"github.com/tsgfeedback/feedback-api/handlers"
	"github.com/tsgfeedback/feedback-api/internal/events"
	"github.com/tsgfeedback/feedback-api/internal/store"
	"github.com/tsgfeedback/feedback-api/internal/store/memory"
	"github.com/tsgfeedback/feedback-api/internal/store/postgres"
	"github.com/tsgfeedback/feedback-api/logger"
	"github.com/tsgfeedback/feedback-api/middleware"
	"github.com/tsgfeedback/feedback-api/models/feedback/service"
	"github.com/tsgfeedback/feedback-api/router"
	"github.com/tsgfeedback/feedback-api/services"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger.InitLogger()
	log := logger.GetLogger()
	defer func() { _ = logger.Close() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	feedbackStore, closeStore, err := setupStore(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize record store: %v", err)
	}
	defer closeStore()

	broker, err := setupBroker(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize event broker: %v", err)
	}

	publisher := events.NewFeedbackPublisher(broker, events.Config{
		PublishTimeout: cfg.EventService.PublishTimeout(),
	})
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warnw("Failed to close event broker", "error", err)
		}
	}()

	feedbackService := service.NewFeedbackService(feedbackStore, publisher)
	healthService := services.NewHealthService(feedbackStore, publisher, cfg.Server.Version)

	r := router.SetupRouter(router.Dependencies{
		Config:          cfg,
		FeedbackHandler: handlers.NewFeedbackHandler(feedbackService),
		HealthHandler:   handlers.NewHealthHandler(healthService),
		HTTPMetrics:     middleware.NewHTTPMetrics(prometheus.DefaultRegisterer),
		Logger:          log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("Starting server",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
			"store", cfg.Store.Driver,
			"broker", cfg.Broker.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Infow("Shutting down server", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}
	log.Info("Server exited")
}

// setupStore builds the configured record store. The returned func releases
// whatever the store holds open.
func setupStore(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (store.FeedbackStore, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Warn("Using in-memory record store; records are lost on restart")
		return memory.NewFeedbackStore(), func() {}, nil

	case config.StoreDriverPostgres:
		if cfg.Database.MigrateOnStart {
			if err := db.RunMigrations(cfg.Database.URL()); err != nil {
				return nil, nil, fmt.Errorf("running migrations: %w", err)
			}
		}

		poolConfig, err := config.ConfigurePostgresPool(&cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		dbClient := db.NewDatabaseClientWithConfig(poolConfig)
		if err := dbClient.Connect(ctx); err != nil {
			return nil, nil, err
		}
		log.Infow("Connected to PostgreSQL",
			"host", cfg.Database.Host,
			"database", cfg.Database.Name)
		return postgres.NewFeedbackStore(dbClient.GetPool()), dbClient.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func setupBroker(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (events.Broker, error) {
	switch cfg.Broker.Driver {
	case config.BrokerDriverKafka:
		broker := events.NewKafkaBroker(events.KafkaOptions{
			Brokers:      cfg.Kafka.Brokers,
			ClientID:     cfg.Kafka.ClientID,
			BatchTimeout: time.Duration(cfg.Kafka.BatchTimeoutMillis) * time.Millisecond,
			WriteTimeout: time.Duration(cfg.Kafka.WriteTimeoutSeconds) * time.Second,
			DialTimeout:  time.Duration(cfg.Kafka.DialTimeoutSeconds) * time.Second,
		})
		// An unreachable broker at startup is reported by readiness, not fatal.
		if err := broker.Ping(ctx); err != nil {
			log.Warnw("Kafka not reachable at startup", "brokers", cfg.Kafka.Brokers, "error", err)
		}
		return broker, nil

	case config.BrokerDriverRedis:
		client := redis.NewClient(config.ConfigureRedisOptions(&cfg.Redis))
		if err := config.TestRedisConnection(client); err != nil {
			_ = client.Close()
			return nil, err
		}
		log.Infow("Connected to Redis", "address", cfg.Redis.Address)
		return events.NewRedisBroker(client), nil

	default:
		return nil, fmt.Errorf("unknown broker driver %q", cfg.Broker.Driver)
	}
}
