package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pharmacy-pos/config"
	"pharmacy-pos/internal/api"
	"pharmacy-pos/internal/broker"
	"pharmacy-pos/internal/clock"
	"pharmacy-pos/internal/redisclient"
	"pharmacy-pos/internal/service"
	"pharmacy-pos/internal/staging"
	"pharmacy-pos/internal/store"
	"pharmacy-pos/internal/util"
	"pharmacy-pos/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env, cfg.Server.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting pharmacy POS",
		zap.String("env", cfg.Server.Env),
		zap.String("database", cfg.Database.Driver),
		zap.String("staging", cfg.Staging.Backend))

	if cfg.Observ.TracingEnabled {
		tp, err := util.InitTracer(cfg.Observ.JaegerEndpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				logger.Error("Error shutting down tracer", zap.Error(err))
			}
		}()
	}

	db, err := store.NewStore(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database connected")

	pingers := []api.Pinger{db}

	var backend staging.Backend
	switch cfg.Staging.Backend {
	case "redis":
		redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.KeyPrefix)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		logger.Info("Redis connected", zap.String("addr", cfg.Redis.Addr))

		backend = staging.NewRedisBackend(redisClient)
		pingers = append(pingers, redisClient)
	case "sql":
		backend = staging.NewStoreBackend(db)
	default:
		logger.Fatal("Unknown staging backend", zap.String("backend", cfg.Staging.Backend))
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var publisher service.EventPublisher
	var receiptWorker *worker.ReceiptWorker
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents)
		defer producer.Close()
		publisher = broker.NewEventPublisher(producer)
		logger.Info("Kafka producer initialized", zap.String("topic", cfg.Kafka.TopicEvents))

		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents, cfg.Kafka.ConsumerGroup)
		receiptWorker = worker.NewReceiptWorker(consumer, worker.NewLogSink())
		go func() {
			if err := receiptWorker.Start(workerCtx); err != nil && err != context.Canceled {
				logger.Error("Receipt worker error", zap.Error(err))
			}
		}()
	}

	clk := clock.NewRealClock()
	inventoryService := service.NewInventoryService(db, clk, publisher)
	cartService := service.NewCartService(backend)
	orderService := service.NewOrderService(backend, cartService, clk, publisher)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(inventoryService, cartService, orderService, api.Defaults{
		GSTRate:         cfg.Business.DefaultGSTRate,
		ExpiryAlertDays: cfg.Business.ExpiryAlertDays,
	}, pingers...)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if receiptWorker != nil {
		if err := receiptWorker.Stop(); err != nil {
			logger.Error("Error stopping receipt worker", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}
