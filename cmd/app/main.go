package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"orderflow/cmd"
	httpin "orderflow/internal/adapters/in/http"
	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/adapters/out/postgres/outboxrepo"
	"orderflow/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB, err := gorm.Open(postgres.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err = gormDB.AutoMigrate(&orderrepo.OrderDTO{}, &outboxrepo.MessageDTO{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	app := cmd.NewCompositionRoot(configs, gormDB, logger)
	err = run(ctx, &app, configs.HTTPPort)
	stop()
	if err != nil {
		log.Fatalf("%v", err)
	}
}

// application is the part of the composition root that run drives.
type application interface {
	CreateJobManager() (*jobs.JobManager, error)
	CreateHTTPServer(registry *prometheus.Registry) (*httpin.Server, error)
	Close() error
}

// run owns every resource opened after the composition root and releases them before it returns.
func run(ctx context.Context, app application, port string) error {
	defer func() {
		_ = app.Close()
	}()

	jobManager, err := app.CreateJobManager()
	if err != nil {
		return fmt.Errorf("failed to create jobs: %w", err)
	}
	if err = jobManager.StartAll(); err != nil {
		return fmt.Errorf("failed to start jobs: %w", err)
	}
	defer jobManager.StopAll()

	return startWebServer(ctx, app, port)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	config := cmd.Config{
		HTTPPort:               os.Getenv("HTTP_PORT"),
		DBHost:                 os.Getenv("DB_HOST"),
		DBPort:                 os.Getenv("DB_PORT"),
		DBUser:                 os.Getenv("DB_USER"),
		DBPassword:             os.Getenv("DB_PASSWORD"),
		DBName:                 os.Getenv("DB_NAME"),
		DBSslMode:              os.Getenv("DB_SSLMODE"),
		KafkaHost:              os.Getenv("KAFKA_HOST"),
		KafkaOrderChangedTopic: os.Getenv("KAFKA_ORDER_CHANGED_TOPIC"),
		OutboxRelaySchedule:    envOrDefault("OUTBOX_RELAY_SCHEDULE", cmd.DefaultOutboxRelaySchedule),
		OutboxRelayBatchSize:   cmd.DefaultOutboxRelayBatchSize,
	}

	if raw := os.Getenv("OUTBOX_RELAY_BATCH_SIZE"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			log.Fatalf("OUTBOX_RELAY_BATCH_SIZE must be an integer: %v", err)
		}
		config.OutboxRelayBatchSize = size
	}

	return config
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func startWebServer(ctx context.Context, app application, port string) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	server, err := app.CreateHTTPServer(registry)
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	e := echo.New()
	server.RegisterHandlers(e)

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Error(err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Error(err)
	}
	return nil
}
