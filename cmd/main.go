package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chanuu/kds-poc/internal/adapter/logger"
	"github.com/chanuu/kds-poc/internal/adapter/postgres"
	"github.com/chanuu/kds-poc/internal/adapter/rabbitmq"
	"github.com/chanuu/kds-poc/internal/adapter/store"
	"github.com/chanuu/kds-poc/internal/app/seed"
	"github.com/chanuu/kds-poc/internal/app/station"
	"github.com/chanuu/kds-poc/internal/config"

	amqpAdapter "github.com/chanuu/kds-poc/internal/adapter/amqp"
	httpAdapter "github.com/chanuu/kds-poc/internal/adapter/http"
)

func main() {
	// Parse command-line flags
	mode := flag.String("mode", "", "Service mode: station-display, change-feed, seed-demo")
	port := flag.Int("port", 3000, "HTTP port (for station-display)")
	stationID := flag.String("station-id", "", "Station id (overrides config for station-display)")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	if *mode == "" {
		log.Fatal("--mode flag is required")
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// Initialize logger
	lgr := logger.New(*mode)

	// Connect to PostgreSQL
	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
		"host": cfg.Database.Host,
		"db":   cfg.Database.Database,
	})

	// Connect to RabbitMQ
	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})

	switch *mode {
	case "station-display":
		id := cfg.Station.ID
		if *stationID != "" {
			id = *stationID
		}
		runStationDisplay(ctx, db, mqConn, cfg, lgr, id, *port)

	case "change-feed":
		runChangeFeed(ctx, mqConn, cfg, lgr)

	case "seed-demo":
		runSeedDemo(ctx, db, mqConn, cfg, lgr)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

func runStationDisplay(ctx context.Context, db postgres.DB, mqConn rabbitmq.Connection, cfg *config.Config, lgr logger.Logger, stationID string, port int) {
	// Wire the live repository: Postgres reads, RabbitMQ change feed.
	orders := postgres.NewOrderStore(db)
	listener := rabbitmq.NewListener(mqConn, cfg.Station.Exchange)
	publisher := rabbitmq.NewPublisher(mqConn, cfg.Station.Exchange)
	repo := store.NewRepository(orders, listener, publisher, lgr)

	// One synchronizer per process; its station id is fixed for its
	// lifetime.
	svc := station.NewService(repo, lgr, stationID)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := svc.Start(runCtx); err != nil {
		log.Fatalf("Failed to start station view: %v", err)
	}
	defer svc.Stop()

	stationHandler := httpAdapter.NewStationHandler(svc, lgr)

	mux := http.NewServeMux()
	mux.HandleFunc("/station/orders", stationHandler.HandleOrders)
	mux.HandleFunc("/station/orders/", stationHandler.HandleOrders)

	handler := httpAdapter.LoggingMiddleware(lgr)(mux)
	handler = httpAdapter.RecoveryMiddleware(lgr)(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("Station display for %q started on port %d", stationID, port), "startup", map[string]interface{}{
		"station_id": stationID,
		"port":       port,
	})

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", "Shutting down station display", "shutdown", nil)
		svc.Stop()

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}
}

func runChangeFeed(ctx context.Context, mqConn rabbitmq.Connection, cfg *config.Config, lgr logger.Logger) {
	listener := rabbitmq.NewListener(mqConn, cfg.Station.Exchange)
	changeHandler := amqpAdapter.NewChangeHandler(lgr)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	lgr.Info("service_started", "Change feed started", "startup", nil)

	go func() {
		if err := listener.ListenChanges(runCtx, changeHandler.HandleChange); err != nil && runCtx.Err() == nil {
			lgr.Error("listener_error", "Change feed dropped", "runtime", nil, err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info("shutdown_initiated", "Shutting down change feed", "shutdown", nil)
}

func runSeedDemo(ctx context.Context, db postgres.DB, mqConn rabbitmq.Connection, cfg *config.Config, lgr logger.Logger) {
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	orders := postgres.NewOrderStore(db)
	publisher := rabbitmq.NewPublisher(mqConn, cfg.Station.Exchange)

	seeder := seed.NewService(orders, publisher, lgr)
	if err := seeder.Run(ctx); err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}
}
