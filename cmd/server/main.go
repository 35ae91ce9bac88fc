package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	grpclib "google.golang.org/grpc"

	grpcadapter "github.com/alvaro-al22/investsimpro-backend/internal/adapter/grpc"
	"github.com/alvaro-al22/investsimpro-backend/internal/adapter/grpc/investsimv1"
	"github.com/alvaro-al22/investsimpro-backend/internal/adapter/marketdata"
	"github.com/alvaro-al22/investsimpro-backend/internal/adapter/repository/sqldb"
	"github.com/alvaro-al22/investsimpro-backend/internal/adapter/rest"
	"github.com/alvaro-al22/investsimpro-backend/internal/config"
	"github.com/alvaro-al22/investsimpro-backend/internal/logger"
	"github.com/alvaro-al22/investsimpro-backend/internal/scheduler"
	"github.com/alvaro-al22/investsimpro-backend/internal/usecase/catalog"
	"github.com/alvaro-al22/investsimpro-backend/internal/usecase/dashboard"
	"github.com/alvaro-al22/investsimpro-backend/internal/usecase/seeder"
	"github.com/alvaro-al22/investsimpro-backend/internal/usecase/simulation"
)

const (
	dbConnectAttempts = 5
	shutdownTimeout   = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)

	// 1. Setup Database
	db, err := connectDB(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	// 2. Initialize Repositories
	simulationRepo := sqldb.NewSimulationRepository(db)
	assetRepo := sqldb.NewAssetRepository(db)

	if err := seeder.NewCatalogSeeder(assetRepo).Seed(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed asset catalog")
	}
	log.Info().Msg("Asset catalog seeded successfully")

	// 3. Market data: EODHD behind a per-day snapshot cache
	eodhd := marketdata.NewEODHDClient(cfg.EODHDBaseURL, cfg.EODHDAPIKey, cfg.PriceTimeout, log)
	prices := marketdata.NewSnapshotCache(eodhd, log)

	// 4. Initialize Services (Use Cases)
	simulationService := simulation.NewSimulationService(simulationRepo, prices, log)
	dashboardService := dashboard.NewDashboardService(simulationRepo)
	catalogService := catalog.NewCatalogService(assetRepo)

	// 5. Tracking scheduler
	sched := scheduler.New(log)
	if cfg.SchedulerEnabled {
		if err := scheduler.RegisterTracking(sched, simulationService, 30*time.Minute); err != nil {
			log.Fatal().Err(err).Msg("Failed to register tracking jobs")
		}
		sched.Start()

		go func() {
			if err := scheduler.CatchUpTracking(sched, simulationService, 30*time.Minute); err != nil {
				log.Error().Err(err).Msg("Startup tracking catch-up failed")
			}
		}()
	}

	// 6. Start gRPC Server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(log),
			grpcadapter.AuthInterceptor(cfg.APIToken),
		),
	)
	service := grpcadapter.NewServer(simulationService, dashboardService, catalogService)
	investsimv1.RegisterSimulationServiceServer(grpcServer, service)

	grpcAddr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", grpcAddr).Msg("Failed to listen")
	}

	go func() {
		log.Info().Str("addr", grpcAddr).Msg("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("Failed to serve gRPC server")
		}
	}()

	// 7. Start HTTP gateway
	httpServer := rest.New(rest.Config{
		Port:        cfg.HTTPPort,
		Log:         log,
		Service:     service,
		APIToken:    cfg.APIToken,
		CORSOrigins: cfg.CORSOrigins,
	})

	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to serve HTTP server")
		}
	}()

	// Graceful shutdown
	waitForShutdown(log, grpcServer, httpServer, sched)
}

// connectDB opens the configured database, retrying while it comes up
func connectDB(cfg *config.Config, log zerolog.Logger) (*sqldb.DB, error) {
	if cfg.DBDriver == sqldb.DriverSQLite && cfg.DBConnStr != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBConnStr), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	var lastErr error
	for attempt := 1; attempt <= dbConnectAttempts; attempt++ {
		db, err := sqldb.NewDB(cfg.DBDriver, cfg.DBConnStr)
		if err == nil {
			log.Info().Str("driver", cfg.DBDriver).Msg("Database connected")
			return db, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Msg("Database not ready, retrying")
		time.Sleep(2 * time.Second)
	}
	return nil, lastErr
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the servers
func waitForShutdown(log zerolog.Logger, grpcServer *grpclib.Server, httpServer *rest.Server, sched *scheduler.Scheduler) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	grpcServer.GracefulStop()
	log.Info().Msg("Servers stopped")
}
