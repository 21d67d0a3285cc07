package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"horizon/internal/interfaces/scheduler"
	"horizon/internal/shared/config"
	"horizon/internal/shared/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load .env if present; real environments set variables directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()

	// Initialize telemetry (if enabled)
	if cfg.Telemetry.Enabled {
		shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName:  cfg.Telemetry.ServiceName,
			Environment:  cfg.Telemetry.Environment,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			MetricsPort:  cfg.Telemetry.MetricsPort,
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize telemetry: %v", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := shutdownTelemetry(shutdownCtx); err != nil {
					log.Printf("Telemetry shutdown error: %v", err)
				}
			}()
		}
	}

	deps, err := NewDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	// Initialize the orphaned-identity reconciler (if enabled)
	var sched *scheduler.Scheduler
	if cfg.Reconciler.Enabled {
		sched, err = scheduler.New(scheduler.Config{
			ScheduleTimes: cfg.Reconciler.ScheduleTimes,
			WorkerCount:   cfg.Reconciler.WorkerCount,
			JobDelay:      cfg.Reconciler.JobDelay,
			QueueSize:     cfg.Reconciler.QueueSize,
			RunOnStartup:  cfg.Reconciler.RunOnStartup,
			JobProvider:   scheduler.OrphanJobProvider(deps.IdentityService, cfg.Reconciler.GracePeriod),
		})
		if err != nil {
			return err
		}
		sched.Start()
		log.Printf("Reconciler started with times: %v", cfg.Reconciler.ScheduleTimes)
	} else {
		log.Println("Reconciler is disabled")
	}

	handler := SetupRoutes(deps, cfg)
	srv, redirectSrv := StartServers(NewServerConfigFromConfig(handler, cfg))

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	GracefulShutdown(srv, redirectSrv, sched, 30*time.Second)
	return nil
}
