package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fleetops/rental/internal/config"
	"github.com/fleetops/rental/internal/db"
	"github.com/fleetops/rental/internal/kafka"
	"github.com/fleetops/rental/internal/logger"
	"github.com/fleetops/rental/internal/metrics"
	"github.com/fleetops/rental/internal/repository/postgresql"
	"github.com/fleetops/rental/internal/service"
	"github.com/fleetops/rental/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logger.New()
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	stg, err := buildStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to initialize storage", zap.Error(err))
	}

	var producer kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewWriterProducer(cfg.KafkaBrokers, log)
	} else {
		producer = kafka.NewConsoleProducer(log)
	}

	audit := service.NewAuditTrail(producer, cfg.AuditTopic,
		cfg.AuditWorkers, cfg.AuditBatchSize, cfg.AuditFlush, log)
	audit.Start(ctx)

	rentals := service.NewRentalService(stg, audit, log)
	analytics := service.NewAnalyticsService(stg)

	if ledger, err := stg.Rentals(ctx); err == nil {
		metrics.LedgerRecords.Set(float64(len(ledger)))
	}

	if summary, err := analytics.DashboardSummary(ctx, time.Now()); err != nil {
		log.Warn("failed to compute startup summary", zap.Error(err))
	} else {
		log.Info("fleet summary",
			zap.Int("vehicles", summary.FleetSize),
			zap.Int("renters", summary.RenterCount),
			zap.Int("open_rentals", summary.OpenRentals),
			zap.String("total_revenue", summary.TotalRevenue.StringFixed(2)),
		)
	}

	go overdueSweep(ctx, rentals, log)

	metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: promhttp.Handler()}
	go func() {
		log.Info("metrics listener started", zap.String("addr", cfg.MetricsAddr))
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics listener failed", zap.Error(err))
		}
	}()

	log.Info("rentald started", zap.String("backend", cfg.Backend))

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("metrics listener shutdown failed", zap.Error(err))
	}
	audit.Shutdown(shutdownCtx)

	log.Info("rentald stopped")
}

// overdueSweep periodically logs open rentals past their period end so
// operators notice vehicles that should have come back.
func overdueSweep(ctx context.Context, rentals *service.RentalService, log *zap.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			overdue, err := rentals.OverdueRentals(ctx)
			if err != nil {
				log.Error("overdue sweep failed", zap.Error(err))
				continue
			}
			for _, rec := range overdue {
				log.Warn("rental overdue",
					zap.String("record_id", rec.ID),
					zap.String("vehicle_id", rec.VehicleID),
					zap.Time("due", rec.Period.End),
				)
			}
		}
	}
}

func buildStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (service.Storage, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		database, err := db.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return storage.NewPostgresStorage(
			database,
			postgresql.NewVehicleRepo(database),
			postgresql.NewRenterRepo(database),
			postgresql.NewRentalRepo(database),
		), nil
	default:
		log.Info("using snapshot storage", zap.String("dir", cfg.SnapshotDir))
		return storage.NewSnapshotStorage(cfg.SnapshotDir)
	}
}
