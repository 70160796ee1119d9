package main

import (
	"context"
	"encoding/json"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/fleetops/rental/internal/config"
	"github.com/fleetops/rental/internal/logger"
	"github.com/fleetops/rental/internal/service"
)

const groupID = "rental-audit-consumer-group"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logger.New()
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}
	brokers := cfg.KafkaBrokers
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        groupID,
		Topic:          cfg.AuditTopic,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		MaxWait:        3 * time.Second,
	})
	defer func() {
		if err := reader.Close(); err != nil {
			log.Error("failed to close reader", zap.Error(err))
		}
	}()

	log.Info("audit consumer started",
		zap.Strings("brokers", brokers), zap.String("topic", cfg.AuditTopic))

	for {
		m, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("shutdown signal received")
				return
			}
			log.Error("failed to read message", zap.Error(err))
			time.Sleep(5 * time.Second)
			continue
		}

		var event service.AuditEvent
		if err := json.Unmarshal(m.Value, &event); err != nil {
			log.Warn("skipping malformed audit payload",
				zap.Int64("offset", m.Offset), zap.Error(err))
			continue
		}

		log.Info("audit event",
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
			zap.Time("at", event.Timestamp),
			zap.String("operation", event.Operation),
			zap.String("record_id", event.RecordID),
			zap.String("vehicle_id", event.VehicleID),
			zap.String("renter_id", event.RenterID),
			zap.String("cost", event.Cost),
			zap.String("outcome", event.Outcome),
		)
	}
}
