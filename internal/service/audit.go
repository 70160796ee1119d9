package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fleetops/rental/internal/kafka"
)

// AuditEvent is the trail entry emitted for every rent/return attempt.
// Costs travel as fixed-point strings; credentials never appear here.
type AuditEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Operation string    `json:"operation"`
	RecordID  string    `json:"record_id,omitempty"`
	VehicleID string    `json:"vehicle_id,omitempty"`
	RenterID  string    `json:"renter_id,omitempty"`
	Cost      string    `json:"cost,omitempty"`
	Outcome   string    `json:"outcome"`
}

// AuditTrail batches events and hands them to a producer from a small
// worker pool. Shutdown drains in-flight batches before closing the
// producer.
type AuditTrail struct {
	workerCount int
	batchSize   int
	flush       time.Duration
	topic       string

	producer kafka.Producer
	logger   *zap.Logger

	inputChan  chan AuditEvent
	batchChan  chan []AuditEvent
	shutdownCh chan struct{}
	once       sync.Once
	wg         sync.WaitGroup
}

func NewAuditTrail(producer kafka.Producer, topic string, workerCount, batchSize int, flush time.Duration, logger *zap.Logger) *AuditTrail {
	return &AuditTrail{
		workerCount: workerCount,
		batchSize:   batchSize,
		flush:       flush,
		topic:       topic,
		producer:    producer,
		logger:      logger,
		inputChan:   make(chan AuditEvent, workerCount*batchSize*2),
		batchChan:   make(chan []AuditEvent, workerCount*2),
		shutdownCh:  make(chan struct{}),
	}
}

func (t *AuditTrail) Start(ctx context.Context) {
	t.logger.Info("starting audit trail",
		zap.Int("workers", t.workerCount), zap.Int("batch_size", t.batchSize))

	t.wg.Add(1)
	go t.runAggregator(ctx)

	for i := 0; i < t.workerCount; i++ {
		t.wg.Add(1)
		go t.runWorker(ctx, i)
	}
}

// Record queues an event. It never blocks the transaction path beyond the
// buffered channel; on cancellation the event is logged directly.
func (t *AuditTrail) Record(ctx context.Context, event AuditEvent) {
	select {
	case t.inputChan <- event:
	case <-ctx.Done():
		t.logDirect(event)
	}
}

func (t *AuditTrail) Shutdown(ctx context.Context) {
	t.once.Do(func() {
		t.logger.Info("initiating audit trail shutdown")
		close(t.shutdownCh)

		done := make(chan struct{})
		go func() {
			t.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			t.logger.Info("audit trail shutdown completed")
		case <-ctx.Done():
			t.logger.Warn("audit trail shutdown interrupted")
		}

		if err := t.producer.Close(); err != nil {
			t.logger.Error("failed to close audit producer", zap.Error(err))
		}
	})
}

func (t *AuditTrail) runAggregator(ctx context.Context) {
	defer t.wg.Done()

	var (
		batch    []AuditEvent
		timer    *time.Timer
		timeoutC <-chan time.Time
	)

	// On exit, drain whatever is still buffered so accepted events are
	// never dropped, then let the workers finish.
	defer func() {
		if timer != nil {
			timer.Stop()
		}
		for {
			select {
			case event := <-t.inputChan:
				batch = append(batch, event)
				continue
			default:
			}
			break
		}
		if len(batch) > 0 {
			t.dispatchBatch(batch)
		}
		close(t.batchChan)
	}()

	for {
		select {
		case event, ok := <-t.inputChan:
			if !ok {
				return
			}

			batch = append(batch, event)
			if len(batch) >= t.batchSize {
				t.dispatchBatch(batch)
				batch = nil
				timeoutC = nil
			} else if len(batch) == 1 {
				timer = time.NewTimer(t.flush)
				timeoutC = timer.C
			}

		case <-timeoutC:
			t.dispatchBatch(batch)
			batch = nil
			timeoutC = nil

		case <-ctx.Done():
			return

		case <-t.shutdownCh:
			return
		}
	}
}

func (t *AuditTrail) dispatchBatch(batch []AuditEvent) {
	batchCopy := make([]AuditEvent, len(batch))
	copy(batchCopy, batch)

	select {
	case t.batchChan <- batchCopy:
	default:
		for _, event := range batchCopy {
			t.logDirect(event)
		}
	}
}

func (t *AuditTrail) runWorker(ctx context.Context, id int) {
	defer t.wg.Done()

	for batch := range t.batchChan {
		t.publishBatch(ctx, id, batch)
	}
	t.logger.Debug("audit worker exiting", zap.Int("worker", id))
}

func (t *AuditTrail) publishBatch(ctx context.Context, id int, batch []AuditEvent) {
	for _, event := range batch {
		payload, err := json.Marshal(event)
		if err != nil {
			t.logger.Error("failed to marshal audit event", zap.Error(err))
			continue
		}
		key := []byte(event.Operation + ":" + event.RecordID)
		if err := t.producer.SendMessage(ctx, t.topic, key, payload); err != nil {
			t.logger.Error("failed to deliver audit event",
				zap.Int("worker", id), zap.Error(err))
		}
	}
}

func (t *AuditTrail) logDirect(event AuditEvent) {
	t.logger.Info("audit",
		zap.Time("at", event.Timestamp),
		zap.String("operation", event.Operation),
		zap.String("record_id", event.RecordID),
		zap.String("outcome", event.Outcome),
	)
}
