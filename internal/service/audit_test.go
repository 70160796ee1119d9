package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturingProducer struct {
	mu       sync.Mutex
	messages [][]byte
	topics   []string
	closed   bool
}

func (p *capturingProducer) SendMessage(_ context.Context, topic string, _ []byte, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, value)
	p.topics = append(p.topics, topic)
	return nil
}

func (p *capturingProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *capturingProducer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages)
}

func testEvent(op, recordID string) AuditEvent {
	return AuditEvent{
		Timestamp: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
		Operation: op,
		RecordID:  recordID,
		VehicleID: "v1",
		RenterID:  "r1",
		Outcome:   "ok",
	}
}

func TestAuditTrail_BatchBySize(t *testing.T) {
	ctx := context.Background()
	producer := &capturingProducer{}
	trail := NewAuditTrail(producer, "rental_audit", 1, 2, time.Hour, zap.NewNop())
	trail.Start(ctx)
	defer trail.Shutdown(ctx)

	trail.Record(ctx, testEvent("rent", "rec-1"))
	trail.Record(ctx, testEvent("rent", "rec-2"))

	assert.Eventually(t, func() bool { return producer.count() == 2 },
		2*time.Second, 10*time.Millisecond, "a full batch flushes without waiting for the timer")

	producer.mu.Lock()
	defer producer.mu.Unlock()
	var event AuditEvent
	require.NoError(t, json.Unmarshal(producer.messages[0], &event))
	assert.Equal(t, "rent", event.Operation)
	assert.Equal(t, "rental_audit", producer.topics[0])
}

func TestAuditTrail_FlushTimeout(t *testing.T) {
	ctx := context.Background()
	producer := &capturingProducer{}
	trail := NewAuditTrail(producer, "rental_audit", 1, 100, 50*time.Millisecond, zap.NewNop())
	trail.Start(ctx)
	defer trail.Shutdown(ctx)

	trail.Record(ctx, testEvent("return", "rec-1"))

	assert.Eventually(t, func() bool { return producer.count() == 1 },
		2*time.Second, 10*time.Millisecond, "a partial batch flushes after the timeout")
}

func TestAuditTrail_ShutdownDrains(t *testing.T) {
	ctx := context.Background()
	producer := &capturingProducer{}
	trail := NewAuditTrail(producer, "rental_audit", 2, 100, time.Hour, zap.NewNop())
	trail.Start(ctx)

	for i := 0; i < 5; i++ {
		trail.Record(ctx, testEvent("rent", "rec-1"))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	trail.Shutdown(shutdownCtx)

	assert.Equal(t, 5, producer.count(), "accepted events survive shutdown")
	producer.mu.Lock()
	defer producer.mu.Unlock()
	assert.True(t, producer.closed)
}

func TestAuditTrail_ShutdownIsIdempotent(t *testing.T) {
	ctx := context.Background()
	producer := &capturingProducer{}
	trail := NewAuditTrail(producer, "rental_audit", 1, 2, time.Hour, zap.NewNop())
	trail.Start(ctx)

	trail.Shutdown(ctx)
	trail.Shutdown(ctx)

	producer.mu.Lock()
	defer producer.mu.Unlock()
	assert.True(t, producer.closed)
}
