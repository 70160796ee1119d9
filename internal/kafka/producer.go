package kafka

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Producer delivers audit payloads to a topic.
type Producer interface {
	SendMessage(ctx context.Context, topic string, key []byte, value []byte) error
	Close() error
}

// ConsoleProducer prints payloads instead of publishing them. Used when no
// broker is configured.
type ConsoleProducer struct {
	logger *zap.Logger
}

func NewConsoleProducer(logger *zap.Logger) *ConsoleProducer {
	logger.Info("initialized console audit producer")
	return &ConsoleProducer{logger: logger}
}

func (p *ConsoleProducer) SendMessage(ctx context.Context, topic string, key []byte, value []byte) error {
	select {
	case <-time.After(50 * time.Millisecond):
		fmt.Printf("\n--- AUDIT (%s) key=%s ---\n%s\n--- END AUDIT ---\n", topic, key, value)
		return nil
	case <-ctx.Done():
		p.logger.Warn("console producer cancelled",
			zap.String("topic", topic), zap.ByteString("key", key))
		return ctx.Err()
	}
}

func (p *ConsoleProducer) Close() error {
	p.logger.Info("closing console audit producer")
	return nil
}
