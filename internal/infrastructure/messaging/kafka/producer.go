// Package kafka publishes classification lifecycle events for downstream
// consumers (reporting, compliance archival). Publishing is best effort:
// a broker outage must never fail or delay a classification.
package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/HazWaste-Intelligence/internal/config"
	"github.com/turtacn/HazWaste-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HazWaste-Intelligence/pkg/errors"
)

// TopicClassificationCompleted carries one event per finalized classification.
const TopicClassificationCompleted = "hazwaste.classification.completed"

// ClassificationEvent is the wire payload for a completed classification.
type ClassificationEvent struct {
	RequestID           string    `json:"requestId"`
	DocumentFingerprint string    `json:"documentFingerprint"`
	ProductName         string    `json:"productName,omitempty"`
	WasteCodes          []string  `json:"wasteCodes"`
	Confidence          float64   `json:"confidence"`
	Emergency           bool      `json:"emergency"`
	CompletedAt         time.Time `json:"completedAt"`
}

// writerInterface abstracts kafka.Writer for testing.
type writerInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes classification events.
type Producer struct {
	writer writerInterface
	topic  string
	logger logging.Logger
	closed atomic.Bool

	published atomic.Int64
	failed    atomic.Int64
}

// NewProducer builds a producer over the configured brokers.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "kafka brokers required")
	}

	topic := cfg.Topic
	if topic == "" {
		topic = TopicClassificationCompleted
	}
	maxAttempts := cfg.MaxRetries + 1
	if cfg.MaxRetries <= 0 {
		maxAttempts = 3
	}
	batchTimeout := cfg.BatchTimeout
	if batchTimeout == 0 {
		batchTimeout = time.Second
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 10 * time.Second
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		MaxAttempts:            maxAttempts,
		BatchTimeout:           batchTimeout,
		WriteTimeout:           writeTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return &Producer{writer: writer, topic: topic, logger: log}, nil
}

// newProducerWithWriter wires a producer over an explicit writer, for tests.
func newProducerWithWriter(w writerInterface, topic string, log logging.Logger) *Producer {
	return &Producer{writer: w, topic: topic, logger: log}
}

// Publish sends one event synchronously. Messages are keyed by document
// fingerprint so repeat classifications of the same document land on the
// same partition.
func (p *Producer) Publish(ctx context.Context, ev ClassificationEvent) error {
	if p.closed.Load() {
		return errors.New(errors.ErrCodeInternal, "producer closed")
	}
	if ev.RequestID == "" {
		return errors.New(errors.ErrCodeValidation, "requestId required")
	}
	if ev.CompletedAt.IsZero() {
		ev.CompletedAt = time.Now().UTC()
	}

	value, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode event")
	}

	msg := kafka.Message{
		Key:   []byte(ev.DocumentFingerprint),
		Value: value,
		Time:  ev.CompletedAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.failed.Add(1)
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to publish event")
	}

	p.published.Add(1)
	p.logger.Debug("classification event published",
		logging.String("topic", p.topic),
		logging.String("request_id", ev.RequestID),
	)
	return nil
}

// asyncPublishTimeout bounds a detached publish so a hung broker cannot
// leak goroutines.
const asyncPublishTimeout = 30 * time.Second

// PublishAsync sends an event on a background goroutine and logs failures
// instead of returning them.  The publish outlives the caller's context:
// HTTP handlers pass the request context, which is cancelled the moment the
// response is written, and the event must still reach the broker.
func (p *Producer) PublishAsync(ctx context.Context, ev ClassificationEvent) {
	detached := context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(detached, asyncPublishTimeout)
		defer cancel()
		if err := p.Publish(ctx, ev); err != nil {
			p.logger.Warn("classification event dropped",
				logging.String("request_id", ev.RequestID),
				logging.Err(err),
			)
		}
	}()
}

// Stats returns published and failed message counts.
func (p *Producer) Stats() (published, failed int64) {
	return p.published.Load(), p.failed.Load()
}

// Close flushes and shuts down the writer. Safe to call more than once.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := p.writer.Close()
	p.logger.Info("kafka producer closed", logging.Int64("published", p.published.Load()))
	return err
}
