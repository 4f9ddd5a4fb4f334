package kafka

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractPilot/pkg/errors"
)

var ErrAlreadyRunning = errors.New(errors.ErrCodeConflict, "consumer already running")

// Handler processes one message. A returned error is retried.
type Handler func(ctx context.Context, msg *Message) error

type ConsumerConfig struct {
	Brokers []string
	GroupID string
	Topic   string
	// FromLatest starts a new group at the end of the topic.
	FromLatest   bool
	MaxRetries   int
	RetryBackoff time.Duration
}

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads one topic as part of a consumer group and commits each
// message after its handler has run.
type Consumer struct {
	reader  ReaderInterface
	config  ConsumerConfig
	logger  logging.Logger
	running atomic.Bool

	processed atomic.Int64
	failed    atomic.Int64
}

func NewConsumer(cfg ConsumerConfig, logger logging.Logger) (*Consumer, error) {
	if err := ValidateConsumerConfig(cfg); err != nil {
		return nil, err
	}
	start := kafka.FirstOffset
	if cfg.FromLatest {
		start = kafka.LastOffset
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		MinBytes:    1,
		MaxBytes:    10 * 1024 * 1024,
		MaxWait:     time.Second,
		StartOffset: start,
	})
	return newConsumerWithReader(reader, cfg, logger), nil
}

func newConsumerWithReader(r ReaderInterface, cfg ConsumerConfig, logger logging.Logger) *Consumer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = time.Second
	}
	return &Consumer{reader: r, config: cfg, logger: logger}
}

// Run blocks until ctx is cancelled. Messages whose handler still fails after
// the retries are logged and committed so the group keeps moving.
func (c *Consumer) Run(ctx context.Context, handler Handler) error {
	if c.running.Swap(true) {
		return ErrAlreadyRunning
	}
	defer c.running.Store(false)

	c.logger.Info("Kafka consumer started",
		logging.String("group", c.config.GroupID), logging.String("topic", c.config.Topic))

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("FetchMessage error", logging.Err(err))
			if !sleepCtx(ctx, time.Second) {
				return nil
			}
			continue
		}

		if err := c.process(ctx, fromKafkaMessage(m), handler); err != nil {
			c.failed.Add(1)
			c.logger.Error("Dropping message after retries",
				logging.String("topic", m.Topic), logging.Int64("offset", m.Offset), logging.Err(err))
		} else {
			c.processed.Add(1)
		}
		if err := c.reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			c.logger.Error("CommitMessages failed", logging.Err(err))
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg *Message, handler Handler) error {
	backoff := c.config.RetryBackoff
	var err error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			if !sleepCtx(ctx, backoff) {
				return ctx.Err()
			}
			backoff *= 2
		}
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		c.logger.Warn("Handler failed",
			logging.Int("attempt", attempt+1), logging.Int64("offset", msg.Offset), logging.Err(err))
	}
	return err
}

func (c *Consumer) Processed() int64 { return c.processed.Load() }
func (c *Consumer) Failed() int64    { return c.failed.Load() }

func (c *Consumer) Close() error {
	return c.reader.Close()
}

func ValidateConsumerConfig(cfg ConsumerConfig) error {
	if len(cfg.Brokers) == 0 {
		return errors.New(errors.ErrCodeValidation, "brokers required")
	}
	if cfg.GroupID == "" {
		return errors.New(errors.ErrCodeValidation, "group id required")
	}
	if cfg.Topic == "" {
		return errors.New(errors.ErrCodeValidation, "topic required")
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

//Personal.AI order the ending
