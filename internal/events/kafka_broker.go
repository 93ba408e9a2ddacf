package events

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/tsgfeedback/feedback-api/logger"
	"go.uber.org/zap"
)

// Writer is the subset of kafka.Writer the broker needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaOptions configures KafkaBroker.
type KafkaOptions struct {
	Brokers      []string
	ClientID     string
	BatchTimeout time.Duration
	WriteTimeout time.Duration
	DialTimeout  time.Duration
}

// KafkaBroker writes events to Kafka. Topics are provisioned outside the
// service, so auto creation stays off.
type KafkaBroker struct {
	writer  Writer
	brokers []string
	dial    func(ctx context.Context, address string) (io.Closer, error)
	log     *zap.SugaredLogger
}

// NewKafkaBroker creates a broker backed by a kafka.Writer. Messages with the
// same key land on the same partition.
func NewKafkaBroker(opts KafkaOptions) *KafkaBroker {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(opts.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: false,
		BatchTimeout:           opts.BatchTimeout,
		WriteTimeout:           opts.WriteTimeout,
		Transport: &kafka.Transport{
			ClientID:    opts.ClientID,
			DialTimeout: opts.DialTimeout,
		},
	}

	dialer := &kafka.Dialer{ClientID: opts.ClientID, Timeout: opts.DialTimeout}
	b := NewKafkaBrokerWithWriter(w, opts.Brokers)
	b.dial = func(ctx context.Context, address string) (io.Closer, error) {
		return dialer.DialContext(ctx, "tcp", address)
	}
	return b
}

// NewKafkaBrokerWithWriter allows injecting a test writer.
func NewKafkaBrokerWithWriter(w Writer, brokers []string) *KafkaBroker {
	return &KafkaBroker{
		writer:  w,
		brokers: brokers,
		log:     logger.GetLogger().Named("kafka"),
	}
}

// Publish writes a single keyed message and waits for all in-sync replicas.
func (b *KafkaBroker) Publish(ctx context.Context, topic, key string, payload []byte) error {
	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
		Time:  time.Now().UTC(),
	}
	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

// Ping dials the first reachable bootstrap broker.
func (b *KafkaBroker) Ping(ctx context.Context) error {
	if b.dial == nil {
		return nil
	}
	if len(b.brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}
	var lastErr error
	for _, addr := range b.brokers {
		conn, err := b.dial(ctx, addr)
		if err == nil {
			return conn.Close()
		}
		lastErr = err
		b.log.Debugw("Kafka broker unreachable", "address", addr, "error", err)
	}
	return fmt.Errorf("kafka ping: %w", lastErr)
}

// Close flushes pending writes and closes the writer.
func (b *KafkaBroker) Close() error {
	return b.writer.Close()
}
