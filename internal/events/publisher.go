package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tsgfeedback/feedback-api/logger"
	"github.com/tsgfeedback/feedback-api/types"
	"go.uber.org/zap"
)

// Config holds configuration for FeedbackPublisher
type Config struct {
	PublishTimeout time.Duration
}

// DefaultConfig returns default configuration values
func DefaultConfig() Config {
	return Config{
		PublishTimeout: 5 * time.Second,
	}
}

type metrics struct {
	publishLatency prometheus.Histogram
	errorCount     *prometheus.CounterVec
	eventCount     *prometheus.CounterVec
}

var (
	metricsInstance *metrics
	metricsOnce     sync.Once
	defaultRegistry = prometheus.DefaultRegisterer
)

func newMetrics() *metrics {
	metricsOnce.Do(func() {
		metricsInstance = &metrics{
			publishLatency: promauto.With(defaultRegistry).NewHistogram(prometheus.HistogramOpts{
				Name:    "event_publish_duration_seconds",
				Help:    "Time taken to publish events",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			}),
			errorCount: promauto.With(defaultRegistry).NewCounterVec(prometheus.CounterOpts{
				Name: "event_errors_total",
				Help: "Total number of event-related errors",
			}, []string{"operation", "type"}),
			eventCount: promauto.With(defaultRegistry).NewCounterVec(prometheus.CounterOpts{
				Name: "events_total",
				Help: "Total number of events by operation and type",
			}, []string{"operation", "type"}),
		}
	})
	return metricsInstance
}

// For testing purposes - reset metrics
func resetMetricsForTesting() {
	defaultRegistry = prometheus.NewRegistry()
	metricsInstance = nil
	metricsOnce = sync.Once{}
}

// NewFeedbackSubmittedEvent builds the event announcing a persisted record.
func NewFeedbackSubmittedEvent(fb *types.Feedback) types.FeedbackSubmittedEvent {
	return types.FeedbackSubmittedEvent{
		ID:            fb.ID.String(),
		MemberID:      fb.MemberID,
		ProviderName:  fb.ProviderName,
		Rating:        fb.Rating,
		Comment:       fb.Comment,
		SubmittedAt:   fb.SubmittedAt,
		SchemaVersion: types.FeedbackSubmittedSchemaVersion,
	}
}

// FeedbackPublisher turns stored feedback records into broker messages.
type FeedbackPublisher struct {
	broker  Broker
	log     *zap.SugaredLogger
	metrics *metrics
	config  Config
}

// NewFeedbackPublisher creates a publisher on top of broker.
func NewFeedbackPublisher(broker Broker, cfg ...Config) *FeedbackPublisher {
	config := DefaultConfig()
	if len(cfg) > 0 && cfg[0].PublishTimeout > 0 {
		config = cfg[0]
	}
	return &FeedbackPublisher{
		broker:  broker,
		log:     logger.GetLogger().Named("events"),
		metrics: newMetrics(),
		config:  config,
	}
}

// PublishFeedbackSubmitted sends exactly one feedback-submitted event keyed by
// the record id. It never retries.
func (p *FeedbackPublisher) PublishFeedbackSubmitted(ctx context.Context, fb *types.Feedback) error {
	start := time.Now()
	defer func() {
		p.metrics.publishLatency.Observe(time.Since(start).Seconds())
	}()

	if fb == nil {
		p.metrics.errorCount.WithLabelValues("publish", "validation").Inc()
		return fmt.Errorf("invalid event: nil feedback")
	}

	event := NewFeedbackSubmittedEvent(fb)
	data, err := json.Marshal(event)
	if err != nil {
		p.metrics.errorCount.WithLabelValues("publish", "marshal").Inc()
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.PublishTimeout)
	defer cancel()

	if err := p.broker.Publish(ctx, TopicFeedbackSubmitted, event.ID, data); err != nil {
		p.metrics.errorCount.WithLabelValues("publish", "broker").Inc()
		p.log.Warnw("Failed to publish feedback event", "feedbackID", event.ID, "error", err)
		return fmt.Errorf("publish %s: %w", TopicFeedbackSubmitted, err)
	}

	p.metrics.eventCount.WithLabelValues("publish", TopicFeedbackSubmitted).Inc()
	p.log.Debugw("Published feedback event", "feedbackID", event.ID, "memberID", event.MemberID)
	return nil
}

// Ping reports whether the underlying broker is reachable.
func (p *FeedbackPublisher) Ping(ctx context.Context) error {
	return p.broker.Ping(ctx)
}

// Close releases the broker connection.
func (p *FeedbackPublisher) Close() error {
	return p.broker.Close()
}
