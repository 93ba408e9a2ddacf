package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsgfeedback/feedback-api/logger"
	"github.com/tsgfeedback/feedback-api/types"
)

func init() {
	logger.IsTest = true
}

type publishedMessage struct {
	topic       string
	key         string
	payload     []byte
	hasDeadline bool
}

// fakeBroker records every Publish call.
type fakeBroker struct {
	mu       sync.Mutex
	messages []publishedMessage
	err      error
	pingErr  error
	closed   bool
}

func (b *fakeBroker) Publish(ctx context.Context, topic, key string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, hasDeadline := ctx.Deadline()
	b.messages = append(b.messages, publishedMessage{topic: topic, key: key, payload: payload, hasDeadline: hasDeadline})
	return b.err
}

func (b *fakeBroker) Ping(ctx context.Context) error { return b.pingErr }

func (b *fakeBroker) Close() error {
	b.closed = true
	return nil
}

func counterValue(t *testing.T, m *metrics, vec string, labels ...string) float64 {
	t.Helper()
	var metric dto.Metric
	switch vec {
	case "events":
		require.NoError(t, m.eventCount.WithLabelValues(labels...).Write(&metric))
	case "errors":
		require.NoError(t, m.errorCount.WithLabelValues(labels...).Write(&metric))
	}
	return metric.GetCounter().GetValue()
}

func sampleFeedback() *types.Feedback {
	comment := "Cool guy."
	return &types.Feedback{
		ID:           uuid.MustParse("6f1c7e52-3a47-4c7a-9d1e-2b8f0c9a4d11"),
		MemberID:     "m-101",
		ProviderName: "Dr. Phill",
		Rating:       4,
		Comment:      &comment,
		SubmittedAt:  time.Date(2025, 11, 14, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewFeedbackSubmittedEvent(t *testing.T) {
	fb := sampleFeedback()
	event := NewFeedbackSubmittedEvent(fb)

	assert.Equal(t, fb.ID.String(), event.ID)
	assert.Equal(t, fb.MemberID, event.MemberID)
	assert.Equal(t, fb.ProviderName, event.ProviderName)
	assert.Equal(t, fb.Rating, event.Rating)
	assert.Equal(t, fb.Comment, event.Comment)
	assert.Equal(t, fb.SubmittedAt, event.SubmittedAt)
	assert.Equal(t, 1, event.SchemaVersion)
}

func TestFeedbackPublisher_PublishFeedbackSubmitted(t *testing.T) {
	resetMetricsForTesting()
	broker := &fakeBroker{}
	publisher := NewFeedbackPublisher(broker)
	fb := sampleFeedback()

	require.NoError(t, publisher.PublishFeedbackSubmitted(context.Background(), fb))

	require.Len(t, broker.messages, 1)
	msg := broker.messages[0]
	assert.Equal(t, TopicFeedbackSubmitted, msg.topic)
	assert.Equal(t, fb.ID.String(), msg.key)
	assert.True(t, msg.hasDeadline, "publish must run under a timeout")

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.payload, &decoded))
	assert.Equal(t, fb.ID.String(), decoded["id"])
	assert.Equal(t, "m-101", decoded["memberId"])
	assert.Equal(t, "Dr. Phill", decoded["providerName"])
	assert.Equal(t, float64(4), decoded["rating"])
	assert.Equal(t, "Cool guy.", decoded["comment"])
	assert.Equal(t, "2025-11-14T12:00:00Z", decoded["submittedAt"])
	assert.Equal(t, float64(1), decoded["schemaVersion"])

	assert.Equal(t, float64(1), counterValue(t, publisher.metrics, "events", "publish", TopicFeedbackSubmitted))
}

func TestFeedbackPublisher_OmitsNilComment(t *testing.T) {
	resetMetricsForTesting()
	broker := &fakeBroker{}
	publisher := NewFeedbackPublisher(broker)
	fb := sampleFeedback()
	fb.Comment = nil

	require.NoError(t, publisher.PublishFeedbackSubmitted(context.Background(), fb))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(broker.messages[0].payload, &decoded))
	_, present := decoded["comment"]
	assert.False(t, present)
}

func TestFeedbackPublisher_BrokerFailure(t *testing.T) {
	resetMetricsForTesting()
	brokerErr := errors.New("leader not available")
	broker := &fakeBroker{err: brokerErr}
	publisher := NewFeedbackPublisher(broker, Config{PublishTimeout: time.Second})

	err := publisher.PublishFeedbackSubmitted(context.Background(), sampleFeedback())
	require.Error(t, err)
	assert.ErrorIs(t, err, brokerErr)
	assert.Len(t, broker.messages, 1, "publisher must not retry")
	assert.Equal(t, float64(1), counterValue(t, publisher.metrics, "errors", "publish", "broker"))
}

func TestFeedbackPublisher_NilFeedback(t *testing.T) {
	resetMetricsForTesting()
	broker := &fakeBroker{}
	publisher := NewFeedbackPublisher(broker)

	assert.Error(t, publisher.PublishFeedbackSubmitted(context.Background(), nil))
	assert.Empty(t, broker.messages)
}

func TestFeedbackPublisher_PingAndClose(t *testing.T) {
	resetMetricsForTesting()
	broker := &fakeBroker{pingErr: errors.New("down")}
	publisher := NewFeedbackPublisher(broker)

	assert.Error(t, publisher.Ping(context.Background()))
	require.NoError(t, publisher.Close())
	assert.True(t, broker.closed)
}

func TestNewFeedbackPublisher_DefaultsTimeout(t *testing.T) {
	resetMetricsForTesting()
	publisher := NewFeedbackPublisher(&fakeBroker{}, Config{})
	assert.Equal(t, DefaultConfig().PublishTimeout, publisher.config.PublishTimeout)
}
