// Package events publishes feedback domain events to a message broker.
package events

import "context"

// TopicFeedbackSubmitted is the logical channel every accepted feedback
// record is announced on.
const TopicFeedbackSubmitted = "feedback-submitted"

// Broker delivers an encoded event to a topic. Implementations must be safe
// for concurrent use.
type Broker interface {
	Publish(ctx context.Context, topic, key string, payload []byte) error
	Ping(ctx context.Context) error
	Close() error
}
