package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/tsgfeedback/feedback-api/types"
)

// FeedbackStore persists feedback records. Implementations assign the record
// ID and SubmittedAt on create; callers never supply them.
type FeedbackStore interface {
	// CreateFeedback stores fb and returns the complete record.
	CreateFeedback(ctx context.Context, fb *types.NewFeedback) (*types.Feedback, error)
	// GetFeedback returns ErrNotFound when no record has the given id.
	GetFeedback(ctx context.Context, id uuid.UUID) (*types.Feedback, error)
	// ListFeedbackByMember returns every record for memberID in submission
	// order. It returns an empty slice, not an error, when there are none.
	ListFeedbackByMember(ctx context.Context, memberID string) ([]*types.Feedback, error)
	// Ping reports whether the backing storage is reachable.
	Ping(ctx context.Context) error
}
