package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/tsgfeedback/feedback-api/types"
)

// FeedbackEventPublisher announces persisted feedback records.
type FeedbackEventPublisher interface {
	PublishFeedbackSubmitted(ctx context.Context, fb *types.Feedback) error
}

// FeedbackServiceInterface is what the HTTP handlers depend on.
type FeedbackServiceInterface interface {
	// SubmitFeedback validates, stores and announces a submission.
	SubmitFeedback(ctx context.Context, sub *types.FeedbackSubmission) (*types.Feedback, error)
	GetFeedbackByID(ctx context.Context, id uuid.UUID) (*types.Feedback, error)
	// GetFeedbackByMemberID returns every record for memberID, possibly none.
	GetFeedbackByMemberID(ctx context.Context, memberID string) ([]*types.Feedback, error)
}
