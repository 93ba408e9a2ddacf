package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	apperrors "github.com/tsgfeedback/feedback-api/errors"
	"github.com/tsgfeedback/feedback-api/internal/store"
	"github.com/tsgfeedback/feedback-api/logger"
	"github.com/tsgfeedback/feedback-api/models/feedback/validation"
	"github.com/tsgfeedback/feedback-api/types"
	"go.uber.org/zap"
)

// FeedbackService runs the submission pipeline and the lookup paths. It holds
// no mutable state and is safe for concurrent use.
type FeedbackService struct {
	store     store.FeedbackStore
	publisher FeedbackEventPublisher
	log       *zap.SugaredLogger
}

var _ FeedbackServiceInterface = (*FeedbackService)(nil)

// NewFeedbackService creates a new FeedbackService.
func NewFeedbackService(feedbackStore store.FeedbackStore, publisher FeedbackEventPublisher) *FeedbackService {
	return &FeedbackService{
		store:     feedbackStore,
		publisher: publisher,
		log:       logger.GetLogger().Named("feedback"),
	}
}

// SubmitFeedback validates sub, stores it and publishes one feedback-submitted
// event. A publish failure is reported even though the record stays stored.
func (s *FeedbackService) SubmitFeedback(ctx context.Context, sub *types.FeedbackSubmission) (*types.Feedback, error) {
	if fieldErrs := validation.ValidateSubmission(sub); len(fieldErrs) > 0 {
		s.log.Debugw("Rejected feedback submission", "violations", len(fieldErrs))
		return nil, apperrors.ValidationFailed(fieldErrs)
	}

	record, err := s.store.CreateFeedback(ctx, &types.NewFeedback{
		MemberID:     sub.MemberID,
		ProviderName: sub.ProviderName,
		Rating:       sub.Rating,
		Comment:      sub.Comment,
	})
	if err != nil {
		s.log.Errorw("Failed to store feedback", "memberID", sub.MemberID, "error", err)
		return nil, apperrors.NewDatabaseError(err)
	}

	if err := s.publisher.PublishFeedbackSubmitted(ctx, record); err != nil {
		s.log.Errorw("Feedback stored but event not published",
			"feedbackID", record.ID,
			"memberID", record.MemberID,
			"error", err)
		return nil, apperrors.NewPublishError(err)
	}

	s.log.Infow("Feedback submitted", "feedbackID", record.ID, "memberID", record.MemberID)
	return record, nil
}

// GetFeedbackByID returns the record with id or a not-found error.
func (s *FeedbackService) GetFeedbackByID(ctx context.Context, id uuid.UUID) (*types.Feedback, error) {
	record, err := s.store.GetFeedback(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.FeedbackNotFound(id)
		}
		s.log.Errorw("Failed to get feedback", "feedbackID", id, "error", err)
		return nil, apperrors.NewDatabaseError(err)
	}
	return record, nil
}

func (s *FeedbackService) GetFeedbackByMemberID(ctx context.Context, memberID string) ([]*types.Feedback, error) {
	records, err := s.store.ListFeedbackByMember(ctx, memberID)
	if err != nil {
		s.log.Errorw("Failed to list feedback", "memberID", memberID, "error", err)
		return nil, apperrors.NewDatabaseError(err)
	}
	if records == nil {
		records = []*types.Feedback{}
	}
	return records, nil
}
