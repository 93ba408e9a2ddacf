// Package memory is a process-local FeedbackStore used for development and
// tests. Records are lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tsgfeedback/feedback-api/internal/store"
	"github.com/tsgfeedback/feedback-api/types"
)

var _ store.FeedbackStore = (*FeedbackStore)(nil)

type FeedbackStore struct {
	mu       sync.RWMutex
	records  map[uuid.UUID]types.Feedback
	byMember map[string][]uuid.UUID
	now      func() time.Time
}

func NewFeedbackStore() *FeedbackStore {
	return &FeedbackStore{
		records:  make(map[uuid.UUID]types.Feedback),
		byMember: make(map[string][]uuid.UUID),
		now:      time.Now,
	}
}

func (s *FeedbackStore) CreateFeedback(ctx context.Context, fb *types.NewFeedback) (*types.Feedback, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	for _, taken := s.records[id]; taken; _, taken = s.records[id] {
		id = uuid.New()
	}

	record := types.Feedback{
		ID:           id,
		MemberID:     fb.MemberID,
		ProviderName: fb.ProviderName,
		Rating:       fb.Rating,
		Comment:      copyString(fb.Comment),
		// microsecond precision matches what postgres hands back
		SubmittedAt: s.now().UTC().Truncate(time.Microsecond),
	}
	s.records[id] = record
	s.byMember[record.MemberID] = append(s.byMember[record.MemberID], id)

	return cloneRecord(record), nil
}

func (s *FeedbackStore) GetFeedback(ctx context.Context, id uuid.UUID) (*types.Feedback, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneRecord(record), nil
}

func (s *FeedbackStore) ListFeedbackByMember(ctx context.Context, memberID string) ([]*types.Feedback, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	ids := s.byMember[memberID]
	result := make([]*types.Feedback, 0, len(ids))
	for _, id := range ids {
		result = append(result, cloneRecord(s.records[id]))
	}
	s.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].SubmittedAt.Equal(result[j].SubmittedAt) {
			return result[i].ID.String() < result[j].ID.String()
		}
		return result[i].SubmittedAt.Before(result[j].SubmittedAt)
	})
	return result, nil
}

func (s *FeedbackStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func cloneRecord(r types.Feedback) *types.Feedback {
	r.Comment = copyString(r.Comment)
	return &r
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
