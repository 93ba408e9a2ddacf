package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tsgfeedback/feedback-api/internal/store"
	"github.com/tsgfeedback/feedback-api/types"
)

// Ensure FeedbackStore implements store.FeedbackStore
var _ store.FeedbackStore = (*FeedbackStore)(nil)

// DBTX is the subset of *pgxpool.Pool the feedback store needs.
type DBTX interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
}

// FeedbackStore implements store.FeedbackStore on PostgreSQL. IDs come from
// gen_random_uuid() and submitted_at from now(), both assigned in the INSERT.
type FeedbackStore struct {
	db DBTX
}

// NewFeedbackStore creates a new feedback store backed by pgxpool.
func NewFeedbackStore(db DBTX) *FeedbackStore {
	return &FeedbackStore{db: db}
}

const feedbackColumns = `id, member_id, provider_name, rating, comment, submitted_at`

// CreateFeedback inserts a new feedback row and returns it as stored.
func (s *FeedbackStore) CreateFeedback(ctx context.Context, fb *types.NewFeedback) (*types.Feedback, error) {
	query := `
		INSERT INTO feedback (member_id, provider_name, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + feedbackColumns

	record, err := scanFeedback(s.db.QueryRow(ctx, query,
		fb.MemberID,
		fb.ProviderName,
		fb.Rating,
		fb.Comment,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return nil, fmt.Errorf("failed to create feedback (%s %s): %w", pgErr.Code, pgErr.ConstraintName, err)
		}
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}
	return record, nil
}

// GetFeedback retrieves a feedback record by ID.
func (s *FeedbackStore) GetFeedback(ctx context.Context, id uuid.UUID) (*types.Feedback, error) {
	query := `
		SELECT ` + feedbackColumns + `
		FROM feedback
		WHERE id = $1`

	record, err := scanFeedback(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get feedback %s: %w", id, err)
	}
	return record, nil
}

// ListFeedbackByMember retrieves all feedback for a member, oldest first.
func (s *FeedbackStore) ListFeedbackByMember(ctx context.Context, memberID string) ([]*types.Feedback, error) {
	query := `
		SELECT ` + feedbackColumns + `
		FROM feedback
		WHERE member_id = $1
		ORDER BY submitted_at ASC, id ASC`

	rows, err := s.db.Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	records := make([]*types.Feedback, 0)
	for rows.Next() {
		record, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feedback: %w", err)
	}
	return records, nil
}

// Ping checks database connectivity.
func (s *FeedbackStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func scanFeedback(row pgx.Row) (*types.Feedback, error) {
	record := &types.Feedback{}
	err := row.Scan(
		&record.ID,
		&record.MemberID,
		&record.ProviderName,
		&record.Rating,
		&record.Comment,
		&record.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}
	record.SubmittedAt = record.SubmittedAt.UTC()
	return record, nil
}
