package types

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is a validated, persisted feedback record.
type Feedback struct {
	ID           uuid.UUID `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	MemberID     string    `json:"memberId" example:"m-123"`
	ProviderName string    `json:"providerName" example:"Dr. Smith"`
	Rating       int       `json:"rating" example:"4"`
	Comment      *string   `json:"comment,omitempty" example:"Great experience."`
	SubmittedAt  time.Time `json:"submittedAt" example:"2025-11-14T12:00:00Z"`
}

// FeedbackSubmission is the request body for submitting feedback. Field rules
// are enforced by the feedback validator, not by binding tags.
type FeedbackSubmission struct {
	MemberID     string  `json:"memberId" example:"m-123"`
	ProviderName string  `json:"providerName" example:"Dr. Smith"`
	Rating       int     `json:"rating" example:"4"`
	Comment      *string `json:"comment,omitempty" example:"Great experience."`
}

// NewFeedback is what the service hands to the store: a submission that passed
// validation. The store assigns ID and SubmittedAt.
type NewFeedback struct {
	MemberID     string
	ProviderName string
	Rating       int
	Comment      *string
}
