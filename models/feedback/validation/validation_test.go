package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsgfeedback/feedback-api/errors"
	"github.com/tsgfeedback/feedback-api/types"
)

func strPtr(s string) *string { return &s }

func validSubmission() *types.FeedbackSubmission {
	return &types.FeedbackSubmission{
		MemberID:     "m-101",
		ProviderName: "Dr. Phill",
		Rating:       4,
		Comment:      strPtr("Cool guy."),
	}
}

func TestValidateSubmission_Valid(t *testing.T) {
	assert.Empty(t, ValidateSubmission(validSubmission()))

	noComment := validSubmission()
	noComment.Comment = nil
	assert.Empty(t, ValidateSubmission(noComment))

	emptyComment := validSubmission()
	emptyComment.Comment = strPtr("")
	assert.Empty(t, ValidateSubmission(emptyComment))
}

func TestValidateSubmission_AllFieldsInvalid(t *testing.T) {
	sub := &types.FeedbackSubmission{
		MemberID: "",
		Rating:   0,
		Comment:  strPtr(strings.Repeat("a", 201)),
	}

	got := ValidateSubmission(sub)

	assert.Equal(t, []errors.FieldError{
		{Field: "memberId", Message: "Member ID is required"},
		{Field: "providerName", Message: "Provider name is required"},
		{Field: "rating", Message: "Rating must be between 1 and 5"},
		{Field: "comment", Message: "Comment must be less than 200 characters"},
	}, got)
}

func TestValidateSubmission_NilSubmission(t *testing.T) {
	got := ValidateSubmission(nil)
	assert.Equal(t, []errors.FieldError{
		{Field: "memberId", Message: MsgMemberIDRequired},
		{Field: "providerName", Message: MsgProviderNameRequired},
		{Field: "rating", Message: MsgRatingOutOfRange},
	}, got)
}

func TestValidateSubmission_Boundaries(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.FeedbackSubmission)
		want   []errors.FieldError
	}{
		{"memberId 36 chars", func(s *types.FeedbackSubmission) { s.MemberID = strings.Repeat("m", 36) }, nil},
		{"memberId 37 chars", func(s *types.FeedbackSubmission) { s.MemberID = strings.Repeat("m", 37) },
			[]errors.FieldError{{Field: "memberId", Message: MsgMemberIDTooLong}}},
		{"memberId whitespace", func(s *types.FeedbackSubmission) { s.MemberID = "   \t" },
			[]errors.FieldError{{Field: "memberId", Message: MsgMemberIDRequired}}},
		{"providerName 80 chars", func(s *types.FeedbackSubmission) { s.ProviderName = strings.Repeat("p", 80) }, nil},
		{"providerName 81 chars", func(s *types.FeedbackSubmission) { s.ProviderName = strings.Repeat("p", 81) },
			[]errors.FieldError{{Field: "providerName", Message: MsgProviderNameTooLong}}},
		{"providerName blank", func(s *types.FeedbackSubmission) { s.ProviderName = " " },
			[]errors.FieldError{{Field: "providerName", Message: MsgProviderNameRequired}}},
		{"comment 200 chars", func(s *types.FeedbackSubmission) { s.Comment = strPtr(strings.Repeat("c", 200)) }, nil},
		{"comment 201 chars", func(s *types.FeedbackSubmission) { s.Comment = strPtr(strings.Repeat("c", 201)) },
			[]errors.FieldError{{Field: "comment", Message: MsgCommentTooLong}}},
		{"comment 200 multibyte chars", func(s *types.FeedbackSubmission) { s.Comment = strPtr(strings.Repeat("é", 200)) }, nil},
		{"rating 1", func(s *types.FeedbackSubmission) { s.Rating = 1 }, nil},
		{"rating 5", func(s *types.FeedbackSubmission) { s.Rating = 5 }, nil},
		{"rating 0", func(s *types.FeedbackSubmission) { s.Rating = 0 },
			[]errors.FieldError{{Field: "rating", Message: MsgRatingOutOfRange}}},
		{"rating 6", func(s *types.FeedbackSubmission) { s.Rating = 6 },
			[]errors.FieldError{{Field: "rating", Message: MsgRatingOutOfRange}}},
		{"rating negative", func(s *types.FeedbackSubmission) { s.Rating = -3 },
			[]errors.FieldError{{Field: "rating", Message: MsgRatingOutOfRange}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := validSubmission()
			tt.mutate(sub)
			assert.Equal(t, tt.want, ValidateSubmission(sub))
		})
	}
}

func TestValidateSubmission_OneErrorPerField(t *testing.T) {
	sub := validSubmission()
	sub.MemberID = strings.Repeat(" ", 40)

	got := ValidateSubmission(sub)

	// blank wins over the length rule
	assert.Equal(t, []errors.FieldError{{Field: "memberId", Message: MsgMemberIDRequired}}, got)
}
