// Package validation holds the field rules every feedback submission must pass
// before it is stored.
package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/tsgfeedback/feedback-api/errors"
	"github.com/tsgfeedback/feedback-api/types"
)

const (
	MaxMemberIDLength     = 36
	MaxProviderNameLength = 80
	MaxCommentLength      = 200
	MinRating             = 1
	MaxRating             = 5
)

const (
	MsgMemberIDRequired     = "Member ID is required"
	MsgMemberIDTooLong      = "Member ID must be less than 36 characters"
	MsgProviderNameRequired = "Provider name is required"
	MsgProviderNameTooLong  = "Provider name must be less than 80 characters"
	MsgRatingOutOfRange     = "Rating must be between 1 and 5"
	MsgCommentTooLong       = "Comment must be less than 200 characters"
)

// ValidateSubmission checks every rule and returns one FieldError per failing
// field, ordered memberId, providerName, rating, comment. An empty result means
// the submission is valid.
func ValidateSubmission(sub *types.FeedbackSubmission) []errors.FieldError {
	if sub == nil {
		sub = &types.FeedbackSubmission{}
	}
	var fieldErrors []errors.FieldError

	if fe, ok := requiredText("memberId", sub.MemberID, MaxMemberIDLength, MsgMemberIDRequired, MsgMemberIDTooLong); !ok {
		fieldErrors = append(fieldErrors, fe)
	}

	if fe, ok := requiredText("providerName", sub.ProviderName, MaxProviderNameLength, MsgProviderNameRequired, MsgProviderNameTooLong); !ok {
		fieldErrors = append(fieldErrors, fe)
	}

	// zero doubles as "absent" after JSON decoding
	if sub.Rating < MinRating || sub.Rating > MaxRating {
		fieldErrors = append(fieldErrors, errors.FieldError{Field: "rating", Message: MsgRatingOutOfRange})
	}

	if sub.Comment != nil && utf8.RuneCountInString(*sub.Comment) > MaxCommentLength {
		fieldErrors = append(fieldErrors, errors.FieldError{Field: "comment", Message: MsgCommentTooLong})
	}

	return fieldErrors
}

// requiredText applies the blank check first and the length check only when
// the value is present.
func requiredText(field, value string, maxLen int, requiredMsg, tooLongMsg string) (errors.FieldError, bool) {
	if strings.TrimSpace(value) == "" {
		return errors.FieldError{Field: field, Message: requiredMsg}, false
	}
	if utf8.RuneCountInString(value) > maxLen {
		return errors.FieldError{Field: field, Message: tooLongMsg}, false
	}
	return errors.FieldError{}, true
}
