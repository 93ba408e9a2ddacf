package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/tsgfeedback/feedback-api/logger"
)

func init() {
	logger.IsTest = true
}

func TestNew(t *testing.T) {
	err := New(ValidationError, "invalid input", "field required")
	assert.Equal(t, ValidationError, err.Type)
	assert.Equal(t, "invalid input", err.Message)
	assert.Equal(t, "field required", err.Detail)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
}

func TestWrap(t *testing.T) {
	originalErr := fmt.Errorf("original error")
	wrappedErr := Wrap(originalErr, DatabaseError, "database operation failed")

	assert.Equal(t, DatabaseError, wrappedErr.Type)
	assert.Equal(t, "database operation failed", wrappedErr.Message)
	assert.Equal(t, originalErr.Error(), wrappedErr.Detail)
	assert.Equal(t, http.StatusInternalServerError, wrappedErr.HTTPStatus)
	assert.True(t, stderrors.Is(wrappedErr, originalErr))

	assert.Nil(t, Wrap(nil, DatabaseError, "nothing"))
}

func TestValidationFailed(t *testing.T) {
	fields := []FieldError{
		{Field: "memberId", Message: "Member ID is required"},
		{Field: "rating", Message: "Rating must be between 1 and 5"},
	}
	err := ValidationFailed(fields)
	assert.Equal(t, ValidationError, err.Type)
	assert.Equal(t, fields, err.Fields)
	assert.Equal(t, http.StatusBadRequest, err.GetHTTPStatus())
}

func TestFeedbackNotFound(t *testing.T) {
	id := uuid.New()
	err := FeedbackNotFound(id)
	assert.Equal(t, NotFoundError, err.Type)
	assert.Equal(t, "Feedback not found", err.Message)
	assert.Equal(t, http.StatusNotFound, err.GetHTTPStatus())
	assert.Equal(t, []FieldError{{Field: "id", Message: "Feedback not found with id: " + id.String()}}, err.Fields)
}

func TestNewDatabaseError(t *testing.T) {
	originalErr := fmt.Errorf("connection failed")
	err := NewDatabaseError(originalErr)
	assert.Equal(t, DatabaseError, err.Type)
	assert.Equal(t, "Database operation failed", err.Message)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
	assert.Equal(t, originalErr, err.Raw)

	var appErr *AppError
	wrapped := fmt.Errorf("submit: %w", err)
	assert.True(t, stderrors.As(wrapped, &appErr))
	assert.Equal(t, DatabaseError, appErr.Type)
}

func TestNewPublishError(t *testing.T) {
	err := NewPublishError(fmt.Errorf("broker down"))
	assert.Equal(t, PublishError, err.Type)
	assert.Equal(t, http.StatusBadGateway, err.GetHTTPStatus())
}

func TestGetHTTPStatusFallsBackToType(t *testing.T) {
	err := &AppError{Type: NotFoundError}
	assert.Equal(t, http.StatusNotFound, err.GetHTTPStatus())

	err = &AppError{Type: ErrorType("SOMETHING_ELSE")}
	assert.Equal(t, http.StatusInternalServerError, err.GetHTTPStatus())
}
