package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	customErrors "github.com/tsgfeedback/feedback-api/errors"
	"github.com/tsgfeedback/feedback-api/logger"
)

func init() {
	logger.IsTest = true
}

func performWithError(t *testing.T, err error, errType gin.ErrorType) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.Use(ErrorHandler())
	r.GET("/test", func(c *gin.Context) {
		_ = c.Error(err).SetType(errType)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestErrorHandler(t *testing.T) {
	id := uuid.New()

	testCases := []struct {
		name         string
		err          error
		ginErrorType gin.ErrorType
		wantStatus   int
		wantType     string
		wantMessage  string
		wantFields   []customErrors.FieldError
	}{
		{
			name: "validation error carries every field",
			err: customErrors.ValidationFailed([]customErrors.FieldError{
				{Field: "memberId", Message: "Member ID is required"},
				{Field: "rating", Message: "Rating must be between 1 and 5"},
			}),
			ginErrorType: gin.ErrorTypePrivate,
			wantStatus:   http.StatusBadRequest,
			wantType:     "VALIDATION_ERROR",
			wantMessage:  "Validation failed",
			wantFields: []customErrors.FieldError{
				{Field: "memberId", Message: "Member ID is required"},
				{Field: "rating", Message: "Rating must be between 1 and 5"},
			},
		},
		{
			name:         "not found",
			err:          customErrors.FeedbackNotFound(id),
			ginErrorType: gin.ErrorTypePrivate,
			wantStatus:   http.StatusNotFound,
			wantType:     "NOT_FOUND",
			wantMessage:  "Feedback not found",
			wantFields: []customErrors.FieldError{
				{Field: "id", Message: "Feedback not found with id: " + id.String()},
			},
		},
		{
			name:         "wrapped publish error",
			err:          fmt.Errorf("submit: %w", customErrors.NewPublishError(errors.New("broker down"))),
			ginErrorType: gin.ErrorTypePrivate,
			wantStatus:   http.StatusBadGateway,
			wantType:     "PUBLISH_ERROR",
			wantMessage:  "Feedback was stored but the event could not be published",
		},
		{
			name:         "database error",
			err:          customErrors.NewDatabaseError(errors.New("connection refused")),
			ginErrorType: gin.ErrorTypePrivate,
			wantStatus:   http.StatusInternalServerError,
			wantType:     "DATABASE_ERROR",
			wantMessage:  "Database operation failed",
		},
		{
			name:         "bind error",
			err:          errors.New("invalid character '}'"),
			ginErrorType: gin.ErrorTypeBind,
			wantStatus:   http.StatusBadRequest,
			wantType:     "VALIDATION_ERROR",
			wantMessage:  "Failed to bind request",
		},
		{
			name:         "unknown error",
			err:          errors.New("internal processing error"),
			ginErrorType: gin.ErrorTypePrivate,
			wantStatus:   http.StatusInternalServerError,
			wantType:     "SERVER_ERROR",
			wantMessage:  "Internal Server Error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, body := performWithError(t, tc.err, tc.ginErrorType)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantType, body.Type)
			assert.Equal(t, tc.wantMessage, body.Message)
			assert.Equal(t, fmt.Sprint(tc.wantStatus), body.Code)
			assert.Equal(t, tc.wantFields, body.Errors)
			assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		})
	}
}

func TestErrorHandler_NoErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	var seen string
	r.GET("/id", func(c *gin.Context) {
		seen = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	t.Run("propagates upstream id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/id", nil)
		req.Header.Set(RequestIDHeader, "upstream-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "upstream-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "upstream-123", seen)
	})

	t.Run("generates id when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/id", nil))

		generated := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(generated)
		assert.NoError(t, err)
		assert.Equal(t, generated, seen)
	})
}
