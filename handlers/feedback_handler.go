package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tsgfeedback/feedback-api/errors"
	"github.com/tsgfeedback/feedback-api/models/feedback/service"
	"github.com/tsgfeedback/feedback-api/types"
)

// Path under which feedback records are addressable; used for Location headers.
const feedbackBasePath = "/api/v1/feedback"

const (
	msgInvalidFeedbackID = "Feedback ID must be a valid UUID"
	msgMemberIDRequired  = "Member ID is required"
	msgMalformedBody     = "Request body must be valid JSON"
)

// FeedbackHandler handles feedback submission and lookup endpoints.
type FeedbackHandler struct {
	feedbackService service.FeedbackServiceInterface
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(feedbackService service.FeedbackServiceInterface) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// SubmitFeedback godoc
// @Summary      Submit feedback
// @Description  Validates and stores a member's feedback about a provider, then publishes a feedback-submitted event
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Param        body  body      types.FeedbackSubmission  true  "Feedback payload"
// @Success      201   {object}  types.Feedback
// @Header       201   {string}  Location  "/api/v1/feedback/{id}"
// @Failure      400   {object}  middleware.ErrorResponse  "Validation failed"
// @Failure      500   {object}  middleware.ErrorResponse  "Store failure"
// @Failure      502   {object}  middleware.ErrorResponse  "Stored but not published"
// @Router       /feedback [post]
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var req types.FeedbackSubmission
	if !bindJSONOrError(c, &req) {
		return
	}

	record, err := h.feedbackService.SubmitFeedback(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Location", feedbackBasePath+"/"+record.ID.String())
	c.JSON(http.StatusCreated, record)
}

// GetFeedback godoc
// @Summary      Get feedback by id
// @Tags         feedback
// @Produce      json
// @Param        id   path      string  true  "Feedback ID (UUID)"
// @Success      200  {object}  types.Feedback
// @Failure      400  {object}  middleware.ErrorResponse  "Malformed id"
// @Failure      404  {object}  middleware.ErrorResponse  "Not found"
// @Router       /feedback/{id} [get]
func (h *FeedbackHandler) GetFeedback(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		_ = c.Error(errors.InvalidParameter("id", msgInvalidFeedbackID))
		return
	}

	record, err := h.feedbackService.GetFeedbackByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// ListFeedback godoc
// @Summary      List a member's feedback
// @Tags         feedback
// @Produce      json
// @Param        memberId  query     string  true  "Member ID"
// @Success      200       {array}   types.Feedback
// @Failure      400       {object}  middleware.ErrorResponse  "Missing memberId"
// @Failure      500       {object}  middleware.ErrorResponse  "Store failure"
// @Router       /feedback [get]
func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	memberID := c.Query("memberId")
	if strings.TrimSpace(memberID) == "" {
		_ = c.Error(errors.InvalidParameter("memberId", msgMemberIDRequired))
		return
	}

	records, err := h.feedbackService.GetFeedbackByMemberID(c.Request.Context(), memberID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, records)
}

func bindJSONOrError(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		appErr := errors.InvalidParameter("body", msgMalformedBody)
		appErr.Detail = err.Error()
		appErr.Raw = err
		_ = c.Error(appErr)
		return false
	}
	return true
}
