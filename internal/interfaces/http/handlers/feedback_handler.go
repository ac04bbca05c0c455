package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/HazWaste-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/HazWaste-Intelligence/pkg/errors"
)

// FeedbackHandler serves the analyst-feedback endpoints.
type FeedbackHandler struct {
	svc ClassificationService
}

func NewFeedbackHandler(svc ClassificationService) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

// Record handles POST /api/v1/feedback.
func (h *FeedbackHandler) Record(c *gin.Context) {
	var rec postgres.Feedback
	if err := c.ShouldBindJSON(&rec); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid request body"))
		return
	}

	if err := h.svc.RecordFeedback(c.Request.Context(), rec); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// List handles GET /api/v1/feedback?limit=N.
func (h *FeedbackHandler) List(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			respondError(c, errors.New(errors.ErrCodeBadRequest, "limit must be between 1 and 500"))
			return
		}
		limit = n
	}

	records, err := h.svc.RecentFeedback(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if records == nil {
		records = []postgres.Feedback{}
	}
	c.JSON(http.StatusOK, gin.H{"records": records, "count": len(records)})
}
