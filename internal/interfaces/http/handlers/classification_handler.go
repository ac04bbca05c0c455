package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/HazWaste-Intelligence/internal/application/hazclass"
	"github.com/turtacn/HazWaste-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/HazWaste-Intelligence/pkg/errors"
)

// ClassificationService is the application surface the handlers call.
type ClassificationService interface {
	Classify(ctx context.Context, req hazclass.Request) (*hazclass.Document, error)
	RecordFeedback(ctx context.Context, rec postgres.Feedback) error
	RecentFeedback(ctx context.Context, limit int) ([]postgres.Feedback, error)
}

// ClassificationHandler serves the classification endpoints.
type ClassificationHandler struct {
	svc         ClassificationService
	maxBodySize int64
}

// NewClassificationHandler builds the handler. maxBodySize caps the request
// body; zero means 4 MiB.
func NewClassificationHandler(svc ClassificationService, maxBodySize int64) *ClassificationHandler {
	if maxBodySize <= 0 {
		maxBodySize = 4 << 20
	}
	return &ClassificationHandler{svc: svc, maxBodySize: maxBodySize}
}

// Classify handles POST /api/v1/classifications.
func (h *ClassificationHandler) Classify(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodySize)

	var req hazclass.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid request body"))
		return
	}

	doc, err := h.svc.Classify(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}
