// Package handlers implements the HTTP endpoints of the classification API.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/HazWaste-Intelligence/pkg/errors"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps an application error onto its HTTP status. Server-side
// codes are masked behind the canonical message so internals never leak.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	msg := err.Error()
	if errors.IsServerError(code) {
		msg = errors.DefaultMessageForCode(code)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code.String(), Message: msg})
}
