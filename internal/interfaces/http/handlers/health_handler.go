package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is any dependency with a cheap liveness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves GET /healthz. Dependency failures degrade the report
// but keep the status 200; the process itself is alive.
type HealthHandler struct {
	version string
	probes  map[string]Pinger
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version, probes: map[string]Pinger{}}
}

// AddProbe registers a named dependency probe. Nil probes are ignored.
func (h *HealthHandler) AddProbe(name string, p Pinger) {
	if p != nil {
		h.probes[name] = p
	}
}

func (h *HealthHandler) Health(c *gin.Context) {
	deps := make(map[string]string, len(h.probes))
	for name, p := range h.probes {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		if err := p.Ping(ctx); err != nil {
			deps[name] = "down"
		} else {
			deps[name] = "up"
		}
		cancel()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"version":      h.version,
		"dependencies": deps,
	})
}
