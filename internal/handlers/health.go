package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HealthHandler serves liveness and readiness checks
type HealthHandler struct {
	db      HealthChecker
	version string
}

// NewHealthHandler creates a health handler. db may be nil, in which case
// readiness only reflects that the process is serving.
func NewHealthHandler(db HealthChecker, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// Live reports that the process is serving requests
// GET /api/v1/health
func (h *HealthHandler) Live(c *gin.Context) {
	c.PureJSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
	})
}

// Ready reports whether the database is reachable
// GET /api/v1/health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.db != nil {
		if err := h.db.HealthCheck(c.Request.Context()); err != nil {
			zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("readiness check failed")
			c.JSON(http.StatusServiceUnavailable, HealthResponse{
				Status: "unavailable",
				Error:  "database unreachable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, HealthResponse{Status: "ready"})
}
