package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/cyphera/custody-vault/internal/types/api/responses"
	"github.com/gin-gonic/gin"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]HealthCheck
	now    func() time.Time
}

// NewHealthHandler builds a handler that runs checks on every request.
func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks, now: time.Now}
}

// Health godoc
// @Summary      Health check
// @Description  Reports liveness and the state of backing dependencies
// @Tags         health
// @Produce      json
// @Success      200  {object}  responses.HealthResponse
// @Failure      503  {object}  responses.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	resp := responses.HealthResponse{Status: "ok", Time: h.now().UTC()}
	status := http.StatusOK

	if len(h.checks) > 0 {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		resp.Checks = make(map[string]string, len(h.checks))
		for name, check := range h.checks {
			if err := check(ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
	}

	c.JSON(status, resp)
}
