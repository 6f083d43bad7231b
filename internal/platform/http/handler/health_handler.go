// Package handler provides HTTP handlers for platform-level endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	statusOK          = "ok"
	statusUnavailable = "unavailable"

	defaultCheckTimeout = 2 * time.Second
)

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthHandler serves /healthz for load balancers and uptime monitors.
type HealthHandler struct {
	checks  map[string]Check
	timeout time.Duration
}

// NewHealthHandler runs every named check on each request.
// With no checks the endpoint only reports that the process is up.
func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: defaultCheckTimeout}
}

// Health answers 200 when all checks pass and 503 otherwise.
// HEAD carries the status code only; OPTIONS always answers 204. Responses are never cached.
func (h *HealthHandler) Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	if c.Request.Method == http.MethodOptions {
		c.Status(http.StatusNoContent)
		return
	}

	res := h.run(c.Request.Context())
	code := http.StatusOK
	if res.Status != statusOK {
		code = http.StatusServiceUnavailable
	}

	if c.Request.Method == http.MethodHead {
		c.Status(code)
		return
	}
	c.JSON(code, res)
}

func (h *HealthHandler) run(ctx context.Context) HealthResponse {
	res := HealthResponse{Status: statusOK}
	if len(h.checks) == 0 {
		return res
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	res.Checks = make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			slog.Warn("health check failed", "check", name, "error", err)
			res.Checks[name] = statusUnavailable
			res.Status = statusUnavailable
			continue
		}
		res.Checks[name] = statusOK
	}
	return res
}
