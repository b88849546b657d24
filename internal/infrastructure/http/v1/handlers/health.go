// Package handlers provides HTTP request handlers.
package handlers

import (
	"context"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
)

// Checker reports whether a dependency is reachable.
type Checker interface {
	Ping(ctx context.Context) error
}

// CheckFunc adapts a function to Checker.
type CheckFunc func(ctx context.Context) error

// Ping implements Checker.
func (f CheckFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	checks map[string]Checker
	info   func() map[string]any
}

// NewHealthHandler creates a health handler over named dependency checks.
// info, when set, adds details to /health/info.
func NewHealthHandler(checks map[string]Checker, info func() map[string]any) *HealthHandler {
	return &HealthHandler{checks: checks, info: info}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles readiness probe (can the service reach its dependencies?).
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name].Ping(c.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			results[name] = "unhealthy: " + err.Error()
			continue
		}
		results[name] = "healthy"
	}

	body := gin.H{"status": "ok", "checks": results}
	if status != http.StatusOK {
		body["status"] = "error"
	}
	c.JSON(status, body)
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	body := gin.H{"app": "bizdesk"}
	if h.info != nil {
		for k, v := range h.info() {
			body[k] = v
		}
	}
	c.JSON(http.StatusOK, body)
}
