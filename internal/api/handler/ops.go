// Package handler provides HTTP handlers for the attribute extraction API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/galib9690/camels-attrs/internal/api/models"
	"github.com/galib9690/camels-attrs/internal/api/response"
)

// ReadinessCheck verifies a dependency is reachable.
type ReadinessCheck func(ctx context.Context) error

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	checks    map[string]ReadinessCheck
}

// NewOpsHandler creates a new OpsHandler. Readiness checks are keyed by
// dependency name and run on every readiness probe.
func NewOpsHandler(version, buildTime string, checks map[string]ReadinessCheck) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		checks:    checks,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status:  models.HealthStatusOK,
		Time:    models.Timestamp(time.Now()),
		Details: map[string]interface{}{},
	}

	status := http.StatusOK
	for name, check := range h.checks {
		if err := check(r.Context()); err != nil {
			health.Status = models.HealthStatusFail
			health.Details[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		health.Details[name] = "ok"
	}

	response.JSON(w, r, status, health)
}
