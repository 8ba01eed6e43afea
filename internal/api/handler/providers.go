package handler

import (
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/galib9690/camels-attrs/internal/api/models"
	"github.com/galib9690/camels-attrs/internal/api/response"
	"github.com/galib9690/camels-attrs/internal/provider/resilience"
)

// ProvidersHandler reports the health of external data providers.
type ProvidersHandler struct {
	registry *resilience.Registry
}

// NewProvidersHandler creates a new ProvidersHandler.
func NewProvidersHandler(registry *resilience.Registry) *ProvidersHandler {
	return &ProvidersHandler{registry: registry}
}

// GetProvidersHealth handles GET /v1/providers/health - circuit breaker
// state for every registered upstream data service.
func (h *ProvidersHandler) GetProvidersHealth(w http.ResponseWriter, r *http.Request) {
	overall := models.HealthStatusOK
	health := h.registry.GetAllHealth()

	providers := make([]models.ProviderStatus, 0, len(health))
	for _, p := range health {
		status := models.HealthStatusOK
		switch {
		case p.IsUnhealthy():
			status = models.HealthStatusFail
			overall = models.HealthStatusDegraded
		case p.IsDegraded():
			status = models.HealthStatusDegraded
			if overall == models.HealthStatusOK {
				overall = models.HealthStatusDegraded
			}
		}

		ps := models.ProviderStatus{
			Provider:     p.Name,
			Status:       status,
			CircuitState: circuitStateName(p.CircuitState),
		}
		if p.LastSuccessAt != nil {
			ts := models.Timestamp(*p.LastSuccessAt)
			ps.LastSuccessAt = &ts
		}
		if p.LastFailureAt != nil {
			ts := models.Timestamp(*p.LastFailureAt)
			ps.LastFailureAt = &ts
		}
		if p.LastError != "" {
			msg := p.LastError
			ps.Message = &msg
		}
		providers = append(providers, ps)
	}

	response.JSON(w, r, http.StatusOK, models.ProvidersHealth{
		Status:    overall,
		Time:      models.Timestamp(time.Now()),
		Providers: providers,
	})
}

func circuitStateName(s gobreaker.State) string {
	switch s {
	case gobreaker.StateOpen:
		return "open"
	case gobreaker.StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}
