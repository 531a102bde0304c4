package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/asaikali/money-mate/obp"
	"github.com/asaikali/money-mate/utils"
	"go.uber.org/zap"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	serviceClient *obp.ServiceClient
	logger        *zap.Logger
}

// NewHealthHandler creates a new HealthHandler. serviceClient may be
// nil when no service credentials are configured; readiness then skips
// the upstream probe.
func NewHealthHandler(serviceClient *obp.ServiceClient, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		serviceClient: serviceClient,
		logger:        logger,
	}
}

// HandleHealth handles GET /healthz.
// Basic health check - always returns 200 if service is running
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	_ = utils.WriteOK(w, response)
}

// HandleReadiness handles GET /readyz. Probes OBP reachability as the
// application itself, exercising the cached service credential.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allHealthy := true

	if err := h.checkUpstream(ctx); err != nil {
		h.logger.Warn("upstream health check failed", zap.Error(err))
		checks["obp"] = "unhealthy"
		allHealthy = false
	} else {
		checks["obp"] = "healthy"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	if err := utils.WriteJSON(w, httpStatus, response); err != nil {
		h.logger.Error("failed to write readiness response", zap.Error(err))
	}
}

// checkUpstream verifies OBP answers a service-credential call.
func (h *HealthHandler) checkUpstream(ctx context.Context) error {
	if h.serviceClient == nil {
		return nil // no service credentials configured
	}

	_, err := h.serviceClient.CurrentUser(ctx)
	return err
}
