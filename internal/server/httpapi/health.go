package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/localmart-users/internal/logging"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Pinger checks store connectivity. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type healthData struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Service  string `json:"service"`
	Version  string `json:"version"`
	Error    string `json:"error,omitempty"`
}

type healthEnvelope struct {
	Data healthData `json:"data"`
}

// HealthHandler reports service and database status.
type HealthHandler struct {
	db      Pinger
	logger  logging.Logger
	service string
	version string
	timeout time.Duration
}

func NewHealthHandler(db Pinger, logger logging.Logger, service, version string) *HealthHandler {
	return &HealthHandler{db: db, logger: logger, service: service, version: version, timeout: 5 * time.Second}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Error(r.Context(), "Health check failed", "error", err.Error())
		_ = WriteJSON(w, http.StatusServiceUnavailable, ErrorResponse{Detail: healthEnvelope{Data: healthData{
			Status:   StatusUnhealthy,
			Database: "disconnected",
			Service:  h.service,
			Version:  h.version,
			Error:    err.Error(),
		}}})
		return
	}

	_ = WriteJSON(w, http.StatusOK, healthEnvelope{Data: healthData{
		Status:   StatusHealthy,
		Database: "connected",
		Service:  h.service,
		Version:  h.version,
	}})
}
