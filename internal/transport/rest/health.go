package rest

import (
	"context"
	"net/http"
	"time"
)

// storePinger is the minimal interface for record store health checks.
type storePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	store   storePinger
	driver  string
	version string
}

// NewHealthHandler creates a HealthHandler. driver names the store
// component in /health responses.
func NewHealthHandler(store storePinger, driver, version string) *HealthHandler {
	return &HealthHandler{store: store, driver: driver, version: version}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

const (
	statusOK   = "ok"
	statusDown = "down"

	pingTimeout = 3 * time.Second
)

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: statusOK, Timestamp: time.Now()})
}

// Ready is the readiness probe: 200 when the store answers, 503 if not.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	comp := h.probe(r.Context())
	writeJSON(w, httpStatus(comp), HealthResponse{Status: comp.Status, Timestamp: time.Now()})
}

// Health is Ready with the build version and the store's ping latency.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	comp := h.probe(r.Context())
	writeJSON(w, httpStatus(comp), HealthResponse{
		Status:     comp.Status,
		Version:    h.version,
		Components: map[string]CompStatus{h.driver: comp},
		Timestamp:  time.Now(),
	})
}

func (h *HealthHandler) probe(ctx context.Context) CompStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	if err := h.store.Ping(ctx); err != nil {
		return CompStatus{Status: statusDown}
	}
	return CompStatus{Status: statusOK, Latency: time.Since(start).String()}
}

func httpStatus(c CompStatus) int {
	if c.Status != statusOK {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}
