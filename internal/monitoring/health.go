package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// HealthChecker tracks advisor liveness for the dashboard health
// endpoint.
type HealthChecker struct {
	mu             sync.RWMutex
	platformOK     bool
	profileLoaded  bool
	lastRefresh    time.Time
	lastError      string
	staleThreshold time.Duration
}

// HealthStatus is the JSON body served by the health endpoint.
type HealthStatus struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	PlatformOK    bool      `json:"platform_ok"`
	ProfileLoaded bool      `json:"profile_loaded"`
	LastRefresh   time.Time `json:"last_refresh"`
	Uptime        string    `json:"uptime"`
	LastError     string    `json:"last_error,omitempty"`
}

// NewHealthChecker creates a health checker that reports degraded when
// the last successful refresh is older than staleThreshold.
func NewHealthChecker(staleThreshold time.Duration) *HealthChecker {
	if staleThreshold <= 0 {
		staleThreshold = 5 * time.Minute
	}
	return &HealthChecker{staleThreshold: staleThreshold}
}

// SetProfileLoaded records whether a capital profile is configured.
func (h *HealthChecker) SetProfileLoaded(loaded bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.profileLoaded = loaded
}

// RecordRefresh records the outcome of a platform refresh cycle.
func (h *HealthChecker) RecordRefresh(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.platformOK = false
		h.lastError = err.Error()
		return
	}
	h.platformOK = true
	h.lastError = ""
	h.lastRefresh = time.Now()
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	if !h.platformOK || time.Since(h.lastRefresh) > h.staleThreshold {
		status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	health := HealthStatus{
		Status:        status,
		Timestamp:     time.Now(),
		PlatformOK:    h.platformOK,
		ProfileLoaded: h.profileLoaded,
		LastRefresh:   h.lastRefresh,
		Uptime:        time.Since(startTime).String(),
		LastError:     h.lastError,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}
