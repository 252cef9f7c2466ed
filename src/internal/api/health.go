package api

import (
	"net/http"

	"github.com/maksimkurb/fibctl/src/internal/log"
)

// CheckHealth reports whether the FIB agent answers and which configuration
// the server runs with. Unhealthy responses use 503 with the same body.
// GET /health
func (h *Handler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthCheckResponse{
		Healthy:    true,
		ConfigPath: h.cfg.ConfigFilePath(),
		Checks:     make(map[string]CheckResult),
	}

	hash, err := h.cfg.Hash()
	if err != nil {
		log.Warnf("Failed to hash configuration: %v", err)
	}
	response.ConfigHash = hash

	if _, err := h.engine.Counters(r.Context()); err != nil {
		response.Healthy = false
		response.Checks["fib_agent"] = CheckResult{
			Passed:  false,
			Message: "FIB agent is not answering: " + err.Error(),
		}
	} else {
		response.Checks["fib_agent"] = CheckResult{
			Passed:  true,
			Message: "FIB agent at " + h.cfg.AgentAddr() + " is answering",
		}
	}

	status := http.StatusOK
	if !response.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}
