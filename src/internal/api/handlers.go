package api

import (
	"encoding/json"
	"net/http"

	"github.com/maksimkurb/fibctl/src/internal/config"
	"github.com/maksimkurb/fibctl/src/internal/domain"
	"github.com/maksimkurb/fibctl/src/internal/fib"
)

// Handler manages all API endpoints and dependencies.
type Handler struct {
	cfg    *config.Config
	engine domain.Engine
}

// NewHandler creates a new API handler running operations on engine.
func NewHandler(cfg *config.Config, engine domain.Engine) *Handler {
	return &Handler{
		cfg:    cfg,
		engine: engine,
	}
}

// GetRoutes returns the agent route table.
// GET /api/v1/routes
func (h *Handler) GetRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := h.engine.ListRoutes(r.Context())
	if err != nil {
		WriteEngineError(w, err)
		return
	}
	writeJSONData(w, RoutesResponse{Source: "agent", Count: routes.Len(), Routes: routes})
}

// GetLinuxRoutes returns the kernel routes owned by the routing protocol.
// GET /api/v1/routes/linux
func (h *Handler) GetLinuxRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := h.engine.ListRoutesLinux(r.Context())
	if err != nil {
		WriteEngineError(w, err)
		return
	}
	writeJSONData(w, RoutesResponse{Source: "kernel", Count: routes.Len(), Routes: routes})
}

// GetCounters returns the agent counters.
// GET /api/v1/counters
func (h *Handler) GetCounters(w http.ResponseWriter, r *http.Request) {
	counters, err := h.engine.Counters(r.Context())
	if err != nil {
		WriteEngineError(w, err)
		return
	}
	if counters == nil {
		counters = fib.Counters{}
	}
	writeJSONData(w, CountersResponse{Counters: counters})
}

// Validate compares decision routes against the agent table.
// GET /api/v1/validate
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	report, err := h.engine.Validate(r.Context())
	if err != nil {
		WriteEngineError(w, err)
		return
	}
	writeJSONData(w, validationResponse("decision", "agent", report))
}

// ValidateLinux compares the agent table against kernel routes.
// GET /api/v1/validate/linux
func (h *Handler) ValidateLinux(w http.ResponseWriter, r *http.Request) {
	report, err := h.engine.ValidateLinux(r.Context())
	if err != nil {
		WriteEngineError(w, err)
		return
	}
	writeJSONData(w, validationResponse("agent", "kernel", report))
}

func validationResponse(expected, actual string, report fib.MismatchReport) ValidationResponse {
	return ValidationResponse{
		Expected:   expected,
		Actual:     actual,
		Equal:      report.Equal(),
		Mismatches: report.Count(),
		Report:     report,
	}
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(DataResponse{Data: data})
}

// writeJSONData writes a successful JSON response with data.
func writeJSONData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}
