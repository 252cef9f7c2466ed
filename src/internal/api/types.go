package api

import "github.com/maksimkurb/fibctl/src/internal/fib"

// DataResponse wraps successful responses with a "data" field.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// RoutesResponse lists a route table.
type RoutesResponse struct {
	Source string       `json:"source"` // "agent" or "kernel"
	Count  int          `json:"count"`
	Routes fib.RouteSet `json:"routes"`
}

// CountersResponse lists agent counters. Keys are sorted by encoding/json.
type CountersResponse struct {
	Counters fib.Counters `json:"counters"`
}

// ValidationResponse carries a mismatch report between two route sources.
type ValidationResponse struct {
	Expected   string             `json:"expected"`
	Actual     string             `json:"actual"`
	Equal      bool               `json:"equal"`
	Mismatches int                `json:"mismatches"`
	Report     fib.MismatchReport `json:"report"`
}

// HealthCheckResponse represents the result of health checks.
type HealthCheckResponse struct {
	Healthy    bool                   `json:"healthy"`
	ConfigPath string                 `json:"config_path,omitempty"`
	ConfigHash string                 `json:"config_hash"`
	Checks     map[string]CheckResult `json:"checks"`
}

// CheckResult represents the result of a single health check.
type CheckResult struct {
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}
