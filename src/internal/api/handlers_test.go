package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"

	"github.com/maksimkurb/fibctl/src/internal/config"
	fiberrors "github.com/maksimkurb/fibctl/src/internal/errors"
	"github.com/maksimkurb/fibctl/src/internal/fib"
	"github.com/maksimkurb/fibctl/src/internal/mocks"
)

func testRoutes() fib.RouteSet {
	return fib.NewRouteSet(
		fib.NewRoute(netip.MustParsePrefix("10.0.0.0/24"), fib.NextHop{Address: netip.MustParseAddr("192.168.1.1")}),
		fib.NewRoute(netip.MustParsePrefix("2001:db8::/64"), fib.NextHop{Address: netip.MustParseAddr("fe80::1"), Interface: "eth0"}),
	)
}

func doRequest(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "127.0.0.1:40000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
	if err := json.Unmarshal(envelope.Data, v); err != nil {
		t.Fatalf("Failed to decode data %q: %v", envelope.Data, err)
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error response %q: %v", rec.Body.String(), err)
	}
	return resp.Error
}

func TestGetRoutes(t *testing.T) {
	engine := mocks.NewMockEngine()
	engine.ListRoutesFunc = func(ctx context.Context) (fib.RouteSet, error) {
		return testRoutes(), nil
	}
	router := NewRouter(config.Default(), engine)

	rec := doRequest(t, router, "/api/v1/routes")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %q", ct)
	}

	var resp struct {
		Source string       `json:"source"`
		Count  int          `json:"count"`
		Routes fib.RouteSet `json:"routes"`
	}
	decodeData(t, rec, &resp)
	if resp.Source != "agent" || resp.Count != 2 {
		t.Errorf("Unexpected response header fields: %+v", resp)
	}
	if !resp.Routes.Equal(testRoutes()) {
		t.Errorf("Routes do not round-trip: got %v", resp.Routes.Routes())
	}
	if engine.ListRoutesCalls != 1 {
		t.Errorf("Expected 1 ListRoutes call, got %d", engine.ListRoutesCalls)
	}
}

func TestGetLinuxRoutes(t *testing.T) {
	engine := mocks.NewMockEngine()
	engine.ListRoutesLinuxFunc = func(ctx context.Context) (fib.RouteSet, error) {
		return testRoutes(), nil
	}

	rec := doRequest(t, NewRouter(config.Default(), engine), "/api/v1/routes/linux")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp RoutesResponse
	decodeData(t, rec, &resp)
	if resp.Source != "kernel" || resp.Count != 2 {
		t.Errorf("Unexpected response: %+v", resp)
	}
}

func TestGetCounters(t *testing.T) {
	engine := mocks.NewMockEngine()
	engine.CountersFunc = func(ctx context.Context) (fib.Counters, error) {
		return fib.Counters{"fibagent.num_of_routes": 12, "fibagent.add_requests": 3}, nil
	}

	rec := doRequest(t, NewRouter(config.Default(), engine), "/api/v1/counters")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var resp CountersResponse
	decodeData(t, rec, &resp)
	if resp.Counters["fibagent.num_of_routes"] != 12 || len(resp.Counters) != 2 {
		t.Errorf("Unexpected counters: %v", resp.Counters)
	}
}

func TestGetCounters_EmptyIsObject(t *testing.T) {
	engine := mocks.NewMockEngine()
	engine.CountersFunc = func(ctx context.Context) (fib.Counters, error) {
		return nil, nil
	}

	rec := doRequest(t, NewRouter(config.Default(), engine), "/api/v1/counters")
	if !strings.Contains(rec.Body.String(), `"counters":{}`) {
		t.Errorf("Expected empty counters object, got %s", rec.Body.String())
	}
}

func TestValidate(t *testing.T) {
	p1 := netip.MustParsePrefix("10.0.0.0/24")
	a := fib.NextHop{Address: netip.MustParseAddr("192.168.1.1")}
	b := fib.NextHop{Address: netip.MustParseAddr("192.168.1.2")}

	tests := []struct {
		name         string
		path         string
		report       fib.MismatchReport
		wantEqual    bool
		wantExpected string
		wantActual   string
	}{
		{
			name:         "decision vs agent mismatch",
			path:         "/api/v1/validate",
			report:       fib.Compare(fib.NewRouteSet(fib.NewRoute(p1, a)), fib.NewRouteSet(fib.NewRoute(p1, b))),
			wantEqual:    false,
			wantExpected: "decision",
			wantActual:   "agent",
		},
		{
			name:         "agent vs kernel equal",
			path:         "/api/v1/validate/linux",
			report:       fib.Compare(testRoutes(), testRoutes()),
			wantEqual:    true,
			wantExpected: "agent",
			wantActual:   "kernel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := mocks.NewMockEngine()
			engine.ValidateFunc = func(ctx context.Context) (fib.MismatchReport, error) {
				return tt.report, nil
			}
			engine.ValidateLinuxFunc = engine.ValidateFunc

			rec := doRequest(t, NewRouter(config.Default(), engine), tt.path)
			if rec.Code != http.StatusOK {
				t.Fatalf("Mismatches must not be errors, got %d", rec.Code)
			}

			var resp ValidationResponse
			decodeData(t, rec, &resp)
			if resp.Equal != tt.wantEqual || resp.Mismatches != tt.report.Count() {
				t.Errorf("Unexpected verdict: %+v", resp)
			}
			if resp.Expected != tt.wantExpected || resp.Actual != tt.wantActual {
				t.Errorf("Unexpected sources %q vs %q", resp.Expected, resp.Actual)
			}
			if !tt.wantEqual && (len(resp.Report.Changed) != 1 || resp.Report.Changed[0].Prefix != p1) {
				t.Errorf("Expected %s reported as changed, got %+v", p1, resp.Report)
			}
		})
	}
}

func TestEngineErrorStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   ErrorCode
	}{
		{
			name:       "timeout",
			err:        fiberrors.New(fiberrors.ErrCodeAgentTimeout, "agent at localhost:60100 did not answer"),
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   "agent_timeout",
		},
		{
			name:       "unreachable",
			err:        fiberrors.New(fiberrors.ErrCodeAgentUnreachable, "connection refused"),
			wantStatus: http.StatusBadGateway,
			wantCode:   "agent_unreachable",
		},
		{
			name:       "decision wraps rpc error",
			err:        fiberrors.NewDecisionError("failed to fetch", fiberrors.New(fiberrors.ErrCodeAgentTimeout, "slow")),
			wantStatus: http.StatusBadGateway,
			wantCode:   "decision_error",
		},
		{
			name:       "kernel",
			err:        fiberrors.NewKernelAccessError("netlink failed", nil),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "kernel_access_error",
		},
		{
			name:       "plain error",
			err:        context.Canceled,
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := mocks.NewMockEngine()
			engine.ListRoutesFunc = func(ctx context.Context) (fib.RouteSet, error) {
				return fib.RouteSet{}, tt.err
			}

			rec := doRequest(t, NewRouter(config.Default(), engine), "/api/v1/routes")
			if rec.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			apiErr := decodeError(t, rec)
			if apiErr.Code != tt.wantCode {
				t.Errorf("Expected code %q, got %q", tt.wantCode, apiErr.Code)
			}
			if apiErr.Message != tt.err.Error() {
				t.Errorf("Expected message %q, got %q", tt.err.Error(), apiErr.Message)
			}
		})
	}
}

func TestCheckHealth(t *testing.T) {
	cfg := config.Default()
	wantHash, err := cfg.Hash()
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	tests := []struct {
		name        string
		countersErr error
		wantStatus  int
		wantHealthy bool
	}{
		{name: "agent answers", wantStatus: http.StatusOK, wantHealthy: true},
		{
			name:        "agent down",
			countersErr: fiberrors.New(fiberrors.ErrCodeAgentUnreachable, "connection refused"),
			wantStatus:  http.StatusServiceUnavailable,
			wantHealthy: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := mocks.NewMockEngine()
			engine.CountersFunc = func(ctx context.Context) (fib.Counters, error) {
				return fib.Counters{}, tt.countersErr
			}

			rec := doRequest(t, NewRouter(cfg, engine), "/health")
			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected %d, got %d", tt.wantStatus, rec.Code)
			}
			var resp HealthCheckResponse
			decodeData(t, rec, &resp)
			if resp.Healthy != tt.wantHealthy {
				t.Errorf("Expected healthy=%v, got %+v", tt.wantHealthy, resp)
			}
			if resp.ConfigHash != wantHash {
				t.Errorf("Expected config hash %q, got %q", wantHash, resp.ConfigHash)
			}
			if resp.Checks["fib_agent"].Passed != tt.wantHealthy {
				t.Errorf("Unexpected fib_agent check: %+v", resp.Checks["fib_agent"])
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rec := doRequest(t, NewRouter(config.Default(), mocks.NewMockEngine()), "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Errorf("Expected Prometheus exposition, got %q", rec.Body.String())
	}
}

func TestNotFound(t *testing.T) {
	rec := doRequest(t, NewRouter(config.Default(), mocks.NewMockEngine()), "/api/v1/lists")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
	if apiErr := decodeError(t, rec); apiErr.Code != ErrCodeNotFound {
		t.Errorf("Expected not_found, got %q", apiErr.Code)
	}
}

func TestReadOnly(t *testing.T) {
	engine := mocks.NewMockEngine()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/routes", nil)
	req.RemoteAddr = "127.0.0.1:40000"
	rec := httptest.NewRecorder()
	NewRouter(config.Default(), engine).ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
	if engine.ListRoutesCalls != 0 {
		t.Errorf("Engine must not be called on POST")
	}
}
