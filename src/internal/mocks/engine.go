package mocks

import (
	"context"

	"github.com/maksimkurb/fibctl/src/internal/fib"
)

// MockEngine is a mock implementation of the Engine interface.
//
// This allows testing the command line and the HTTP API without any agent.
type MockEngine struct {
	AddRoutesFunc       func(ctx context.Context, prefixes, nexthops string) (int, error)
	DelRoutesFunc       func(ctx context.Context, prefixes string) (int, error)
	SyncRoutesFunc      func(ctx context.Context, prefixes, nexthops string) (int, error)
	ListRoutesFunc      func(ctx context.Context) (fib.RouteSet, error)
	CountersFunc        func(ctx context.Context) (fib.Counters, error)
	ValidateFunc        func(ctx context.Context) (fib.MismatchReport, error)
	ListRoutesLinuxFunc func(ctx context.Context) (fib.RouteSet, error)
	ValidateLinuxFunc   func(ctx context.Context) (fib.MismatchReport, error)
	ReconcileFunc       func(ctx context.Context, dryRun bool) (fib.RouteDelta, error)

	// Track calls for verification in tests
	AddRoutesCalls       int
	DelRoutesCalls       int
	SyncRoutesCalls      int
	ListRoutesCalls      int
	CountersCalls        int
	ValidateCalls        int
	ListRoutesLinuxCalls int
	ValidateLinuxCalls   int
	ReconcileCalls       int

	// Arguments of the last call
	LastPrefixes string
	LastNextHops string
	LastDryRun   bool
}

func NewMockEngine() *MockEngine {
	return &MockEngine{}
}

func emptyReport() fib.MismatchReport {
	return fib.Compare(fib.NewRouteSet(), fib.NewRouteSet())
}

func (m *MockEngine) AddRoutes(ctx context.Context, prefixes, nexthops string) (int, error) {
	m.AddRoutesCalls++
	m.LastPrefixes, m.LastNextHops = prefixes, nexthops
	if m.AddRoutesFunc != nil {
		return m.AddRoutesFunc(ctx, prefixes, nexthops)
	}
	return 0, nil
}

func (m *MockEngine) DelRoutes(ctx context.Context, prefixes string) (int, error) {
	m.DelRoutesCalls++
	m.LastPrefixes = prefixes
	if m.DelRoutesFunc != nil {
		return m.DelRoutesFunc(ctx, prefixes)
	}
	return 0, nil
}

func (m *MockEngine) SyncRoutes(ctx context.Context, prefixes, nexthops string) (int, error) {
	m.SyncRoutesCalls++
	m.LastPrefixes, m.LastNextHops = prefixes, nexthops
	if m.SyncRoutesFunc != nil {
		return m.SyncRoutesFunc(ctx, prefixes, nexthops)
	}
	return 0, nil
}

func (m *MockEngine) ListRoutes(ctx context.Context) (fib.RouteSet, error) {
	m.ListRoutesCalls++
	if m.ListRoutesFunc != nil {
		return m.ListRoutesFunc(ctx)
	}
	return fib.NewRouteSet(), nil
}

func (m *MockEngine) Counters(ctx context.Context) (fib.Counters, error) {
	m.CountersCalls++
	if m.CountersFunc != nil {
		return m.CountersFunc(ctx)
	}
	return fib.Counters{}, nil
}

func (m *MockEngine) Validate(ctx context.Context) (fib.MismatchReport, error) {
	m.ValidateCalls++
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx)
	}
	return emptyReport(), nil
}

func (m *MockEngine) ListRoutesLinux(ctx context.Context) (fib.RouteSet, error) {
	m.ListRoutesLinuxCalls++
	if m.ListRoutesLinuxFunc != nil {
		return m.ListRoutesLinuxFunc(ctx)
	}
	return fib.NewRouteSet(), nil
}

func (m *MockEngine) ValidateLinux(ctx context.Context) (fib.MismatchReport, error) {
	m.ValidateLinuxCalls++
	if m.ValidateLinuxFunc != nil {
		return m.ValidateLinuxFunc(ctx)
	}
	return emptyReport(), nil
}

func (m *MockEngine) Reconcile(ctx context.Context, dryRun bool) (fib.RouteDelta, error) {
	m.ReconcileCalls++
	m.LastDryRun = dryRun
	if m.ReconcileFunc != nil {
		return m.ReconcileFunc(ctx, dryRun)
	}
	return fib.Diff(fib.NewRouteSet(), fib.NewRouteSet()), nil
}
