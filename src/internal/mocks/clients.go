// Package mocks provides hand-written mocks of the domain interfaces.
//
// Every mock method counts its calls and delegates to an optional Func
// field; with the field unset it returns zero values and no error.
package mocks

import (
	"context"
	"net/netip"

	"github.com/maksimkurb/fibctl/src/internal/fib"
)

// MockAgentClient is a mock implementation of the AgentClient interface.
type MockAgentClient struct {
	GetRouteTableFunc       func(ctx context.Context) (fib.RouteSet, error)
	GetCountersFunc         func(ctx context.Context) (fib.Counters, error)
	AddUnicastRoutesFunc    func(ctx context.Context, routes fib.RouteSet) error
	DeleteUnicastRoutesFunc func(ctx context.Context, prefixes []netip.Prefix) error
	SyncFibFunc             func(ctx context.Context, routes fib.RouteSet) error

	// Track calls for verification in tests
	GetRouteTableCalls       int
	GetCountersCalls         int
	AddUnicastRoutesCalls    int
	DeleteUnicastRoutesCalls int
	SyncFibCalls             int

	// Arguments of the last mutation of each kind
	LastAdded   fib.RouteSet
	LastDeleted []netip.Prefix
	LastSynced  fib.RouteSet

	// Order of mutating calls, e.g. ["add", "delete"]
	Mutations []string
}

func NewMockAgentClient() *MockAgentClient {
	return &MockAgentClient{}
}

// RPCCalls returns the total number of calls made.
func (m *MockAgentClient) RPCCalls() int {
	return m.GetRouteTableCalls + m.GetCountersCalls + m.AddUnicastRoutesCalls +
		m.DeleteUnicastRoutesCalls + m.SyncFibCalls
}

func (m *MockAgentClient) GetRouteTable(ctx context.Context) (fib.RouteSet, error) {
	m.GetRouteTableCalls++
	if m.GetRouteTableFunc != nil {
		return m.GetRouteTableFunc(ctx)
	}
	return fib.NewRouteSet(), nil
}

func (m *MockAgentClient) GetCounters(ctx context.Context) (fib.Counters, error) {
	m.GetCountersCalls++
	if m.GetCountersFunc != nil {
		return m.GetCountersFunc(ctx)
	}
	return fib.Counters{}, nil
}

func (m *MockAgentClient) AddUnicastRoutes(ctx context.Context, routes fib.RouteSet) error {
	m.AddUnicastRoutesCalls++
	m.LastAdded = routes
	m.Mutations = append(m.Mutations, "add")
	if m.AddUnicastRoutesFunc != nil {
		return m.AddUnicastRoutesFunc(ctx, routes)
	}
	return nil
}

func (m *MockAgentClient) DeleteUnicastRoutes(ctx context.Context, prefixes []netip.Prefix) error {
	m.DeleteUnicastRoutesCalls++
	m.LastDeleted = prefixes
	m.Mutations = append(m.Mutations, "delete")
	if m.DeleteUnicastRoutesFunc != nil {
		return m.DeleteUnicastRoutesFunc(ctx, prefixes)
	}
	return nil
}

func (m *MockAgentClient) SyncFib(ctx context.Context, routes fib.RouteSet) error {
	m.SyncFibCalls++
	m.LastSynced = routes
	m.Mutations = append(m.Mutations, "sync")
	if m.SyncFibFunc != nil {
		return m.SyncFibFunc(ctx, routes)
	}
	return nil
}

// MockDecisionClient is a mock implementation of the DecisionClient interface.
type MockDecisionClient struct {
	FetchComputedRoutesFunc  func(ctx context.Context) (fib.RouteSet, error)
	FetchComputedRoutesCalls int
}

func NewMockDecisionClient(routes fib.RouteSet) *MockDecisionClient {
	return &MockDecisionClient{
		FetchComputedRoutesFunc: func(ctx context.Context) (fib.RouteSet, error) {
			return routes, nil
		},
	}
}

func (m *MockDecisionClient) FetchComputedRoutes(ctx context.Context) (fib.RouteSet, error) {
	m.FetchComputedRoutesCalls++
	if m.FetchComputedRoutesFunc != nil {
		return m.FetchComputedRoutesFunc(ctx)
	}
	return fib.NewRouteSet(), nil
}

// MockKernelClient is a mock implementation of the KernelClient interface.
type MockKernelClient struct {
	FetchRoutesFunc  func(ctx context.Context) (fib.RouteSet, error)
	FetchRoutesCalls int
}

func NewMockKernelClient(routes fib.RouteSet) *MockKernelClient {
	return &MockKernelClient{
		FetchRoutesFunc: func(ctx context.Context) (fib.RouteSet, error) {
			return routes, nil
		},
	}
}

func (m *MockKernelClient) FetchRoutes(ctx context.Context) (fib.RouteSet, error) {
	m.FetchRoutesCalls++
	if m.FetchRoutesFunc != nil {
		return m.FetchRoutesFunc(ctx)
	}
	return fib.NewRouteSet(), nil
}
