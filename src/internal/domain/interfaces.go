// Package domain defines core interfaces for dependency injection and abstraction.
//
// The reconciliation engine only sees these interfaces, so commands, the HTTP
// API and tests can swap the network-facing clients for in-memory ones.
package domain

import (
	"context"
	"net/netip"

	"github.com/maksimkurb/fibctl/src/internal/fib"
)

// AgentClient defines the operations of the FIB agent, scoped to one client id.
//
// Mutations are idempotent on the agent side. A failed call, and especially
// a timed-out one, leaves the agent state unknown to the caller.
type AgentClient interface {
	// GetRouteTable returns the routes the agent holds for the client.
	GetRouteTable(ctx context.Context) (fib.RouteSet, error)

	// GetCounters returns the agent's counters.
	GetCounters(ctx context.Context) (fib.Counters, error)

	// AddUnicastRoutes adds or replaces routes per prefix.
	AddUnicastRoutes(ctx context.Context, routes fib.RouteSet) error

	// DeleteUnicastRoutes withdraws prefixes. Absent prefixes succeed.
	DeleteUnicastRoutes(ctx context.Context, prefixes []netip.Prefix) error

	// SyncFib replaces the client's whole table in one request.
	SyncFib(ctx context.Context, routes fib.RouteSet) error
}

// DecisionClient provides the routes computed by the decision module.
type DecisionClient interface {
	FetchComputedRoutes(ctx context.Context) (fib.RouteSet, error)
}

// KernelClient reads routes owned by the routing daemon from the kernel.
type KernelClient interface {
	FetchRoutes(ctx context.Context) (fib.RouteSet, error)
}

// Engine is the set of operations exposed to the command line and the HTTP API.
type Engine interface {
	// AddRoutes parses positional prefix and nexthop lists and adds them.
	// It returns the number of routes sent.
	AddRoutes(ctx context.Context, prefixes, nexthops string) (int, error)

	// DelRoutes parses a prefix list and deletes it. It returns the number
	// of prefixes sent.
	DelRoutes(ctx context.Context, prefixes string) (int, error)

	// SyncRoutes replaces the whole table with the given routes. Empty lists
	// tear the table down.
	SyncRoutes(ctx context.Context, prefixes, nexthops string) (int, error)

	// ListRoutes returns the agent's table.
	ListRoutes(ctx context.Context) (fib.RouteSet, error)

	// Counters returns the agent's counters.
	Counters(ctx context.Context) (fib.Counters, error)

	// Validate compares the decision module's routes (expected) against the
	// agent's (actual). Mismatches are reported, not returned as errors.
	Validate(ctx context.Context) (fib.MismatchReport, error)

	// ListRoutesLinux returns the owned kernel routes.
	ListRoutesLinux(ctx context.Context) (fib.RouteSet, error)

	// ValidateLinux compares the agent's routes (expected) against the kernel's (actual).
	ValidateLinux(ctx context.Context) (fib.MismatchReport, error)

	// Reconcile converges the agent to the decision module's routes. With
	// dryRun the delta is computed but not applied.
	Reconcile(ctx context.Context, dryRun bool) (fib.RouteDelta, error)
}
