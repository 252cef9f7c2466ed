// Package fib holds the route model shared by every fibctl component.
//
// A RouteSet is an immutable snapshot of prefix -> nexthop-set mappings. It is
// what the decision module computes, what the FIB agent has programmed and
// what the kernel has installed; the engine only ever compares and converts
// snapshots, it never mutates one in place.
//
// Diff computes the minimal add/delete transition between two snapshots and
// Compare reports how two snapshots disagree. Both are pure.
//
//	current := fib.NewRouteSet(agentRoutes...)
//	desired := fib.NewRouteSet(decisionRoutes...)
//	delta := fib.Diff(current, desired)
//	// delta.ToAdd replaces changed prefixes, delta.ToDelete removes stale ones
package fib
