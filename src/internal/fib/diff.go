package fib

import (
	"net/netip"
	"slices"
)

// RouteDelta is the transition from one RouteSet to another. ToAdd and
// ToDelete never share a prefix: a prefix whose nexthops changed is only in
// ToAdd, as a full replacement, so it is never withdrawn in between.
type RouteDelta struct {
	ToAdd    RouteSet       `json:"to_add"`
	ToDelete []netip.Prefix `json:"to_delete"`
}

// IsEmpty reports whether the delta changes nothing.
func (d RouteDelta) IsEmpty() bool {
	return d.ToAdd.Len() == 0 && len(d.ToDelete) == 0
}

// ApplyTo returns the set obtained by applying the delta to current.
func (d RouteDelta) ApplyTo(current RouteSet) RouteSet {
	return current.Without(d.ToDelete...).With(d.ToAdd.Routes()...)
}

// Diff computes the minimal delta turning current into desired. A prefix is
// left alone when SameNextHops holds for both sides.
func Diff(current, desired RouteSet) RouteDelta {
	var toAdd []Route
	for prefix, want := range desired.routes {
		have, ok := current.routes[prefix]
		if !ok || !SameNextHops(have.NextHops, want.NextHops) {
			toAdd = append(toAdd, want)
		}
	}

	toDelete := []netip.Prefix{}
	for prefix := range current.routes {
		if _, ok := desired.routes[prefix]; !ok {
			toDelete = append(toDelete, prefix)
		}
	}
	slices.SortFunc(toDelete, ComparePrefix)

	return RouteDelta{
		ToAdd:    NewRouteSet(toAdd...),
		ToDelete: toDelete,
	}
}
