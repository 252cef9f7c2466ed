package fib

import (
	"net/netip"
	"slices"
)

// ChangedRoute is a prefix both sources know with different nexthop sets.
type ChangedRoute struct {
	Prefix   netip.Prefix `json:"prefix"`
	Expected []NextHop    `json:"expected"`
	Actual   []NextHop    `json:"actual"`
}

// MismatchReport describes how an actual RouteSet differs from the expected
// one. Every prefix of expected ∪ actual that disagrees lands in exactly one
// of the three lists.
type MismatchReport struct {
	Missing []netip.Prefix `json:"missing"`
	Extra   []netip.Prefix `json:"extra"`
	Changed []ChangedRoute `json:"changed"`
}

// Equal reports whether the two compared sets were semantically equal.
func (r MismatchReport) Equal() bool {
	return r.Count() == 0
}

// Count returns the number of mismatched prefixes.
func (r MismatchReport) Count() int {
	return len(r.Missing) + len(r.Extra) + len(r.Changed)
}

// Compare reports prefixes missing from actual, extra in actual and present
// in both with different nexthops, as judged by SameNextHops. Results are
// sorted by prefix.
func Compare(expected, actual RouteSet) MismatchReport {
	report := MismatchReport{
		Missing: []netip.Prefix{},
		Extra:   []netip.Prefix{},
		Changed: []ChangedRoute{},
	}

	for prefix, want := range expected.routes {
		have, ok := actual.routes[prefix]
		switch {
		case !ok:
			report.Missing = append(report.Missing, prefix)
		case !SameNextHops(want.NextHops, have.NextHops):
			report.Changed = append(report.Changed, ChangedRoute{
				Prefix:   prefix,
				Expected: want.NextHops,
				Actual:   have.NextHops,
			})
		}
	}
	for prefix := range actual.routes {
		if _, ok := expected.routes[prefix]; !ok {
			report.Extra = append(report.Extra, prefix)
		}
	}

	slices.SortFunc(report.Missing, ComparePrefix)
	slices.SortFunc(report.Extra, ComparePrefix)
	slices.SortFunc(report.Changed, func(a, b ChangedRoute) int {
		return ComparePrefix(a.Prefix, b.Prefix)
	})
	return report
}
