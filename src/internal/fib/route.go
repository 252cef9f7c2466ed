package fib

import (
	"cmp"
	"encoding/json"
	"net/netip"
	"slices"
	"strconv"
	"strings"
)

// NextHop is a forwarding target: a gateway address, optionally scoped to an
// outgoing interface (required for link-local gateways) and weighted for
// unequal-cost multipath. Weight 0 means unweighted. An empty interface
// matches any interface when nexthop sets are compared.
type NextHop struct {
	Address   netip.Addr `json:"address"`
	Interface string     `json:"interface,omitempty"`
	Weight    uint32     `json:"weight,omitempty"`
}

// String renders the nexthop in the same syntax ParseNextHop accepts.
func (nh NextHop) String() string {
	var sb strings.Builder
	sb.WriteString(nh.Address.String())
	if nh.Interface != "" {
		sb.WriteString("@")
		sb.WriteString(nh.Interface)
	}
	if nh.Weight != 0 {
		sb.WriteString("#")
		sb.WriteString(strconv.FormatUint(uint64(nh.Weight), 10))
	}
	return sb.String()
}

func compareNextHop(a, b NextHop) int {
	if c := a.Address.Compare(b.Address); c != 0 {
		return c
	}
	if c := strings.Compare(a.Interface, b.Interface); c != 0 {
		return c
	}
	return cmp.Compare(a.Weight, b.Weight)
}

// CanonicalNextHops returns a sorted, deduplicated copy of nexthops.
//
// Weights only mean something relative to each other: a lone nexthop or a
// group whose weights are all equal is unweighted, and an unweighted member
// of a weighted group counts as weight 1.
func CanonicalNextHops(nexthops []NextHop) []NextHop {
	out := slices.Clone(nexthops)

	weighted := false
	for _, nh := range out {
		if effectiveWeight(nh) != effectiveWeight(out[0]) {
			weighted = true
			break
		}
	}
	for i := range out {
		if weighted {
			out[i].Weight = effectiveWeight(out[i])
		} else {
			out[i].Weight = 0
		}
	}

	slices.SortFunc(out, compareNextHop)
	return slices.Compact(out)
}

func effectiveWeight(nh NextHop) uint32 {
	return max(nh.Weight, 1)
}

// SameNextHops reports whether a and b hold the same set of nexthops,
// regardless of order and duplicates. Nexthops pair up by address and weight;
// an empty interface on either side pairs with any interface.
func SameNextHops(a, b []NextHop) bool {
	a, b = CanonicalNextHops(a), CanonicalNextHops(b)
	if len(a) != len(b) {
		return false
	}
	if slices.Equal(a, b) {
		return true
	}

	type gateway struct {
		addr   netip.Addr
		weight uint32
	}
	type tally struct {
		aAny, bAny int
		named      map[string]int
	}
	groups := make(map[gateway]*tally)
	group := func(nh NextHop) *tally {
		key := gateway{addr: nh.Address, weight: nh.Weight}
		t, ok := groups[key]
		if !ok {
			t = &tally{named: make(map[string]int)}
			groups[key] = t
		}
		return t
	}
	for _, nh := range a {
		t := group(nh)
		if nh.Interface == "" {
			t.aAny++
		} else {
			t.named[nh.Interface]++
		}
	}
	for _, nh := range b {
		t := group(nh)
		if nh.Interface == "" {
			t.bAny++
		} else {
			t.named[nh.Interface]--
		}
	}

	// Named interfaces present on both sides pair exactly. What is left on
	// one side must pair with the other side's wildcards.
	for _, t := range groups {
		aLeft, bLeft := 0, 0
		for _, n := range t.named {
			if n > 0 {
				aLeft += n
			} else {
				bLeft -= n
			}
		}
		if aLeft > t.bAny || bLeft > t.aAny || aLeft+t.aAny != bLeft+t.bAny {
			return false
		}
	}
	return true
}

// FormatNextHops joins nexthops with "|", the ECMP group separator.
func FormatNextHops(nexthops []NextHop) string {
	parts := make([]string, len(nexthops))
	for i, nh := range nexthops {
		parts[i] = nh.String()
	}
	return strings.Join(parts, "|")
}

// ComparePrefix orders prefixes IPv4 first, then by address, then by length.
func ComparePrefix(a, b netip.Prefix) int {
	if c := a.Addr().Compare(b.Addr()); c != 0 {
		return c
	}
	return cmp.Compare(a.Bits(), b.Bits())
}

// Route maps one prefix to its nexthop set.
type Route struct {
	Prefix   netip.Prefix `json:"prefix"`
	NextHops []NextHop    `json:"nexthops"`
}

// NewRoute builds a route with a masked prefix and canonical nexthops.
func NewRoute(prefix netip.Prefix, nexthops ...NextHop) Route {
	return Route{
		Prefix:   prefix.Masked(),
		NextHops: CanonicalNextHops(nexthops),
	}
}

func (r Route) String() string {
	return r.Prefix.String() + " via " + FormatNextHops(r.NextHops)
}

// RouteSet is an immutable prefix -> Route snapshot. The zero value is an
// empty set.
type RouteSet struct {
	routes map[netip.Prefix]Route
}

// NewRouteSet builds a snapshot from routes. A later route for the same
// prefix replaces an earlier one. Routes without nexthops are absent by
// definition: they are not stored and remove any earlier entry.
func NewRouteSet(routes ...Route) RouteSet {
	m := make(map[netip.Prefix]Route, len(routes))
	for _, r := range routes {
		if !r.Prefix.IsValid() {
			continue
		}
		r = NewRoute(r.Prefix, r.NextHops...)
		if len(r.NextHops) == 0 {
			delete(m, r.Prefix)
			continue
		}
		m[r.Prefix] = r
	}
	return RouteSet{routes: m}
}

// Len returns the number of routes.
func (s RouteSet) Len() int {
	return len(s.routes)
}

// Get returns the route for prefix.
func (s RouteSet) Get(prefix netip.Prefix) (Route, bool) {
	r, ok := s.routes[prefix.Masked()]
	return r, ok
}

// Has reports whether prefix has a route.
func (s RouteSet) Has(prefix netip.Prefix) bool {
	_, ok := s.routes[prefix.Masked()]
	return ok
}

// Prefixes returns all prefixes in ComparePrefix order.
func (s RouteSet) Prefixes() []netip.Prefix {
	prefixes := make([]netip.Prefix, 0, len(s.routes))
	for p := range s.routes {
		prefixes = append(prefixes, p)
	}
	slices.SortFunc(prefixes, ComparePrefix)
	return prefixes
}

// Routes returns all routes in prefix order.
func (s RouteSet) Routes() []Route {
	routes := make([]Route, 0, len(s.routes))
	for _, p := range s.Prefixes() {
		routes = append(routes, s.routes[p])
	}
	return routes
}

// Equal reports whether both sets hold the same prefixes with exactly the
// same canonical nexthops. Use Compare for interface-tolerant matching.
func (s RouteSet) Equal(other RouteSet) bool {
	if len(s.routes) != len(other.routes) {
		return false
	}
	for p, r := range s.routes {
		o, ok := other.routes[p]
		if !ok || !slices.Equal(r.NextHops, o.NextHops) {
			return false
		}
	}
	return true
}

// With returns a new set where routes replace the entries for their prefixes.
func (s RouteSet) With(routes ...Route) RouteSet {
	all := make([]Route, 0, len(s.routes)+len(routes))
	for _, r := range s.routes {
		all = append(all, r)
	}
	return NewRouteSet(append(all, routes...)...)
}

// Without returns a new set with prefixes removed. Absent prefixes are ignored.
func (s RouteSet) Without(prefixes ...netip.Prefix) RouteSet {
	drop := make(map[netip.Prefix]struct{}, len(prefixes))
	for _, p := range prefixes {
		drop[p.Masked()] = struct{}{}
	}
	kept := make([]Route, 0, len(s.routes))
	for p, r := range s.routes {
		if _, ok := drop[p]; !ok {
			kept = append(kept, r)
		}
	}
	return NewRouteSet(kept...)
}

// MarshalJSON renders the set as an array of routes ordered by prefix.
func (s RouteSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Routes())
}

// UnmarshalJSON reads an array of routes.
func (s *RouteSet) UnmarshalJSON(data []byte) error {
	var routes []Route
	if err := json.Unmarshal(data, &routes); err != nil {
		return err
	}
	*s = NewRouteSet(routes...)
	return nil
}

// Counters is an opaque name -> value snapshot of agent counters.
type Counters map[string]int64

// Names returns counter names in lexical order.
func (c Counters) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
