package fib

import (
	"math/rand"
	"net/netip"
	"testing"
)

func TestCompare_SameSet(t *testing.T) {
	set := NewRouteSet(
		route("10.0.0.0/24", nh("192.168.1.1"), nh("192.168.1.2")),
		route("fc00::/64", nh("fe80::1")),
	)

	report := Compare(set, set)
	if !report.Equal() {
		t.Errorf("Expected equal report, got %+v", report)
	}
}

func TestCompare_ChangedNextHops(t *testing.T) {
	expected := NewRouteSet(route("10.0.0.0/24", nh("192.168.1.1")))
	actual := NewRouteSet(route("10.0.0.0/24", nh("192.168.1.2")))

	report := Compare(expected, actual)

	if len(report.Missing) != 0 || len(report.Extra) != 0 {
		t.Fatalf("Expected only a changed entry, got %+v", report)
	}
	if len(report.Changed) != 1 {
		t.Fatalf("Expected 1 changed route, got %d", len(report.Changed))
	}
	changed := report.Changed[0]
	if changed.Prefix != netip.MustParsePrefix("10.0.0.0/24") {
		t.Errorf("Unexpected prefix %s", changed.Prefix)
	}
	if changed.Expected[0] != nh("192.168.1.1") || changed.Actual[0] != nh("192.168.1.2") {
		t.Errorf("Unexpected nexthops: expected=%v actual=%v", changed.Expected, changed.Actual)
	}
}

func TestCompare_InterfaceOnlyOnOneSide(t *testing.T) {
	expected, err := ParseRoutes("10.0.3.0/24,10.0.4.0/24", "192.168.1.1,192.168.1.1@eth1")
	if err != nil {
		t.Fatalf("ParseRoutes failed: %v", err)
	}
	actual := NewRouteSet(
		route("10.0.3.0/24", NextHop{Address: netip.MustParseAddr("192.168.1.1"), Interface: "eth0"}),
		route("10.0.4.0/24", NextHop{Address: netip.MustParseAddr("192.168.1.1"), Interface: "eth0"}),
	)

	report := Compare(expected, actual)
	if len(report.Changed) != 1 || report.Changed[0].Prefix != netip.MustParsePrefix("10.0.4.0/24") {
		t.Errorf("Expected only 10.0.4.0/24 to differ, got %+v", report)
	}
}

func TestCompare_MissingAndExtra(t *testing.T) {
	expected := NewRouteSet(
		route("10.0.0.0/24", nh("192.168.1.1")),
		route("10.0.2.0/24", nh("192.168.1.1")),
	)
	actual := NewRouteSet(
		route("10.0.0.0/24", nh("192.168.1.1")),
		route("10.0.3.0/24", nh("192.168.1.1")),
	)

	report := Compare(expected, actual)

	if len(report.Missing) != 1 || report.Missing[0] != netip.MustParsePrefix("10.0.2.0/24") {
		t.Errorf("Missing = %v", report.Missing)
	}
	if len(report.Extra) != 1 || report.Extra[0] != netip.MustParsePrefix("10.0.3.0/24") {
		t.Errorf("Extra = %v", report.Extra)
	}
	if report.Count() != 2 {
		t.Errorf("Count() = %d, want 2", report.Count())
	}
}

func TestCompare_PartitionsDisagreements(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		a := randomRouteSet(rng)
		b := randomRouteSet(rng)
		report := Compare(a, b)

		seen := make(map[netip.Prefix]int)
		for _, p := range report.Missing {
			seen[p]++
		}
		for _, p := range report.Extra {
			seen[p]++
		}
		for _, c := range report.Changed {
			seen[c.Prefix]++
		}

		for _, prefix := range a.With(b.Routes()...).Prefixes() {
			ra, inA := a.Get(prefix)
			rb, inB := b.Get(prefix)
			agree := inA && inB && SameNextHops(ra.NextHops, rb.NextHops)

			switch {
			case agree && seen[prefix] != 0:
				t.Fatalf("Prefix %s agrees but is reported", prefix)
			case !agree && seen[prefix] != 1:
				t.Fatalf("Prefix %s reported %d times, want exactly once", prefix, seen[prefix])
			}
		}
		if report.Equal() != a.Equal(b) {
			t.Fatalf("Equal() = %v but sets equal = %v", report.Equal(), a.Equal(b))
		}
	}
}
