package fib

import (
	"errors"
	"net/netip"
	"strings"
	"testing"

	fiberrors "github.com/maksimkurb/fibctl/src/internal/errors"
)

func TestParsePrefix(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "10.0.0.0/24", want: "10.0.0.0/24"},
		{input: " 10.0.0.1/24 ", want: "10.0.0.0/24"},
		{input: "10.0.0.1", want: "10.0.0.1/32"},
		{input: "fc00::/7", want: "fc00::/7"},
		{input: "2001:db8::1", want: "2001:db8::1/128"},
		{input: "10.0.0.0/33", wantErr: true},
		{input: "not-a-prefix", wantErr: true},
		{input: "fe80::1%eth0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePrefix(tt.input)
			if tt.wantErr {
				if !errors.Is(err, fiberrors.ErrMalformedInput) {
					t.Fatalf("Expected MalformedInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("ParsePrefix(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseNextHop(t *testing.T) {
	tests := []struct {
		input   string
		want    NextHop
		wantErr bool
	}{
		{input: "192.168.1.1", want: NextHop{Address: netip.MustParseAddr("192.168.1.1")}},
		{input: "fe80::1@eth0", want: NextHop{Address: netip.MustParseAddr("fe80::1"), Interface: "eth0"}},
		{input: "fe80::1%eth0", want: NextHop{Address: netip.MustParseAddr("fe80::1"), Interface: "eth0"}},
		{input: "10.0.0.1@eth1#5", want: NextHop{Address: netip.MustParseAddr("10.0.0.1"), Interface: "eth1", Weight: 5}},
		{input: "::ffff:10.0.0.1", want: NextHop{Address: netip.MustParseAddr("10.0.0.1")}},
		{input: "10.0.0.1@", wantErr: true},
		{input: "10.0.0.1#x", wantErr: true},
		{input: "fe80::1%eth0@eth1", wantErr: true},
		{input: "nh1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseNextHop(tt.input)
			if tt.wantErr {
				if !errors.Is(err, fiberrors.ErrMalformedInput) {
					t.Fatalf("Expected MalformedInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseNextHop(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRoutes_ECMPGroups(t *testing.T) {
	set, err := ParseRoutes("10.0.0.0/24,fc00::/64", "192.168.1.1|192.168.1.2,fe80::1@eth0")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	r, ok := set.Get(netip.MustParsePrefix("10.0.0.0/24"))
	if !ok || len(r.NextHops) != 2 {
		t.Fatalf("Expected ECMP route with 2 nexthops, got %+v", r)
	}
	r6, ok := set.Get(netip.MustParsePrefix("fc00::/64"))
	if !ok || r6.NextHops[0].Interface != "eth0" {
		t.Fatalf("Expected link-local nexthop on eth0, got %+v", r6)
	}
}

func TestParseRoutes_Errors(t *testing.T) {
	tests := []struct {
		name      string
		prefixes  string
		nexthops  string
		wantToken string
	}{
		{name: "length mismatch", prefixes: "10.0.0.0/24,10.0.1.0/24,10.0.2.0/24", nexthops: "192.168.1.1,192.168.1.2", wantToken: "3 prefixes but 2"},
		{name: "bad nexthop", prefixes: "10.0.0.0/24", nexthops: "nh1", wantToken: `"nh1"`},
		{name: "bad prefix", prefixes: "10.0.0.0/24,10.0.300.0/24", nexthops: "192.168.1.1,192.168.1.1", wantToken: `"10.0.300.0/24"`},
		{name: "duplicate prefix", prefixes: "10.0.0.0/24,10.0.0.1/24", nexthops: "192.168.1.1,192.168.1.2", wantToken: "duplicate"},
		{name: "empty element", prefixes: "10.0.0.0/24,,10.0.1.0/24", nexthops: "192.168.1.1,192.168.1.2", wantToken: "empty element"},
		{name: "empty ecmp member", prefixes: "10.0.0.0/24", nexthops: "192.168.1.1|", wantToken: "empty nexthop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRoutes(tt.prefixes, tt.nexthops)
			if !errors.Is(err, fiberrors.ErrMalformedInput) {
				t.Fatalf("Expected MalformedInput, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantToken) {
				t.Errorf("Expected error to mention %q, got %v", tt.wantToken, err)
			}
		})
	}
}

func TestParseRoutes_EmptyLists(t *testing.T) {
	set, err := ParseRoutes("", " ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if set.Len() != 0 {
		t.Errorf("Expected empty set, got %d routes", set.Len())
	}
}

func TestNextHopString_RoundTrip(t *testing.T) {
	for _, token := range []string{"192.168.1.1", "fe80::1@eth0", "10.0.0.1@eth1#5", "10.0.0.1#2"} {
		parsed, err := ParseNextHop(token)
		if err != nil {
			t.Fatalf("ParseNextHop(%q): %v", token, err)
		}
		if parsed.String() != token {
			t.Errorf("String() = %q, want %q", parsed.String(), token)
		}
	}
}
