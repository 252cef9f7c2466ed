package rpc

import (
	"fmt"
	"net/netip"

	"github.com/maksimkurb/fibctl/src/internal/errors"
	"github.com/maksimkurb/fibctl/src/internal/fib"
)

// Prefix is a prefix on the wire: raw address bytes (4 or 16) and a mask length.
type Prefix struct {
	Addr []byte `cbor:"addr"`
	Len  uint8  `cbor:"len"`
}

// NextHop is a nexthop on the wire.
type NextHop struct {
	Addr   []byte `cbor:"addr"`
	IfName string `cbor:"if_name,omitempty"`
	Weight uint32 `cbor:"weight,omitempty"`
}

// Route is a unicast route on the wire.
type Route struct {
	Dest     Prefix    `cbor:"dest"`
	NextHops []NextHop `cbor:"nexthops"`
}

// RoutesBody carries a route list (addUnicastRoutes, syncFib, route table answers).
type RoutesBody struct {
	Routes []Route `cbor:"routes"`
}

// PrefixesBody carries a prefix list (deleteUnicastRoutes).
type PrefixesBody struct {
	Prefixes []Prefix `cbor:"prefixes"`
}

func EncodePrefix(p netip.Prefix) Prefix {
	return Prefix{Addr: p.Addr().AsSlice(), Len: uint8(p.Bits())}
}

func EncodePrefixes(prefixes []netip.Prefix) []Prefix {
	out := make([]Prefix, 0, len(prefixes))
	for _, p := range prefixes {
		out = append(out, EncodePrefix(p))
	}
	return out
}

// EncodeRoutes converts a set to its wire form, ordered by prefix.
func EncodeRoutes(set fib.RouteSet) []Route {
	out := make([]Route, 0, set.Len())
	for _, r := range set.Routes() {
		wr := Route{
			Dest:     EncodePrefix(r.Prefix),
			NextHops: make([]NextHop, 0, len(r.NextHops)),
		}
		for _, nh := range r.NextHops {
			wr.NextHops = append(wr.NextHops, NextHop{
				Addr:   nh.Address.AsSlice(),
				IfName: nh.Interface,
				Weight: nh.Weight,
			})
		}
		out = append(out, wr)
	}
	return out
}

func decodeAddr(b []byte) (netip.Addr, error) {
	addr, ok := netip.AddrFromSlice(b)
	if !ok {
		return netip.Addr{}, fmt.Errorf("address of %d bytes", len(b))
	}
	return addr, nil
}

// DecodePrefix converts a wire prefix, rejecting bad lengths. Host bits are
// cleared.
func DecodePrefix(p Prefix) (netip.Prefix, error) {
	addr, err := decodeAddr(p.Addr)
	if err != nil {
		return netip.Prefix{}, errors.Wrap(errors.ErrCodeAgentProtocol, "invalid prefix", err)
	}
	prefix := netip.PrefixFrom(addr, int(p.Len))
	if !prefix.IsValid() {
		return netip.Prefix{}, errors.New(errors.ErrCodeAgentProtocol,
			fmt.Sprintf("invalid prefix length %d for %s", p.Len, addr))
	}
	return prefix.Masked(), nil
}

func DecodePrefixes(prefixes []Prefix) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(prefixes))
	for _, p := range prefixes {
		prefix, err := DecodePrefix(p)
		if err != nil {
			return nil, err
		}
		out = append(out, prefix)
	}
	return out, nil
}

// DecodeRoutes converts wire routes into a set. Malformed entries fail the
// whole decode with an AgentProtocol error. Routes without nexthops are
// dropped, as in fib.NewRouteSet.
func DecodeRoutes(routes []Route) (fib.RouteSet, error) {
	out := make([]fib.Route, 0, len(routes))
	for _, wr := range routes {
		prefix, err := DecodePrefix(wr.Dest)
		if err != nil {
			return fib.RouteSet{}, err
		}
		nexthops := make([]fib.NextHop, 0, len(wr.NextHops))
		for _, wnh := range wr.NextHops {
			addr, err := decodeAddr(wnh.Addr)
			if err != nil {
				return fib.RouteSet{}, errors.Wrap(errors.ErrCodeAgentProtocol,
					fmt.Sprintf("invalid nexthop for %s", prefix), err)
			}
			nexthops = append(nexthops, fib.NextHop{
				Address:   addr.Unmap(),
				Interface: wnh.IfName,
				Weight:    wnh.Weight,
			})
		}
		out = append(out, fib.NewRoute(prefix, nexthops...))
	}
	return fib.NewRouteSet(out...), nil
}
