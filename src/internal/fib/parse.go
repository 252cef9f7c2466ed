package fib

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"github.com/maksimkurb/fibctl/src/internal/errors"
)

const (
	listSeparator      = ","
	ecmpSeparator      = "|"
	interfaceSeparator = "@"
	weightSeparator    = "#"
)

// ParsePrefix parses a CIDR prefix. A bare address is taken as a host prefix.
// Host bits are cleared.
func ParsePrefix(token string) (netip.Prefix, error) {
	s := strings.TrimSpace(token)
	if strings.Contains(s, "/") {
		prefix, err := netip.ParsePrefix(s)
		if err != nil {
			return netip.Prefix{}, errors.NewMalformedInputError(token, err)
		}
		return prefix.Masked(), nil
	}

	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, errors.NewMalformedInputError(token, err)
	}
	if addr.Zone() != "" {
		return netip.Prefix{}, errors.NewMalformedInputError(token, fmt.Errorf("prefix cannot carry a zone"))
	}
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

// ParseNextHop parses "address[@interface][#weight]". An IPv6 zone
// ("fe80::1%eth0") is accepted in place of "@interface".
func ParseNextHop(token string) (NextHop, error) {
	s := strings.TrimSpace(token)
	var nh NextHop

	if i := strings.LastIndex(s, weightSeparator); i >= 0 {
		weight, err := strconv.ParseUint(s[i+1:], 10, 32)
		if err != nil {
			return NextHop{}, errors.NewMalformedInputError(token, fmt.Errorf("invalid weight: %w", err))
		}
		nh.Weight = uint32(weight)
		s = s[:i]
	}

	if i := strings.Index(s, interfaceSeparator); i >= 0 {
		nh.Interface = s[i+1:]
		if nh.Interface == "" {
			return NextHop{}, errors.NewMalformedInputError(token, fmt.Errorf("empty interface name"))
		}
		s = s[:i]
	}

	addr, err := netip.ParseAddr(s)
	if err != nil {
		return NextHop{}, errors.NewMalformedInputError(token, err)
	}
	if zone := addr.Zone(); zone != "" {
		if nh.Interface != "" && nh.Interface != zone {
			return NextHop{}, errors.NewMalformedInputError(token, fmt.Errorf("zone %q conflicts with interface %q", zone, nh.Interface))
		}
		nh.Interface = zone
		addr = addr.WithZone("")
	}
	nh.Address = addr.Unmap()

	return nh, nil
}

// ParseNextHopGroup parses one or more nexthops joined with "|".
func ParseNextHopGroup(token string) ([]NextHop, error) {
	parts := strings.Split(token, ecmpSeparator)
	nexthops := make([]NextHop, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			return nil, errors.NewMalformedInputError(token, fmt.Errorf("empty nexthop"))
		}
		nh, err := ParseNextHop(part)
		if err != nil {
			return nil, err
		}
		nexthops = append(nexthops, nh)
	}
	return nexthops, nil
}

// ParsePrefixes parses a comma-separated prefix list. An empty string is an
// empty list. Repeating a prefix is an error.
func ParsePrefixes(prefixes string) ([]netip.Prefix, error) {
	tokens, err := splitList(prefixes)
	if err != nil {
		return nil, err
	}

	seen := make(map[netip.Prefix]struct{}, len(tokens))
	out := make([]netip.Prefix, 0, len(tokens))
	for _, token := range tokens {
		prefix, err := ParsePrefix(token)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[prefix]; dup {
			return nil, errors.NewMalformedInputError(token, fmt.Errorf("duplicate prefix %s", prefix))
		}
		seen[prefix] = struct{}{}
		out = append(out, prefix)
	}
	return out, nil
}

// ParseRoutes pairs a comma-separated prefix list with a comma-separated
// list of nexthop groups by position. Every token is validated before
// anything is returned.
func ParseRoutes(prefixes, nexthops string) (RouteSet, error) {
	parsedPrefixes, err := ParsePrefixes(prefixes)
	if err != nil {
		return RouteSet{}, err
	}
	groups, err := splitList(nexthops)
	if err != nil {
		return RouteSet{}, err
	}
	if len(parsedPrefixes) != len(groups) {
		return RouteSet{}, errors.New(errors.ErrCodeMalformedInput,
			fmt.Sprintf("got %d prefixes but %d nexthop groups, lists must correspond positionally",
				len(parsedPrefixes), len(groups)))
	}

	routes := make([]Route, 0, len(groups))
	for i, group := range groups {
		nhs, err := ParseNextHopGroup(group)
		if err != nil {
			return RouteSet{}, err
		}
		routes = append(routes, NewRoute(parsedPrefixes[i], nhs...))
	}
	return NewRouteSet(routes...), nil
}

func splitList(list string) ([]string, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	tokens := strings.Split(list, listSeparator)
	for i, token := range tokens {
		tokens[i] = strings.TrimSpace(token)
		if tokens[i] == "" {
			return nil, errors.NewMalformedInputError(list, fmt.Errorf("empty element at position %d", i+1))
		}
	}
	return tokens, nil
}
