// Package kernel reads the routes a routing daemon programmed into the Linux
// kernel, for comparison against the FIB agent's view.
package kernel

import (
	"context"
	"fmt"
	"net"
	"net/netip"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"

	"github.com/maksimkurb/fibctl/src/internal/errors"
	"github.com/maksimkurb/fibctl/src/internal/fib"
	"github.com/maksimkurb/fibctl/src/internal/log"
)

const (
	// DefaultProtocol is the rtnetlink protocol id the routing daemon tags its routes with.
	DefaultProtocol = 99
	// DefaultTable is the main routing table.
	DefaultTable = unix.RT_TABLE_MAIN
)

// Handle is the part of *netlink.Handle the reader needs.
type Handle interface {
	RouteListFiltered(family int, filter *netlink.Route, filterMask uint64) ([]netlink.Route, error)
	LinkByIndex(index int) (netlink.Link, error)
	Close()
}

// Options selects which kernel routes are considered owned by the daemon.
type Options struct {
	Protocol       int
	Table          int
	IncludeDefault bool
}

// Client reads owned routes through a netlink handle opened per fetch.
type Client struct {
	opts      Options
	newHandle func() (Handle, error)
}

func NewClient(opts Options) *Client {
	return &Client{
		opts: opts,
		newHandle: func() (Handle, error) {
			return netlink.NewHandle(unix.NETLINK_ROUTE)
		},
	}
}

// NewClientWithHandle is NewClient with a custom handle constructor.
func NewClientWithHandle(opts Options, newHandle func() (Handle, error)) *Client {
	return &Client{opts: opts, newHandle: newHandle}
}

// FetchRoutes lists the owned unicast routes of the configured table.
func (c *Client) FetchRoutes(ctx context.Context) (fib.RouteSet, error) {
	if err := ctx.Err(); err != nil {
		return fib.RouteSet{}, errors.NewKernelAccessError("reading kernel routes", err)
	}

	handle, err := c.newHandle()
	if err != nil {
		return fib.RouteSet{}, errors.NewKernelAccessError("opening netlink handle", err)
	}
	defer handle.Close()

	filter := &netlink.Route{
		Protocol: netlink.RouteProtocol(c.opts.Protocol),
		Table:    c.opts.Table,
	}
	routes, err := handle.RouteListFiltered(netlink.FAMILY_ALL, filter, netlink.RT_FILTER_PROTOCOL|netlink.RT_FILTER_TABLE)
	if err != nil {
		return fib.RouteSet{}, errors.NewKernelAccessError(
			fmt.Sprintf("listing routes of table %d (protocol %d)", c.opts.Table, c.opts.Protocol), err)
	}

	names := linkNames{handle: handle, cache: make(map[int]string)}
	out := make([]fib.Route, 0, len(routes))
	for i := range routes {
		r := &routes[i]
		if r.Type != unix.RTN_UNICAST {
			continue
		}

		prefix, ok := destination(r)
		if !ok {
			log.Debugf("Skipping kernel route with unusable destination %v", r.Dst)
			continue
		}
		if prefix.Bits() == 0 && !c.opts.IncludeDefault {
			continue
		}

		nexthops, err := c.nextHops(r, prefix, &names)
		if err != nil {
			return fib.RouteSet{}, err
		}
		out = append(out, fib.NewRoute(prefix, nexthops...))
	}

	set := fib.NewRouteSet(out...)
	log.Debugf("Read %d owned routes from kernel table %d", set.Len(), c.opts.Table)
	return set, nil
}

func (c *Client) nextHops(r *netlink.Route, prefix netip.Prefix, names *linkNames) ([]fib.NextHop, error) {
	if len(r.MultiPath) == 0 {
		nh, err := nextHop(prefix, r.Gw, r.LinkIndex, names)
		if err != nil {
			return nil, err
		}
		return []fib.NextHop{nh}, nil
	}

	nexthops := make([]fib.NextHop, 0, len(r.MultiPath))
	for _, path := range r.MultiPath {
		nh, err := nextHop(prefix, path.Gw, path.LinkIndex, names)
		if err != nil {
			return nil, err
		}
		// rtnh_hops is weight minus one. fib.NewRoute drops weights that
		// are all equal.
		nh.Weight = uint32(path.Hops) + 1
		nexthops = append(nexthops, nh)
	}
	return nexthops, nil
}

// destination returns the route's prefix. A nil Dst is the default route of
// the route's family.
func destination(r *netlink.Route) (netip.Prefix, bool) {
	if r.Dst == nil {
		switch r.Family {
		case netlink.FAMILY_V4:
			return netip.PrefixFrom(netip.IPv4Unspecified(), 0), true
		case netlink.FAMILY_V6:
			return netip.PrefixFrom(netip.IPv6Unspecified(), 0), true
		}
		return netip.Prefix{}, false
	}
	return ipNetToPrefix(r.Dst)
}

func ipNetToPrefix(n *net.IPNet) (netip.Prefix, bool) {
	addr, ok := netip.AddrFromSlice(n.IP)
	if !ok {
		return netip.Prefix{}, false
	}
	ones, bits := n.Mask.Size()
	if bits == 0 {
		return netip.Prefix{}, false
	}
	if bits == 32 {
		addr = addr.Unmap()
	}
	return netip.PrefixFrom(addr, ones).Masked(), true
}

// nextHop builds a nexthop from a gateway and link index. A directly
// connected path has no gateway and uses the unspecified address.
func nextHop(prefix netip.Prefix, gw net.IP, linkIndex int, names *linkNames) (fib.NextHop, error) {
	var nh fib.NextHop

	if len(gw) == 0 {
		nh.Address = netip.IPv6Unspecified()
		if prefix.Addr().Is4() {
			nh.Address = netip.IPv4Unspecified()
		}
	} else {
		addr, ok := netip.AddrFromSlice(gw)
		if !ok {
			return fib.NextHop{}, errors.NewKernelAccessError(
				fmt.Sprintf("route %s has an invalid gateway %v", prefix, gw), nil)
		}
		nh.Address = addr.Unmap()
	}

	if linkIndex > 0 {
		name, err := names.lookup(linkIndex)
		if err != nil {
			return fib.NextHop{}, err
		}
		nh.Interface = name
	}
	return nh, nil
}

// linkNames resolves interface indexes once per fetch.
type linkNames struct {
	handle Handle
	cache  map[int]string
}

func (l *linkNames) lookup(index int) (string, error) {
	if name, ok := l.cache[index]; ok {
		return name, nil
	}
	link, err := l.handle.LinkByIndex(index)
	if err != nil {
		return "", errors.NewKernelAccessError(fmt.Sprintf("resolving interface index %d", index), err)
	}
	name := link.Attrs().Name
	l.cache[index] = name
	return name, nil
}
