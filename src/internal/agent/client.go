// Package agent is the client of the FIB agent, the process that owns the
// forwarding table on behalf of routing clients. Every route it reads or
// writes is scoped to the client id the Client was created with.
package agent

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"github.com/maksimkurb/fibctl/src/internal/fib"
	"github.com/maksimkurb/fibctl/src/internal/rpc"
)

// Agent actions.
const (
	ActionGetRouteTable       = "getRouteTableByClient"
	ActionGetCounters         = "getCounters"
	ActionAddUnicastRoutes    = "addUnicastRoutes"
	ActionDeleteUnicastRoutes = "deleteUnicastRoutes"
	ActionSyncFib             = "syncFib"
)

// Client talks to one FIB agent. Each method is a single round trip on a
// fresh connection; nothing is retried.
type Client struct {
	rpc *rpc.Client
}

func NewClient(addr string, clientID int16, timeout time.Duration) *Client {
	return &Client{rpc: rpc.NewClient("agent", addr, clientID, timeout)}
}

// GetRouteTable returns the routes the agent holds for this client id.
func (c *Client) GetRouteTable(ctx context.Context) (fib.RouteSet, error) {
	var body rpc.RoutesBody
	if err := c.rpc.Call(ctx, ActionGetRouteTable, nil, &body); err != nil {
		return fib.RouteSet{}, err
	}
	return rpc.DecodeRoutes(body.Routes)
}

// GetCounters returns the agent's counters as reported.
func (c *Client) GetCounters(ctx context.Context) (fib.Counters, error) {
	counters := fib.Counters{}
	if err := c.rpc.Call(ctx, ActionGetCounters, nil, &counters); err != nil {
		return nil, err
	}
	return counters, nil
}

// AddUnicastRoutes adds or replaces the given routes. Adding a route that is
// already programmed is a no-op on the agent.
func (c *Client) AddUnicastRoutes(ctx context.Context, routes fib.RouteSet) error {
	return c.rpc.Call(ctx, ActionAddUnicastRoutes, rpc.RoutesBody{Routes: rpc.EncodeRoutes(routes)}, nil)
}

// DeleteUnicastRoutes withdraws the given prefixes. Prefixes the agent does
// not hold are ignored.
func (c *Client) DeleteUnicastRoutes(ctx context.Context, prefixes []netip.Prefix) error {
	return c.rpc.Call(ctx, ActionDeleteUnicastRoutes, rpc.PrefixesBody{Prefixes: rpc.EncodePrefixes(prefixes)}, nil)
}

// SyncFib atomically replaces the client's whole table with routes. An empty
// set tears the table down.
func (c *Client) SyncFib(ctx context.Context, routes fib.RouteSet) error {
	return c.rpc.Call(ctx, ActionSyncFib, rpc.RoutesBody{Routes: rpc.EncodeRoutes(routes)}, nil)
}

func (c *Client) String() string {
	return fmt.Sprintf("agent at %s", c.rpc.Addr())
}
