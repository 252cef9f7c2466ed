// Package decision fetches the routes computed by the routing decision
// module, the source of truth for what the FIB agent should hold.
package decision

import (
	"context"
	"fmt"
	"time"

	"github.com/maksimkurb/fibctl/src/internal/errors"
	"github.com/maksimkurb/fibctl/src/internal/fib"
	"github.com/maksimkurb/fibctl/src/internal/rpc"
)

// ActionGetRouteDB returns the computed route database of the local node.
const ActionGetRouteDB = "getRouteDb"

type Client struct {
	rpc *rpc.Client
}

func NewClient(addr string, clientID int16, timeout time.Duration) *Client {
	return &Client{rpc: rpc.NewClient("decision", addr, clientID, timeout)}
}

// FetchComputedRoutes returns the decision module's current route set.
// Transport failures keep their cause (timeout, unreachable, ...) but are
// reported under the DecisionError code.
func (c *Client) FetchComputedRoutes(ctx context.Context) (fib.RouteSet, error) {
	var body rpc.RoutesBody
	if err := c.rpc.Call(ctx, ActionGetRouteDB, nil, &body); err != nil {
		return fib.RouteSet{}, errors.NewDecisionError(
			fmt.Sprintf("fetching computed routes from %s", c.rpc.Addr()), err)
	}

	routes, err := rpc.DecodeRoutes(body.Routes)
	if err != nil {
		return fib.RouteSet{}, errors.NewDecisionError("decoding computed routes", err)
	}
	return routes, nil
}
