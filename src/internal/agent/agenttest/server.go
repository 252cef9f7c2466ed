// Package agenttest provides an in-memory FIB agent speaking the agent wire
// protocol, for tests of code built on agent.Client.
package agenttest

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/maksimkurb/fibctl/src/internal/fib"
	"github.com/maksimkurb/fibctl/src/internal/rpc"
)

// Counter names reported by getCounters.
const (
	CounterNumRoutes      = "fibagent.num_of_routes"
	CounterAddRequests    = "fibagent.add_requests"
	CounterDeleteRequests = "fibagent.delete_requests"
	CounterSyncRequests   = "fibagent.sync_requests"
)

// Action names, duplicated from package agent to keep this package free of
// the code under test.
const (
	actionGetRouteTable       = "getRouteTableByClient"
	actionGetCounters         = "getCounters"
	actionAddUnicastRoutes    = "addUnicastRoutes"
	actionDeleteUnicastRoutes = "deleteUnicastRoutes"
	actionSyncFib             = "syncFib"
)

// Server is a FIB agent holding one route table per client id.
type Server struct {
	mu       sync.Mutex
	tables   map[int16]fib.RouteSet
	requests map[string]int
	delay    time.Duration
	reject   string

	addr   string
	cancel context.CancelFunc
	done   chan struct{}
}

// NewServer starts an agent on a loopback port. Call Close when done.
func NewServer() (*Server, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("agenttest: listen: %w", err)
	}

	s := &Server{
		tables:   make(map[int16]fib.RouteSet),
		requests: make(map[string]int),
		addr:     listener.Addr().String(),
		done:     make(chan struct{}),
	}

	srv := rpc.NewServer()
	srv.Handle(actionGetRouteTable, s.wrap(s.getRouteTable))
	srv.Handle(actionGetCounters, s.wrap(s.getCounters))
	srv.Handle(actionAddUnicastRoutes, s.wrap(s.addUnicastRoutes))
	srv.Handle(actionDeleteUnicastRoutes, s.wrap(s.deleteUnicastRoutes))
	srv.Handle(actionSyncFib, s.wrap(s.syncFib))

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go func() {
		defer close(s.done)
		_ = srv.Serve(ctx, listener)
	}()

	return s, nil
}

// Addr returns the "host:port" the agent listens on.
func (s *Server) Addr() string {
	return s.addr
}

// Close stops the agent and waits for in-flight requests.
func (s *Server) Close() {
	s.cancel()
	<-s.done
}

// SetDelay makes every request wait d before being served.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// SetReject makes every mutation fail with message. Empty restores normal
// operation.
func (s *Server) SetReject(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reject = message
}

// Routes returns the table of clientID.
func (s *Server) Routes(clientID int16) fib.RouteSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables[clientID]
}

// SetRoutes replaces the table of clientID without counting a request.
func (s *Server) SetRoutes(clientID int16, routes fib.RouteSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[clientID] = routes
}

// Requests returns how many times action was served, successful or not.
func (s *Server) Requests(action string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[action]
}

type handler func(req *rpc.Request) (any, error)

func (s *Server) wrap(h handler) rpc.HandlerFunc {
	return func(ctx context.Context, req *rpc.Request) (any, error) {
		s.mu.Lock()
		delay := s.delay
		s.requests[req.Action]++
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		return h(req)
	}
}

func (s *Server) mutationAllowed() error {
	if s.reject != "" {
		return fmt.Errorf("%s", s.reject)
	}
	return nil
}

func (s *Server) getRouteTable(req *rpc.Request) (any, error) {
	return rpc.RoutesBody{Routes: rpc.EncodeRoutes(s.tables[req.ClientID])}, nil
}

func (s *Server) getCounters(req *rpc.Request) (any, error) {
	total := 0
	for _, table := range s.tables {
		total += table.Len()
	}
	return fib.Counters{
		CounterNumRoutes:      int64(total),
		CounterAddRequests:    int64(s.requests[actionAddUnicastRoutes]),
		CounterDeleteRequests: int64(s.requests[actionDeleteUnicastRoutes]),
		CounterSyncRequests:   int64(s.requests[actionSyncFib]),
	}, nil
}

func (s *Server) addUnicastRoutes(req *rpc.Request) (any, error) {
	if err := s.mutationAllowed(); err != nil {
		return nil, err
	}
	var body rpc.RoutesBody
	if err := req.Decode(&body); err != nil {
		return nil, err
	}
	routes, err := rpc.DecodeRoutes(body.Routes)
	if err != nil {
		return nil, err
	}
	s.tables[req.ClientID] = s.tables[req.ClientID].With(routes.Routes()...)
	return nil, nil
}

func (s *Server) deleteUnicastRoutes(req *rpc.Request) (any, error) {
	if err := s.mutationAllowed(); err != nil {
		return nil, err
	}
	var body rpc.PrefixesBody
	if err := req.Decode(&body); err != nil {
		return nil, err
	}
	prefixes, err := rpc.DecodePrefixes(body.Prefixes)
	if err != nil {
		return nil, err
	}
	s.tables[req.ClientID] = s.tables[req.ClientID].Without(prefixes...)
	return nil, nil
}

func (s *Server) syncFib(req *rpc.Request) (any, error) {
	if err := s.mutationAllowed(); err != nil {
		return nil, err
	}
	var body rpc.RoutesBody
	if err := req.Decode(&body); err != nil {
		return nil, err
	}
	routes, err := rpc.DecodeRoutes(body.Routes)
	if err != nil {
		return nil, err
	}
	s.tables[req.ClientID] = routes
	return nil, nil
}
