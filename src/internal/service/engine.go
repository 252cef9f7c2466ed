package service

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/maksimkurb/fibctl/src/internal/domain"
	"github.com/maksimkurb/fibctl/src/internal/errors"
	"github.com/maksimkurb/fibctl/src/internal/fib"
	"github.com/maksimkurb/fibctl/src/internal/log"
	"github.com/maksimkurb/fibctl/src/internal/metrics"
)

// Validation check names, used as metric labels.
const (
	checkDecisionAgent = "decision_agent"
	checkAgentKernel   = "agent_kernel"
)

// ReconciliationEngine drives the FIB agent towards a target route set.
//
// The engine remembers the last route set it knows the agent holds (after a
// successful sync, reconcile or table read) so that a following reconcile
// can skip the table fetch. Any agent error forgets it: a timed-out mutation
// may or may not have been applied. The cache lives as long as the engine,
// so only callers that keep one engine across operations benefit; the CLI
// builds a fresh engine per invocation and always reads the table.
//
// Concurrent calls are not coordinated with each other or with other
// clients of the agent. Atomicity of a sync and ordering between requests
// are the agent's responsibility. Nothing is retried.
type ReconciliationEngine struct {
	agent    domain.AgentClient
	decision domain.DecisionClient
	kernel   domain.KernelClient

	mu      sync.Mutex
	applied *fib.RouteSet
}

// NewReconciliationEngine creates an engine over the clients of deps.
func NewReconciliationEngine(deps *domain.AppDependencies) *ReconciliationEngine {
	return &ReconciliationEngine{
		agent:    deps.AgentClient(),
		decision: deps.DecisionClient(),
		kernel:   deps.KernelClient(),
	}
}

// AddRoutes parses positionally paired prefixes and nexthop groups and adds
// them in a single request.
func (e *ReconciliationEngine) AddRoutes(ctx context.Context, prefixes, nexthops string) (int, error) {
	routes, err := fib.ParseRoutes(prefixes, nexthops)
	if err != nil {
		return 0, err
	}
	if routes.Len() == 0 {
		return 0, errors.New(errors.ErrCodeMalformedInput, "no routes given")
	}

	log.Infof("Adding %d route(s)", routes.Len())
	if err := e.agent.AddUnicastRoutes(ctx, routes); err != nil {
		e.forgetApplied()
		return 0, err
	}

	e.updateApplied(func(s fib.RouteSet) fib.RouteSet { return s.With(routes.Routes()...) })
	return routes.Len(), nil
}

// DelRoutes parses a prefix list and deletes it in a single request.
func (e *ReconciliationEngine) DelRoutes(ctx context.Context, prefixes string) (int, error) {
	parsed, err := fib.ParsePrefixes(prefixes)
	if err != nil {
		return 0, err
	}
	if len(parsed) == 0 {
		return 0, errors.New(errors.ErrCodeMalformedInput, "no prefixes given")
	}

	log.Infof("Deleting %d prefix(es)", len(parsed))
	if err := e.agent.DeleteUnicastRoutes(ctx, parsed); err != nil {
		e.forgetApplied()
		return 0, err
	}

	e.updateApplied(func(s fib.RouteSet) fib.RouteSet { return s.Without(parsed...) })
	return len(parsed), nil
}

// SyncRoutes replaces the agent's table with the given routes in a single
// request, without diffing. Empty lists tear the table down.
func (e *ReconciliationEngine) SyncRoutes(ctx context.Context, prefixes, nexthops string) (int, error) {
	routes, err := fib.ParseRoutes(prefixes, nexthops)
	if err != nil {
		return 0, err
	}

	if routes.Len() == 0 {
		log.Warnf("Syncing an empty route set, all routes of this client will be removed")
	} else {
		log.Infof("Syncing %d route(s)", routes.Len())
	}
	if err := e.agent.SyncFib(ctx, routes); err != nil {
		e.forgetApplied()
		return 0, err
	}

	e.setApplied(routes)
	return routes.Len(), nil
}

// ListRoutes returns the agent's table.
func (e *ReconciliationEngine) ListRoutes(ctx context.Context) (fib.RouteSet, error) {
	return e.fetchAgentRoutes(ctx)
}

// Counters returns the agent's counters.
func (e *ReconciliationEngine) Counters(ctx context.Context) (fib.Counters, error) {
	counters, err := e.agent.GetCounters(ctx)
	if err != nil {
		e.forgetApplied()
		return nil, err
	}
	return counters, nil
}

// Validate fetches decision and agent routes concurrently and compares them.
func (e *ReconciliationEngine) Validate(ctx context.Context) (fib.MismatchReport, error) {
	var expected, actual fib.RouteSet

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expected, err = e.decision.FetchComputedRoutes(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		actual, err = e.fetchAgentRoutes(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fib.MismatchReport{}, err
	}

	return e.compare(checkDecisionAgent, expected, actual), nil
}

// ListRoutesLinux returns the kernel routes owned by the routing daemon.
func (e *ReconciliationEngine) ListRoutesLinux(ctx context.Context) (fib.RouteSet, error) {
	return e.kernel.FetchRoutes(ctx)
}

// ValidateLinux compares the agent's routes against the kernel's.
func (e *ReconciliationEngine) ValidateLinux(ctx context.Context) (fib.MismatchReport, error) {
	var expected, actual fib.RouteSet

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expected, err = e.fetchAgentRoutes(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		actual, err = e.kernel.FetchRoutes(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fib.MismatchReport{}, err
	}

	return e.compare(checkAgentKernel, expected, actual), nil
}

// Reconcile converges the agent to the decision module's routes.
//
// New and changed routes are pushed before stale ones are withdrawn, so a
// prefix moving to a covering route is never left without one. Empty halves
// of the delta send no request. With dryRun the delta is only computed.
func (e *ReconciliationEngine) Reconcile(ctx context.Context, dryRun bool) (fib.RouteDelta, error) {
	desired, err := e.decision.FetchComputedRoutes(ctx)
	if err != nil {
		metrics.ObserveReconcile(metrics.ResultError, 0, 0)
		return fib.RouteDelta{}, err
	}

	current, ok := e.appliedSet()
	if ok {
		log.Debugf("Using %d cached route(s) as the agent's table", current.Len())
	} else {
		current, err = e.fetchAgentRoutes(ctx)
		if err != nil {
			metrics.ObserveReconcile(metrics.ResultError, 0, 0)
			return fib.RouteDelta{}, err
		}
	}

	delta := fib.Diff(current, desired)
	log.Infof("Reconcile: %d route(s) to add or replace, %d to delete", delta.ToAdd.Len(), len(delta.ToDelete))
	if dryRun {
		metrics.ObserveReconcile(metrics.ResultDryRun, 0, 0)
		return delta, nil
	}
	if delta.IsEmpty() {
		metrics.ObserveReconcile(metrics.ResultOK, 0, 0)
		return delta, nil
	}

	if delta.ToAdd.Len() > 0 {
		if err := e.agent.AddUnicastRoutes(ctx, delta.ToAdd); err != nil {
			e.forgetApplied()
			metrics.ObserveReconcile(metrics.ResultError, 0, 0)
			return fib.RouteDelta{}, err
		}
	}
	if len(delta.ToDelete) > 0 {
		if err := e.agent.DeleteUnicastRoutes(ctx, delta.ToDelete); err != nil {
			e.forgetApplied()
			metrics.ObserveReconcile(metrics.ResultError, delta.ToAdd.Len(), 0)
			return fib.RouteDelta{}, err
		}
	}

	e.setApplied(delta.ApplyTo(current))
	metrics.ObserveReconcile(metrics.ResultOK, delta.ToAdd.Len(), len(delta.ToDelete))
	return delta, nil
}

func (e *ReconciliationEngine) fetchAgentRoutes(ctx context.Context) (fib.RouteSet, error) {
	routes, err := e.agent.GetRouteTable(ctx)
	if err != nil {
		e.forgetApplied()
		return fib.RouteSet{}, err
	}
	e.setApplied(routes)
	return routes, nil
}

func (e *ReconciliationEngine) compare(check string, expected, actual fib.RouteSet) fib.MismatchReport {
	report := fib.Compare(expected, actual)
	metrics.SetValidationMismatches(check, len(report.Missing), len(report.Extra), len(report.Changed))
	if !report.Equal() {
		log.Debugf("%s: %d missing, %d extra, %d changed",
			check, len(report.Missing), len(report.Extra), len(report.Changed))
	}
	return report
}

func (e *ReconciliationEngine) appliedSet() (fib.RouteSet, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.applied == nil {
		return fib.RouteSet{}, false
	}
	return *e.applied, true
}

func (e *ReconciliationEngine) setApplied(routes fib.RouteSet) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.applied = &routes
}

// updateApplied applies fn to the remembered set, if any.
func (e *ReconciliationEngine) updateApplied(fn func(fib.RouteSet) fib.RouteSet) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.applied != nil {
		next := fn(*e.applied)
		e.applied = &next
	}
}

func (e *ReconciliationEngine) forgetApplied() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.applied = nil
}
