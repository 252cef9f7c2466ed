// Package metrics holds the Prometheus collectors shared by the RPC
// transport, the reconciliation engine and the HTTP API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// rpcRequestsTotal counts RPCs by target, action and result code.
	rpcRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fibctl_rpc_requests_total",
		Help: "Total RPC requests by target, action and result",
	}, []string{"target", "action", "result"})

	// rpcDuration tracks round-trip latency including dial.
	rpcDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fibctl_rpc_duration_seconds",
		Help:    "RPC round-trip duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
	}, []string{"target", "action"})

	reconcileRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fibctl_reconcile_runs_total",
		Help: "Total reconciliation runs by result",
	}, []string{"result"})

	// reconcileRoutesTotal counts prefixes pushed by reconciliation, split
	// into added (including replaced) and deleted.
	reconcileRoutesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fibctl_reconcile_routes_total",
		Help: "Total prefixes changed by reconciliation by operation",
	}, []string{"operation"})

	validationMismatches = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fibctl_validation_mismatches",
		Help: "Mismatched prefixes found by the last validation by check and kind",
	}, []string{"check", "kind"})
)

// Result labels.
const (
	ResultOK          = "ok"
	ResultError       = "error"
	ResultDryRun      = "dry_run"
	ResultTimeout     = "timeout"
	ResultUnreachable = "unreachable"
	ResultProtocol    = "protocol_error"
	ResultRejected    = "rejected"
)

// ObserveRPC records one RPC. result is one of the Result labels.
func ObserveRPC(target, action, result string, elapsed time.Duration) {
	rpcRequestsTotal.WithLabelValues(target, action, result).Inc()
	rpcDuration.WithLabelValues(target, action).Observe(elapsed.Seconds())
}

// ObserveReconcile records a finished reconciliation run.
func ObserveReconcile(result string, added, deleted int) {
	reconcileRunsTotal.WithLabelValues(result).Inc()
	reconcileRoutesTotal.WithLabelValues("add").Add(float64(added))
	reconcileRoutesTotal.WithLabelValues("delete").Add(float64(deleted))
}

// SetValidationMismatches publishes the outcome of a validation check.
func SetValidationMismatches(check string, missing, extra, changed int) {
	validationMismatches.WithLabelValues(check, "missing").Set(float64(missing))
	validationMismatches.WithLabelValues(check, "extra").Set(float64(extra))
	validationMismatches.WithLabelValues(check, "changed").Set(float64(changed))
}
