// Package service provides business logic orchestration layer for fibctl.
//
// ReconciliationEngine sits between the command layer (CLI and HTTP API)
// and the clients of the routing daemon. It parses operator input, moves
// route sets between the decision module, the FIB agent and the kernel, and
// applies deltas computed by package fib.
//
// # Example Usage
//
//	deps := domain.NewAppDependencies(cfg)
//	engine := service.NewReconciliationEngine(deps)
//
//	report, err := engine.Validate(ctx)
//	if err != nil {
//	    return err
//	}
//	if !report.Equal() {
//	    fmt.Printf("%d prefixes differ\n", report.Count())
//	}
package service
