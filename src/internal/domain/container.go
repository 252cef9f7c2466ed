package domain

import (
	"github.com/maksimkurb/fibctl/src/internal/agent"
	"github.com/maksimkurb/fibctl/src/internal/config"
	"github.com/maksimkurb/fibctl/src/internal/decision"
	"github.com/maksimkurb/fibctl/src/internal/kernel"
)

// AppDependencies is a dependency injection container that holds all application dependencies.
//
// This container provides a centralized place to manage dependencies and enables:
//   - Easy testing with mock implementations
//   - Configuration-driven dependency creation
//   - Explicit dependency management instead of global state
//
// Usage:
//
//	deps := domain.NewAppDependencies(cfg)
//	routes, err := deps.AgentClient().GetRouteTable(ctx)
type AppDependencies struct {
	agentClient    AgentClient
	decisionClient DecisionClient
	kernelClient   KernelClient
}

// NewAppDependencies creates a new dependency container with production implementations.
//
// Clients hold no connections; every call dials anew, so building the
// container is cheap and never touches the network.
func NewAppDependencies(cfg *config.Config) *AppDependencies {
	return &AppDependencies{
		agentClient:    agent.NewClient(cfg.AgentAddr(), cfg.General.ClientID, cfg.Timeout()),
		decisionClient: decision.NewClient(cfg.DecisionAddr(), cfg.General.ClientID, cfg.Timeout()),
		kernelClient: kernel.NewClient(kernel.Options{
			Protocol:       cfg.Kernel.Protocol,
			Table:          cfg.Kernel.Table,
			IncludeDefault: cfg.Kernel.IncludeDefault,
		}),
	}
}

// NewTestDependencies creates a dependency container with the given implementations.
//
// This is a convenience method for testing. Pass nil for clients the test
// does not exercise.
func NewTestDependencies(
	agentClient AgentClient,
	decisionClient DecisionClient,
	kernelClient KernelClient,
) *AppDependencies {
	return &AppDependencies{
		agentClient:    agentClient,
		decisionClient: decisionClient,
		kernelClient:   kernelClient,
	}
}

// AgentClient returns the FIB agent client.
func (d *AppDependencies) AgentClient() AgentClient {
	return d.agentClient
}

// DecisionClient returns the decision module client.
func (d *AppDependencies) DecisionClient() DecisionClient {
	return d.decisionClient
}

// KernelClient returns the kernel route reader.
func (d *AppDependencies) KernelClient() KernelClient {
	return d.kernelClient
}
