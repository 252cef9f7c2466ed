package commands

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"net"
	"strconv"
	"testing"

	"github.com/maksimkurb/fibctl/src/internal/agent"
	"github.com/maksimkurb/fibctl/src/internal/agent/agenttest"
	"github.com/maksimkurb/fibctl/src/internal/config"
	"github.com/maksimkurb/fibctl/src/internal/domain"
	"github.com/maksimkurb/fibctl/src/internal/errors"
	"github.com/maksimkurb/fibctl/src/internal/log"
	"github.com/maksimkurb/fibctl/src/internal/service"
)

// newAgentEnv wires the production dependencies to an in-memory agent.
func newAgentEnv(t *testing.T) (*Env, *bytes.Buffer, *agenttest.Server) {
	t.Helper()
	srv, err := agenttest.NewServer()
	if err != nil {
		t.Fatalf("Failed to start agent: %v", err)
	}
	t.Cleanup(srv.Close)

	host, port, err := net.SplitHostPort(srv.Addr())
	if err != nil {
		t.Fatalf("Bad agent address %q: %v", srv.Addr(), err)
	}
	portNum, err := strconv.ParseUint(port, 10, 16)
	if err != nil {
		t.Fatalf("Bad agent port %q: %v", port, err)
	}

	cfg := config.Default()
	cfg.General.Host = host
	cfg.General.TimeoutMs = 2000
	cfg.Ports.FibAgentPort = uint16(portNum)

	var out bytes.Buffer
	env := &Env{
		Engine: service.NewReconciliationEngine(domain.NewAppDependencies(cfg)),
		Config: cfg,
		Stdout: &out,
	}
	return env, &out, srv
}

func TestCommandsWithAgent(t *testing.T) {
	env, out, srv := newAgentEnv(t)
	clientID := env.Config.General.ClientID

	if err := run(t, env, "sync", "10.0.0.0/24,10.0.1.0/24", "192.168.1.1|192.168.1.2,fe80::1@eth0"); err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if n := srv.Routes(clientID).Len(); n != 2 {
		t.Fatalf("Expected 2 routes on the agent, got %d", n)
	}

	out.Reset()
	if err := run(t, env, "list"); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	want := "10.0.0.0/24 via 192.168.1.1|192.168.1.2\n10.0.1.0/24 via fe80::1@eth0\n"
	if out.String() != want {
		t.Errorf("Expected %q, got %q", want, out.String())
	}

	if err := run(t, env, "del", "10.0.1.0/24"); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	// Deleting an absent prefix succeeds.
	if err := run(t, env, "del", "10.0.1.0/24"); err != nil {
		t.Fatalf("second del failed: %v", err)
	}

	out.Reset()
	func() {
		defer log.SetForceStdErr(false)
		if err := run(t, env, "counters", "--json"); err != nil {
			t.Fatalf("counters failed: %v", err)
		}
	}()
	var counters map[string]int64
	if err := json.Unmarshal(out.Bytes(), &counters); err != nil {
		t.Fatalf("counters output is not JSON: %v\n%s", err, out.String())
	}
	if counters[agenttest.CounterNumRoutes] != 1 || counters[agenttest.CounterDeleteRequests] != 2 {
		t.Errorf("Unexpected counters: %v", counters)
	}
}

func TestCommandsWithAgent_MalformedInputSendsNothing(t *testing.T) {
	env, _, srv := newAgentEnv(t)

	err := run(t, env, "add", "10.0.0.0/24,10.0.1.0/24", "192.168.1.1")
	if !stderrors.Is(err, errors.ErrMalformedInput) {
		t.Fatalf("Expected malformed input, got: %v", err)
	}
	if n := srv.Requests(agent.ActionAddUnicastRoutes); n != 0 {
		t.Errorf("Expected no add request, got %d", n)
	}
}

func TestCommandsWithAgent_Unreachable(t *testing.T) {
	env, _, srv := newAgentEnv(t)
	srv.Close()

	err := run(t, env, "routes")
	if !stderrors.Is(err, errors.ErrAgentUnreachable) {
		t.Errorf("Expected agent unreachable, got: %v", err)
	}
}

func TestCommandsWithAgent_Rejected(t *testing.T) {
	env, _, srv := newAgentEnv(t)
	srv.SetReject("table locked")

	err := run(t, env, "add", "10.0.0.0/24", "192.168.1.1")
	if !stderrors.Is(err, errors.ErrAgentRejected) {
		t.Errorf("Expected agent rejected, got: %v", err)
	}
}

func TestCommandsWithAgent_EmptySyncWarnsOnce(t *testing.T) {
	env, out, srv := newAgentEnv(t)
	clientID := env.Config.General.ClientID

	if err := run(t, env, "sync", "10.0.0.0/24", "192.168.1.1"); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	var logs bytes.Buffer
	restore := log.SetOutput(&logs, &logs)
	defer restore()

	out.Reset()
	if err := run(t, env, "sync", "", ""); err != nil {
		t.Fatalf("empty sync failed: %v", err)
	}
	if out.String() != "Synced 0 routes\n" {
		t.Errorf("Unexpected output %q", out.String())
	}
	if n := srv.Routes(clientID).Len(); n != 0 {
		t.Errorf("Expected the table to be torn down, got %d routes", n)
	}
	if n := bytes.Count(logs.Bytes(), []byte("all routes of this client will be removed")); n != 1 {
		t.Errorf("Expected exactly one teardown warning, got %d in %q", n, logs.String())
	}
}
