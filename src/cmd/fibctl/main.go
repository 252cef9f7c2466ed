package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/maksimkurb/fibctl/src/internal/commands"
	"github.com/maksimkurb/fibctl/src/internal/config"
	"github.com/maksimkurb/fibctl/src/internal/domain"
	fiberrors "github.com/maksimkurb/fibctl/src/internal/errors"
	"github.com/maksimkurb/fibctl/src/internal/log"
	"github.com/maksimkurb/fibctl/src/internal/service"
)

var (
	version = "dev"
	commit  = "n/a"
	date    = "n/a"
)

func main() {
	flags := pflag.NewFlagSet("fibctl", pflag.ContinueOnError)
	flags.SetInterspersed(false)
	flags.SetOutput(os.Stderr)

	configPath := flags.String("config", config.DefaultConfigPath, "Path to configuration file")
	verbose := flags.BoolP("verbose", "v", false, "Enable debug logging")
	host := flags.String("host", "", "Host running the FIB agent and the decision module (overrides [general] host)")
	agentPort := flags.Uint16("fib-agent-port", 0, "FIB agent RPC port (overrides [ports] fib_agent_port)")
	decisionPort := flags.Uint16("decision-port", 0, "Decision module RPC port (overrides [ports] decision_rep_port)")
	clientID := flags.Int16("client-id", 0, "FIB client id (overrides [general] client_id)")
	timeoutMs := flags.Int("timeout", 0, "RPC timeout in milliseconds (overrides [general] timeout_ms)")

	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "fibctl - FIB agent route reconciliation and validation\n")
		fmt.Fprintf(os.Stderr, "Version: %s (Commit: %s, Date: %s)\n\n", version, commit, date)
		commands.PrintUsage(os.Stderr, flags)
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("%v", fiberrors.Wrap(fiberrors.ErrCodeMalformedInput, "invalid options", err))
	}

	if *verbose {
		log.SetVerbose(true)
	}

	args := flags.Args()
	if len(args) < 1 {
		flags.Usage()
		os.Exit(1)
	}

	cmd, ok := commands.Lookup(args[0])
	if !ok {
		log.Fatalf("%v", fiberrors.New(fiberrors.ErrCodeMalformedInput, "unknown command: "+args[0]))
	}

	cfg, err := config.LoadConfig(*configPath, flags.Changed("config"))
	if err != nil {
		log.Fatalf("%v", err)
	}

	var overrides config.Overrides
	if flags.Changed("host") {
		overrides.Host = host
	}
	if flags.Changed("fib-agent-port") {
		overrides.FibAgentPort = agentPort
	}
	if flags.Changed("decision-port") {
		overrides.DecisionRepPort = decisionPort
	}
	if flags.Changed("client-id") {
		overrides.ClientID = clientID
	}
	if flags.Changed("timeout") {
		overrides.TimeoutMs = timeoutMs
	}
	cfg.ApplyOverrides(overrides)

	if err := cfg.ValidateConfig(); err != nil {
		log.Fatalf("%v", fiberrors.NewConfigError("configuration validation failed", err))
	}

	log.Debugf("FIB agent at %s, decision module at %s, client id %d, timeout %s",
		cfg.AgentAddr(), cfg.DecisionAddr(), cfg.General.ClientID, cfg.Timeout())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	env := &commands.Env{
		Engine: service.NewReconciliationEngine(domain.NewAppDependencies(cfg)),
		Config: cfg,
		Stdout: os.Stdout,
	}

	err = cmd.Execute(ctx, env, args[1:])
	stop()
	if err != nil {
		log.Fatalf("%v", err)
	}
}
