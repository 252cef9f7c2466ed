package commands

import (
	"context"

	"github.com/maksimkurb/fibctl/src/internal/api"
	fiberrors "github.com/maksimkurb/fibctl/src/internal/errors"
	"github.com/maksimkurb/fibctl/src/internal/log"
)

// runServe blocks until ctx is cancelled, usually by SIGINT or SIGTERM.
func runServe(ctx context.Context, env *Env, args []string) error {
	fs := newFlagSet("serve")
	listen := fs.String("listen", env.Config.API.ListenAddr, "Address to bind the HTTP API (host:port)")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	if *listen == "" {
		return fiberrors.NewConfigError("no listen address: set [api] listen_addr or --listen", nil)
	}

	log.Infof("Starting fibctl diagnostics API on %s", *listen)
	log.Infof("FIB agent at %s, decision module at %s", env.Config.AgentAddr(), env.Config.DecisionAddr())
	log.Infof("Access restricted to loopback, private and link-local clients")

	server := api.NewServer(*listen, api.NewRouter(env.Config, env.Engine))
	if err := server.Run(ctx); err != nil {
		return fiberrors.NewInternalError("diagnostics API failed", err)
	}
	return nil
}
