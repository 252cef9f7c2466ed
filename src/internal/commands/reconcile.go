package commands

import (
	"context"
)

func runReconcile(ctx context.Context, env *Env, args []string) error {
	fs := newFlagSet("reconcile")
	dryRun := fs.Bool("dry-run", false, "Compute and print the delta without applying it")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	delta, err := env.Engine.Reconcile(ctx, *dryRun)
	if err != nil {
		return err
	}
	printDelta(env.Stdout, delta, *dryRun)
	return nil
}
