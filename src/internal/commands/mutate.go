package commands

import (
	"context"
	"fmt"
)

func runAdd(ctx context.Context, env *Env, args []string) error {
	positional, err := parseArgs(newFlagSet("add"), args, "prefixes", "nexthops")
	if err != nil {
		return err
	}

	n, err := env.Engine.AddRoutes(ctx, positional[0], positional[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Stdout, "Added %d routes\n", n)
	return nil
}

func runDel(ctx context.Context, env *Env, args []string) error {
	positional, err := parseArgs(newFlagSet("del"), args, "prefixes")
	if err != nil {
		return err
	}

	n, err := env.Engine.DelRoutes(ctx, positional[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Stdout, "Deleted %d routes\n", n)
	return nil
}

func runSync(ctx context.Context, env *Env, args []string) error {
	positional, err := parseArgs(newFlagSet("sync"), args, "prefixes", "nexthops")
	if err != nil {
		return err
	}

	n, err := env.Engine.SyncRoutes(ctx, positional[0], positional[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Stdout, "Synced %d routes\n", n)
	return nil
}
