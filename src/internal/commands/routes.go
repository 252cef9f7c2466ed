package commands

import (
	"context"
)

func runRoutes(ctx context.Context, env *Env, args []string) error {
	fs := newFlagSet("routes")
	asJSON := jsonFlag(fs)
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	enableJSON(*asJSON)

	routes, err := env.Engine.ListRoutes(ctx)
	if err != nil {
		return err
	}

	if *asJSON {
		return writeJSON(env.Stdout, routes)
	}
	printRouteTable(env.Stdout, "FIB agent", routes)
	return nil
}

func runList(ctx context.Context, env *Env, args []string) error {
	if _, err := parseArgs(newFlagSet("list"), args); err != nil {
		return err
	}

	routes, err := env.Engine.ListRoutes(ctx)
	if err != nil {
		return err
	}
	return printRouteLines(env.Stdout, env.Config.Output.RouteTemplate, routes)
}

func runCounters(ctx context.Context, env *Env, args []string) error {
	fs := newFlagSet("counters")
	asJSON := jsonFlag(fs)
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	enableJSON(*asJSON)

	counters, err := env.Engine.Counters(ctx)
	if err != nil {
		return err
	}

	if *asJSON {
		return writeJSON(env.Stdout, counters)
	}
	printCounters(env.Stdout, counters)
	return nil
}

func runListLinux(ctx context.Context, env *Env, args []string) error {
	fs := newFlagSet("list-linux")
	asJSON := jsonFlag(fs)
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	enableJSON(*asJSON)

	routes, err := env.Engine.ListRoutesLinux(ctx)
	if err != nil {
		return err
	}

	if *asJSON {
		return writeJSON(env.Stdout, routes)
	}
	printRouteTable(env.Stdout, "kernel", routes)
	return nil
}
