// Package commands implements the fibctl subcommands.
//
// Commands live in a static table mapping a name to a plain handler
// function. A handler parses its own flags and positional arguments with a
// pflag.FlagSet, runs one engine operation through the domain.Engine
// interface and renders the result on Env.Stdout.
//
// # Available Commands
//
//   - routes, list, counters: read the FIB agent
//   - add, del, sync: mutate the FIB agent
//   - validate: compare decision routes against the agent table
//   - list-linux, validate-linux: read and check kernel routes
//   - reconcile: converge the agent to the decision routes
//   - serve: run the diagnostics HTTP API
//
// # Example Usage
//
//	cmd, ok := commands.Lookup("routes")
//	if !ok {
//	    commands.PrintUsage(os.Stderr, flags)
//	    os.Exit(1)
//	}
//	env := &commands.Env{Engine: engine, Config: cfg, Stdout: os.Stdout}
//	if err := cmd.Run(ctx, env, []string{"--json"}); err != nil {
//	    log.Fatalf("%v", err)
//	}
//
// Argument and flag errors are MALFORMED_INPUT errors and are returned
// before any network call. The validate commands print their report and
// then return a VALIDATION_MISMATCH error when the sources disagree.
package commands
