package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/maksimkurb/fibctl/src/internal/config"
	"github.com/maksimkurb/fibctl/src/internal/domain"
	fiberrors "github.com/maksimkurb/fibctl/src/internal/errors"
	"github.com/maksimkurb/fibctl/src/internal/log"
)

// Env is what a command handler runs against. It is built once in main.
type Env struct {
	Engine domain.Engine
	Config *config.Config
	Stdout io.Writer
}

// Handler runs one command with its arguments, the command name excluded.
type Handler func(ctx context.Context, env *Env, args []string) error

// Command is one entry of the command table.
type Command struct {
	Name    string
	Usage   string
	Summary string
	Run     Handler
}

// Table lists every fibctl subcommand in the order they are shown in usage.
var Table = []Command{
	{Name: "routes", Usage: "routes [--json]", Summary: "Show the FIB agent route table", Run: runRoutes},
	{Name: "counters", Usage: "counters [--json]", Summary: "Show FIB agent counters sorted by name", Run: runCounters},
	{Name: "list", Usage: "list", Summary: "Print FIB agent routes, one line per route", Run: runList},
	{Name: "add", Usage: "add <prefixes> <nexthops>", Summary: "Add or replace routes", Run: runAdd},
	{Name: "del", Usage: "del <prefixes>", Summary: "Delete routes", Run: runDel},
	{Name: "sync", Usage: "sync <prefixes> <nexthops>", Summary: "Replace the whole route table (empty lists tear it down)", Run: runSync},
	{Name: "validate", Usage: "validate [--json]", Summary: "Compare decision routes against the FIB agent", Run: runValidate},
	{Name: "list-linux", Usage: "list-linux [--json]", Summary: "Show kernel routes owned by the routing protocol", Run: runListLinux},
	{Name: "validate-linux", Usage: "validate-linux [--json]", Summary: "Compare the FIB agent table against the kernel", Run: runValidateLinux},
	{Name: "reconcile", Usage: "reconcile [--dry-run]", Summary: "Converge the FIB agent to the decision routes", Run: runReconcile},
	{Name: "serve", Usage: "serve [--listen addr]", Summary: "Run the diagnostics HTTP API", Run: runServe},
}

// Lookup returns the command registered under name.
func Lookup(name string) (Command, bool) {
	for _, cmd := range Table {
		if cmd.Name == name {
			return cmd, true
		}
	}
	return Command{}, false
}

// Execute runs the command. A --help request prints the command usage and
// succeeds.
func (c Command) Execute(ctx context.Context, env *Env, args []string) error {
	err := c.Run(ctx, env, args)

	var help *helpRequest
	if errors.As(err, &help) {
		fmt.Fprintf(env.Stdout, "Usage: fibctl %s\n\n%s\n", c.Usage, c.Summary)
		if help.flags != "" {
			fmt.Fprintf(env.Stdout, "\nFlags:\n%s", help.flags)
		}
		return nil
	}
	return err
}

// PrintUsage writes the top-level usage: global flags and the command table.
func PrintUsage(w io.Writer, global *pflag.FlagSet) {
	fmt.Fprintf(w, "Usage: fibctl [options] <command> [args]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	for _, cmd := range Table {
		fmt.Fprintf(w, "  %-28s %s\n", cmd.Usage, cmd.Summary)
	}
	fmt.Fprintf(w, "\nPrefixes are comma separated, nexthop groups are positional and comma\n")
	fmt.Fprintf(w, "separated; \"|\" joins ECMP members, a nexthop is addr[@iface][#weight].\n")
	if global != nil {
		fmt.Fprintf(w, "\nOptions:\n%s", global.FlagUsages())
	}
}

// helpRequest is returned by handlers when --help was given. Execute
// prints the usage.
type helpRequest struct {
	flags string
}

func (h *helpRequest) Error() string {
	return "help requested"
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseArgs parses flags and checks that exactly the named positional
// arguments were given.
func parseArgs(fs *pflag.FlagSet, args []string, names ...string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, &helpRequest{flags: fs.FlagUsages()}
		}
		return nil, fiberrors.Wrap(fiberrors.ErrCodeMalformedInput, fs.Name()+": invalid arguments", err)
	}

	positional := fs.Args()
	if len(positional) != len(names) {
		want := "no arguments"
		if len(names) > 0 {
			want = fmt.Sprintf("%d argument(s): <%s>", len(names), strings.Join(names, "> <"))
		}
		return nil, fiberrors.New(fiberrors.ErrCodeMalformedInput,
			fmt.Sprintf("%s expects %s, got %d", fs.Name(), want, len(positional)))
	}
	return positional, nil
}

// jsonFlag registers --json. Machine-readable output keeps stdout clean by
// sending all logs to stderr.
func jsonFlag(fs *pflag.FlagSet) *bool {
	return fs.Bool("json", false, "Print JSON instead of text")
}

func enableJSON(enabled bool) {
	if enabled {
		log.SetForceStdErr(true)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fiberrors.NewInternalError("failed to encode JSON output", err)
	}
	return nil
}
