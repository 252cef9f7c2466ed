package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/valyala/fasttemplate"

	"github.com/maksimkurb/fibctl/src/internal/config"
	fiberrors "github.com/maksimkurb/fibctl/src/internal/errors"
	"github.com/maksimkurb/fibctl/src/internal/fib"
)

// Colors are only emitted when w is a terminal; the renderer detects it.
var (
	colorBorder  = lipgloss.Color("8")
	colorMissing = lipgloss.Color("#E74C3C")
	colorExtra   = lipgloss.Color("#F4D03F")
	colorChanged = lipgloss.Color("#20B9B4")
)

func newTable(w io.Writer, headers ...string) *table.Table {
	r := lipgloss.NewRenderer(w)
	headerStyle := r.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := r.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Foreground(colorBorder)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func nextHopLines(nexthops []fib.NextHop) string {
	lines := make([]string, len(nexthops))
	for i, nh := range nexthops {
		lines[i] = nh.String()
	}
	return strings.Join(lines, "\n")
}

// printRouteTable renders routes as a PREFIX / NEXTHOPS table, one nexthop
// per line inside a cell.
func printRouteTable(w io.Writer, source string, routes fib.RouteSet) {
	if routes.Len() == 0 {
		fmt.Fprintf(w, "No routes in %s\n", source)
		return
	}

	t := newTable(w, "PREFIX", "NEXTHOPS")
	for _, route := range routes.Routes() {
		t.Row(route.Prefix.String(), nextHopLines(route.NextHops))
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "%d routes in %s\n", routes.Len(), source)
}

// printRouteLines renders one line per route with the configured template.
func printRouteLines(w io.Writer, tmpl string, routes fib.RouteSet) error {
	t, err := fasttemplate.NewTemplate(tmpl, "{{", "}}")
	if err != nil {
		return fiberrors.NewConfigError("invalid route template", err)
	}

	for _, route := range routes.Routes() {
		line := t.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
			switch tag {
			case config.ROUTE_TMPL_PREFIX:
				return io.WriteString(w, route.Prefix.String())
			case config.ROUTE_TMPL_NEXTHOPS:
				return io.WriteString(w, fib.FormatNextHops(route.NextHops))
			case config.ROUTE_TMPL_COUNT:
				return io.WriteString(w, strconv.Itoa(len(route.NextHops)))
			}
			return 0, nil
		})
		fmt.Fprintln(w, line)
	}
	return nil
}

func printCounters(w io.Writer, counters fib.Counters) {
	if len(counters) == 0 {
		fmt.Fprintln(w, "No counters")
		return
	}

	t := newTable(w, "NAME", "VALUE")
	for _, name := range counters.Names() {
		t.Row(name, strconv.FormatInt(counters[name], 10))
	}
	fmt.Fprintln(w, t.Render())
}

// printReport renders a mismatch report between the expected and the actual
// route source.
func printReport(w io.Writer, expected, actual string, report fib.MismatchReport) {
	if report.Equal() {
		fmt.Fprintf(w, "%s and %s agree\n", expected, actual)
		return
	}

	r := lipgloss.NewRenderer(w)
	kinds := map[string]lipgloss.Style{
		"missing": r.NewStyle().Foreground(colorMissing),
		"extra":   r.NewStyle().Foreground(colorExtra),
		"changed": r.NewStyle().Foreground(colorChanged),
	}

	t := newTable(w, "KIND", "PREFIX", strings.ToUpper(expected), strings.ToUpper(actual))
	for _, prefix := range report.Missing {
		t.Row(kinds["missing"].Render("missing"), prefix.String(), "present", "-")
	}
	for _, prefix := range report.Extra {
		t.Row(kinds["extra"].Render("extra"), prefix.String(), "-", "present")
	}
	for _, changed := range report.Changed {
		t.Row(kinds["changed"].Render("changed"), changed.Prefix.String(),
			nextHopLines(changed.Expected), nextHopLines(changed.Actual))
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "%s and %s disagree: %d missing, %d extra, %d changed\n",
		expected, actual, len(report.Missing), len(report.Extra), len(report.Changed))
}

func printDelta(w io.Writer, delta fib.RouteDelta, dryRun bool) {
	if delta.IsEmpty() {
		fmt.Fprintln(w, "FIB agent already matches decision routes")
		return
	}

	for _, route := range delta.ToAdd.Routes() {
		fmt.Fprintf(w, "+ %s\n", route)
	}
	for _, prefix := range delta.ToDelete {
		fmt.Fprintf(w, "- %s\n", prefix)
	}

	verb := "Reconciled"
	if dryRun {
		verb = "Dry run, nothing applied"
	}
	fmt.Fprintf(w, "%s: %d to add, %d to delete\n", verb, delta.ToAdd.Len(), len(delta.ToDelete))
}
