package commands

import (
	"context"
	"fmt"

	fiberrors "github.com/maksimkurb/fibctl/src/internal/errors"
	"github.com/maksimkurb/fibctl/src/internal/fib"
)

type validationOutput struct {
	Expected   string             `json:"expected"`
	Actual     string             `json:"actual"`
	Equal      bool               `json:"equal"`
	Mismatches int                `json:"mismatches"`
	Report     fib.MismatchReport `json:"report"`
}

func runValidate(ctx context.Context, env *Env, args []string) error {
	return validate(ctx, env, "validate", args, "decision", "agent", env.Engine.Validate)
}

func runValidateLinux(ctx context.Context, env *Env, args []string) error {
	return validate(ctx, env, "validate-linux", args, "agent", "kernel", env.Engine.ValidateLinux)
}

// validate prints the report of check, then fails with VALIDATION_MISMATCH
// when it is not empty.
func validate(ctx context.Context, env *Env, name string, args []string, expected, actual string,
	check func(context.Context) (fib.MismatchReport, error)) error {
	fs := newFlagSet(name)
	asJSON := jsonFlag(fs)
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	enableJSON(*asJSON)

	report, err := check(ctx)
	if err != nil {
		return err
	}

	if *asJSON {
		err = writeJSON(env.Stdout, validationOutput{
			Expected:   expected,
			Actual:     actual,
			Equal:      report.Equal(),
			Mismatches: report.Count(),
			Report:     report,
		})
		if err != nil {
			return err
		}
	} else {
		printReport(env.Stdout, expected, actual, report)
	}

	if !report.Equal() {
		return fiberrors.New(fiberrors.ErrCodeValidationMismatch,
			fmt.Sprintf("%s and %s disagree on %d prefixes", expected, actual, report.Count()))
	}
	return nil
}
