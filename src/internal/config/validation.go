package config

import (
	"fmt"
	"io"
	"net"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/valyala/fasttemplate"
)

// getValidationMessage returns a human-readable message for a validation error
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "min", "gte":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "max", "lte":
		return fmt.Sprintf("must be <= %s", e.Param())
	case "hostname_rfc1123|ip":
		return "must be a valid host name or IP address"
	case "hostport_or_empty":
		return "must be in format 'host:port' or empty"
	case "route_template":
		return "must be a valid template using only {{prefix}}, {{nexthops}} and {{count}}"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}

// ValidationError represents a single validation error with context
type ValidationError struct {
	FieldPath string // Dot-notation field path (e.g., "general.timeout_ms", "ports.fib_agent_port")
	Message   string // Human-readable error message
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("validation failed with %d error(s):\n", len(ve)))
	for i, err := range ve {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.FieldPath, err.Message))
	}
	return sb.String()
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("hostport_or_empty", validateHostPortOrEmpty); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("route_template", validateRouteTemplateTag); err != nil {
		panic(err)
	}

	// Register function to get field name from "toml" tag
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validator: host:port format or empty
func validateHostPortOrEmpty(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, _, err := net.SplitHostPort(value)
	return err == nil
}

func validateRouteTemplateTag(fl validator.FieldLevel) bool {
	return ValidateRouteTemplate(fl.Field().String()) == nil
}

// ValidateRouteTemplate checks that tmpl is well-formed and only references
// known route variables.
func ValidateRouteTemplate(tmpl string) error {
	t, err := fasttemplate.NewTemplate(tmpl, "{{", "}}")
	if err != nil {
		return err
	}

	var unknown []string
	t.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		switch tag {
		case ROUTE_TMPL_PREFIX, ROUTE_TMPL_NEXTHOPS, ROUTE_TMPL_COUNT:
		default:
			unknown = append(unknown, tag)
		}
		return 0, nil
	})
	if len(unknown) > 0 {
		return fmt.Errorf("unknown template variables: %s", strings.Join(unknown, ", "))
	}
	return nil
}
