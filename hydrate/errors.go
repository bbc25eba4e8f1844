package hydrate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrParse is the root category every hydration failure belongs to.
// errors.Is(err, ErrParse) holds for ResolutionError, MismatchError and
// ParseError alike.
var ErrParse = errors.New("unparseable payload data")

// ResolutionError is a programmer error: a declared type expression could not
// be resolved against the available name environment, or a schema declaration
// is structurally invalid. It aborts hydration immediately and is never worth
// retrying.
type ResolutionError struct {
	Schema string // schema being resolved
	Ref    string // unresolved name, empty for structural schema defects
	Reason string
}

func (e *ResolutionError) Error() string {
	var b strings.Builder

	b.WriteString("hydrate: schema ")
	b.WriteString(quoted(e.Schema))

	if e.Ref != "" {
		b.WriteString(": unresolvable type reference ")
		b.WriteString(quoted(e.Ref))
	}

	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}

	return b.String()
}

func (e *ResolutionError) Is(target error) bool { return target == ErrParse }

// MismatchError is a data error: the payload's shape or a field's converted
// value does not conform to the declared type.
type MismatchError struct {
	Schema    string
	Key       string // offending payload key, empty for top-level shape errors
	Expected  string // expected type expression
	Received  string // runtime type of the raw value
	Converted string // runtime type after conversion, when conversion changed it
	Cause     error
}

func (e *MismatchError) Error() string {
	msg := fmt.Sprintf("hydrate: unexpected %s payload data", e.Schema)
	if e.Key != "" {
		msg += fmt.Sprintf(" (key %q: expected %s; received %s", e.Key, e.Expected, e.Received)
		if e.Converted != "" {
			msg += ", converted into " + e.Converted
		}

		msg += ")"
	} else if e.Expected != "" {
		msg += fmt.Sprintf(" (expected %s; received %s)", e.Expected, e.Received)
	}

	return msg
}

func (e *MismatchError) Unwrap() error { return e.Cause }

func (e *MismatchError) Is(target error) bool { return target == ErrParse }

// ParseError is a data error: a structurally-typed conversion (timestamp
// parse, nested model hydration, custom converter) was attempted and failed.
// The causal failure is chained and reachable through errors.Unwrap.
type ParseError struct {
	Schema string
	Key    string
	Reason string
	Cause  error
}

func (e *ParseError) Error() string {
	msg := "hydrate: " + e.Reason
	if e.Schema != "" {
		msg = fmt.Sprintf("hydrate: unexpected %s payload data", e.Schema)
		if e.Key != "" {
			msg += fmt.Sprintf(" (key %q)", e.Key)
		}

		if e.Reason != "" {
			msg += ": " + e.Reason
		}
	}

	return msg
}

func (e *ParseError) Unwrap() error { return e.Cause }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// structural reports whether err is a data-level failure a union fallback may
// swallow while trying the next candidate. Resolution errors are defects and
// always propagate.
func structural(err error) bool {
	var re *ResolutionError
	if errors.As(err, &re) {
		return false
	}

	return errors.Is(err, ErrParse)
}

// isResolution reports whether err carries a schema resolution failure, the
// engine's programmer-error class.
func isResolution(err error) bool {
	var re *ResolutionError

	return errors.As(err, &re)
}

func quoted(s string) string { return fmt.Sprintf("%q", s) }

// typeName renders a runtime value's type for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}

	return fmt.Sprintf("%T", v)
}
