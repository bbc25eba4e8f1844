package hydrate

import "reflect"

// CheckEnum selects the post-conversion conformance policy: whether converted
// field values must actually satisfy their declared types.
type CheckEnum int

const (
	// CheckOff disables conformance checking entirely.
	CheckOff CheckEnum = iota

	// CheckAll verifies every field that declares a type.
	CheckAll

	// CheckListed verifies only fields whose declared type appears in the
	// CheckTypes list, minus any in CheckExcept.
	CheckListed
)

// String returns a human-readable policy name.
func (c CheckEnum) String() string {
	switch c {
	case CheckOff:
		return "off"
	case CheckAll:
		return "all"
	case CheckListed:
		return "listed"
	default:
		return "unknown"
	}
}

// checker is a conformance policy merged from schema defaults and per-call
// overrides.
type checker struct {
	policy CheckEnum
	types  []TypeExpr
	except []TypeExpr
}

// checkPolicy merges the effective conformance configuration for one call.
// An explicit per-call policy replaces the schema default wholesale; type
// lists supplied per call extend the schema's lists.
func checkPolicy(s *Schema, o *Options) checker {
	c := checker{
		policy: s.Check,
		types:  s.CheckTypes,
		except: s.CheckExcept,
	}

	if o.checkSet {
		c.policy = o.Check
	}

	if len(o.CheckTypes) > 0 {
		c.types = append(append([]TypeExpr{}, c.types...), o.CheckTypes...)
	}

	if len(o.CheckExcept) > 0 {
		c.except = append(append([]TypeExpr{}, c.except...), o.CheckExcept...)
	}

	return c
}

// verify checks one converted field value against its declared type under the
// active policy. Untyped fields are never checked; neither are deferred
// declarations, which only exist before resolution.
func (c checker) verify(schemaName, key string, declared TypeExpr, raw, converted any) error {
	if c.policy == CheckOff || declared.IsZero() || declared.Kind == KindDeferred {
		return nil
	}

	if c.policy == CheckListed && !containsType(c.types, declared) {
		return nil
	}

	if containsType(c.except, declared) {
		return nil
	}

	if accepts(Normalize(declared, true), converted) {
		return nil
	}

	err := &MismatchError{
		Schema:   schemaName,
		Key:      key,
		Expected: declared.String(),
		Received: typeName(raw),
	}

	if reflect.TypeOf(raw) != reflect.TypeOf(converted) {
		err.Converted = typeName(converted)
	}

	return err
}
