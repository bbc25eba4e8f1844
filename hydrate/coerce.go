package hydrate

import (
	"fmt"
	"reflect"
	"time"
)

// evaluator carries the per-call hydration context through nested coercions.
type evaluator struct {
	reg    *Registry
	client any
	opts   *Options
}

// coerce runs the declared type's conversion. Unions fan out over members in
// declaration order; every other type runs the rule chain once.
func (e *evaluator) coerce(v any, t TypeExpr) (any, error) {
	if t.Kind == KindUnion {
		return e.coerceUnion(v, t)
	}

	out, matched, err := e.apply(v, t)
	if err != nil {
		return nil, err
	}

	if matched {
		return out, nil
	}

	return v, nil
}

// apply tries the coercion rules against one non-union type expression. The
// rules fire in a fixed order and at most one fires; matched reports whether
// any did. A value that is already an instance of a model type matches no
// rule, which keeps re-coercion a no-op.
func (e *evaluator) apply(v any, t TypeExpr) (out any, matched bool, err error) {
	switch {
	case t.Kind == KindMap && len(t.Args) == 2 && t.Args[1].Kind == KindModel:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, false, nil
		}

		sch := t.Args[1].schema
		if sch == nil {
			return nil, false, &ResolutionError{Ref: t.Args[1].Name, Reason: "unresolved model schema"}
		}

		hydrated := make(map[string]any, len(m))

		for key, entry := range m {
			member, herr := e.hydrateMember(sch, entry)
			if herr != nil {
				return nil, false, herr
			}

			hydrated[key] = member
		}

		return hydrated, true, nil

	case t.Kind == KindList && len(t.Args) == 1 && t.Args[0].Kind == KindModel:
		seq, ok := v.([]any)
		if !ok {
			return nil, false, nil
		}

		sch := t.Args[0].schema
		if sch == nil {
			return nil, false, &ResolutionError{Ref: t.Args[0].Name, Reason: "unresolved model schema"}
		}

		hydrated := make([]any, len(seq))

		for i, entry := range seq {
			member, herr := e.hydrateMember(sch, entry)
			if herr != nil {
				return nil, false, herr
			}

			hydrated[i] = member
		}

		return hydrated, true, nil

	case t.Kind == KindTime:
		s, ok := v.(string)
		if !ok {
			return nil, false, nil
		}

		ts, perr := ParseTimestamp(s)
		if perr != nil {
			return nil, false, perr
		}

		return ts, true, nil

	case t.Kind == KindModel:
		sch := t.schema
		if sch == nil {
			return nil, false, &ResolutionError{Ref: t.Name, Reason: "unresolved model schema"}
		}

		if sch.GoType != nil && v != nil && reflect.TypeOf(v).AssignableTo(sch.GoType) {
			return nil, false, nil
		}

		member, herr := e.hydrateNested(sch, v)
		if herr != nil {
			return nil, false, herr
		}

		return member, true, nil
	}

	return nil, false, nil
}

// coerceUnion tries members in declaration order and returns the first
// successful conversion or instance match. A structurally failing member is
// skipped, not fatal; programmer errors still abort immediately. When every
// member has been exhausted: an all-model union fails with the last recorded
// structural cause, while a union carrying any non-model member returns the
// value untouched instead.
func (e *evaluator) coerceUnion(v any, t TypeExpr) (any, error) {
	var (
		lastErr   error
		hasEscape bool
	)

	for _, m := range Members(Normalize(t, false)) {
		out, matched, err := e.apply(v, m)
		if err != nil {
			if !structural(err) {
				return nil, err
			}

			lastErr = err

			continue
		}

		if matched {
			return out, nil
		}

		if accepts(Normalize(m, true), v) {
			return v, nil
		}

		if m.Kind != KindModel {
			hasEscape = true
		}
	}

	if !hasEscape {
		return nil, &ParseError{
			Reason: fmt.Sprintf("no member of %s matched payload value", t),
			Cause:  lastErr,
		}
	}

	return v, nil
}

// hydrateMember hydrates one container element, leaving elements that are
// already instances of the target model untouched. Re-running a coercion over
// hydrated data stays a no-op this way.
func (e *evaluator) hydrateMember(sch *Schema, entry any) (any, error) {
	if sch.GoType != nil && entry != nil && reflect.TypeOf(entry).AssignableTo(sch.GoType) {
		return entry, nil
	}

	return e.hydrateNested(sch, entry)
}

// hydrateNested hydrates a nested model value, propagating the per-call
// environment so deferred names inside the nested schema resolve in the same
// scope.
func (e *evaluator) hydrateNested(sch *Schema, payload any) (any, error) {
	var opts []Option
	if e.opts != nil && len(e.opts.Env) > 0 {
		opts = append(opts, WithEnv(e.opts.Env))
	}

	return e.reg.Hydrate(sch, e.client, payload, opts...)
}

// timestampLayouts are accepted in order. The first covers the wire format
// with offset, the second the same without zone, the third bare dates.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp string as produced by the API.
// Failures are structural parse errors, never type mismatches: the string was
// the right shape of value but held unusable content.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, &ParseError{Reason: "invalid ISO-8601 timestamp " + quoted(s)}
}
