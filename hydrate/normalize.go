package hydrate

import (
	"math"
	"reflect"
	"time"
)

// Normalize reduces a type expression to the form a runtime type test needs.
// Unions keep their ordered member list; when recursive is true each member is
// itself normalized, so nested parameterizations inside union members are also
// reduced. A single parameterized type collapses to its unparameterized origin
// (the arguments are recovered separately via Args). Anything else is returned
// unchanged.
func Normalize(t TypeExpr, recursive bool) TypeExpr {
	switch t.Kind {
	case KindUnion:
		if !recursive {
			return t
		}

		members := make([]TypeExpr, len(t.Args))
		for i, m := range t.Args {
			members[i] = Normalize(m, true)
		}

		return TypeExpr{Kind: KindUnion, Args: members}
	case KindList:
		return TypeExpr{Kind: KindList}
	case KindMap:
		return TypeExpr{Kind: KindMap}
	default:
		return t
	}
}

// Args returns the ordered type arguments of a parameterized type: the element
// type for a list, key and value types for a map, the member list for a union.
// Non-parameterized types yield nil.
func Args(t TypeExpr) []TypeExpr {
	switch t.Kind {
	case KindList, KindMap, KindUnion:
		return t.Args
	default:
		return nil
	}
}

// Members returns the union's ordered candidate members, or the expression
// itself as a single-element list when it is not a union.
func Members(t TypeExpr) []TypeExpr {
	if t.Kind == KindUnion {
		return t.Args
	}

	return []TypeExpr{t}
}

// accepts is the isinstance-style runtime test: it reports whether value
// already conforms to the (recursively normalized) type expression.
func accepts(t TypeExpr, value any) bool {
	switch t.Kind {
	case 0, KindAny:
		return true
	case KindNil:
		return value == nil
	case KindBool:
		_, ok := value.(bool)

		return ok
	case KindInt:
		return isIntegral(value)
	case KindFloat:
		switch value.(type) {
		case float32, float64:
			return true
		default:
			return false
		}
	case KindString:
		_, ok := value.(string)

		return ok
	case KindTime:
		switch value.(type) {
		case time.Time, *time.Time:
			return true
		default:
			return false
		}
	case KindClient:
		return value != nil
	case KindGo:
		if value == nil || t.goType == nil {
			return false
		}

		return reflect.TypeOf(value).AssignableTo(t.goType)
	case KindModel:
		if value == nil || t.schema == nil || t.schema.GoType == nil {
			return false
		}

		return reflect.TypeOf(value).AssignableTo(t.schema.GoType)
	case KindList:
		return isSequence(value)
	case KindMap:
		return value != nil && reflect.TypeOf(value).Kind() == reflect.Map
	case KindUnion:
		for _, m := range t.Args {
			if accepts(m, value) {
				return true
			}
		}

		return false
	default:
		return false
	}
}

// isIntegral reports whether value is a Go integer, or a float64 carrying a
// whole number. Decoded JSON numbers always arrive as float64, so a payload
// int must still count as an int here; the value itself is never converted.
func isIntegral(value any) bool {
	switch v := value.(type) {
	case float64:
		return !math.IsNaN(v) && !math.IsInf(v, 0) && v == math.Trunc(v)
	case nil:
		return false
	}

	switch reflect.TypeOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

// isSequence reports whether value is an ordered sequence. Strings are
// deliberately excluded: a string field must never be treated as a sequence of
// elements by the coercion rules.
func isSequence(value any) bool {
	if value == nil {
		return false
	}

	switch reflect.TypeOf(value).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}
