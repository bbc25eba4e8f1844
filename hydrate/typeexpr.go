package hydrate

import (
	"reflect"
	"strings"
)

// TypeExpr describes the declared type of a schema parameter. It is either a
// plain kind (bool, int, string, ...), a parameterized container (list, map),
// an ordered union of candidate member types, a reference to a registered
// model schema, or a deferred name to be resolved against the registry's name
// environment. The zero TypeExpr means "no declared type": such fields are
// bound by pass-through and never type-checked.
type TypeExpr struct {
	Kind KindEnum
	Name string     // schema name for Model, environment name for Deferred
	Args []TypeExpr // List: [elem]; Map: [key, value]; Union: ordered members

	goType reflect.Type // Go kind only
	schema *Schema      // Model kind only, attached during resolution
}

// IsZero reports whether no type was declared at all.
func (t TypeExpr) IsZero() bool { return t.Kind == 0 }

// Any is the permissive escape-hatch type: every value conforms to it and no
// conversion is ever attempted.
func Any() TypeExpr { return TypeExpr{Kind: KindAny} }

// Nil accepts only JSON null.
func Nil() TypeExpr { return TypeExpr{Kind: KindNil} }

func Bool() TypeExpr { return TypeExpr{Kind: KindBool} }

// Int accepts Go integer values and float64 values without a fractional part
// (decoded JSON numbers always arrive as float64). It never converts; a
// numeric string stays a string.
func Int() TypeExpr { return TypeExpr{Kind: KindInt} }

func Float() TypeExpr { return TypeExpr{Kind: KindFloat} }

func String() TypeExpr { return TypeExpr{Kind: KindString} }

// Time is the timestamp type: textual ISO-8601 values are parsed into
// time.Time by the coercion chain.
func Time() TypeExpr { return TypeExpr{Kind: KindTime} }

// Client is the engine-reserved type of the active client/session handle
// injected into every hydration call.
func Client() TypeExpr { return TypeExpr{Kind: KindClient} }

// Go declares an arbitrary Go runtime type, checked by assignability. Used for
// domain value types that hydrate through custom converters (ids, flags,
// enums) rather than through registered schemas.
func Go[T any]() TypeExpr {
	return TypeExpr{Kind: KindGo, goType: reflect.TypeOf((*T)(nil)).Elem()}
}

// Model references a registered schema by name. The reference is attached to
// the live schema when the declaring schema is resolved, so registration order
// does not matter.
func Model(name string) TypeExpr { return TypeExpr{Kind: KindModel, Name: name} }

// Deferred references a name in the resolution environment: the engine
// reserved names, the caller-supplied extra names, or any registered schema.
func Deferred(name string) TypeExpr { return TypeExpr{Kind: KindDeferred, Name: name} }

// List declares an ordered sequence of elem.
func List(elem TypeExpr) TypeExpr {
	return TypeExpr{Kind: KindList, Args: []TypeExpr{elem}}
}

// Map declares a string-keyed mapping with the given key and value types.
func Map(key, value TypeExpr) TypeExpr {
	return TypeExpr{Kind: KindMap, Args: []TypeExpr{key, value}}
}

// Union declares an ordered sum of candidate member types. Nested unions are
// flattened immediately, so a union's members never contain further unions.
func Union(members ...TypeExpr) TypeExpr {
	flat := make([]TypeExpr, 0, len(members))
	for _, m := range members {
		if m.Kind == KindUnion {
			flat = append(flat, m.Args...)

			continue
		}

		flat = append(flat, m)
	}

	return TypeExpr{Kind: KindUnion, Args: flat}
}

// Optional is shorthand for Union(t, Nil).
func Optional(t TypeExpr) TypeExpr { return Union(t, Nil()) }

// Schema returns the resolved schema behind a Model expression, or nil if the
// expression is not a resolved model reference.
func (t TypeExpr) Schema() *Schema { return t.schema }

// Equal reports structural equality of two type expressions. Resolution state
// is ignored: Model("User") equals Model("User") whether or not either side
// has been attached to a live schema.
func (t TypeExpr) Equal(other TypeExpr) bool {
	if t.Kind != other.Kind || t.Name != other.Name || t.goType != other.goType {
		return false
	}

	if len(t.Args) != len(other.Args) {
		return false
	}

	for i := range t.Args {
		if !t.Args[i].Equal(other.Args[i]) {
			return false
		}
	}

	return true
}

func (t TypeExpr) String() string {
	switch t.Kind {
	case 0:
		return "<untyped>"
	case KindAny:
		return "any"
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	case KindClient:
		return "client"
	case KindGo:
		if t.goType == nil {
			return "go(?)"
		}

		return t.goType.String()
	case KindModel:
		return t.Name
	case KindList:
		if len(t.Args) == 1 {
			return "[]" + t.Args[0].String()
		}

		return "[]"
	case KindMap:
		if len(t.Args) == 2 {
			return "map[" + t.Args[0].String() + "]" + t.Args[1].String()
		}

		return "map"
	case KindUnion:
		parts := make([]string, 0, len(t.Args))
		for _, m := range t.Args {
			parts = append(parts, m.String())
		}

		return strings.Join(parts, " | ")
	case KindDeferred:
		return "deferred(" + t.Name + ")"
	default:
		return t.Kind.String()
	}
}

func containsType(haystack []TypeExpr, needle TypeExpr) bool {
	for _, t := range haystack {
		if t.Equal(needle) {
			return true
		}
	}

	return false
}
