// Package hydrate turns decoded JSON payloads into registered model
// instances. Models describe their constructor parameters with Schema
// descriptors built from TypeExpr values; hydration renames wire keys, runs
// the coercion chain per field, optionally verifies conformance and hands the
// bound arguments to the schema's constructor.
package hydrate

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as the "no declared type" marker

	KindAny
	KindNil
	KindBool
	KindInt
	KindFloat
	KindString
	KindTime
	KindClient
	KindGo
	KindModel
	KindList
	KindMap
	KindUnion
	KindDeferred

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// IsScalar reports whether the kind describes a single JSON scalar shape.
func (k KindEnum) IsScalar() bool {
	switch k {
	default:
		return false
	case KindNil, KindBool, KindInt, KindFloat, KindString:
		return true
	}
}

// IsParameterized reports whether the kind carries type arguments that
// normalization drops when reducing to the origin.
func (k KindEnum) IsParameterized() bool {
	return k == KindList || k == KindMap
}

// IsConcrete reports whether the kind is usable for a runtime type test as-is.
// Deferred kinds must be resolved against a name environment first.
func (k KindEnum) IsConcrete() bool {
	return k != 0 && k != KindDeferred
}
