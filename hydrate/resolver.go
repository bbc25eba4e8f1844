package hydrate

import (
	"reflect"
	"sync"
)

// ParamKindEnum mirrors call-binding parameter kinds. It decides which half of
// BoundArgs a bound value lands in.
type ParamKindEnum int

const (
	_ ParamKindEnum = iota

	ParamPositionalOnly
	ParamPositionalOrKeyword
	ParamKeywordOnly
	ParamVariadicPositional
	ParamVariadicKeyword

	// ParamKindTotal is a constant that represents the total number of kinds defined
	ParamKindTotal = int(iota)
)

// String returns a human-readable parameter kind name.
func (k ParamKindEnum) String() string {
	switch k {
	case ParamPositionalOnly:
		return "positional-only"
	case ParamPositionalOrKeyword:
		return "positional-or-keyword"
	case ParamKeywordOnly:
		return "keyword-only"
	case ParamVariadicPositional:
		return "variadic-positional"
	case ParamVariadicKeyword:
		return "variadic-keyword"
	default:
		return "unknown"
	}
}

// Converter maps a raw JSON value into whatever the constructor expects for
// one field. A registered converter bypasses the default coercion chain
// entirely for that field.
type Converter func(raw any) (any, error)

// Field declares one constructor parameter of a hydratable schema.
// A zero Kind defaults to keyword-only; a zero Type means the field is bound
// by pass-through and never type-checked.
type Field struct {
	Name string
	Kind ParamKindEnum
	Type TypeExpr
}

// Schema is the registration-time descriptor of a hydratable model: the
// explicit replacement for constructor reflection. Registered once (normally
// in the owning package's init), then treated as read-only.
type Schema struct {
	// Name is the identity under which the schema registers and by which
	// Model and Deferred expressions reference it.
	Name string

	// GoType is the runtime type New produces, used for the idempotence
	// check and for isinstance-style conformance. Typically
	// reflect.TypeOf((*T)(nil)) for a model constructed as *T.
	GoType reflect.Type

	Fields []Field

	// Rename maps wire keys to parameter names. Missing keys bind under
	// their own name.
	Rename map[string]string

	// Converters maps parameter names (post-rename) to custom converters.
	Converters map[string]Converter

	// Check, CheckTypes and CheckExcept are the schema's default
	// conformance policy, overridable per hydration call.
	Check       CheckEnum
	CheckTypes  []TypeExpr
	CheckExcept []TypeExpr

	// New constructs the model from bound arguments.
	New func(args *BoundArgs) (any, error)

	reg *Registry
}

// Registry holds registered schemas and memoized resolutions. A registry is
// written during program start and read-only afterwards; concurrent hydration
// calls share it freely.
type Registry struct {
	mu       sync.RWMutex
	schemas  map[string]*Schema
	compiled map[string]*compiledSchema
}

// NewRegistry returns an empty registry. Most code uses the package-level
// Register and the default registry instead.
func NewRegistry() *Registry {
	return &Registry{
		schemas:  make(map[string]*Schema),
		compiled: make(map[string]*compiledSchema),
	}
}

var std = NewRegistry()

// Register adds a schema to the default registry and returns it, so model
// packages can keep the registered schema in a package variable:
//
//	var userSchema = hydrate.Register(&hydrate.Schema{ ... })
func Register(s *Schema) *Schema { return std.Register(s) }

// Register adds a schema to the registry. Registering a nil schema, an empty
// name or a duplicate name panics: registration runs at program start and a
// bad registration is a defect, not an input error.
func (r *Registry) Register(s *Schema) *Schema {
	if s == nil || s.Name == "" {
		panic("hydrate: schema registration requires a name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[s.Name]; exists {
		panic("hydrate: duplicate schema registration: " + s.Name)
	}

	s.reg = r
	r.schemas[s.Name] = s

	return s
}

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schemas[name]

	return s, ok
}

// Lookup returns a schema from the default registry.
func Lookup(name string) (*Schema, bool) { return std.Lookup(name) }

// clientName is the engine-reserved environment name bound to the active
// client/session context type.
const clientName = "Client"

// compiledSchema is a schema with every declared type fully resolved and the
// parameter list indexed for binding. Compilations without extra names are
// memoized on the registry.
type compiledSchema struct {
	schema *Schema
	params []boundParam
	byName map[string]int
	varPos int // index of the variadic-positional parameter, or -1
	varKw  int // index of the variadic-keyword parameter, or -1
}

type boundParam struct {
	name string
	kind ParamKindEnum
	typ  TypeExpr
	conv Converter
}

// acceptsExtra reports whether unknown payload keys are retained: the analog
// of a constructor accepting arbitrary extra keyword fields.
func (c *compiledSchema) acceptsExtra() bool { return c.varKw >= 0 }

func (r *Registry) resolve(s *Schema, extra map[string]TypeExpr) (*compiledSchema, error) {
	if len(extra) == 0 {
		r.mu.RLock()
		cached, ok := r.compiled[s.Name]
		r.mu.RUnlock()

		if ok {
			return cached, nil
		}
	}

	comp := &compiledSchema{
		schema: s,
		params: make([]boundParam, 0, len(s.Fields)),
		byName: make(map[string]int, len(s.Fields)),
		varPos: -1,
		varKw:  -1,
	}

	for _, f := range s.Fields {
		if f.Name == "" {
			return nil, &ResolutionError{Schema: s.Name, Reason: "field with empty name"}
		}

		if _, dup := comp.byName[f.Name]; dup {
			return nil, &ResolutionError{Schema: s.Name, Reason: "duplicate field " + quoted(f.Name)}
		}

		kind := f.Kind
		if kind == 0 {
			kind = ParamKeywordOnly
		}

		typ, err := r.resolveExpr(f.Type, s.Name, extra)
		if err != nil {
			return nil, err
		}

		idx := len(comp.params)

		switch kind {
		case ParamVariadicPositional:
			comp.varPos = idx
		case ParamVariadicKeyword:
			comp.varKw = idx
		}

		comp.byName[f.Name] = idx
		comp.params = append(comp.params, boundParam{
			name: f.Name,
			kind: kind,
			typ:  typ,
			conv: s.Converters[f.Name],
		})
	}

	if comp.varPos >= 0 && comp.varKw >= 0 {
		return nil, &ResolutionError{
			Schema: s.Name,
			Reason: "variadic-positional and variadic-keyword parameters are mutually exclusive",
		}
	}

	if len(extra) == 0 {
		r.mu.Lock()
		r.compiled[s.Name] = comp
		r.mu.Unlock()
	}

	return comp, nil
}

// resolveExpr evaluates deferred names and attaches live schemas to model
// references. The merged environment consists of the engine-reserved names,
// the caller-supplied extra names, and every registered schema name, in that
// precedence order.
func (r *Registry) resolveExpr(t TypeExpr, schemaName string, extra map[string]TypeExpr) (TypeExpr, error) {
	switch t.Kind {
	case KindDeferred:
		if t.Name == clientName {
			return Client(), nil
		}

		if bound, ok := extra[t.Name]; ok {
			if bound.Kind == KindDeferred {
				return TypeExpr{}, &ResolutionError{
					Schema: schemaName,
					Ref:    t.Name,
					Reason: "environment binds a deferred expression",
				}
			}

			return r.resolveExpr(bound, schemaName, nil)
		}

		if sch, ok := r.Lookup(t.Name); ok {
			return TypeExpr{Kind: KindModel, Name: t.Name, schema: sch}, nil
		}

		return TypeExpr{}, &ResolutionError{Schema: schemaName, Ref: t.Name, Reason: "unknown name"}
	case KindModel:
		sch, ok := r.Lookup(t.Name)
		if !ok {
			return TypeExpr{}, &ResolutionError{Schema: schemaName, Ref: t.Name, Reason: "unknown model schema"}
		}

		t.schema = sch

		return t, nil
	case KindList, KindMap, KindUnion:
		args := make([]TypeExpr, len(t.Args))
		for i, a := range t.Args {
			resolved, err := r.resolveExpr(a, schemaName, extra)
			if err != nil {
				return TypeExpr{}, err
			}

			args[i] = resolved
		}

		t.Args = args

		return t, nil
	default:
		return t, nil
	}
}
