package hydrate

import "fmt"

// BoundArgs is the partitioned argument set handed to a schema constructor.
// Positional holds the positional-only and positional-or-keyword values in
// declaration order (with any variadic-positional sequence spread in place);
// Keyword holds everything else, including retained extra payload keys.
type BoundArgs struct {
	Positional []any
	Keyword    map[string]any
}

// Arg fetches a keyword argument by name, asserting it to T. The second
// return is false when the argument is absent or holds a different type.
func Arg[T any](args *BoundArgs, name string) (T, bool) {
	v, ok := args.Keyword[name]
	if !ok {
		var zero T

		return zero, false
	}

	t, ok := v.(T)

	return t, ok
}

// ArgOr fetches a keyword argument by name, falling back when it is absent,
// nil or of a different type.
func ArgOr[T any](args *BoundArgs, name string, fallback T) T {
	v, ok := args.Keyword[name]
	if !ok || v == nil {
		return fallback
	}

	t, ok := v.(T)
	if !ok {
		return fallback
	}

	return t
}

// Pos fetches a positional argument by index, asserting it to T.
func Pos[T any](args *BoundArgs, i int) (T, bool) {
	if i < 0 || i >= len(args.Positional) {
		var zero T

		return zero, false
	}

	t, ok := args.Positional[i].(T)

	return t, ok
}

// ArgSlice fetches a keyword argument holding a hydrated []any and asserts
// every element to T. Absent or nil arguments yield a nil slice.
func ArgSlice[T any](args *BoundArgs, name string) ([]T, bool) {
	v, ok := args.Keyword[name]
	if !ok || v == nil {
		return nil, true
	}

	seq, ok := v.([]any)
	if !ok {
		return nil, false
	}

	out := make([]T, len(seq))

	for i, entry := range seq {
		t, ok := entry.(T)
		if !ok {
			return nil, false
		}

		out[i] = t
	}

	return out, true
}

// Options are the per-call hydration overrides layered over the schema's
// registered defaults.
type Options struct {
	Rename     map[string]string
	Converters map[string]Converter

	Check       CheckEnum
	CheckTypes  []TypeExpr
	CheckExcept []TypeExpr
	checkSet    bool

	Env map[string]TypeExpr
}

// Option mutates per-call hydration options.
type Option func(*Options)

// WithRename adds wire-key renames for this call, shadowing schema renames
// for the same keys.
func WithRename(rename map[string]string) Option {
	return func(o *Options) {
		if o.Rename == nil {
			o.Rename = make(map[string]string, len(rename))
		}

		for k, v := range rename {
			o.Rename[k] = v
		}
	}
}

// WithConverters adds per-parameter converters for this call, shadowing
// schema converters for the same parameters.
func WithConverters(convs map[string]Converter) Option {
	return func(o *Options) {
		if o.Converters == nil {
			o.Converters = make(map[string]Converter, len(convs))
		}

		for k, v := range convs {
			o.Converters[k] = v
		}
	}
}

// WithCheck overrides the schema's conformance policy for this call.
func WithCheck(c CheckEnum) Option {
	return func(o *Options) {
		o.Check = c
		o.checkSet = true
	}
}

// WithCheckTypes restricts conformance checking to fields declared with one
// of the listed types. Implies CheckListed unless a policy was set
// explicitly.
func WithCheckTypes(types ...TypeExpr) Option {
	return func(o *Options) {
		o.CheckTypes = append(o.CheckTypes, types...)

		if !o.checkSet {
			o.Check = CheckListed
			o.checkSet = true
		}
	}
}

// WithCheckExcept exempts fields declared with one of the listed types from
// conformance checking.
func WithCheckExcept(types ...TypeExpr) Option {
	return func(o *Options) {
		o.CheckExcept = append(o.CheckExcept, types...)
	}
}

// WithEnv binds extra deferred names for this call only. Bindings shadow
// registered schema names but never the engine-reserved ones.
func WithEnv(env map[string]TypeExpr) Option {
	return func(o *Options) {
		if o.Env == nil {
			o.Env = make(map[string]TypeExpr, len(env))
		}

		for k, v := range env {
			o.Env[k] = v
		}
	}
}

// Hydrate builds a model instance from a decoded JSON payload using the
// schema's owning registry. The client value is injected under the reserved
// payload key "client", shadowing any payload key that would land on the
// same entry, so schemas bind it like any other field.
func Hydrate(schema *Schema, client any, payload any, opts ...Option) (any, error) {
	if schema == nil {
		return nil, &ResolutionError{Reason: "nil schema"}
	}

	reg := schema.reg
	if reg == nil {
		return nil, &ResolutionError{Schema: schema.Name, Reason: "schema is not registered"}
	}

	return reg.Hydrate(schema, client, payload, opts...)
}

// As hydrates a payload and asserts the result to T.
func As[T any](schema *Schema, client any, payload any, opts ...Option) (T, error) {
	var zero T

	out, err := Hydrate(schema, client, payload, opts...)
	if err != nil {
		return zero, err
	}

	t, ok := out.(T)
	if !ok {
		return zero, &MismatchError{
			Schema:   schema.Name,
			Expected: fmt.Sprintf("%T", zero),
			Received: typeName(out),
		}
	}

	return t, nil
}

// Hydrate builds a model instance from a decoded JSON payload. Payloads must
// be JSON objects; anything else is a type mismatch before any field work
// happens.
func (r *Registry) Hydrate(schema *Schema, client any, payload any, opts ...Option) (any, error) {
	if schema == nil {
		return nil, &ResolutionError{Reason: "nil schema"}
	}

	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	mapping, ok := payload.(map[string]any)
	if !ok {
		return nil, &MismatchError{
			Schema:   schema.Name,
			Expected: "mapping",
			Received: typeName(payload),
		}
	}

	comp, err := r.resolve(schema, o.Env)
	if err != nil {
		return nil, err
	}

	ev := &evaluator{reg: r, client: client, opts: &o}

	check := checkPolicy(schema, &o)

	values := make(map[string]any, len(mapping)+1)
	extras := make(map[string]any)

	renameKey := func(key string) string {
		if renamed, ok := o.Rename[key]; ok {
			return renamed
		}

		if renamed, ok := schema.Rename[key]; ok {
			return renamed
		}

		return key
	}

	bindValue := func(key string, raw any) error {
		name := renameKey(key)

		idx, known := comp.byName[name]
		if !known {
			if comp.acceptsExtra() {
				extras[name] = raw
			}

			return nil
		}

		param := comp.params[idx]

		conv := param.conv
		if override, ok := o.Converters[param.name]; ok {
			conv = override
		}

		var (
			converted any
			cerr      error
		)

		switch {
		case conv != nil:
			converted, cerr = conv(raw)
			if cerr != nil {
				if structural(cerr) {
					return fieldError(cerr, schema.Name, name)
				}

				return &ParseError{
					Schema: schema.Name,
					Key:    name,
					Reason: "field converter failed",
					Cause:  cerr,
				}
			}
		case !param.typ.IsZero():
			converted, cerr = ev.coerce(raw, param.typ)
			if cerr != nil {
				return fieldError(cerr, schema.Name, name)
			}
		default:
			converted = raw
		}

		if err := check.verify(schema.Name, name, param.typ, raw, converted); err != nil {
			return err
		}

		values[name] = converted

		return nil
	}

	// the injected client always wins: payload keys landing on the client
	// entry are dropped unprocessed
	clientName := renameKey("client")

	for key, raw := range mapping {
		if renameKey(key) == clientName {
			continue
		}

		if err := bindValue(key, raw); err != nil {
			return nil, err
		}
	}

	if err := bindValue("client", client); err != nil {
		return nil, err
	}

	args := &BoundArgs{Keyword: make(map[string]any, len(values)+len(extras))}

	for _, param := range comp.params {
		v, present := values[param.name]
		if !present {
			continue
		}

		switch param.kind {
		case ParamPositionalOnly, ParamPositionalOrKeyword:
			args.Positional = append(args.Positional, v)
		case ParamVariadicPositional:
			if seq, ok := v.([]any); ok {
				args.Positional = append(args.Positional, seq...)
			} else {
				args.Positional = append(args.Positional, v)
			}
		case ParamVariadicKeyword:
			if m, ok := v.(map[string]any); ok {
				for k, entry := range m {
					args.Keyword[k] = entry
				}
			} else {
				args.Keyword[param.name] = v
			}
		default:
			args.Keyword[param.name] = v
		}
	}

	for k, v := range extras {
		if _, taken := args.Keyword[k]; !taken {
			args.Keyword[k] = v
		}
	}

	out, err := schema.New(args)
	if err != nil {
		if structural(err) || isResolution(err) {
			return nil, err
		}

		return nil, &MismatchError{
			Schema:   schema.Name,
			Expected: "constructible arguments",
			Received: "bound arguments",
			Cause:    err,
		}
	}

	return out, nil
}

// fieldError stamps schema and key context onto engine errors raised while
// coercing a single field, leaving already-attributed errors alone.
func fieldError(err error, schemaName, key string) error {
	switch e := err.(type) {
	case *ParseError:
		if e.Schema == "" {
			e.Schema = schemaName
		}

		if e.Key == "" {
			e.Key = key
		}

		return e
	case *MismatchError:
		if e.Schema == "" {
			e.Schema = schemaName
		}

		if e.Key == "" {
			e.Key = key
		}

		return e
	default:
		return err
	}
}
