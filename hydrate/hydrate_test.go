package hydrate_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snowcord/hydrate"
)

type role struct {
	ID   int
	Name string
}

type member struct {
	Nickname string
	JoinedAt time.Time
	Roles    []*role
}

func registerRole(r *hydrate.Registry, calls *int) *hydrate.Schema {
	return r.Register(&hydrate.Schema{
		Name:   "Role",
		GoType: reflect.TypeOf((*role)(nil)),
		Fields: []hydrate.Field{
			{Name: "id", Type: hydrate.Int()},
			{Name: "name", Type: hydrate.String()},
		},
		New: func(args *hydrate.BoundArgs) (any, error) {
			if calls != nil {
				*calls++
			}

			id, ok := hydrate.Arg[float64](args, "id")
			if !ok {
				return nil, errors.New("id must be a number")
			}

			return &role{ID: int(id), Name: hydrate.ArgOr(args, "name", "")}, nil
		},
	})
}

func registerMember(r *hydrate.Registry) *hydrate.Schema {
	return r.Register(&hydrate.Schema{
		Name:   "Member",
		GoType: reflect.TypeOf((*member)(nil)),
		Rename: map[string]string{"nick": "nickname", "joined_at": "joined_at_time"},
		Fields: []hydrate.Field{
			{Name: "nickname", Type: hydrate.String()},
			{Name: "joined_at_time", Type: hydrate.Time()},
			{Name: "roles", Type: hydrate.List(hydrate.Model("Role"))},
		},
		New: func(args *hydrate.BoundArgs) (any, error) {
			roles, ok := hydrate.ArgSlice[*role](args, "roles")
			if !ok {
				return nil, errors.New("roles must hydrate to role models")
			}

			return &member{
				Nickname: hydrate.ArgOr(args, "nickname", ""),
				JoinedAt: hydrate.ArgOr(args, "joined_at_time", time.Time{}),
				Roles:    roles,
			}, nil
		},
	})
}

func TestHydrate_PassThroughFields(t *testing.T) {
	r := hydrate.NewRegistry()
	sch := r.Register(&hydrate.Schema{
		Name: "Pair",
		Fields: []hydrate.Field{
			{Name: "left"},
			{Name: "right"},
		},
		New: passthroughNew,
	})

	payload := map[string]any{"left": "a", "right": 2.0}

	out, err := r.Hydrate(sch, nil, payload)
	require.NoError(t, err)

	got := out.(map[string]any)
	assert.Equal(t, "a", got["left"])
	assert.Equal(t, 2.0, got["right"])
}

func TestHydrate_RenameWinsOverIdentity(t *testing.T) {
	r := hydrate.NewRegistry()
	registerRole(r, nil)
	sch := registerMember(r)

	out, err := r.Hydrate(sch, nil, map[string]any{"nick": "Zed"})
	require.NoError(t, err)
	assert.Equal(t, "Zed", out.(*member).Nickname)

	// per-call rename shadows the schema's for the same wire key
	out, err = r.Hydrate(sch, nil,
		map[string]any{"display": "Why"},
		hydrate.WithRename(map[string]string{"display": "nickname"}))
	require.NoError(t, err)
	assert.Equal(t, "Why", out.(*member).Nickname)
}

func TestHydrate_Idempotence(t *testing.T) {
	calls := 0

	r := hydrate.NewRegistry()
	registerRole(r, &calls)
	sch := registerMember(r)

	payload := map[string]any{
		"nick":      "Zed",
		"joined_at": "2021-03-04T11:22:33.000001+00:00",
		"roles": []any{
			map[string]any{"id": 1.0, "name": "admin"},
			map[string]any{"id": 2.0, "name": "mod"},
		},
	}

	first, err := r.Hydrate(sch, nil, payload)
	require.NoError(t, err)
	require.Equal(t, 2, calls)

	m := first.(*member)
	require.Len(t, m.Roles, 2)

	// feed the hydrated roles back in: no re-hydration happens
	again := map[string]any{
		"nick":  "Zed",
		"roles": []any{m.Roles[0], m.Roles[1]},
	}

	second, err := r.Hydrate(sch, nil, again)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Same(t, m.Roles[0], second.(*member).Roles[0])
}

func TestHydrate_ListOfModelPreservesOrder(t *testing.T) {
	r := hydrate.NewRegistry()
	registerRole(r, nil)
	sch := registerMember(r)

	payload := map[string]any{"roles": []any{
		map[string]any{"id": 30.0},
		map[string]any{"id": 10.0},
		map[string]any{"id": 20.0},
	}}

	out, err := r.Hydrate(sch, nil, payload)
	require.NoError(t, err)

	got := out.(*member).Roles
	require.Len(t, got, 3)
	assert.Equal(t, []int{30, 10, 20}, []int{got[0].ID, got[1].ID, got[2].ID})
}

func TestHydrate_DirectModelRejectsNonMapping(t *testing.T) {
	r := hydrate.NewRegistry()
	registerRole(r, nil)

	sch := r.Register(&hydrate.Schema{
		Name:   "Outer",
		Fields: []hydrate.Field{{Name: "inner", Type: hydrate.Model("Role")}},
		New:    passthroughNew,
	})

	// a scalar can never hydrate into a model; it must not slip through raw
	_, err := r.Hydrate(sch, nil, map[string]any{"inner": 42.0})
	require.Error(t, err)

	var me *hydrate.MismatchError
	require.ErrorAs(t, err, &me)
	assert.ErrorIs(t, err, hydrate.ErrParse)
}

func TestHydrate_AllModelUnionRejectsNonMapping(t *testing.T) {
	r := hydrate.NewRegistry()
	registerRole(r, nil)

	sch := r.Register(&hydrate.Schema{
		Name:   "StrictOuter",
		Fields: []hydrate.Field{{Name: "v", Type: hydrate.Union(hydrate.Model("Role"))}},
		New:    passthroughNew,
	})

	_, err := r.Hydrate(sch, nil, map[string]any{"v": 42.0})

	var pe *hydrate.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Error(t, errors.Unwrap(pe))
}

func TestHydrate_MapOfModel(t *testing.T) {
	r := hydrate.NewRegistry()
	registerRole(r, nil)
	sch := r.Register(&hydrate.Schema{
		Name:   "RoleIndex",
		Fields: []hydrate.Field{{Name: "by_id", Type: hydrate.Map(hydrate.String(), hydrate.Model("Role"))}},
		New:    passthroughNew,
	})

	out, err := r.Hydrate(sch, nil, map[string]any{"by_id": map[string]any{
		"1": map[string]any{"id": 1.0, "name": "admin"},
	}})
	require.NoError(t, err)

	byID := out.(map[string]any)["by_id"].(map[string]any)
	assert.Equal(t, "admin", byID["1"].(*role).Name)
}

func TestHydrate_Timestamps(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2021-03-04T11:22:33.000001+00:00", time.Date(2021, 3, 4, 11, 22, 33, 1000, time.UTC)},
		{"2021-03-04T11:22:33Z", time.Date(2021, 3, 4, 11, 22, 33, 0, time.UTC)},
		{"2021-03-04T11:22:33", time.Date(2021, 3, 4, 11, 22, 33, 0, time.UTC)},
		{"2021-03-04", time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := hydrate.ParseTimestamp(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
		})
	}
}

func TestHydrate_MalformedTimestampIsParseError(t *testing.T) {
	r := hydrate.NewRegistry()
	registerRole(r, nil)
	sch := registerMember(r)

	_, err := r.Hydrate(sch, nil, map[string]any{"joined_at": "yesterday-ish"})
	require.Error(t, err)

	var pe *hydrate.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "joined_at_time", pe.Key)

	var me *hydrate.MismatchError
	assert.False(t, errors.As(err, &me))
}

func TestHydrate_UnionOrdering(t *testing.T) {
	r := hydrate.NewRegistry()

	register := func(name, tag string, requires string) {
		r.Register(&hydrate.Schema{
			Name:   name,
			GoType: reflect.TypeOf(""),
			Fields: []hydrate.Field{{Name: requires}},
			New: func(args *hydrate.BoundArgs) (any, error) {
				if _, ok := args.Keyword[requires]; !ok {
					return nil, errors.New(requires + " is required")
				}

				return tag, nil
			},
		})
	}

	register("First", "built-first", "shared")
	register("Second", "built-second", "only_second")

	sch := r.Register(&hydrate.Schema{
		Name:   "Holder",
		Fields: []hydrate.Field{{Name: "v", Type: hydrate.Union(hydrate.Model("First"), hydrate.Model("Second"))}},
		New:    passthroughNew,
	})

	// both members accept this payload; declaration order decides
	out, err := r.Hydrate(sch, nil, map[string]any{"v": map[string]any{"shared": 1.0, "only_second": 2.0}})
	require.NoError(t, err)
	assert.Equal(t, "built-first", out.(map[string]any)["v"])

	// first member fails structurally, the chain falls through to the second
	out, err = r.Hydrate(sch, nil, map[string]any{"v": map[string]any{"only_second": 2.0}})
	require.NoError(t, err)
	assert.Equal(t, "built-second", out.(map[string]any)["v"])
}

func TestHydrate_UnionAllModelsExhausted(t *testing.T) {
	r := hydrate.NewRegistry()
	registerRole(r, nil)

	sch := r.Register(&hydrate.Schema{
		Name:   "Strict",
		Fields: []hydrate.Field{{Name: "v", Type: hydrate.Union(hydrate.Model("Role"))}},
		New:    passthroughNew,
	})

	_, err := r.Hydrate(sch, nil, map[string]any{"v": map[string]any{"id": "not-a-number"}})
	require.Error(t, err)

	var pe *hydrate.ParseError
	require.ErrorAs(t, err, &pe)
	// the last structural failure stays reachable on the chain
	assert.Error(t, errors.Unwrap(pe))
}

func TestHydrate_UnionEscapeHatch(t *testing.T) {
	r := hydrate.NewRegistry()
	registerRole(r, nil)

	sch := r.Register(&hydrate.Schema{
		Name:   "Loose",
		Fields: []hydrate.Field{{Name: "v", Type: hydrate.Union(hydrate.Model("Role"), hydrate.String())}},
		New:    passthroughNew,
	})

	// neither member takes a bool, but the non-model member suppresses failure
	out, err := r.Hydrate(sch, nil, map[string]any{"v": true})
	require.NoError(t, err)
	assert.Equal(t, true, out.(map[string]any)["v"])
}

func TestHydrate_OptionalNil(t *testing.T) {
	r := hydrate.NewRegistry()
	registerRole(r, nil)

	sch := r.Register(&hydrate.Schema{
		Name:   "MaybeRole",
		Check:  hydrate.CheckAll,
		Fields: []hydrate.Field{{Name: "v", Type: hydrate.Optional(hydrate.Model("Role"))}},
		New:    passthroughNew,
	})

	out, err := r.Hydrate(sch, nil, map[string]any{"v": nil})
	require.NoError(t, err)
	assert.Nil(t, out.(map[string]any)["v"])

	out, err = r.Hydrate(sch, nil, map[string]any{"v": map[string]any{"id": 5.0}})
	require.NoError(t, err)
	assert.Equal(t, 5, out.(map[string]any)["v"].(*role).ID)
}

func TestHydrate_CheckPolicies(t *testing.T) {
	newSchema := func(r *hydrate.Registry, check hydrate.CheckEnum) *hydrate.Schema {
		return r.Register(&hydrate.Schema{
			Name:   "Counted",
			Check:  check,
			Fields: []hydrate.Field{{Name: "n", Type: hydrate.Int()}},
			New:    passthroughNew,
		})
	}

	t.Run("all rejects non-conforming", func(t *testing.T) {
		r := hydrate.NewRegistry()
		sch := newSchema(r, hydrate.CheckAll)

		_, err := r.Hydrate(sch, nil, map[string]any{"n": "not-an-int"})

		var me *hydrate.MismatchError
		require.ErrorAs(t, err, &me)
		assert.Equal(t, "n", me.Key)
		assert.ErrorIs(t, err, hydrate.ErrParse)
	})

	t.Run("off passes value through", func(t *testing.T) {
		r := hydrate.NewRegistry()
		sch := newSchema(r, hydrate.CheckOff)

		out, err := r.Hydrate(sch, nil, map[string]any{"n": "not-an-int"})
		require.NoError(t, err)
		assert.Equal(t, "not-an-int", out.(map[string]any)["n"])
	})

	t.Run("integral float conforms to int", func(t *testing.T) {
		r := hydrate.NewRegistry()
		sch := newSchema(r, hydrate.CheckAll)

		out, err := r.Hydrate(sch, nil, map[string]any{"n": 12.0})
		require.NoError(t, err)
		assert.Equal(t, 12.0, out.(map[string]any)["n"])

		_, err = r.Hydrate(sch, nil, map[string]any{"n": 12.5})
		assert.Error(t, err)
	})

	t.Run("listed checks only named types", func(t *testing.T) {
		r := hydrate.NewRegistry()
		sch := r.Register(&hydrate.Schema{
			Name:  "Partial",
			Check: hydrate.CheckListed,
			CheckTypes: []hydrate.TypeExpr{
				hydrate.String(),
			},
			Fields: []hydrate.Field{
				{Name: "s", Type: hydrate.String()},
				{Name: "n", Type: hydrate.Int()},
			},
			New: passthroughNew,
		})

		// int is not listed, so the bogus value slips through
		out, err := r.Hydrate(sch, nil, map[string]any{"s": "ok", "n": "bogus"})
		require.NoError(t, err)
		assert.Equal(t, "bogus", out.(map[string]any)["n"])

		_, err = r.Hydrate(sch, nil, map[string]any{"s": 1.0})
		assert.Error(t, err)
	})

	t.Run("except exempts listed types", func(t *testing.T) {
		r := hydrate.NewRegistry()
		sch := newSchema(r, hydrate.CheckAll)

		out, err := r.Hydrate(sch, nil,
			map[string]any{"n": "not-an-int"},
			hydrate.WithCheckExcept(hydrate.Int()))
		require.NoError(t, err)
		assert.Equal(t, "not-an-int", out.(map[string]any)["n"])
	})
}

type point struct{ X, Y int }

func registerPoint(r *hydrate.Registry, check hydrate.CheckEnum) *hydrate.Schema {
	return r.Register(&hydrate.Schema{
		Name:   "Point",
		GoType: reflect.TypeOf((*point)(nil)),
		Check:  check,
		Fields: []hydrate.Field{
			{Name: "x", Type: hydrate.Int()},
			{Name: "y", Type: hydrate.Int()},
		},
		New: func(args *hydrate.BoundArgs) (any, error) {
			x, okX := hydrate.Arg[float64](args, "x")
			y, okY := hydrate.Arg[float64](args, "y")

			if !okX || !okY {
				return nil, errors.New("x and y must be numbers")
			}

			return &point{X: int(x), Y: int(y)}, nil
		},
	})
}

func TestHydrate_PointEndToEnd(t *testing.T) {
	payload := map[string]any{"x": "3", "y": 4.0}

	t.Run("strict fails at conformance", func(t *testing.T) {
		r := hydrate.NewRegistry()
		sch := registerPoint(r, hydrate.CheckAll)

		_, err := r.Hydrate(sch, nil, payload)

		var me *hydrate.MismatchError
		require.ErrorAs(t, err, &me)
		assert.Equal(t, "x", me.Key)
	})

	t.Run("off fails at construction", func(t *testing.T) {
		r := hydrate.NewRegistry()
		sch := registerPoint(r, hydrate.CheckOff)

		_, err := r.Hydrate(sch, nil, payload)
		require.Error(t, err)
		assert.ErrorIs(t, err, hydrate.ErrParse)
	})

	t.Run("well-formed constructs", func(t *testing.T) {
		r := hydrate.NewRegistry()
		sch := registerPoint(r, hydrate.CheckAll)

		out, err := r.Hydrate(sch, nil, map[string]any{"x": 3.0, "y": 4.0})
		require.NoError(t, err)
		assert.Equal(t, &point{X: 3, Y: 4}, out)
	})
}

func TestHydrate_ConverterBypassesChain(t *testing.T) {
	r := hydrate.NewRegistry()
	sch := r.Register(&hydrate.Schema{
		Name:   "Snow",
		Fields: []hydrate.Field{{Name: "id", Type: hydrate.Go[int64]()}},
		Check:  hydrate.CheckAll,
		Converters: map[string]hydrate.Converter{
			"id": func(raw any) (any, error) {
				f, ok := raw.(float64)
				if !ok {
					return nil, errors.New("expected a number")
				}

				return int64(f), nil
			},
		},
		New: passthroughNew,
	})

	out, err := r.Hydrate(sch, nil, map[string]any{"id": 42.0})
	require.NoError(t, err)
	assert.Equal(t, int64(42), out.(map[string]any)["id"])

	_, err = r.Hydrate(sch, nil, map[string]any{"id": "oops"})

	var pe *hydrate.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "id", pe.Key)
}

func TestHydrate_VariadicKeywordRetainsExtras(t *testing.T) {
	r := hydrate.NewRegistry()
	sch := r.Register(&hydrate.Schema{
		Name: "Grab",
		Fields: []hydrate.Field{
			{Name: "known", Type: hydrate.String()},
			{Name: "rest", Kind: hydrate.ParamVariadicKeyword},
		},
		New: passthroughNew,
	})

	out, err := r.Hydrate(sch, nil, map[string]any{"known": "yes", "mystery": 7.0})
	require.NoError(t, err)

	got := out.(map[string]any)
	assert.Equal(t, "yes", got["known"])
	assert.Equal(t, 7.0, got["mystery"])
}

func TestHydrate_NonMappingPayload(t *testing.T) {
	r := hydrate.NewRegistry()
	sch := r.Register(&hydrate.Schema{
		Name:   "Shape",
		Fields: []hydrate.Field{{Name: "v"}},
		New:    passthroughNew,
	})

	for _, payload := range []any{[]any{1.0, 2.0}, "just a string", 7.0, nil} {
		_, err := r.Hydrate(sch, nil, payload)

		var me *hydrate.MismatchError
		require.ErrorAs(t, err, &me)
		assert.Empty(t, me.Key)
		assert.Equal(t, "mapping", me.Expected)
		assert.ErrorIs(t, err, hydrate.ErrParse)
	}
}

func TestHydrate_ClientInjectionWinsOverPayload(t *testing.T) {
	r := hydrate.NewRegistry()
	sch := r.Register(&hydrate.Schema{
		Name: "Spoofable",
		Fields: []hydrate.Field{
			{Name: "client", Kind: hydrate.ParamPositionalOrKeyword, Type: hydrate.Deferred("Client")},
			{Name: "v"},
		},
		New: func(args *hydrate.BoundArgs) (any, error) {
			c, _ := hydrate.Pos[*fakeClient](args, 0)

			return c, nil
		},
	})

	cl := &fakeClient{name: "real"}

	out, err := r.Hydrate(sch, cl, map[string]any{"client": "spoofed-by-payload", "v": 1.0})
	require.NoError(t, err)
	assert.Same(t, cl, out)
}

func TestHydrate_UnknownKeysDroppedWithoutVariadic(t *testing.T) {
	r := hydrate.NewRegistry()
	sch := r.Register(&hydrate.Schema{
		Name:   "Narrow",
		Fields: []hydrate.Field{{Name: "known"}},
		New:    passthroughNew,
	})

	out, err := r.Hydrate(sch, nil, map[string]any{"known": 1.0, "mystery": 2.0})
	require.NoError(t, err)

	got := out.(map[string]any)
	assert.Contains(t, got, "known")
	assert.NotContains(t, got, "mystery")
}

func TestHydrate_NestedUnionDump(t *testing.T) {
	r := hydrate.NewRegistry()
	registerRole(r, nil)
	sch := registerMember(r)

	out, err := r.Hydrate(sch, nil, map[string]any{
		"nick":      "dumped",
		"joined_at": "2023-01-02T03:04:05Z",
		"roles":     []any{map[string]any{"id": 9.0, "name": "last"}},
	})
	require.NoError(t, err)

	spew.Dump(out)

	assert.Equal(t, "last", out.(*member).Roles[0].Name)
}
