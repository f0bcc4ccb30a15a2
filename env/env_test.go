package env_test

import (
	"errors"
	"github.com/cottand/tcore/env"
	"github.com/cottand/tcore/tyerr"
	"github.com/cottand/tcore/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestResolveWalksOutward(t *testing.T) {
	outer := env.New(nil,
		map[string]types.Type{"x": types.Ref("Outer")},
		map[string]types.Type{"A": types.NewBuiltin("A", nil)},
	)
	middle := outer.WithVars(map[string]types.Type{"y": types.Ref("Middle")})
	inner := middle.WithTypes(map[string]types.Type{"B": types.NewBuiltin("B", nil)})

	x, err := env.ResolveVar(inner, "x")
	require.NoError(t, err)
	assert.Equal(t, "Outer", x.String())

	y, err := env.ResolveVar(inner, "y")
	require.NoError(t, err)
	assert.Equal(t, "Middle", y.String())

	a, err := env.ResolveType(inner, "A")
	require.NoError(t, err)
	assert.Equal(t, "A", a.String())

	assert.Equal(t, 3, inner.Depth())
	assert.Same(t, middle, inner.Enclosing())
}

func TestResolveUndefined(t *testing.T) {
	scope := env.Universe().WithVars(nil).WithTypes(nil)

	_, err := env.ResolveVar(scope, "missing")
	var undefined tyerr.UndefinedName
	require.True(t, errors.As(err, &undefined))
	assert.Equal(t, "missing", undefined.Name)
	assert.Equal(t, tyerr.KindVar, undefined.Kind)

	_, err = env.ResolveType(scope, "Missing")
	require.True(t, errors.As(err, &undefined))
	assert.Equal(t, tyerr.KindType, undefined.Kind)
	assert.Equal(t, tyerr.UndefinedCode, tyerr.CodeOf(err))
	assert.Equal(t, "(E001) type 'Missing' is not defined", tyerr.Format(err))
}

func TestVarsAndTypesAreSeparate(t *testing.T) {
	scope := env.New(nil, map[string]types.Type{"a": types.Ref("Number")}, nil)
	_, err := env.ResolveType(scope, "a")
	assert.Error(t, err)
}

func TestInnerScopeShadows(t *testing.T) {
	outer := env.New(nil, nil, map[string]types.Type{"T": types.Ref("Outer")})
	inner := outer.WithTypes(map[string]types.Type{"T": types.Ref("Inner")})

	resolved, err := env.ResolveType(inner, "T")
	require.NoError(t, err)
	assert.Equal(t, "Inner", resolved.String())

	resolved, err = env.ResolveType(outer, "T")
	require.NoError(t, err)
	assert.Equal(t, "Outer", resolved.String())
}

func TestSubstitutionResolvesInEnclosing(t *testing.T) {
	root := env.Universe()
	sub := root.Substitution(map[string]types.Type{"T": types.Ref("T")})
	assert.True(t, sub.IsSubstitution())

	resolved, scope, ok := sub.LookupType("T")
	require.True(t, ok)
	assert.Equal(t, "T", resolved.String())
	assert.Same(t, root, scope)

	_, scope, ok = sub.LookupType("Number")
	require.True(t, ok)
	assert.Same(t, root, scope)
}

func TestWithGenericsBindsSelf(t *testing.T) {
	k := &types.GenericParam{Name: "K"}
	outer := env.New(nil, nil, map[string]types.Type{"K": types.Ref("Number")})

	scope := outer.WithGenerics([]*types.GenericParam{k})
	resolved, err := env.ResolveType(scope, "K")
	require.NoError(t, err)
	assert.Same(t, k, resolved)

	assert.Same(t, outer, outer.WithGenerics(nil))
}

func TestBindsGeneric(t *testing.T) {
	k := &types.GenericParam{Name: "K"}
	declared := env.Universe().WithGenerics([]*types.GenericParam{k})

	tests := []struct {
		name     string
		scope    *env.Environment
		expected bool
	}{
		{"declared", declared, true},
		{"declared further out", declared.WithVars(nil), true},
		{"substituted", declared.Substitution(map[string]types.Type{"K": types.Ref(env.IntTypeName)}), false},
		{"substituted by itself", declared.Substitution(map[string]types.Type{"K": k}), false},
		{"plain type", env.New(nil, nil, map[string]types.Type{"K": types.Ref(env.IntTypeName)}), false},
		{"other parameter", env.New(nil, nil, map[string]types.Type{"K": &types.GenericParam{Name: "J"}}), false},
		{"unbound", env.Universe(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.scope.BindsGeneric("K"))
		})
	}
}

func TestUniverse(t *testing.T) {
	u := env.Universe()
	assert.Same(t, u, env.Universe())
	assert.Equal(t, []string{"Bool", "Float", "Int", "Iterator", "Number"}, u.TypeNames())
	assert.Equal(t, []string{"filter"}, u.VarNames())

	it, err := env.ResolveType(u, env.IteratorTypeName)
	require.NoError(t, err)
	iface, ok := it.(*types.Interface)
	require.True(t, ok)
	assert.Len(t, iface.Generics, 1)
	for _, member := range []string{"next", "nextQ", "iter"} {
		_, ok := iface.Member(member)
		assert.True(t, ok, "Iterator should have %s", member)
	}

	filter, err := env.ResolveVar(u, env.FilterVarName)
	require.NoError(t, err)
	assert.Equal(t, "<K>(iter: Iterator<K>, f: (value: K) -> Bool) -> Iterator<K>", filter.String())

	integer, err := env.ResolveType(u, env.IntTypeName)
	require.NoError(t, err)
	assert.Equal(t, "Number", integer.(*types.Builtin).Parent.String())
}

func TestCheckInheritance(t *testing.T) {
	tests := []struct {
		name    string
		types   map[string]types.Type
		wantErr bool
	}{
		{"chain", map[string]types.Type{
			"Small": types.NewBuiltin("Small", types.Ref("Int")),
		}, false},
		{"self", map[string]types.Type{
			"Loop": types.NewBuiltin("Loop", types.Ref("Loop")),
		}, true},
		{"mutual", map[string]types.Type{
			"A": types.NewBuiltin("A", types.Ref("B")),
			"B": types.NewBuiltin("B", types.Ref("A")),
		}, true},
		{"alias to itself", map[string]types.Type{
			"A":     types.NewBuiltin("A", types.Ref("Alias")),
			"Alias": types.Ref("Alias"),
		}, true},
		{"non-builtin parent", map[string]types.Type{
			"A": types.NewBuiltin("A", types.Ref("Iterator")),
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.CheckInheritance(env.Universe().WithTypes(tt.types))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var cycle tyerr.CyclicInheritance
			require.True(t, errors.As(err, &cycle), "expected a cycle, got %v", err)
			assert.Equal(t, tyerr.CyclicInheritanceCode, tyerr.CodeOf(err))
		})
	}
}
