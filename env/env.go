// Package env implements the chained scopes the engine resolves names in.
//
// An Environment is never mutated once built: every With* method returns a
// new child pointing at its receiver, and many children may share a parent.
package env

import (
	"github.com/benbjohnson/immutable"
	"github.com/cottand/tcore/tyerr"
	"github.com/cottand/tcore/types"
	"maps"
	"slices"
)

type Environment struct {
	enclosing *Environment // can be nil
	vars      *immutable.Map[string, types.Type]
	types     *immutable.Map[string, types.Type]

	// substitution is set for scopes made from Context bindings.
	// The types bound there were resolved in the enclosing scope, and so
	// their own references must be resolved there too
	substitution bool
}

var emptyBindings = immutable.NewMap[string, types.Type](immutable.NewHasher(""))

func bindingsOf(m map[string]types.Type) *immutable.Map[string, types.Type] {
	if len(m) == 0 {
		return emptyBindings
	}
	b := immutable.NewMapBuilder[string, types.Type](immutable.NewHasher(""))
	for name, t := range m {
		b.Set(name, t)
	}
	return b.Map()
}

// New returns an Environment with the given bindings whose parent is
// enclosing, which may be nil. The maps are copied.
func New(enclosing *Environment, vars, typeDefs map[string]types.Type) *Environment {
	return &Environment{
		enclosing: enclosing,
		vars:      bindingsOf(vars),
		types:     bindingsOf(typeDefs),
	}
}

// Enclosing returns the parent scope, or nil at the root
func (e *Environment) Enclosing() *Environment { return e.enclosing }

// IsSubstitution reports whether e was made from Context bindings
func (e *Environment) IsSubstitution() bool { return e.substitution }

// WithVars returns a child scope binding vars
func (e *Environment) WithVars(vars map[string]types.Type) *Environment {
	return New(e, vars, nil)
}

// WithTypes returns a child scope binding types
func (e *Environment) WithTypes(typeDefs map[string]types.Type) *Environment {
	return New(e, nil, typeDefs)
}

// WithGenerics returns a child scope where each generic is bound to itself,
// so references to it inside its declaration do not escape to an outer
// binding of the same name
func (e *Environment) WithGenerics(generics []*types.GenericParam) *Environment {
	if len(generics) == 0 {
		return e
	}
	b := immutable.NewMapBuilder[string, types.Type](immutable.NewHasher(""))
	for _, g := range generics {
		b.Set(g.Name, g)
	}
	return &Environment{
		enclosing: e,
		vars:      emptyBindings,
		types:     b.Map(),
	}
}

// Substitution returns a child scope installing the bindings of a Context
func (e *Environment) Substitution(bindings map[string]types.Type) *Environment {
	child := New(e, nil, bindings)
	child.substitution = true
	return child
}

// LookupVar walks the chain outward for a value binding
func (e *Environment) LookupVar(name string) (types.Type, bool) {
	for scope := e; scope != nil; scope = scope.enclosing {
		if t, ok := scope.vars.Get(name); ok {
			return t, true
		}
	}
	return nil, false
}

// LookupType walks the chain outward for a type binding. It also returns the
// scope the bound type's own names resolve in: the scope that declares it,
// or for Context bindings, the scope the Context was unwrapped in.
func (e *Environment) LookupType(name string) (types.Type, *Environment, bool) {
	for scope := e; scope != nil; scope = scope.enclosing {
		t, ok := scope.types.Get(name)
		if !ok {
			continue
		}
		if scope.substitution && scope.enclosing != nil {
			return t, scope.enclosing, true
		}
		return t, scope, true
	}
	return nil, nil, false
}

// BindsGeneric reports whether the innermost binding of name is a generic
// parameter bound to itself by a declaration, rather than by a substitution
func (e *Environment) BindsGeneric(name string) bool {
	for scope := e; scope != nil; scope = scope.enclosing {
		t, ok := scope.types.Get(name)
		if !ok {
			continue
		}
		if scope.substitution {
			return false
		}
		param, isParam := t.(*types.GenericParam)
		return isParam && param.Name == name
	}
	return false
}

// ResolveVar returns the type of the value binding name, or
// tyerr.UndefinedName if no scope in the chain binds it
func ResolveVar(e *Environment, name string) (types.Type, error) {
	if t, ok := e.LookupVar(name); ok {
		return t, nil
	}
	return nil, tyerr.New(tyerr.UndefinedName{Name: name, Kind: tyerr.KindVar})
}

// ResolveType returns the type bound to name, or
// tyerr.UndefinedName if no scope in the chain binds it
func ResolveType(e *Environment, name string) (types.Type, error) {
	if t, _, ok := e.LookupType(name); ok {
		return t, nil
	}
	return nil, tyerr.New(tyerr.UndefinedName{Name: name, Kind: tyerr.KindType})
}

// Depth returns the number of scopes in the chain, e included
func (e *Environment) Depth() int {
	n := 0
	for scope := e; scope != nil; scope = scope.enclosing {
		n++
	}
	return n
}

// TypeNames returns the names bound as types in this scope only, sorted
func (e *Environment) TypeNames() []string { return sortedKeys(e.types) }

// VarNames returns the names bound as vars in this scope only, sorted
func (e *Environment) VarNames() []string { return sortedKeys(e.vars) }

func sortedKeys(m *immutable.Map[string, types.Type]) []string {
	keys := make(map[string]struct{}, m.Len())
	itr := m.Iterator()
	for !itr.Done() {
		k, _, _ := itr.Next()
		keys[k] = struct{}{}
	}
	return slices.Sorted(maps.Keys(keys))
}
