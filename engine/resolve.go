package engine

import (
	"github.com/cottand/tcore/env"
	"github.com/cottand/tcore/tyerr"
	"github.com/cottand/tcore/types"
)

// ResolveVar looks name up as a value binding, walking e outward
func (en *Engine) ResolveVar(e *env.Environment, name string) (types.Type, error) {
	t, err := env.ResolveVar(e, name)
	if err != nil {
		en.logger.Debug("unresolved variable", "section", "resolve", "name", name, "depth", e.Depth())
	}
	return t, err
}

// ResolveType looks name up as a type binding, walking e outward
func (en *Engine) ResolveType(e *env.Environment, name string) (types.Type, error) {
	t, err := env.ResolveType(e, name)
	if err != nil {
		en.logger.Debug("unresolved type", "section", "resolve", "name", name, "depth", e.Depth())
	}
	return t, err
}

// ResolveOneLevel dereferences a GenericParam or NamedReference exactly once.
// Every other variant is returned unchanged.
func ResolveOneLevel(e *env.Environment, t types.Type) (types.Type, error) {
	resolved, _, err := resolveScoped(e, t)
	return resolved, err
}

// resolveScoped is ResolveOneLevel, but also returns the scope the result's
// own names must be resolved in
func resolveScoped(e *env.Environment, t types.Type) (types.Type, *env.Environment, error) {
	var name string
	switch t := t.(type) {
	case *types.GenericParam:
		// a parameter node denotes itself under any declaration of its name,
		// and only a substitution replaces it, so an inner generic of the
		// same name never captures it
		if e.BindsGeneric(t.Name) {
			return t, e, nil
		}
		name = t.Name
	case *types.NamedReference:
		name = t.Name
	default:
		return t, e, nil
	}
	resolved, scope, ok := e.LookupType(name)
	if !ok {
		return nil, nil, tyerr.New(tyerr.UndefinedName{Name: name, Kind: tyerr.KindType})
	}
	return resolved, scope, nil
}

// resolveDeclaration follows names (and Contexts) until it reaches the
// declaration they point to. A generic parameter bound to itself is
// returned as-is.
func (q *query) resolveDeclaration(e *env.Environment, t types.Type, depth int) (types.Type, *env.Environment, error) {
	for {
		if err := q.enter(depth, t); err != nil {
			return nil, nil, err
		}
		depth++
		switch current := t.(type) {
		case *types.Context:
			scope, err := q.unwrapContext(e, current)
			if err != nil {
				return nil, nil, err
			}
			e, t = scope, current.Inner
		case *types.NamedReference, *types.GenericParam:
			resolved, scope, err := resolveScoped(e, current)
			if err != nil {
				return nil, nil, err
			}
			if resolved == t {
				return resolved, scope, nil
			}
			e, t = scope, resolved
		default:
			return t, e, nil
		}
	}
}
