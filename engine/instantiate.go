package engine

import (
	"github.com/cottand/tcore/env"
	"github.com/cottand/tcore/tyerr"
	"github.com/cottand/tcore/types"
)

// extraction is what instantiate pulls out of a resolved Function or Interface
type extraction struct {
	describe string
	extract  func(owner types.Type) (types.Type, error)
}

var callExtraction = extraction{
	describe: "call",
	extract: func(owner types.Type) (types.Type, error) {
		fn, ok := owner.(*types.Function)
		if !ok {
			return nil, tyerr.New(tyerr.NotCallable{Callee: owner})
		}
		return fn.Return, nil
	},
}

func attributeExtraction(name string) extraction {
	return extraction{
		describe: "attribute " + name,
		extract: func(owner types.Type) (types.Type, error) {
			if iface, ok := owner.(*types.Interface); ok {
				if member, ok := iface.Member(name); ok {
					return member, nil
				}
			}
			return nil, tyerr.New(tyerr.UnknownMember{Owner: owner, Name: name})
		},
	}
}

// EvaluateCall returns the type produced by invoking a value of type callee
func (en *Engine) EvaluateCall(e *env.Environment, callee types.Type) (types.Type, error) {
	return en.newQuery("instantiate").instantiate(e, callee, callExtraction, 0)
}

// EvaluateAttribute returns the type of member on a value of type owner
func (en *Engine) EvaluateAttribute(e *env.Environment, owner types.Type, member string) (types.Type, error) {
	return en.newQuery("instantiate").instantiate(e, owner, attributeExtraction(member), 0)
}

// instantiate binds generics positionally and defers their substitution:
// the result of instantiating Iterator<Number>.iter is iter's declared type
// wrapped in a Context binding T, rather than Iterator's body with T
// replaced, which would not terminate as iter returns Iterator<T> again
func (q *query) instantiate(e *env.Environment, t types.Type, ex extraction, depth int) (res types.Type, err error) {
	defer func() {
		q.Debug("instantiated", "what", ex.describe, "type", t, "result", res, "err", err)
	}()
	if err := q.enter(depth, t); err != nil {
		return nil, err
	}

	switch t := t.(type) {
	case *types.Context:
		scope, err := q.unwrapContext(e, t)
		if err != nil {
			return nil, err
		}
		result, err := q.instantiate(scope, t.Inner, ex, depth+1)
		if err != nil {
			return nil, err
		}
		return wrapContext(result, t.Bindings), nil

	case *types.GenericApplication:
		base, _, err := q.resolveDeclaration(e, t.Base, depth+1)
		if err != nil {
			return nil, err
		}
		// a concrete type accessed as if generic degenerates to itself
		if _, isBuiltin := base.(*types.Builtin); isBuiltin {
			return base, nil
		}
		generics, ok := types.GenericsOf(base)
		if !ok {
			return ex.extract(base)
		}
		if len(generics) != len(t.Args) {
			return nil, tyerr.New(tyerr.ArityMismatch{Base: base, Expected: len(generics), Got: len(t.Args)})
		}
		bindings := make(map[string]types.Type, len(generics))
		for i, generic := range generics {
			arg, err := ResolveOneLevel(e, t.Args[i])
			if err != nil {
				return nil, err
			}
			bindings[generic.Name] = arg
		}
		extracted, err := ex.extract(base)
		if err != nil {
			return nil, err
		}
		return wrapContext(extracted, bindings), nil

	case *types.NamedReference, *types.GenericParam:
		resolved, scope, err := resolveScoped(e, t)
		if err != nil {
			return nil, err
		}
		if resolved == types.Type(t) {
			return ex.extract(t)
		}
		return q.instantiate(scope, resolved, ex, depth+1)

	default:
		return ex.extract(t)
	}
}

// wrapContext scopes bindings to t, keeping only the bindings t refers to.
// Builtins carry no generic names, so they are never wrapped.
func wrapContext(t types.Type, bindings map[string]types.Type) types.Type {
	if _, isBuiltin := t.(*types.Builtin); isBuiltin {
		return t
	}
	pruned := types.Prune(t, bindings)
	if len(pruned) == 0 {
		return t
	}
	return &types.Context{Inner: t, Bindings: pruned}
}
