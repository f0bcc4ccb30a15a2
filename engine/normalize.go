package engine

import (
	"fmt"
	"github.com/cottand/tcore/env"
	"github.com/cottand/tcore/tyerr"
	"github.com/cottand/tcore/types"
	"maps"
	"slices"
	"strings"
)

// Normalize discharges every pending substitution and name reference in t.
// Declarations reached through a name are normalized when they are the
// subject of the call, and kept by identity when nested inside another type,
// so self-referential interfaces stay finite.
//
// Normalize(e, Normalize(e, t)) equals Normalize(e, t).
func (en *Engine) Normalize(e *env.Environment, t types.Type) (types.Type, error) {
	return en.newQuery("normalize").normaliser.normalise(e, t, 0, true)
}

type normaliser struct {
	*query
	// interned maps the identity of a rebuilt node's origin and children to
	// the node, so within a query equal results are the same pointer
	interned map[string]types.Type
}

// normalise is the recursive worker. subject is true while t is reached from
// the root of the call only through names and Contexts, not through structure.
func (n *normaliser) normalise(e *env.Environment, t types.Type, depth int, subject bool) (res types.Type, err error) {
	defer func() {
		n.Debug("normalised", "type", t, "result", res, "err", err)
	}()
	if err := n.enter(depth, t); err != nil {
		return nil, err
	}

	switch t := t.(type) {
	case *types.Builtin:
		return t, nil

	case *types.NamedReference, *types.GenericParam:
		resolved, scope, err := resolveScoped(e, t)
		if err != nil {
			return nil, err
		}
		if resolved == t {
			return t, nil
		}
		return n.normalise(scope, resolved, depth+1, subject)

	case *types.Context:
		scope, err := n.unwrapContext(e, t)
		if err != nil {
			return nil, err
		}
		return n.normalise(scope, t.Inner, depth+1, subject)

	case *types.GenericApplication:
		base, _, err := n.resolveDeclaration(e, t.Base, depth+1)
		if err != nil {
			return nil, err
		}
		if generics, ok := types.GenericsOf(base); ok && len(generics) != len(t.Args) {
			return nil, tyerr.New(tyerr.ArityMismatch{Base: base, Expected: len(generics), Got: len(t.Args)})
		}
		changed := base != t.Base
		args := make([]types.Type, len(t.Args))
		for i, arg := range t.Args {
			if args[i], err = n.normalise(e, arg, depth+1, false); err != nil {
				return nil, err
			}
			changed = changed || args[i] != arg
		}
		if !changed {
			return t, nil
		}
		return n.intern(appKey(base, args), func() types.Type {
			return &types.GenericApplication{Base: base, Args: args}
		}), nil

	case *types.Interface:
		if t.Name != "" && !subject {
			return t, nil
		}
		inner := e.WithGenerics(t.Generics)
		changed := false
		members := make(map[string]types.Type, len(t.Members))
		for name, member := range t.Members {
			if members[name], err = n.normalise(inner, member, depth+1, false); err != nil {
				return nil, err
			}
			changed = changed || members[name] != member
		}
		if !changed {
			return t, nil
		}
		return n.intern(interfaceKey(t, members), func() types.Type {
			return &types.Interface{Name: t.Name, Generics: t.Generics, Members: members}
		}), nil

	case *types.Function:
		if t.Name != "" && !subject {
			return t, nil
		}
		inner := e.WithGenerics(t.Generics)
		changed := false
		params := make([]types.Param, len(t.Params))
		for i, p := range t.Params {
			normalised, err := n.normalise(inner, p.Type, depth+1, false)
			if err != nil {
				return nil, err
			}
			params[i] = types.Param{Name: p.Name, Type: normalised}
			changed = changed || normalised != p.Type
		}
		ret, err := n.normalise(inner, t.Return, depth+1, false)
		if err != nil {
			return nil, err
		}
		changed = changed || ret != t.Return
		if !changed {
			return t, nil
		}
		return n.intern(functionKey(t, params, ret), func() types.Type {
			return &types.Function{Name: t.Name, Generics: t.Generics, Params: params, Return: ret}
		}), nil

	default:
		panic(fmt.Sprintf("normalise: unexpected type variant %T", t))
	}
}

func (n *normaliser) intern(key string, build func() types.Type) types.Type {
	if existing, ok := n.interned[key]; ok {
		return existing
	}
	built := build()
	n.interned[key] = built
	return built
}

func appKey(base types.Type, args []types.Type) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "app %p", base)
	for _, arg := range args {
		fmt.Fprintf(sb, " %p", arg)
	}
	return sb.String()
}

func interfaceKey(origin *types.Interface, members map[string]types.Type) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "interface %p", origin)
	for _, name := range slices.Sorted(maps.Keys(members)) {
		fmt.Fprintf(sb, " %s:%p", name, members[name])
	}
	return sb.String()
}

func functionKey(origin *types.Function, params []types.Param, ret types.Type) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "function %p", origin)
	for _, p := range params {
		fmt.Fprintf(sb, " %s:%p", p.Name, p.Type)
	}
	fmt.Fprintf(sb, " -> %p", ret)
	return sb.String()
}
