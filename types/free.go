package types

import (
	"github.com/hashicorp/go-set/v3"
	"maps"
	"slices"
)

// FreeNames returns the names referenced by t that are not declared as
// generics by a Function or Interface inside t. A Builtin contributes no names.
func FreeNames(t Type) *set.Set[string] {
	free := set.New[string](4)
	collectFree(t, set.New[string](0), free)
	return free
}

func collectFree(t Type, bound, free *set.Set[string]) {
	switch t := t.(type) {
	case *Builtin:
	case *NamedReference:
		if !bound.Contains(t.Name) {
			free.Insert(t.Name)
		}
	case *GenericParam:
		if !bound.Contains(t.Name) {
			free.Insert(t.Name)
		}
	case *Interface:
		inner := withGenerics(bound, t.Generics)
		for _, m := range t.Members {
			collectFree(m, inner, free)
		}
	case *Function:
		inner := withGenerics(bound, t.Generics)
		for _, p := range t.Params {
			collectFree(p.Type, inner, free)
		}
		collectFree(t.Return, inner, free)
	case *GenericApplication:
		collectFree(t.Base, bound, free)
		for _, arg := range t.Args {
			collectFree(arg, bound, free)
		}
	case *Context:
		inner := bound.Copy()
		for name := range t.Bindings {
			inner.Insert(name)
		}
		collectFree(t.Inner, inner, free)
		for _, b := range t.Bindings {
			collectFree(b, bound, free)
		}
	}
}

func withGenerics(bound *set.Set[string], generics []*GenericParam) *set.Set[string] {
	if len(generics) == 0 {
		return bound
	}
	inner := bound.Copy()
	for _, g := range generics {
		inner.Insert(g.Name)
	}
	return inner
}

// UnboundKeys returns, sorted, the keys of c.Bindings that do not occur free
// in c.Inner. A well-formed Context has none.
func UnboundKeys(c *Context) []string {
	free := FreeNames(c.Inner)
	var unbound []string
	for _, name := range slices.Sorted(maps.Keys(c.Bindings)) {
		if !free.Contains(name) {
			unbound = append(unbound, name)
		}
	}
	return unbound
}

// Prune returns the subset of bindings whose names occur free in inner, or
// nil if there are none
func Prune(inner Type, bindings map[string]Type) map[string]Type {
	if len(bindings) == 0 {
		return nil
	}
	free := FreeNames(inner)
	var pruned map[string]Type
	for name, b := range bindings {
		if !free.Contains(name) {
			continue
		}
		if pruned == nil {
			pruned = make(map[string]Type, len(bindings))
		}
		pruned[name] = b
	}
	return pruned
}
