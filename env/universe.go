package env

import (
	"github.com/cottand/tcore/tyerr"
	"github.com/cottand/tcore/types"
	"github.com/hashicorp/go-set/v3"
	"sync"
)

const (
	NumberTypeName   = "Number"
	BoolTypeName     = "Bool"
	FloatTypeName    = "Float"
	IntTypeName      = "Int"
	IteratorTypeName = "Iterator"
	FilterVarName    = "filter"
)

// universeTypes are the built-in type bindings
func universeTypes() map[string]types.Type {
	t := &types.GenericParam{Name: "T"}
	iterator := &types.Interface{
		Name:     IteratorTypeName,
		Generics: []*types.GenericParam{t},
		Members: map[string]types.Type{
			"next":  &types.Function{Return: types.Ref("T")},
			"nextQ": &types.Function{Return: types.Ref(BoolTypeName)},
			"iter":  &types.Function{Return: types.Apply(types.Ref(IteratorTypeName), types.Ref("T"))},
		},
	}
	return map[string]types.Type{
		NumberTypeName:   types.NewBuiltin(NumberTypeName, nil),
		BoolTypeName:     types.NewBuiltin(BoolTypeName, nil),
		FloatTypeName:    types.NewBuiltin(FloatTypeName, types.Ref(NumberTypeName)),
		IntTypeName:      types.NewBuiltin(IntTypeName, types.Ref(NumberTypeName)),
		IteratorTypeName: iterator,
	}
}

// universeVars are the built-in value bindings
func universeVars() map[string]types.Type {
	k := &types.GenericParam{Name: "K"}
	return map[string]types.Type{
		FilterVarName: &types.Function{
			Name:     FilterVarName,
			Generics: []*types.GenericParam{k},
			Params: []types.Param{
				{Name: "iter", Type: types.Apply(types.Ref(IteratorTypeName), types.Ref("K"))},
				{Name: "f", Type: &types.Function{
					Params: []types.Param{{Name: "value", Type: types.Ref("K")}},
					Return: types.Ref(BoolTypeName),
				}},
			},
			Return: types.Apply(types.Ref(IteratorTypeName), types.Ref("K")),
		},
	}
}

// Universe returns the process-wide root environment. It is built on first
// use and never modified, so it is safe to share across goroutines.
var Universe = sync.OnceValue(func() *Environment {
	root := New(nil, universeVars(), universeTypes())
	if err := CheckInheritance(root); err != nil {
		panic("builtin universe is malformed: " + err.Error())
	}
	return root
})

// CheckInheritance verifies that no Builtin declared in e (this scope only)
// reaches itself by following parents through the chain of e
func CheckInheritance(e *Environment) error {
	for _, name := range e.TypeNames() {
		t, _ := e.types.Get(name)
		b, ok := t.(*types.Builtin)
		if !ok {
			continue
		}
		if err := checkChain(e, b); err != nil {
			return err
		}
	}
	return nil
}

func checkChain(e *Environment, start *types.Builtin) error {
	seen := set.New[*types.Builtin](4)
	chain := []string{start.Name}
	current := start
	for current != nil {
		if !seen.Insert(current) {
			return tyerr.New(tyerr.CyclicInheritance{Chain: chain})
		}
		parent := current.Parent
		if parent == nil {
			return nil
		}
		// walk names until we reach the parent's declaration
		names := set.New[string](1)
		for {
			ref, isRef := parent.(*types.NamedReference)
			if !isRef {
				break
			}
			if !names.Insert(ref.Name) {
				return tyerr.New(tyerr.CyclicInheritance{Chain: append(chain, ref.Name)})
			}
			resolved, err := ResolveType(e, ref.Name)
			if err != nil {
				return err
			}
			parent = resolved
		}
		next, ok := parent.(*types.Builtin)
		if !ok {
			// a builtin with a non-builtin parent ends the chain
			return nil
		}
		chain = append(chain, next.Name)
		current = next
	}
	return nil
}
