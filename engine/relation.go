package engine

import (
	"github.com/cottand/tcore/env"
	"github.com/cottand/tcore/tyerr"
	"github.com/cottand/tcore/types"
	"reflect"
)

// side is one operand of a relation together with the scope it is read in.
// Each operand keeps its own scope, so unwrapping a Context on one side never
// changes how names on the other side resolve.
type side struct {
	env *env.Environment
	t   types.Type
}

// IsSubtype reports whether sub can be used where sup is expected.
//
// Builtins are related nominally through their parent chain, generic
// applications are invariant in their arguments, and everything else must
// normalize to the very same type.
func (en *Engine) IsSubtype(e *env.Environment, sub, sup types.Type) (bool, error) {
	return en.newQuery("relation").subtype(side{e, sub}, side{e, sup}, 0)
}

// IsSameType reports whether left and right denote the same type
func (en *Engine) IsSameType(e *env.Environment, left, right types.Type) (bool, error) {
	return en.newQuery("relation").same(side{e, left}, side{e, right}, 0)
}

// unwrap discharges one Context, NamedReference or substituted GenericParam
// layer of s, and returns false if there was none
func (q *query) unwrap(s side) (side, bool, error) {
	switch t := s.t.(type) {
	case *types.Context:
		scope, err := q.unwrapContext(s.env, t)
		if err != nil {
			return s, false, err
		}
		return side{scope, t.Inner}, true, nil
	case *types.NamedReference, *types.GenericParam:
		resolved, scope, err := resolveScoped(s.env, t)
		if err != nil {
			return s, false, err
		}
		if resolved == t {
			return s, false, nil
		}
		return side{scope, resolved}, true, nil
	}
	return s, false, nil
}

// checkArity fails if app does not apply its base to as many arguments as
// the base declares generics. Bases without generics are not checked, as
// a builtin applied to arguments degenerates to itself.
func (q *query) checkArity(e *env.Environment, app *types.GenericApplication, depth int) error {
	base, _, err := q.resolveDeclaration(e, app.Base, depth)
	if err != nil {
		return err
	}
	if generics, ok := types.GenericsOf(base); ok && len(generics) != len(app.Args) {
		return tyerr.New(tyerr.ArityMismatch{Base: base, Expected: len(generics), Got: len(app.Args)})
	}
	return nil
}

func (q *query) subtype(sub, sup side, depth int) (res bool, err error) {
	defer func() {
		q.Debug("subtype", "sub", sub.t, "sup", sup.t, "result", res, "err", err)
	}()
	if err := q.enter(depth, sub.t); err != nil {
		return false, err
	}
	if unwrapped, ok, err := q.unwrap(sub); err != nil || ok {
		if err != nil {
			return false, err
		}
		return q.subtype(unwrapped, sup, depth+1)
	}
	if unwrapped, ok, err := q.unwrap(sup); err != nil || ok {
		if err != nil {
			return false, err
		}
		return q.subtype(sub, unwrapped, depth+1)
	}

	// builtins only widen upwards through their parents
	{
		subBuiltin, okSub := sub.t.(*types.Builtin)
		_, okSup := sup.t.(*types.Builtin)
		if okSub && okSup {
			if sub.t == sup.t {
				return true, nil
			}
			if subBuiltin.Parent != nil {
				return q.subtype(side{sub.env, subBuiltin.Parent}, sup, depth+1)
			}
			return q.identical(sub, sup, depth+1)
		}
	}
	// a generic no substitution replaced is a subtype of whatever its bound is
	{
		param, ok := sub.t.(*types.GenericParam)
		if ok && param.Bound != nil && sub.t != sup.t {
			return q.subtype(side{sub.env, param.Bound}, sup, depth+1)
		}
	}
	// generic applications are invariant in their arguments
	{
		subApp, okSub := sub.t.(*types.GenericApplication)
		supApp, okSup := sup.t.(*types.GenericApplication)
		if okSub && okSup {
			if err := q.checkArity(sub.env, subApp, depth+1); err != nil {
				return false, err
			}
			if err := q.checkArity(sup.env, supApp, depth+1); err != nil {
				return false, err
			}
			if same, err := q.sameArgs(sub.env, subApp, sup.env, supApp, depth+1); err != nil || !same {
				return false, err
			}
			return q.subtype(side{sub.env, subApp.Base}, side{sup.env, supApp.Base}, depth+1)
		}
	}
	return q.identical(sub, sup, depth+1)
}

func (q *query) same(left, right side, depth int) (res bool, err error) {
	defer func() {
		q.Debug("same type", "left", left.t, "right", right.t, "result", res, "err", err)
	}()
	if err := q.enter(depth, left.t); err != nil {
		return false, err
	}
	if unwrapped, ok, err := q.unwrap(left); err != nil || ok {
		if err != nil {
			return false, err
		}
		return q.same(unwrapped, right, depth+1)
	}
	if unwrapped, ok, err := q.unwrap(right); err != nil || ok {
		if err != nil {
			return false, err
		}
		return q.same(left, unwrapped, depth+1)
	}

	leftApp, okLeft := left.t.(*types.GenericApplication)
	rightApp, okRight := right.t.(*types.GenericApplication)
	if okLeft && okRight {
		if err := q.checkArity(left.env, leftApp, depth+1); err != nil {
			return false, err
		}
		if err := q.checkArity(right.env, rightApp, depth+1); err != nil {
			return false, err
		}
		if same, err := q.sameArgs(left.env, leftApp, right.env, rightApp, depth+1); err != nil || !same {
			return false, err
		}
		return q.same(side{left.env, leftApp.Base}, side{right.env, rightApp.Base}, depth+1)
	}
	return q.identical(left, right, depth+1)
}

func (q *query) sameArgs(leftEnv *env.Environment, left *types.GenericApplication, rightEnv *env.Environment, right *types.GenericApplication, depth int) (bool, error) {
	if len(left.Args) != len(right.Args) {
		return false, tyerr.New(tyerr.ArityMismatch{Base: right.Base, Expected: len(right.Args), Got: len(left.Args)})
	}
	for i := range left.Args {
		same, err := q.same(side{leftEnv, left.Args[i]}, side{rightEnv, right.Args[i]}, depth)
		if err != nil || !same {
			return false, err
		}
	}
	return true, nil
}

// identical normalizes both sides within this query and compares them by
// identity. Types equal by value but not by identity mean canonicalisation
// failed somewhere, or that two declarations with the same shape are being
// compared; either way they are not the same type.
func (q *query) identical(left, right side, depth int) (bool, error) {
	if left.t == right.t && left.env == right.env {
		return true, nil
	}
	l, err := q.normaliser.normalise(left.env, left.t, depth, true)
	if err != nil {
		return false, err
	}
	r, err := q.normaliser.normalise(right.env, right.t, depth, true)
	if err != nil {
		return false, err
	}
	if l == r {
		return true, nil
	}
	if reflect.DeepEqual(l, r) {
		q.Warn("structurally equal types are not identical", "left", l, "right", r)
		if q.config.Strict {
			return false, tyerr.New(tyerr.StructuralInvariantViolation{Left: l, Right: r})
		}
	}
	return false, nil
}
