// Package types holds the closed set of type variants the engine operates on.
//
// Every variant is a pointer, and type identity is pointer identity: two
// *Builtin values with the same name are still different types.
package types

import (
	"fmt"
)

// Type is implemented by exactly the variants in this file
type Type interface {
	fmt.Stringer
	isType()
}

var (
	_ Type = (*Builtin)(nil)
	_ Type = (*NamedReference)(nil)
	_ Type = (*GenericParam)(nil)
	_ Type = (*Interface)(nil)
	_ Type = (*Function)(nil)
	_ Type = (*GenericApplication)(nil)
	_ Type = (*Context)(nil)
)

// Builtin is a nominal type with at most one parent
type Builtin struct {
	Name string
	// Parent may be nil. It is usually a *NamedReference to the parent's name.
	Parent Type
}

// NamedReference is an unresolved reference to a type visible in some environment
type NamedReference struct {
	Name string
}

// GenericParam declares a generic parameter of an Interface or Function
type GenericParam struct {
	Name string
	// Bound may be nil
	Bound Type
}

// Interface matches anything exposing members of the same names and compatible types
type Interface struct {
	// Name is only used for display, and may be empty
	Name     string
	Generics []*GenericParam
	Members  map[string]Type
}

// Param is a named, positional parameter of a Function
type Param struct {
	Name string
	Type Type
}

// Function is a possibly generic callable; calling it yields Return
type Function struct {
	// Name is only used for display, and may be empty
	Name     string
	Generics []*GenericParam
	// Params are matched positionally, so their order matters
	Params []Param
	Return Type
}

// GenericApplication applies Base to Args, positionally matched against Base's generics
type GenericApplication struct {
	Base Type
	Args []Type
}

// Context is a deferred substitution: Inner reads as if every
// GenericParam or NamedReference named by a key of Bindings were replaced
// by the bound type
type Context struct {
	Inner    Type
	Bindings map[string]Type
}

func (*Builtin) isType()            {}
func (*NamedReference) isType()     {}
func (*GenericParam) isType()       {}
func (*Interface) isType()          {}
func (*Function) isType()           {}
func (*GenericApplication) isType() {}
func (*Context) isType()            {}

func Ref(name string) *NamedReference { return &NamedReference{Name: name} }

func Apply(base Type, args ...Type) *GenericApplication {
	return &GenericApplication{Base: base, Args: args}
}

func NewBuiltin(name string, parent Type) *Builtin {
	return &Builtin{Name: name, Parent: parent}
}

// Member returns the member called name, if present
func (t *Interface) Member(name string) (Type, bool) {
	m, ok := t.Members[name]
	return m, ok
}

// Param returns the parameter called name, if present
func (t *Function) Param(name string) (Type, bool) {
	for _, p := range t.Params {
		if p.Name == name {
			return p.Type, true
		}
	}
	return nil, false
}

// GenericsOf returns the declared generics of an Interface or Function, and
// false for every other variant
func GenericsOf(t Type) ([]*GenericParam, bool) {
	switch t := t.(type) {
	case *Interface:
		return t.Generics, true
	case *Function:
		return t.Generics, true
	default:
		return nil, false
	}
}
