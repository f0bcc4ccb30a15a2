package types

import (
	"maps"
	"slices"
	"strings"
)

func (t *Builtin) String() string        { return t.Name }
func (t *NamedReference) String() string { return t.Name }
func (t *GenericParam) String() string   { return t.Name }

func (t *Interface) String() string {
	sb := &strings.Builder{}
	sb.WriteString("interface")
	writeGenerics(sb, t.Generics)
	if len(t.Members) == 0 {
		sb.WriteString(" {}")
		return sb.String()
	}
	sb.WriteString(" { ")
	for i, name := range slices.Sorted(maps.Keys(t.Members)) {
		if i != 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(ShortString(t.Members[name]))
	}
	sb.WriteString(" }")
	return sb.String()
}

func (t *Function) String() string {
	sb := &strings.Builder{}
	writeGenerics(sb, t.Generics)
	sb.WriteString("(")
	for i, p := range t.Params {
		if i != 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name)
		sb.WriteString(": ")
		sb.WriteString(ShortString(p.Type))
	}
	sb.WriteString(") -> ")
	sb.WriteString(ShortString(t.Return))
	return sb.String()
}

func (t *GenericApplication) String() string {
	sb := &strings.Builder{}
	sb.WriteString(ShortString(t.Base))
	sb.WriteString("<")
	for i, arg := range t.Args {
		if i != 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(ShortString(arg))
	}
	sb.WriteString(">")
	return sb.String()
}

// we print bindings sorted so output is deterministic
func (t *Context) String() string {
	sb := &strings.Builder{}
	sb.WriteString(t.Inner.String())
	sb.WriteString("[")
	for i, name := range slices.Sorted(maps.Keys(t.Bindings)) {
		if i != 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		sb.WriteString(" := ")
		sb.WriteString(ShortString(t.Bindings[name]))
	}
	sb.WriteString("]")
	return sb.String()
}

// ShortString prints declared interfaces and functions by their name rather
// than by their body
func ShortString(t Type) string {
	switch t := t.(type) {
	case *Interface:
		if t.Name != "" {
			return t.Name
		}
	case *Function:
		if t.Name != "" {
			return t.Name
		}
	}
	return t.String()
}

func writeGenerics(sb *strings.Builder, generics []*GenericParam) {
	if len(generics) == 0 {
		return
	}
	sb.WriteString("<")
	for i, g := range generics {
		if i != 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(g.Name)
		if g.Bound != nil {
			sb.WriteString(" <: ")
			sb.WriteString(ShortString(g.Bound))
		}
	}
	sb.WriteString(">")
}
