package scenario

import (
	"github.com/cottand/tcore/types"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// typeFrom translates a type expression. A scalar is a reference to a type
// by name; a mapping has exactly one of the keys handled below.
func typeFrom(node *yaml.Node, declaredAs string) (types.Type, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == "" {
			return nil, errors.Errorf("line %d: empty type name", node.Line)
		}
		return types.Ref(node.Value), nil
	case yaml.MappingNode:
	default:
		return nil, errors.Errorf("line %d: expected a type name or a mapping", node.Line)
	}
	key, value, err := single(node)
	if err != nil {
		return nil, err
	}

	switch key {
	case "ref":
		return types.Ref(value.Value), nil
	case "builtin":
		return builtinFrom(value, declaredAs)
	case "param":
		return paramFrom(value)
	case "interface":
		return interfaceFrom(value, declaredAs)
	case "func":
		return functionFrom(value, declaredAs)
	case "app":
		return applicationFrom(value)
	case "context":
		return contextFrom(value)
	default:
		return nil, errors.Errorf("line %d: unknown type expression '%s'", node.Line, key)
	}
}

// single returns the only key and value of a mapping node
func single(node *yaml.Node) (string, *yaml.Node, error) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return "", nil, errors.Errorf("line %d: expected a mapping with exactly one key", node.Line)
	}
	return node.Content[0].Value, node.Content[1], nil
}

// fields returns the entries of a mapping node, in source order
func fields(node *yaml.Node) ([]string, []*yaml.Node, error) {
	if node.Kind != yaml.MappingNode {
		return nil, nil, errors.Errorf("line %d: expected a mapping", node.Line)
	}
	keys := make([]string, 0, len(node.Content)/2)
	values := make([]*yaml.Node, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys = append(keys, node.Content[i].Value)
		values = append(values, node.Content[i+1])
	}
	return keys, values, nil
}

func field(node *yaml.Node, name string) *yaml.Node {
	keys, values, err := fields(node)
	if err != nil {
		return nil
	}
	for i, k := range keys {
		if k == name {
			return values[i]
		}
	}
	return nil
}

func builtinFrom(node *yaml.Node, declaredAs string) (types.Type, error) {
	name := declaredAs
	var parent types.Type
	if node.Kind == yaml.MappingNode {
		if n := field(node, "name"); n != nil {
			name = n.Value
		}
		if p := field(node, "parent"); p != nil {
			var err error
			if parent, err = typeFrom(p, ""); err != nil {
				return nil, err
			}
		}
	}
	if name == "" {
		return nil, errors.Errorf("line %d: builtin needs a name", node.Line)
	}
	return types.NewBuiltin(name, parent), nil
}

func paramFrom(node *yaml.Node) (*types.GenericParam, error) {
	if node.Kind == yaml.ScalarNode {
		return &types.GenericParam{Name: node.Value}, nil
	}
	name := field(node, "name")
	if name == nil {
		return nil, errors.Errorf("line %d: generic parameter needs a name", node.Line)
	}
	param := &types.GenericParam{Name: name.Value}
	if bound := field(node, "bound"); bound != nil {
		var err error
		if param.Bound, err = typeFrom(bound, ""); err != nil {
			return nil, err
		}
	}
	return param, nil
}

func genericsFrom(node *yaml.Node) ([]*types.GenericParam, error) {
	if node == nil {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, errors.Errorf("line %d: generics must be a list", node.Line)
	}
	generics := make([]*types.GenericParam, 0, len(node.Content))
	for _, g := range node.Content {
		param, err := paramFrom(g)
		if err != nil {
			return nil, err
		}
		generics = append(generics, param)
	}
	return generics, nil
}

func interfaceFrom(node *yaml.Node, declaredAs string) (types.Type, error) {
	generics, err := genericsFrom(field(node, "generics"))
	if err != nil {
		return nil, err
	}
	iface := &types.Interface{
		Name:     declaredAs,
		Generics: generics,
		Members:  make(map[string]types.Type),
	}
	members := field(node, "members")
	if members == nil {
		return iface, nil
	}
	names, values, err := fields(members)
	if err != nil {
		return nil, err
	}
	for i, name := range names {
		if _, dup := iface.Members[name]; dup {
			return nil, errors.Errorf("line %d: duplicate member '%s'", values[i].Line, name)
		}
		if iface.Members[name], err = typeFrom(values[i], ""); err != nil {
			return nil, errors.Wrapf(err, "member '%s'", name)
		}
	}
	return iface, nil
}

func functionFrom(node *yaml.Node, declaredAs string) (types.Type, error) {
	generics, err := genericsFrom(field(node, "generics"))
	if err != nil {
		return nil, err
	}
	fn := &types.Function{Name: declaredAs, Generics: generics}
	if params := field(node, "params"); params != nil {
		names, values, err := fields(params)
		if err != nil {
			return nil, err
		}
		for i, name := range names {
			t, err := typeFrom(values[i], "")
			if err != nil {
				return nil, errors.Wrapf(err, "parameter '%s'", name)
			}
			fn.Params = append(fn.Params, types.Param{Name: name, Type: t})
		}
	}
	ret := field(node, "returns")
	if ret == nil {
		return nil, errors.Errorf("line %d: function needs a return type", node.Line)
	}
	if fn.Return, err = typeFrom(ret, ""); err != nil {
		return nil, errors.Wrap(err, "return type")
	}
	return fn, nil
}

func applicationFrom(node *yaml.Node) (types.Type, error) {
	baseNode, argsNode := field(node, "base"), field(node, "args")
	if baseNode == nil || argsNode == nil || argsNode.Kind != yaml.SequenceNode {
		return nil, errors.Errorf("line %d: app needs a base and a list of args", node.Line)
	}
	base, err := typeFrom(baseNode, "")
	if err != nil {
		return nil, err
	}
	args := make([]types.Type, 0, len(argsNode.Content))
	for _, a := range argsNode.Content {
		arg, err := typeFrom(a, "")
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return types.Apply(base, args...), nil
}

func contextFrom(node *yaml.Node) (types.Type, error) {
	innerNode := field(node, "inner")
	if innerNode == nil {
		return nil, errors.Errorf("line %d: context needs an inner type", node.Line)
	}
	inner, err := typeFrom(innerNode, "")
	if err != nil {
		return nil, err
	}
	c := &types.Context{Inner: inner, Bindings: make(map[string]types.Type)}
	if bindings := field(node, "bindings"); bindings != nil {
		names, values, err := fields(bindings)
		if err != nil {
			return nil, err
		}
		for i, name := range names {
			if c.Bindings[name], err = typeFrom(values[i], ""); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}
