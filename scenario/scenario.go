// Package scenario loads YAML files of type declarations and queries, and
// answers the queries with an engine.Engine.
//
// A scenario looks like:
//
//	types:
//	  Pair:
//	    interface:
//	      generics: [A, B]
//	      members:
//	        first: {func: {returns: A}}
//	vars:
//	  a: {app: {base: Iterator, args: [Number]}}
//	queries:
//	  - name: iter
//	    same: [{call: {attr: {of: {var: a}, name: iter}}}, {app: {base: Iterator, args: [Number]}}]
//	    expect: true
package scenario

import (
	"context"
	"github.com/cottand/tcore/engine"
	"github.com/cottand/tcore/env"
	"github.com/cottand/tcore/types"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
	"os"
	"runtime"
)

type file struct {
	Types   yaml.Node `yaml:"types"`
	Vars    yaml.Node `yaml:"vars"`
	Queries []Query   `yaml:"queries"`
}

// Query is a single obligation of a scenario. Exactly one of the operation
// fields is set.
type Query struct {
	Name string `yaml:"name"`

	ResolveVar  string      `yaml:"resolve_var"`
	ResolveType string      `yaml:"resolve_type"`
	Eval        *yaml.Node  `yaml:"eval"`
	Normalize   *yaml.Node  `yaml:"normalize"`
	Subtype     []yaml.Node `yaml:"subtype"`
	Same        []yaml.Node `yaml:"same"`

	// Expect is compared against the rendered verdict, if set
	Expect *yaml.Node `yaml:"expect"`
	// ExpectError is the name of the error kind the query should fail with
	ExpectError string `yaml:"expect_error"`
}

type Scenario struct {
	Name    string
	Env     *env.Environment
	Queries []Query
}

// Load reads and parses the scenario at path
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read scenario")
	}
	return Parse(path, data)
}

// Parse translates a scenario's declarations into a scope enclosed by the
// universe
func Parse(name string, data []byte) (*Scenario, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "could not parse scenario %s", name)
	}
	typeDefs, err := declarations(&f.Types, true)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: types", name)
	}
	vars, err := declarations(&f.Vars, false)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: vars", name)
	}
	scope := env.New(env.Universe(), vars, typeDefs)
	if err := env.CheckInheritance(scope); err != nil {
		return nil, errors.Wrapf(err, "%s", name)
	}
	for i := range f.Queries {
		if f.Queries[i].Name == "" {
			return nil, errors.Errorf("%s: query %d has no name", name, i)
		}
	}
	return &Scenario{Name: name, Env: scope, Queries: f.Queries}, nil
}

func declarations(node *yaml.Node, named bool) (map[string]types.Type, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	names, values, err := fields(node)
	if err != nil {
		return nil, err
	}
	decls := make(map[string]types.Type, len(names))
	for i, name := range names {
		if _, dup := decls[name]; dup {
			return nil, errors.Errorf("line %d: '%s' is declared twice", values[i].Line, name)
		}
		declaredAs := ""
		if named {
			declaredAs = name
		}
		if decls[name], err = typeFrom(values[i], declaredAs); err != nil {
			return nil, errors.Wrapf(err, "'%s'", name)
		}
	}
	return decls, nil
}

// Run answers every query. Queries are independent: they run concurrently
// against the scenario's shared scope, and one failing does not stop the rest.
// Results are in the order of the queries.
func (s *Scenario) Run(ctx context.Context, en *engine.Engine) ([]Result, error) {
	results := make([]Result, len(s.Queries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range s.Queries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.answer(en, s.Queries[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "scenario interrupted")
	}
	return results, nil
}
