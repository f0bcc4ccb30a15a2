package scenario

import (
	"fmt"
	"github.com/cottand/tcore/engine"
	"github.com/cottand/tcore/env"
	"github.com/cottand/tcore/tyerr"
	"github.com/cottand/tcore/types"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"strconv"
)

type Result struct {
	Query string
	// Verdict is the rendered answer: a bool for relations, a type otherwise
	Verdict string
	Err     error
	// Expected is empty when the query had no expectation
	Expected string
	Passed   bool
}

// String renders the result the way the check command prints it
func (r Result) String() string {
	verdict := r.Verdict
	if r.Err != nil {
		verdict = "error " + tyerr.Format(r.Err)
	}
	if r.Passed {
		return fmt.Sprintf("%s: %s", r.Query, verdict)
	}
	return fmt.Sprintf("%s: %s (expected %s)", r.Query, verdict, r.Expected)
}

var errorKinds = map[string]tyerr.ErrCode{
	"UndefinedName":                tyerr.UndefinedCode,
	"ArityMismatch":                tyerr.ArityCode,
	"UnknownMember":                tyerr.UnknownMemberCode,
	"StructuralInvariantViolation": tyerr.StructuralInvariantCode,
	"NotCallable":                  tyerr.NotCallableCode,
	"DepthExceeded":                tyerr.DepthExceededCode,
	"MalformedContext":             tyerr.MalformedContextCode,
	"CyclicInheritance":            tyerr.CyclicInheritanceCode,
}

func (s *Scenario) answer(en *engine.Engine, q Query) Result {
	verdict, err := s.evaluate(en, q)
	result := Result{Query: q.Name, Verdict: verdict, Err: err, Passed: true}
	switch {
	case q.ExpectError != "":
		result.Expected = "error " + q.ExpectError
		code, known := errorKinds[q.ExpectError]
		result.Passed = known && err != nil && tyerr.CodeOf(err) == code
	case q.Expect != nil:
		result.Expected = q.Expect.Value
		result.Passed = err == nil && verdict == q.Expect.Value
	default:
		result.Passed = err == nil
		result.Expected = "success"
	}
	return result
}

func (s *Scenario) evaluate(en *engine.Engine, q Query) (string, error) {
	switch {
	case q.ResolveVar != "":
		t, err := en.ResolveVar(s.Env, q.ResolveVar)
		return render(t, err)
	case q.ResolveType != "":
		t, err := en.ResolveType(s.Env, q.ResolveType)
		return render(t, err)
	case q.Eval != nil:
		return render(s.operand(en, q.Eval))
	case q.Normalize != nil:
		t, err := s.operand(en, q.Normalize)
		if err != nil {
			return "", err
		}
		return render(en.Normalize(s.Env, t))
	case q.Subtype != nil:
		return s.relate(en, q.Subtype, en.IsSubtype)
	case q.Same != nil:
		return s.relate(en, q.Same, en.IsSameType)
	default:
		return "", errors.New("query has no operation")
	}
}

func (s *Scenario) relate(en *engine.Engine, operands []yaml.Node, relation func(*env.Environment, types.Type, types.Type) (bool, error)) (string, error) {
	if len(operands) != 2 {
		return "", errors.Errorf("relations take exactly two operands, got %d", len(operands))
	}
	left, err := s.operand(en, &operands[0])
	if err != nil {
		return "", err
	}
	right, err := s.operand(en, &operands[1])
	if err != nil {
		return "", err
	}
	holds, err := relation(s.Env, left, right)
	if err != nil {
		return "", err
	}
	return strconv.FormatBool(holds), nil
}

func render(t types.Type, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return t.String(), nil
}

// operand evaluates an operand expression: {var: name}, {type: texpr},
// {attr: {of: operand, name: member}}, {call: operand}, or a bare type
// expression
func (s *Scenario) operand(en *engine.Engine, node *yaml.Node) (types.Type, error) {
	if node.Kind == yaml.MappingNode && len(node.Content) == 2 {
		key, value := node.Content[0].Value, node.Content[1]
		switch key {
		case "var":
			return en.ResolveVar(s.Env, value.Value)
		case "type":
			return typeFrom(value, "")
		case "call":
			callee, err := s.operand(en, value)
			if err != nil {
				return nil, err
			}
			return en.EvaluateCall(s.Env, callee)
		case "attr":
			of, name := field(value, "of"), field(value, "name")
			if of == nil || name == nil {
				return nil, errors.Errorf("line %d: attr needs 'of' and 'name'", value.Line)
			}
			owner, err := s.operand(en, of)
			if err != nil {
				return nil, err
			}
			return en.EvaluateAttribute(s.Env, owner, name.Value)
		}
	}
	return typeFrom(node, "")
}

// Failures collects the results that did not meet their expectation
func Failures(results []Result) *tyerr.Errors {
	var failures *tyerr.Errors
	for _, r := range results {
		if r.Passed {
			continue
		}
		err := r.Err
		if err == nil {
			err = errors.Errorf("got %s, expected %s", r.Verdict, r.Expected)
		}
		failures = failures.With(r.Query, err)
	}
	return failures
}
