package tyerr

import (
	"fmt"
	"github.com/cottand/tcore/types"
	"runtime/debug"
	"strings"
)

// enableDebugErrorPrinting makes errors include the frame that created them when printed
const enableDebugErrorPrinting bool = false
const enableDebugFullStacktrace bool = false

type ErrCode int

const (
	None          ErrCode = iota
	UndefinedCode ErrCode = iota
	ArityCode
	UnknownMemberCode
	StructuralInvariantCode
	NotCallableCode
	DepthExceededCode
	MalformedContextCode
	CyclicInheritanceCode
)

// TypeError is the error returned by every failing engine operation.
// Use errors.As with the concrete kinds below to inspect it.
type TypeError interface {
	error
	Code() ErrCode

	withStack([]byte) TypeError
	getStack() []byte
}

func FormatWithCode(e TypeError) string {
	if enableDebugErrorPrinting && e.getStack() != nil {
		stack := string(e.getStack())
		if !enableDebugFullStacktrace {
			stack = strings.Split(stack, "\n")[6]
		}
		return fmt.Sprintf("%s:(E%03d) %s", stack, e.Code(), e.Error())
	}
	return fmt.Sprintf("(E%03d) %s", e.Code(), e.Error())
}

func New[E TypeError](err E) TypeError {
	return err.withStack(debug.Stack())
}

// CodeOf returns the ErrCode of err, or None if err is not a TypeError
func CodeOf(err error) ErrCode {
	if te, ok := err.(TypeError); ok {
		return te.Code()
	}
	return None
}

type NameKind int

const (
	KindVar NameKind = iota
	KindType
)

func (k NameKind) String() string {
	if k == KindVar {
		return "variable"
	}
	return "type"
}

type UndefinedName struct {
	Name  string
	Kind  NameKind
	stack []byte
}

func (e UndefinedName) Error() string {
	return fmt.Sprintf("%s '%s' is not defined", e.Kind, e.Name)
}
func (e UndefinedName) Code() ErrCode    { return UndefinedCode }
func (e UndefinedName) getStack() []byte { return e.stack }
func (e UndefinedName) withStack(stack []byte) TypeError {
	e.stack = stack
	return e
}

type ArityMismatch struct {
	Base     types.Type
	Expected int
	Got      int
	stack    []byte
}

func (e ArityMismatch) Error() string {
	return fmt.Sprintf("'%s' expects %d generic argument(s), but %d were given", types.ShortString(e.Base), e.Expected, e.Got)
}
func (e ArityMismatch) Code() ErrCode    { return ArityCode }
func (e ArityMismatch) getStack() []byte { return e.stack }
func (e ArityMismatch) withStack(stack []byte) TypeError {
	e.stack = stack
	return e
}

type UnknownMember struct {
	Owner types.Type
	Name  string
	stack []byte
}

func (e UnknownMember) Error() string {
	return fmt.Sprintf("type '%s' has no member '%s'", types.ShortString(e.Owner), e.Name)
}
func (e UnknownMember) Code() ErrCode    { return UnknownMemberCode }
func (e UnknownMember) getStack() []byte { return e.stack }
func (e UnknownMember) withStack(stack []byte) TypeError {
	e.stack = stack
	return e
}

// StructuralInvariantViolation signals two types that are equal by value but
// not by identity after normalization. It is a defect signal, not a diagnostic.
type StructuralInvariantViolation struct {
	Left, Right types.Type
	stack       []byte
}

func (e StructuralInvariantViolation) Error() string {
	return fmt.Sprintf("distinct but structurally equal types '%v' and '%v'", e.Left, e.Right)
}
func (e StructuralInvariantViolation) Code() ErrCode    { return StructuralInvariantCode }
func (e StructuralInvariantViolation) getStack() []byte { return e.stack }
func (e StructuralInvariantViolation) withStack(stack []byte) TypeError {
	e.stack = stack
	return e
}

type NotCallable struct {
	Callee types.Type
	stack  []byte
}

func (e NotCallable) Error() string {
	return fmt.Sprintf("type '%s' is not callable", types.ShortString(e.Callee))
}
func (e NotCallable) Code() ErrCode    { return NotCallableCode }
func (e NotCallable) getStack() []byte { return e.stack }
func (e NotCallable) withStack(stack []byte) TypeError {
	e.stack = stack
	return e
}

type DepthExceeded struct {
	Limit int
	At    types.Type
	stack []byte
}

func (e DepthExceeded) Error() string {
	return fmt.Sprintf("recursion limit of %d exceeded at '%v'", e.Limit, e.At)
}
func (e DepthExceeded) Code() ErrCode    { return DepthExceededCode }
func (e DepthExceeded) getStack() []byte { return e.stack }
func (e DepthExceeded) withStack(stack []byte) TypeError {
	e.stack = stack
	return e
}

type MalformedContext struct {
	Context *types.Context
	Unbound []string
	stack   []byte
}

func (e MalformedContext) Error() string {
	return fmt.Sprintf("context '%v' binds names that do not occur in it: %s", e.Context, strings.Join(e.Unbound, ", "))
}
func (e MalformedContext) Code() ErrCode    { return MalformedContextCode }
func (e MalformedContext) getStack() []byte { return e.stack }
func (e MalformedContext) withStack(stack []byte) TypeError {
	e.stack = stack
	return e
}

type CyclicInheritance struct {
	Chain []string
	stack []byte
}

func (e CyclicInheritance) Error() string {
	return fmt.Sprintf("builtin inheritance cycle: %s", strings.Join(e.Chain, " <: "))
}
func (e CyclicInheritance) Code() ErrCode    { return CyclicInheritanceCode }
func (e CyclicInheritance) getStack() []byte { return e.stack }
func (e CyclicInheritance) withStack(stack []byte) TypeError {
	e.stack = stack
	return e
}
