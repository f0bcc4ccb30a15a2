package tyerr_test

import (
	"errors"
	"github.com/cottand/tcore/tyerr"
	"github.com/cottand/tcore/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"log/slog"
	"testing"
)

func TestFormatWithCode(t *testing.T) {
	iterator := &types.Interface{Name: "Iterator"}
	tests := []struct {
		err      tyerr.TypeError
		code     tyerr.ErrCode
		expected string
	}{
		{tyerr.New(tyerr.UndefinedName{Name: "x", Kind: tyerr.KindVar}), tyerr.UndefinedCode, "(E001) variable 'x' is not defined"},
		{tyerr.New(tyerr.ArityMismatch{Base: iterator, Expected: 1, Got: 0}), tyerr.ArityCode, "(E002) 'Iterator' expects 1 generic argument(s), but 0 were given"},
		{tyerr.New(tyerr.UnknownMember{Owner: iterator, Name: "prev"}), tyerr.UnknownMemberCode, "(E003) type 'Iterator' has no member 'prev'"},
		{tyerr.New(tyerr.NotCallable{Callee: types.NewBuiltin("Int", nil)}), tyerr.NotCallableCode, "(E005) type 'Int' is not callable"},
		{tyerr.New(tyerr.DepthExceeded{Limit: 3, At: types.Ref("Loop")}), tyerr.DepthExceededCode, "(E006) recursion limit of 3 exceeded at 'Loop'"},
		{tyerr.New(tyerr.CyclicInheritance{Chain: []string{"A", "B", "A"}}), tyerr.CyclicInheritanceCode, "(E008) builtin inheritance cycle: A <: B <: A"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code())
			assert.Equal(t, tt.code, tyerr.CodeOf(tt.err))
			assert.Equal(t, tt.expected, tyerr.FormatWithCode(tt.err))
		})
	}
}

func TestErrorsAs(t *testing.T) {
	var err error = tyerr.New(tyerr.MalformedContext{
		Context: &types.Context{Inner: types.Ref("Int"), Bindings: map[string]types.Type{"T": types.Ref("Int")}},
		Unbound: []string{"T"},
	})
	var malformed tyerr.MalformedContext
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, []string{"T"}, malformed.Unbound)
	assert.Equal(t, tyerr.None, tyerr.CodeOf(errors.New("plain")))
	assert.Equal(t, "plain", tyerr.Format(errors.New("plain")))
}

func TestErrors(t *testing.T) {
	var errs *tyerr.Errors
	assert.False(t, errs.HasError())
	assert.Nil(t, errs.Errors())

	errs = errs.With("first", tyerr.New(tyerr.UndefinedName{Name: "x", Kind: tyerr.KindVar}))
	more := (&tyerr.Errors{}).With("second", errors.New("plain"), errors.New("again"))
	errs = errs.Merge(more).Merge(nil)

	require.True(t, errs.HasError())
	require.Len(t, errs.Errors(), 3)
	assert.Equal(t, "second", errs.Errors()[2].Name)

	value := errs.LogValue()
	assert.Equal(t, slog.KindGroup, value.Kind())
	assert.Len(t, value.Group(), 3)
	assert.Equal(t, "(E001) variable 'x' is not defined", value.Group()[0].Value.Group()[1].Value.String())
}
