package diag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ConvertsDiagErrorPanicToReturnedError(t *testing.T) {
	err := Run("foo.jack", func() error {
		panic(Parsef("foo.jack", 3, 5, "}", "unexpected end of class"))
	})
	require.Error(t, err)
	var derr *Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, Parse, derr.Kind)
	assert.Equal(t, 3, derr.Line)
}

func TestRun_ConvertsArbitraryPanicToError(t *testing.T) {
	err := Run("foo.jack", func() error {
		panic("boom")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestRun_PassesThroughSuccess(t *testing.T) {
	err := Run("foo.jack", func() error { return nil })
	require.NoError(t, err)
}

func TestError_FormatsLocationAndLexeme(t *testing.T) {
	err := Semanticf("foo.jack", 10, 2, "x", "undefined variable %q", "x")
	assert.Contains(t, err.Error(), "foo.jack:10:2")
	assert.Contains(t, err.Error(), "SemanticError")
	assert.Contains(t, err.Error(), `"x"`)
}
