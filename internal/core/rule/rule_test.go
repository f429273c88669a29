package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileAndEval(t *testing.T) {
	r, err := Compile("value % 2 == 0")
	require.NoError(t, err)
	assert.Equal(t, "value % 2 == 0", r.Expr())

	ok, err := r.Eval(int64(4))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Eval(int64(3))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompile_Invalid(t *testing.T) {
	_, err := Compile("value +")
	assert.Error(t, err)

	// Well-formed but non-boolean.
	_, err = Compile("value + 1")
	assert.Error(t, err)
}

func TestEval_TypeMismatch(t *testing.T) {
	r, err := Compile("value % 2 == 0")
	require.NoError(t, err)

	// Modulo on a string fails at evaluation time.
	_, err = r.Eval("not a number")
	assert.Error(t, err)
}

func TestEval_StringRule(t *testing.T) {
	r, err := Compile(`value.startsWith("INV-")`)
	require.NoError(t, err)

	ok, err := r.Eval("INV-0001")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Eval("ORD-0001")
	require.NoError(t, err)
	assert.False(t, ok)
}
