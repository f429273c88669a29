package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metatype/internal/core/apperror"
)

func TestBoundedString_FormatAndParse(t *testing.T) {
	typ := NewBoundedString(StringConfig{MaxLength: 10})

	out, err := typ.FormatValue(nil, KindString)
	assert.NoError(t, err)
	assert.Nil(t, out)

	out, err = typ.FormatValue("hello", KindString)
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	out, err = typ.FormatValue("42", KindInt)
	require.NoError(t, err)
	assert.Equal(t, int64(42), out)

	_, err = typ.FormatValue("abc", KindInt)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeFormat))

	out, err = typ.ParseValue(int64(7), KindInt)
	require.NoError(t, err)
	assert.Equal(t, "7", out)

	out, err = typ.ParseValue("", KindString)
	assert.NoError(t, err)
	assert.Nil(t, out)

	_, err = typ.ParseValue("x", Kind("unknown"))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeParse))
}

func TestBoundedString_Validate(t *testing.T) {
	typ := NewBoundedString(StringConfig{MaxLength: 5})

	assert.NoError(t, typ.ValidateValue("short"))
	assert.NoError(t, typ.ValidateValue(nil))

	err := typ.ValidateValue("too long for five")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	err = typ.ValidateValue(42)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	nullable := false
	typ.SetConstraints(Constraints{Nullable: &nullable})
	assert.Error(t, typ.ValidateValue(nil))
}
