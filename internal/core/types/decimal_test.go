package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"metatype/internal/core/apperror"
	"metatype/internal/core/format"
)

func int32p(v int32) *int32 { return &v }

func newTestDecimal(precision, scale *int32) *Decimal {
	return NewDecimal(DecimalConfig{
		Precision: precision,
		Scale:     scale,
		Formatter: func() DecimalFormatter {
			return format.NewDecimalFormat(language.English, format.DefaultOptions())
		},
	})
}

func TestDecimal_FormatValue(t *testing.T) {
	typ := newTestDecimal(nil, nil)

	out, err := typ.FormatValue(nil, KindString)
	assert.NoError(t, err)
	assert.Nil(t, out)

	d := decimal.RequireFromString("1234.56")
	out, err = typ.FormatValue(d, KindString)
	require.NoError(t, err)
	assert.Equal(t, "1,234.56", out)

	out, err = typ.FormatValue(d, KindFloat)
	require.NoError(t, err)
	assert.Equal(t, 1234.56, out)

	out, err = typ.FormatValue(d, KindInt)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), out)

	_, err = typ.FormatValue(d, Kind("unknown"))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeFormat))
}

func TestDecimal_ParseValue(t *testing.T) {
	typ := newTestDecimal(nil, nil)

	out, err := typ.ParseValue("", KindString)
	assert.NoError(t, err)
	assert.Nil(t, out)

	out, err = typ.ParseValue("1,234.56", KindString)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1234.56").Equal(out.(decimal.Decimal)))

	out, err = typ.ParseValue(int64(42), KindInt)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(42).Equal(out.(decimal.Decimal)))

	_, err = typ.ParseValue("x", KindString)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeParse))

	_, err = typ.ParseValue("1", Kind("unknown"))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeParse))
}

func TestDecimal_ValidateScaleAndPrecision(t *testing.T) {
	typ := newTestDecimal(int32p(6), int32p(2))

	assert.NoError(t, typ.ValidateValue(decimal.RequireFromString("1234.56")))
	assert.NoError(t, typ.ValidateValue("1234.5"))
	assert.NoError(t, typ.ValidateValue(nil))

	// Three fraction digits exceed scale 2.
	err := typ.ValidateValue(decimal.RequireFromString("1.234"))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	// Seven total digits exceed precision 6.
	err = typ.ValidateValue(decimal.RequireFromString("12345.67"))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	// Wrong runtime kind.
	err = typ.ValidateValue(struct{}{})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	// Non-nullable rejects null.
	nullable := false
	typ.SetConstraints(Constraints{Nullable: &nullable})
	assert.Error(t, typ.ValidateValue(nil))
}

func TestDecimal_RoundTrip(t *testing.T) {
	typ := newTestDecimal(nil, nil)

	for _, s := range []string{"0", "-1", "999", "1000.5", "1234567.89", "-98765.4321"} {
		want := decimal.RequireFromString(s)
		formatted, err := typ.FormatValue(want, KindString)
		require.NoError(t, err)

		parsed, err := typ.ParseValue(formatted, KindString)
		require.NoError(t, err)
		assert.True(t, want.Equal(parsed.(decimal.Decimal)), "round trip of %s via %q", s, formatted)
	}
}
