package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestIntegerFormat_English(t *testing.T) {
	f := NewIntegerFormat(language.English, DefaultOptions())

	assert.Equal(t, "1,234,567", f.Format(1234567))
	assert.Equal(t, "-1,000", f.Format(-1000))
	assert.Equal(t, "999", f.Format(999))
	assert.Equal(t, "0", f.Format(0))

	v, err := f.Parse("1,234,567")
	require.NoError(t, err)
	assert.Equal(t, int64(1234567), v)

	v, err = f.Parse("-42")
	require.NoError(t, err)
	assert.Equal(t, int64(-42), v)

	// Fractional input is invalid for an integer format.
	_, err = f.Parse("3.5")
	assert.Error(t, err)

	// Misplaced grouping separators are rejected.
	_, err = f.Parse("1,23")
	assert.Error(t, err)
	_, err = f.Parse(",123")
	assert.Error(t, err)

	_, err = f.Parse("abc")
	assert.Error(t, err)
	_, err = f.Parse("")
	assert.Error(t, err)
}

func TestIntegerFormat_German(t *testing.T) {
	f := NewIntegerFormat(language.German, DefaultOptions())

	assert.Equal(t, "1.234.567", f.Format(1234567))

	v, err := f.Parse("1.234.567")
	require.NoError(t, err)
	assert.Equal(t, int64(1234567), v)

	// "3.5" is neither a valid grouped integer nor a fraction in de.
	_, err = f.Parse("3.5")
	assert.Error(t, err)

	// German decimal separator marks a fraction.
	_, err = f.Parse("3,5")
	assert.Error(t, err)
}

func TestIntegerFormat_NoGrouping(t *testing.T) {
	f := NewIntegerFormat(language.English, Options{Grouping: false})
	assert.Equal(t, "1234567", f.Format(1234567))
}

func TestIntegerFormat_RoundTrip(t *testing.T) {
	// Locales with Indian grouping (hi-IN, en-IN) and non-Latin digit
	// systems (ar, fa) must round-trip like the Western ones.
	tags := []language.Tag{
		language.English,
		language.German,
		language.French,
		language.MustParse("en-IN"),
		language.MustParse("hi-IN"),
		language.Arabic,
		language.MustParse("fa"),
	}
	for _, tag := range tags {
		f := NewIntegerFormat(tag, DefaultOptions())
		for _, v := range []int64{-1234567, -1, 0, 1, 999, 1000, 32767, 9876543210} {
			parsed, err := f.Parse(f.Format(v))
			require.NoError(t, err, "locale %s value %d formatted %q", tag, v, f.Format(v))
			assert.Equal(t, v, parsed)
		}
	}
}

func TestIntegerFormat_OutputIsParseable(t *testing.T) {
	// Output digits are ASCII with uniform three-digit groups in the
	// locale's separator, whatever the locale renders natively.
	hi := NewIntegerFormat(language.MustParse("hi-IN"), DefaultOptions())
	assert.Equal(t, "1,234,567", hi.Format(1234567))

	ar := NewIntegerFormat(language.Arabic, DefaultOptions())
	out := ar.Format(1234567)
	v, err := ar.Parse(out)
	require.NoError(t, err, "formatted %q", out)
	assert.Equal(t, int64(1234567), v)
}

func TestDecimalFormat_English(t *testing.T) {
	f := NewDecimalFormat(language.English, DefaultOptions())

	assert.Equal(t, "1,234.56", f.Format(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "-1,234.5", f.Format(decimal.RequireFromString("-1234.5")))
	assert.Equal(t, "42", f.Format(decimal.RequireFromString("42")))

	d, err := f.Parse("1,234.56")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1234.56").Equal(d))

	_, err = f.Parse("1,23.4")
	assert.Error(t, err)
}

func TestDecimalFormat_German(t *testing.T) {
	f := NewDecimalFormat(language.German, DefaultOptions())

	assert.Equal(t, "1.234,56", f.Format(decimal.RequireFromString("1234.56")))

	d, err := f.Parse("1.234,56")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1234.56").Equal(d))
}

func TestDecimalFormat_RoundTrip(t *testing.T) {
	tags := []language.Tag{
		language.English,
		language.German,
		language.French,
		language.MustParse("hi-IN"),
		language.Arabic,
	}
	for _, tag := range tags {
		f := NewDecimalFormat(tag, DefaultOptions())
		for _, s := range []string{"0", "-0.5", "1234.5678", "-9876543.21", "1000000"} {
			want := decimal.RequireFromString(s)
			parsed, err := f.Parse(f.Format(want))
			require.NoError(t, err, "locale %s value %s formatted %q", tag, s, f.Format(want))
			assert.True(t, want.Equal(parsed))
		}
	}
}
