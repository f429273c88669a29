package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"metatype/internal/core/apperror"
	"metatype/internal/core/locale"
	"metatype/internal/core/types"
)

func i64(v int64) *int64 { return &v }

func TestRegistry_Builtins(t *testing.T) {
	r := NewRegistry(nil)

	for _, name := range []string{"Int16", "Int32", "Int64", "Byte", "SByte", "Decimal", "String"} {
		typ, ok := r.Get(name)
		require.True(t, ok, "builtin %s missing", name)
		assert.Equal(t, name, typ.Name())
		assert.True(t, r.IsBuiltin(name))
	}

	// Builtins cannot be redefined or removed.
	err := r.Register(Definition{Name: "Int16", Base: KindInt32})
	assert.True(t, apperror.IsCode(err, apperror.CodeBuiltinType))
	err = r.Unregister("Int16")
	assert.True(t, apperror.IsCode(err, apperror.CodeBuiltinType))
}

func TestRegistry_RegisterCustomType(t *testing.T) {
	r := NewRegistry(nil)

	err := r.Register(Definition{
		Name:    "Percentage",
		Base:    KindInt16,
		Minimum: i64(0),
		Maximum: i64(100),
	})
	require.NoError(t, err)

	typ, ok := r.Get("Percentage")
	require.True(t, ok)
	assert.NoError(t, typ.ValidateValue(int64(50)))
	assert.NoError(t, typ.ValidateValue(int64(0)))
	assert.NoError(t, typ.ValidateValue(int64(100)))
	assert.Error(t, typ.ValidateValue(int64(101)))
	assert.Error(t, typ.ValidateValue(int64(-1)))

	require.NoError(t, r.Unregister("Percentage"))
	_, ok = r.Get("Percentage")
	assert.False(t, ok)
}

func TestRegistry_RuledType(t *testing.T) {
	r := NewRegistry(nil)

	err := r.Register(Definition{
		Name: "EvenInt32",
		Base: KindInt32,
		Rule: "value % 2 == 0",
	})
	require.NoError(t, err)

	typ, _ := r.Get("EvenInt32")
	assert.NoError(t, typ.ValidateValue(int64(4)))
	assert.NoError(t, typ.ValidateValue(nil))

	err = typ.ValidateValue(int64(3))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "value % 2 == 0", appErr.Details["rule"])

	// Base validation still runs first.
	assert.Error(t, typ.ValidateValue(3.5))
}

func TestRegistry_RuleAcceptsNarrowGoInts(t *testing.T) {
	r := NewRegistry(nil)

	err := r.Register(Definition{
		Name: "EvenInt32",
		Base: KindInt32,
		Rule: "value % 2 == 0",
	})
	require.NoError(t, err)

	typ, _ := r.Get("EvenInt32")

	// Every integer width the base validator accepts must also be
	// coerced to a CEL-compatible value before rule evaluation.
	for _, v := range []any{int8(4), int16(4), int32(4), int(4), uint8(4), uint16(4), uint32(4)} {
		assert.NoError(t, typ.ValidateValue(v), "value %T(%v)", v, v)
	}
	for _, v := range []any{int8(3), uint16(3)} {
		assert.True(t, apperror.IsCode(typ.ValidateValue(v), apperror.CodeValidation), "value %T(%v)", v, v)
	}
}

func TestRegistry_InvalidDefinitions(t *testing.T) {
	r := NewRegistry(nil)

	err := r.Register(Definition{Name: "Broken", Base: FieldKind("blob")})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	err = r.Register(Definition{Name: "BadRule", Base: KindInt32, Rule: "value +"})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestRegistry_LocaleChangeFanOut(t *testing.T) {
	env := locale.New(language.English)
	r := NewRegistry(env)

	typ, _ := r.Get("Int32")

	formatted, err := typ.FormatValue(int64(1234567), types.KindString)
	require.NoError(t, err)
	assert.Equal(t, "1,234,567", formatted)

	// Switching the environment locale must invalidate cached formatters.
	env.SetTag(language.German)
	formatted, err = typ.FormatValue(int64(1234567), types.KindString)
	require.NoError(t, err)
	assert.Equal(t, "1.234.567", formatted)
}
