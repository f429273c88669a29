package types

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"metatype/internal/core/apperror"
	"metatype/internal/core/format"
	"metatype/internal/core/locale"
)

// DecimalFormatter is the locale-aware formatting collaborator of the
// Decimal adapter.
type DecimalFormatter interface {
	Format(d decimal.Decimal) string
	Parse(s string) (decimal.Decimal, error)
}

// Decimal converts between canonical arbitrary-precision decimals and
// external representations, validating precision/scale constraints.
// Uses decimal.Decimal to avoid floating-point errors.
type Decimal struct {
	name      string
	precision *int32 // max total digits, nil = unconstrained
	scale     *int32 // max fraction digits, nil = unconstrained
	nullable  bool
	opts      FormatOptions

	newFormatter func() DecimalFormatter

	mu        sync.Mutex
	formatter DecimalFormatter
}

// DecimalConfig configures a Decimal adapter.
type DecimalConfig struct {
	Name      string
	Precision *int32
	Scale     *int32

	// Locale is the environment the default formatter binds to.
	// Defaults to the process-wide environment.
	Locale *locale.Environment

	// Formatter overrides the default locale-bound formatter factory.
	Formatter func() DecimalFormatter
}

// NewDecimal creates a decimal adapter. Nullable defaults to true.
func NewDecimal(cfg DecimalConfig) *Decimal {
	name := cfg.Name
	if name == "" {
		name = "Decimal"
	}
	t := &Decimal{
		name:         name,
		precision:    cfg.Precision,
		scale:        cfg.Scale,
		nullable:     true,
		newFormatter: cfg.Formatter,
	}
	if t.newFormatter == nil {
		env := cfg.Locale
		if env == nil {
			env = locale.Default()
		}
		t.newFormatter = func() DecimalFormatter {
			o := format.DefaultOptions()
			if t.opts.Grouping != nil {
				o.Grouping = *t.opts.Grouping
			}
			return format.NewDecimalFormat(env.Tag(), o)
		}
	}
	return t
}

// Name implements Type.
func (t *Decimal) Name() string { return t.name }

// FormatValue converts a canonical decimal to the target representation.
func (t *Decimal) FormatValue(v any, target Kind) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch target {
	case KindString:
		d, ok := asDecimal(v)
		if !ok {
			return nil, apperror.NewFormatValue(t.name, v)
		}
		return t.format().Format(d), nil

	case KindFloat:
		d, ok := asDecimal(v)
		if !ok {
			return nil, apperror.NewFormatValue(t.name, v)
		}
		f, _ := d.Float64()
		return f, nil

	case KindInt:
		d, ok := asDecimal(v)
		if !ok {
			return nil, apperror.NewFormatValue(t.name, v)
		}
		return d.Floor().IntPart(), nil

	case KindAny:
		return v, nil

	default:
		return nil, apperror.NewFormat(t.name, string(target))
	}
}

// ParseValue converts external input to a canonical decimal.
func (t *Decimal) ParseValue(raw any, source Kind) (any, error) {
	if raw == nil {
		return nil, nil
	}
	if s, ok := raw.(string); ok && s == "" {
		return nil, nil
	}

	switch source {
	case KindString:
		s, ok := raw.(string)
		if !ok {
			return nil, apperror.NewParse(t.name, raw)
		}
		d, err := t.format().Parse(s)
		if err != nil {
			return nil, apperror.NewParse(t.name, s).WithCause(err)
		}
		return d, nil

	case KindFloat, KindInt:
		d, ok := asDecimal(raw)
		if !ok {
			return nil, apperror.NewParse(t.name, raw)
		}
		return d, nil

	default:
		return nil, apperror.NewParseKind(t.name, string(source))
	}
}

// ValidateValue checks nullability and the precision/scale constraints.
func (t *Decimal) ValidateValue(v any) error {
	if v == nil {
		if t.nullable {
			return nil
		}
		return apperror.NewValidateNull(t.name)
	}

	d, ok := asDecimal(v)
	if !ok {
		return apperror.NewValidateKind(t.name, fmt.Sprintf("%T", v), v)
	}

	fracDigits := int32(0)
	if d.Exponent() < 0 {
		fracDigits = -d.Exponent()
	}
	totalDigits := int32(len(d.Coefficient().Text(10)))
	if d.IsNegative() {
		totalDigits--
	}

	if t.scale != nil && fracDigits > *t.scale {
		return apperror.NewValidation(
			fmt.Sprintf("value %s of type %s exceeds scale %d", d.String(), t.name, *t.scale)).
			WithDetail("type", t.name).
			WithDetail("value", d.String()).
			WithDetail("scale", *t.scale)
	}
	if t.precision != nil && totalDigits > *t.precision {
		return apperror.NewValidation(
			fmt.Sprintf("value %s of type %s exceeds precision %d", d.String(), t.name, *t.precision)).
			WithDetail("type", t.name).
			WithDetail("value", d.String()).
			WithDetail("precision", *t.precision)
	}
	return nil
}

// SetConstraints reconfigures nullability (explicit false disables).
func (t *Decimal) SetConstraints(c Constraints) {
	t.nullable = c.NullableOrDefault()
}

// SetFormatOptions stores the options and discards the cached formatter.
func (t *Decimal) SetFormatOptions(o FormatOptions) {
	t.mu.Lock()
	t.opts = o
	t.formatter = nil
	t.mu.Unlock()
}

// HandleLocaleChange discards the cached formatter.
func (t *Decimal) HandleLocaleChange() {
	t.invalidate()
}

func (t *Decimal) invalidate() {
	t.mu.Lock()
	t.formatter = nil
	t.mu.Unlock()
}

func (t *Decimal) format() DecimalFormatter {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.formatter == nil {
		t.formatter = t.newFormatter()
	}
	return t.formatter
}

// asDecimal coerces canonical decimal inputs: decimal.Decimal, numeric
// runtime kinds, and the plain decimal string form ("1234.56").
func asDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	}
	return decimal.Zero, false
}
