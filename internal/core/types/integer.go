package types

import (
	"fmt"
	"math"
	"sync"

	"metatype/internal/core/apperror"
	"metatype/internal/core/format"
	"metatype/internal/core/locale"
)

// IntegerFormatter is the locale-aware formatting collaborator of
// BoundedInteger. The production implementation is format.IntegerFormat;
// tests inject counting spies.
type IntegerFormatter interface {
	Format(v int64) string
	Parse(s string) (int64, error)
}

// BoundedInteger converts between canonical integers and external
// representations, and validates values against inclusive [minimum,
// maximum] bounds. It is the shared implementation behind the concrete
// integer variants (Int16, Int32, Int64, Byte, SByte): each variant is
// just a bounds configuration passed to NewBoundedInteger.
//
// The only mutable state is the lazily built, locale-bound formatter.
// It is guarded by a mutex so adapters can be shared across request
// goroutines; everything else is set at construction or via setters the
// host calls during configuration.
type BoundedInteger struct {
	name     string
	minimum  int64
	maximum  int64
	nullable bool
	opts     FormatOptions

	newFormatter func() IntegerFormatter

	mu        sync.Mutex
	formatter IntegerFormatter
}

// IntegerConfig configures a BoundedInteger. Minimum and Maximum are
// fixed for the lifetime of the adapter; only nullability can be
// reconfigured later via SetConstraints.
type IntegerConfig struct {
	Name    string
	Minimum int64
	Maximum int64

	// Locale is the environment the default formatter binds to.
	// Defaults to the process-wide environment.
	Locale *locale.Environment

	// Formatter overrides the default locale-bound formatter factory.
	// Used by tests to observe formatter construction.
	Formatter func() IntegerFormatter
}

// NewBoundedInteger creates an integer adapter for the given bounds.
// Nullable defaults to true.
func NewBoundedInteger(cfg IntegerConfig) *BoundedInteger {
	t := &BoundedInteger{
		name:         cfg.Name,
		minimum:      cfg.Minimum,
		maximum:      cfg.Maximum,
		nullable:     true,
		newFormatter: cfg.Formatter,
	}
	if t.newFormatter == nil {
		env := cfg.Locale
		if env == nil {
			env = locale.Default()
		}
		t.newFormatter = func() IntegerFormatter {
			o := format.DefaultOptions()
			if t.opts.Grouping != nil {
				o.Grouping = *t.opts.Grouping
			}
			return format.NewIntegerFormat(env.Tag(), o)
		}
	}
	return t
}

// Concrete variants with OData primitive bounds.

func NewInt16() *BoundedInteger {
	return NewBoundedInteger(IntegerConfig{Name: "Int16", Minimum: math.MinInt16, Maximum: math.MaxInt16})
}

func NewInt32() *BoundedInteger {
	return NewBoundedInteger(IntegerConfig{Name: "Int32", Minimum: math.MinInt32, Maximum: math.MaxInt32})
}

func NewInt64() *BoundedInteger {
	return NewBoundedInteger(IntegerConfig{Name: "Int64", Minimum: math.MinInt64, Maximum: math.MaxInt64})
}

func NewByte() *BoundedInteger {
	return NewBoundedInteger(IntegerConfig{Name: "Byte", Minimum: 0, Maximum: math.MaxUint8})
}

func NewSByte() *BoundedInteger {
	return NewBoundedInteger(IntegerConfig{Name: "SByte", Minimum: math.MinInt8, Maximum: math.MaxInt8})
}

// Name implements Type.
func (t *BoundedInteger) Name() string { return t.name }

// Minimum returns the lower inclusive bound.
func (t *BoundedInteger) Minimum() int64 { return t.minimum }

// Maximum returns the upper inclusive bound.
func (t *BoundedInteger) Maximum() int64 { return t.maximum }

// FormatValue converts a canonical integer to the target representation.
// nil formats to nil for every target kind.
func (t *BoundedInteger) FormatValue(v any, target Kind) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch target {
	case KindString:
		f, ok := toFloat64(v)
		if !ok {
			return nil, apperror.NewFormatValue(t.name, v)
		}
		return t.format().Format(int64(math.Floor(f))), nil

	case KindInt:
		// Floor rather than assert integrality: canonical values are
		// already whole, so this is a no-op in the normal case.
		f, ok := toFloat64(v)
		if !ok {
			return nil, apperror.NewFormatValue(t.name, v)
		}
		return int64(math.Floor(f)), nil

	case KindFloat, KindAny:
		return v, nil

	default:
		return nil, apperror.NewFormat(t.name, string(target))
	}
}

// ParseValue converts external input to a canonical integer.
// nil and the empty string parse to nil. The result is not range-checked;
// ValidateValue is the explicit second step.
func (t *BoundedInteger) ParseValue(raw any, source Kind) (any, error) {
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
		v, err := t.format().Parse(s)
		if err != nil {
			return nil, apperror.NewParse(t.name, s).WithCause(err)
		}
		return v, nil

	case KindFloat:
		f, ok := toFloat64(raw)
		if !ok {
			return nil, apperror.NewParse(t.name, raw)
		}
		return int64(math.Floor(f)), nil

	case KindInt:
		return raw, nil

	default:
		return nil, apperror.NewParseKind(t.name, string(source))
	}
}

// ValidateValue checks a canonical value against nullability and the
// inclusive bounds. Exactly minimum or maximum is valid.
func (t *BoundedInteger) ValidateValue(v any) error {
	if v == nil {
		if t.nullable {
			return nil
		}
		return apperror.NewValidateNull(t.name)
	}

	f, ok := toFloat64(v)
	if !ok {
		return apperror.NewValidateKind(t.name, fmt.Sprintf("%T", v), v)
	}
	if !isIntegral(f) {
		return apperror.NewValidateKind(t.name, fmt.Sprintf("non-integral %T", v), v)
	}
	if f < float64(t.minimum) || f > float64(t.maximum) {
		return apperror.NewValidateRange(t.name, v, t.minimum, t.maximum)
	}
	return nil
}

// SetConstraints reconfigures nullability. Nullable becomes false only
// when explicitly set to false; absent means true. Bounds are fixed at
// construction and not touched here.
func (t *BoundedInteger) SetConstraints(c Constraints) {
	t.nullable = c.NullableOrDefault()
}

// SetFormatOptions stores the options and discards the cached formatter
// so the next conversion rebuilds it with the new options applied.
func (t *BoundedInteger) SetFormatOptions(o FormatOptions) {
	t.mu.Lock()
	t.opts = o
	t.formatter = nil
	t.mu.Unlock()
}

// HandleLocaleChange discards the cached formatter so the next
// conversion rebuilds it against the new locale.
func (t *BoundedInteger) HandleLocaleChange() {
	t.invalidate()
}

func (t *BoundedInteger) invalidate() {
	t.mu.Lock()
	t.formatter = nil
	t.mu.Unlock()
}

// format returns the cached formatter, building it on first use.
func (t *BoundedInteger) format() IntegerFormatter {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.formatter == nil {
		t.formatter = t.newFormatter()
	}
	return t.formatter
}
