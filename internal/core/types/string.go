package types

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"metatype/internal/core/apperror"
)

// BoundedString converts between canonical strings and external
// representations, validating an optional maximum length. It has no
// locale-bound formatter; locale changes are a no-op.
type BoundedString struct {
	name      string
	maxLength int // 0 = unconstrained
	nullable  bool
	opts      FormatOptions
}

// StringConfig configures a BoundedString.
type StringConfig struct {
	Name      string
	MaxLength int
}

// NewBoundedString creates a string adapter. Nullable defaults to true.
func NewBoundedString(cfg StringConfig) *BoundedString {
	name := cfg.Name
	if name == "" {
		name = "String"
	}
	return &BoundedString{
		name:      name,
		maxLength: cfg.MaxLength,
		nullable:  true,
	}
}

// Name implements Type.
func (t *BoundedString) Name() string { return t.name }

// FormatValue converts a canonical string to the target representation.
// Numeric targets convert the string content; non-numeric content fails.
func (t *BoundedString) FormatValue(v any, target Kind) (any, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, apperror.NewFormatValue(t.name, v)
	}

	switch target {
	case KindString, KindAny:
		return s, nil

	case KindInt:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, apperror.NewFormatValue(t.name, s).WithCause(err)
		}
		return i, nil

	case KindFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, apperror.NewFormatValue(t.name, s).WithCause(err)
		}
		return f, nil

	default:
		return nil, apperror.NewFormat(t.name, string(target))
	}
}

// ParseValue converts external input to a canonical string.
func (t *BoundedString) ParseValue(raw any, source Kind) (any, error) {
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
		return s, nil

	case KindInt, KindFloat:
		f, ok := toFloat64(raw)
		if !ok {
			return nil, apperror.NewParse(t.name, raw)
		}
		if isIntegral(f) {
			return strconv.FormatInt(int64(f), 10), nil
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil

	default:
		return nil, apperror.NewParseKind(t.name, string(source))
	}
}

// ValidateValue checks nullability and the maximum length (in runes).
func (t *BoundedString) ValidateValue(v any) error {
	if v == nil {
		if t.nullable {
			return nil
		}
		return apperror.NewValidateNull(t.name)
	}

	s, ok := v.(string)
	if !ok {
		return apperror.NewValidateKind(t.name, fmt.Sprintf("%T", v), v)
	}
	if t.maxLength > 0 && utf8.RuneCountInString(s) > t.maxLength {
		return apperror.NewValidation(
			fmt.Sprintf("value of type %s exceeds maximum length %d", t.name, t.maxLength)).
			WithDetail("type", t.name).
			WithDetail("length", utf8.RuneCountInString(s)).
			WithDetail("maxLength", t.maxLength)
	}
	return nil
}

// SetConstraints reconfigures nullability (explicit false disables).
func (t *BoundedString) SetConstraints(c Constraints) {
	t.nullable = c.NullableOrDefault()
}

// SetFormatOptions stores the options; there is no cached formatter to reset.
func (t *BoundedString) SetFormatOptions(o FormatOptions) {
	t.opts = o
}

// HandleLocaleChange is a no-op: string conversion is locale-independent.
func (t *BoundedString) HandleLocaleChange() {}
