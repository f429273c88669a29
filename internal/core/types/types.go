// Package types provides model data-type adapters: bidirectional
// conversion between canonical values and external representations,
// plus constraint validation.
//
// An adapter converts in two directions. FormatValue turns a canonical
// value into the representation a consumer asked for (display string,
// int, float). ParseValue turns loosely-typed external input back into
// the canonical value. ValidateValue checks a canonical value against
// the type's constraints. Parsing never validates; callers run the two
// steps explicitly, and decide what to do with the structured errors.
package types

import (
	"math"

	"github.com/shopspring/decimal"
)

// Kind is an external representation kind. The set is closed: any kind
// outside the enumeration is rejected by format and parse operations.
type Kind string

const (
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindAny    Kind = "any"
)

// Type is the contract every model data-type adapter implements.
// Adapters are long-lived: one instance serves many conversions for the
// lifetime of whatever owns it (typically a model binding).
type Type interface {
	// Name returns the type's display name, embedded in error messages.
	Name() string

	// FormatValue converts a canonical value to the target representation.
	// nil formats to nil for every target kind.
	FormatValue(v any, target Kind) (any, error)

	// ParseValue converts external input to the canonical representation.
	// nil and the empty string parse to nil. The result is not
	// range-validated; validation is a separate explicit step.
	ParseValue(raw any, source Kind) (any, error)

	// ValidateValue checks a canonical value against the type's
	// constraints (nullability, bounds, scale, length).
	ValidateValue(v any) error

	// SetConstraints reconfigures the runtime-changeable constraints.
	// Bounds fixed at construction are not affected.
	SetConstraints(c Constraints)

	// SetFormatOptions stores formatting options and discards the
	// cached formatter so the next conversion rebuilds it.
	SetFormatOptions(o FormatOptions)

	// HandleLocaleChange discards the cached locale-bound formatter.
	// The hosting environment calls this on locale switches.
	HandleLocaleChange()
}

// Constraints carries the runtime-configurable constraints of a type.
// Pointer fields distinguish "explicitly set" from "absent": nullable
// becomes false only when explicitly set to false.
type Constraints struct {
	Nullable *bool `json:"nullable,omitempty"`
}

// NullableOrDefault resolves the nullable flag: absent means true.
func (c Constraints) NullableOrDefault() bool {
	return c.Nullable == nil || *c.Nullable
}

// FormatOptions tunes the formatter an adapter builds. Grouping toggles
// locale grouping separators; Pattern is accepted for callers that pass
// one but not interpreted. Setting options resets the cached formatter.
type FormatOptions struct {
	Grouping *bool  `json:"grouping,omitempty"`
	Pattern  string `json:"pattern,omitempty"`
}

// --- numeric coercion helpers shared by the adapters ---

// toFloat64 coerces any numeric runtime kind to float64.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case decimal.Decimal:
		f, _ := n.Float64()
		return f, true
	}
	return 0, false
}

// isIntegral reports whether f is a finite whole number.
func isIntegral(f float64) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	return math.Floor(f) == f
}
