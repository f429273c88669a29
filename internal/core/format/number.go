// Package format provides locale-aware number formatting and parsing.
// It is the formatting collaborator of the model type adapters: types
// delegate display-string conversion here and cache the instances.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Options tunes a number format instance.
type Options struct {
	// Grouping enables locale grouping separators in output ("1,234,567").
	Grouping bool
}

// DefaultOptions returns the options used by model types: grouping on.
func DefaultOptions() Options {
	return Options{Grouping: true}
}

// IntegerFormat formats and parses whole numbers for one locale.
// Instances are locale-bound and immutable; rebuild on locale change.
type IntegerFormat struct {
	grouping bool
	groupSep string
	decSep   string
}

// NewIntegerFormat creates an integer format for the given language tag.
func NewIntegerFormat(tag language.Tag, opts Options) *IntegerFormat {
	group, dec := separators(message.NewPrinter(tag))
	return &IntegerFormat{
		grouping: opts.Grouping,
		groupSep: group,
		decSep:   dec,
	}
}

// Format renders v in ASCII digits with the locale's grouping separator
// between uniform three-digit groups. Every string Format produces is
// accepted by Parse, including for locales whose native rendering uses
// other digit systems or group sizes.
func (f *IntegerFormat) Format(v int64) string {
	s := strconv.FormatInt(v, 10)
	if !f.grouping || f.groupSep == "" {
		return s
	}
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = groupDigits(s, f.groupSep)
	if neg {
		return "-" + s
	}
	return s
}

// Parse converts a locale-formatted string back to an integer.
// Grouping separators must sit at valid group boundaries; any
// fractional part makes the input invalid for an integer format.
func (f *IntegerFormat) Parse(s string) (int64, error) {
	normalized, err := normalize(s, f.groupSep, f.decSep)
	if err != nil {
		return 0, err
	}
	if strings.Contains(normalized, ".") {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	v, err := strconv.ParseInt(normalized, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse integer %q: %w", s, err)
	}
	return v, nil
}

// DecimalFormat formats and parses arbitrary-precision decimals for one
// locale. Formatting is done on the decimal string representation so no
// precision is lost through float conversion.
type DecimalFormat struct {
	grouping bool
	groupSep string
	decSep   string
}

// NewDecimalFormat creates a decimal format for the given language tag.
func NewDecimalFormat(tag language.Tag, opts Options) *DecimalFormat {
	group, dec := separators(message.NewPrinter(tag))
	return &DecimalFormat{
		grouping: opts.Grouping,
		groupSep: group,
		decSep:   dec,
	}
}

// Format renders d with locale separators, preserving its exact scale.
func (f *DecimalFormat) Format(d decimal.Decimal) string {
	s := d.String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if f.grouping && f.groupSep != "" {
		intPart = groupDigits(intPart, f.groupSep)
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(intPart)
	if hasFrac {
		b.WriteString(f.decSep)
		b.WriteString(fracPart)
	}
	return b.String()
}

// Parse converts a locale-formatted string back to a decimal.
func (f *DecimalFormat) Parse(s string) (decimal.Decimal, error) {
	normalized, err := normalize(s, f.groupSep, f.decSep)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse decimal %q: %w", s, err)
	}
	return d, nil
}

// separators probes the printer for the locale's grouping and decimal
// separators. x/text does not expose them directly, so a known value is
// formatted and inspected.
func separators(p *message.Printer) (group, dec string) {
	probe := p.Sprint(number.Decimal(12345.6,
		number.MinFractionDigits(1), number.MaxFractionDigits(1)))

	var seps []string
	for _, r := range probe {
		if !unicode.IsDigit(r) && r != '-' {
			seps = append(seps, string(r))
		}
	}
	switch len(seps) {
	case 2:
		return seps[0], seps[1]
	case 1:
		// Locale without grouping in this range: the single separator
		// is the decimal one.
		return "", seps[0]
	default:
		return ",", "."
	}
}

// groupDigits inserts sep between groups of three digits, right to left.
func groupDigits(digits, sep string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// spaceSeparators are treated as interchangeable when the locale groups
// with a space: users type a regular space, CLDR emits NBSP variants.
var spaceSeparators = []string{" ", " ", " "}

// normalize strips grouping separators (validating their positions) and
// rewrites the locale decimal separator to '.'. The result is an ASCII
// numeric string or an error.
func normalize(s, groupSep, decSep string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty number")
	}

	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign = s[:1]
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	hasFrac := false
	if decSep != "" {
		if i := strings.Index(s, decSep); i >= 0 {
			intPart = s[:i]
			fracPart = s[i+len(decSep):]
			hasFrac = true
			if strings.Contains(fracPart, decSep) {
				return "", fmt.Errorf("invalid number %q", s)
			}
		}
	}

	if groupSep != "" {
		isSpaceSep := false
		for _, sp := range spaceSeparators {
			if groupSep == sp {
				isSpaceSep = true
			}
		}
		if isSpaceSep {
			for _, sp := range spaceSeparators {
				intPart = strings.ReplaceAll(intPart, sp, " ")
			}
			groupSep = " "
		}
		if strings.Contains(intPart, groupSep) {
			chunks := strings.Split(intPart, groupSep)
			if len(chunks[0]) == 0 || len(chunks[0]) > 3 {
				return "", fmt.Errorf("misplaced grouping separator in %q", s)
			}
			for _, chunk := range chunks[1:] {
				if len(chunk) != 3 {
					return "", fmt.Errorf("misplaced grouping separator in %q", s)
				}
			}
			intPart = strings.Join(chunks, "")
		}
	}

	if intPart == "" && fracPart == "" {
		return "", fmt.Errorf("invalid number %q", s)
	}
	for _, part := range []string{intPart, fracPart} {
		for _, r := range part {
			if r < '0' || r > '9' {
				return "", fmt.Errorf("invalid number %q", s)
			}
		}
	}

	if intPart == "" {
		intPart = "0"
	}
	if hasFrac && fracPart != "" {
		return sign + intPart + "." + fracPart, nil
	}
	return sign + intPart, nil
}
