// Package typedef provides the TypeDef catalog: tenant-defined named
// data types built on top of the built-in scalar kinds.
package typedef

import (
	"context"
	"regexp"

	"metatype/internal/core/apperror"
	"metatype/internal/core/entity"
	"metatype/internal/core/rule"
	"metatype/internal/metadata"
)

// nameRe restricts type names to identifier-like tokens.
var nameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,63}$`)

// TypeDef represents a stored type definition.
type TypeDef struct {
	entity.BaseEntity

	// Name is the unique registry key (e.g., "Percentage")
	Name string `db:"name" json:"name"`

	// Label is a human-readable caption
	Label string `db:"label" json:"label,omitempty"`

	// Base is the built-in kind the type refines
	Base metadata.FieldKind `db:"base" json:"base"`

	// Nullable overrides the default (true) when set
	Nullable *bool `db:"nullable" json:"nullable,omitempty"`

	// Minimum/Maximum narrow integer base kind bounds
	Minimum *int64 `db:"minimum" json:"minimum,omitempty"`
	Maximum *int64 `db:"maximum" json:"maximum,omitempty"`

	// Precision/Scale apply to the decimal base kind
	Precision *int32 `db:"precision" json:"precision,omitempty"`
	Scale     *int32 `db:"scale" json:"scale,omitempty"`

	// MaxLength applies to the string base kind (0 = unlimited)
	MaxLength int `db:"max_length" json:"maxLength,omitempty"`

	// Rule is an optional CEL refinement expression over "value"
	Rule string `db:"rule" json:"rule,omitempty"`
}

// NewTypeDef creates a new TypeDef with required fields.
func NewTypeDef(name string, base metadata.FieldKind) *TypeDef {
	return &TypeDef{
		BaseEntity: entity.NewBaseEntity(),
		Name:       name,
		Base:       base,
	}
}

// Definition converts the stored entity to a registry definition.
func (t *TypeDef) Definition() metadata.Definition {
	return metadata.Definition{
		Name:      t.Name,
		Label:     t.Label,
		Base:      t.Base,
		Nullable:  t.Nullable,
		Minimum:   t.Minimum,
		Maximum:   t.Maximum,
		Precision: t.Precision,
		Scale:     t.Scale,
		MaxLength: t.MaxLength,
		Rule:      t.Rule,
	}
}

// Validate implements entity.Validatable interface.
func (t *TypeDef) Validate(ctx context.Context) error {
	if !nameRe.MatchString(t.Name) {
		return apperror.NewValidation("type name must be an identifier").
			WithDetail("field", "name").
			WithDetail("value", t.Name)
	}

	if !t.Base.Valid() {
		return apperror.NewValidation("unknown base kind").
			WithDetail("field", "base").
			WithDetail("value", string(t.Base))
	}

	if t.Minimum != nil && t.Maximum != nil && *t.Minimum > *t.Maximum {
		return apperror.NewValidation("minimum exceeds maximum").
			WithDetail("minimum", *t.Minimum).
			WithDetail("maximum", *t.Maximum)
	}

	switch t.Base {
	case metadata.KindDecimal:
		if t.Precision != nil && *t.Precision <= 0 {
			return apperror.NewValidation("precision must be positive").
				WithDetail("field", "precision")
		}
		if t.Scale != nil && *t.Scale < 0 {
			return apperror.NewValidation("scale must not be negative").
				WithDetail("field", "scale")
		}
		if t.Precision != nil && t.Scale != nil && *t.Scale > *t.Precision {
			return apperror.NewValidation("scale exceeds precision").
				WithDetail("precision", *t.Precision).
				WithDetail("scale", *t.Scale)
		}
	case metadata.KindString:
		if t.MaxLength < 0 {
			return apperror.NewValidation("maxLength must not be negative").
				WithDetail("field", "maxLength")
		}
	}

	if t.Rule != "" {
		if _, err := rule.Compile(t.Rule); err != nil {
			return apperror.NewValidation("invalid refinement rule").
				WithDetail("field", "rule").
				WithCause(err)
		}
	}

	return nil
}
