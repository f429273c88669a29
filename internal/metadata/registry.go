// Package metadata provides the model type registry: named type
// definitions and the adapter instances built from them. Built-in
// primitive types are registered at construction; tenant-defined types
// are added at runtime from stored definitions.
package metadata

import (
	"math"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"metatype/internal/core/apperror"
	"metatype/internal/core/locale"
	"metatype/internal/core/rule"
	"metatype/internal/core/types"
)

// FieldKind is the base kind a type definition builds on.
type FieldKind string

const (
	KindInt16   FieldKind = "int16"
	KindInt32   FieldKind = "int32"
	KindInt64   FieldKind = "int64"
	KindByte    FieldKind = "byte"
	KindSByte   FieldKind = "sbyte"
	KindDecimal FieldKind = "decimal"
	KindString  FieldKind = "string"
)

// Valid reports whether k is a known base kind.
func (k FieldKind) Valid() bool {
	switch k {
	case KindInt16, KindInt32, KindInt64, KindByte, KindSByte, KindDecimal, KindString:
		return true
	}
	return false
}

// baseBounds returns the inclusive bounds of an integer base kind.
func baseBounds(k FieldKind) (int64, int64, bool) {
	switch k {
	case KindInt16:
		return math.MinInt16, math.MaxInt16, true
	case KindInt32:
		return math.MinInt32, math.MaxInt32, true
	case KindInt64:
		return math.MinInt64, math.MaxInt64, true
	case KindByte:
		return 0, math.MaxUint8, true
	case KindSByte:
		return math.MinInt8, math.MaxInt8, true
	}
	return 0, 0, false
}

// Definition describes a named model type: a base kind plus constraints
// and an optional refinement rule.
type Definition struct {
	Name  string    `json:"name"`
	Label string    `json:"label,omitempty"`
	Base  FieldKind `json:"base"`

	Nullable  *bool  `json:"nullable,omitempty"`
	Minimum   *int64 `json:"minimum,omitempty"`
	Maximum   *int64 `json:"maximum,omitempty"`
	Precision *int32 `json:"precision,omitempty"`
	Scale     *int32 `json:"scale,omitempty"`
	MaxLength int    `json:"maxLength,omitempty"`
	Rule      string `json:"rule,omitempty"`

	// Builtin marks the primitive types registered at construction.
	Builtin bool `json:"builtin"`
}

type entry struct {
	def Definition
	typ types.Type
}

// Registry stores type adapters by name. It subscribes to the locale
// environment and fans locale changes out to every adapter so cached
// formatters are rebuilt.
type Registry struct {
	env *locale.Environment

	mu      sync.RWMutex
	entries map[string]entry
}

// NewRegistry creates a registry with the built-in primitive types
// registered, subscribed to the given locale environment. A nil env
// falls back to the process-wide environment.
func NewRegistry(env *locale.Environment) *Registry {
	if env == nil {
		env = locale.Default()
	}
	r := &Registry{env: env, entries: make(map[string]entry)}
	r.registerBuiltins()
	env.Subscribe(func(language.Tag) { r.handleLocaleChange() })
	return r
}

func (r *Registry) registerBuiltins() {
	builtins := []Definition{
		{Name: "Int16", Base: KindInt16, Builtin: true},
		{Name: "Int32", Base: KindInt32, Builtin: true},
		{Name: "Int64", Base: KindInt64, Builtin: true},
		{Name: "Byte", Base: KindByte, Builtin: true},
		{Name: "SByte", Base: KindSByte, Builtin: true},
		{Name: "Decimal", Base: KindDecimal, Builtin: true},
		{Name: "String", Base: KindString, Builtin: true},
	}
	for _, def := range builtins {
		// Builtin definitions are statically valid.
		typ, _ := r.Build(def)
		r.entries[def.Name] = entry{def: def, typ: typ}
	}
}

// Get returns the adapter registered under name.
func (r *Registry) Get(name string) (types.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return e.typ, true
}

// Definition returns the stored definition for name.
func (r *Registry) Definition(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e.def, ok
}

// IsBuiltin reports whether name is one of the built-in primitives.
func (r *Registry) IsBuiltin(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return ok && e.def.Builtin
}

// List returns all registered definitions sorted by name.
func (r *Registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Definition, 0, len(r.entries))
	for _, e := range r.entries {
		list = append(list, e.def)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Register builds an adapter from def and stores it. Built-in names
// cannot be redefined.
func (r *Registry) Register(def Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[def.Name]; ok && existing.def.Builtin {
		return apperror.NewBuiltinImmutable(def.Name)
	}

	typ, err := r.Build(def)
	if err != nil {
		return err
	}
	r.entries[def.Name] = entry{def: def, typ: typ}
	return nil
}

// Unregister removes a tenant-defined type. Built-ins stay.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if !ok {
		return apperror.NewNotFound("type", name)
	}
	if e.def.Builtin {
		return apperror.NewBuiltinImmutable(name)
	}
	delete(r.entries, name)
	return nil
}

// handleLocaleChange discards every adapter's cached formatter.
func (r *Registry) handleLocaleChange() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		e.typ.HandleLocaleChange()
	}
}

// Build constructs a type adapter from a definition. Bounds given in the
// definition narrow the base kind's own bounds.
func (r *Registry) Build(def Definition) (types.Type, error) {
	if !def.Base.Valid() {
		return nil, apperror.NewValidation("unknown base kind").
			WithDetail("base", string(def.Base)).
			WithDetail("type", def.Name)
	}

	var typ types.Type
	switch def.Base {
	case KindDecimal:
		typ = types.NewDecimal(types.DecimalConfig{
			Name:      def.Name,
			Precision: def.Precision,
			Scale:     def.Scale,
			Locale:    r.env,
		})

	case KindString:
		typ = types.NewBoundedString(types.StringConfig{
			Name:      def.Name,
			MaxLength: def.MaxLength,
		})

	default:
		minimum, maximum, _ := baseBounds(def.Base)
		if def.Minimum != nil && *def.Minimum > minimum {
			minimum = *def.Minimum
		}
		if def.Maximum != nil && *def.Maximum < maximum {
			maximum = *def.Maximum
		}
		typ = types.NewBoundedInteger(types.IntegerConfig{
			Name:    def.Name,
			Minimum: minimum,
			Maximum: maximum,
			Locale:  r.env,
		})
	}

	typ.SetConstraints(types.Constraints{Nullable: def.Nullable})

	if def.Rule != "" {
		compiled, err := rule.Compile(def.Rule)
		if err != nil {
			return nil, apperror.NewValidation("invalid refinement rule").
				WithDetail("type", def.Name).
				WithDetail("rule", def.Rule).
				WithCause(err)
		}
		typ = &ruledType{Type: typ, rule: compiled}
	}

	return typ, nil
}

// ruledType decorates an adapter with a refinement rule evaluated after
// base validation.
type ruledType struct {
	types.Type
	rule *rule.Rule
}

func (t *ruledType) ValidateValue(v any) error {
	if err := t.Type.ValidateValue(v); err != nil {
		return err
	}
	if v == nil {
		return nil
	}

	ok, err := t.rule.Eval(celValue(v))
	if err != nil {
		return apperror.NewValidateRule(t.Name(), v, t.rule.Expr()).WithCause(err)
	}
	if !ok {
		return apperror.NewValidateRule(t.Name(), v, t.rule.Expr())
	}
	return nil
}

// celValue maps canonical values to kinds CEL understands.
func celValue(v any) any {
	switch n := v.(type) {
	case decimal.Decimal:
		f, _ := n.Float64()
		return f
	case float32:
		return float64(n)
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint:
		return uint64(n)
	case uint64:
		return n
	}
	return v
}
