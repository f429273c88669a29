package dto

import (
	"time"

	"metatype/internal/domain/typedef"
	"metatype/internal/metadata"
)

// --- Request DTOs ---

// CreateTypeDefRequest is the request body for creating a type definition.
type CreateTypeDefRequest struct {
	Name      string `json:"name" binding:"required"`
	Label     string `json:"label"`
	Base      string `json:"base" binding:"required"`
	Nullable  *bool  `json:"nullable"`
	Minimum   *int64 `json:"minimum"`
	Maximum   *int64 `json:"maximum"`
	Precision *int32 `json:"precision"`
	Scale     *int32 `json:"scale"`
	MaxLength int    `json:"maxLength"`
	Rule      string `json:"rule"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateTypeDefRequest) ToEntity() *typedef.TypeDef {
	def := typedef.NewTypeDef(r.Name, metadata.FieldKind(r.Base))
	def.Label = r.Label
	def.Nullable = r.Nullable
	def.Minimum = r.Minimum
	def.Maximum = r.Maximum
	def.Precision = r.Precision
	def.Scale = r.Scale
	def.MaxLength = r.MaxLength
	def.Rule = r.Rule
	return def
}

// UpdateTypeDefRequest is the request body for updating a type definition.
type UpdateTypeDefRequest struct {
	Label     string `json:"label"`
	Base      string `json:"base" binding:"required"`
	Nullable  *bool  `json:"nullable"`
	Minimum   *int64 `json:"minimum"`
	Maximum   *int64 `json:"maximum"`
	Precision *int32 `json:"precision"`
	Scale     *int32 `json:"scale"`
	MaxLength int    `json:"maxLength"`
	Rule      string `json:"rule"`
	Version   int    `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to an existing entity.
func (r *UpdateTypeDefRequest) ApplyTo(def *typedef.TypeDef) {
	def.Label = r.Label
	def.Base = metadata.FieldKind(r.Base)
	def.Nullable = r.Nullable
	def.Minimum = r.Minimum
	def.Maximum = r.Maximum
	def.Precision = r.Precision
	def.Scale = r.Scale
	def.MaxLength = r.MaxLength
	def.Rule = r.Rule
	def.Version = r.Version
}

// --- Response DTOs ---

// TypeDefResponse is the response body for a stored type definition.
type TypeDefResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Label     string    `json:"label,omitempty"`
	Base      string    `json:"base"`
	Nullable  *bool     `json:"nullable,omitempty"`
	Minimum   *int64    `json:"minimum,omitempty"`
	Maximum   *int64    `json:"maximum,omitempty"`
	Precision *int32    `json:"precision,omitempty"`
	Scale     *int32    `json:"scale,omitempty"`
	MaxLength int       `json:"maxLength,omitempty"`
	Rule      string    `json:"rule,omitempty"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromTypeDef converts a domain entity to a response DTO.
func FromTypeDef(def *typedef.TypeDef) TypeDefResponse {
	return TypeDefResponse{
		ID:        def.ID.String(),
		Name:      def.Name,
		Label:     def.Label,
		Base:      string(def.Base),
		Nullable:  def.Nullable,
		Minimum:   def.Minimum,
		Maximum:   def.Maximum,
		Precision: def.Precision,
		Scale:     def.Scale,
		MaxLength: def.MaxLength,
		Rule:      def.Rule,
		Version:   def.Version,
		CreatedAt: def.CreatedAt,
		UpdatedAt: def.UpdatedAt,
	}
}

// RegisteredTypeResponse describes a registered type, built-ins included.
type RegisteredTypeResponse struct {
	Name      string `json:"name"`
	Label     string `json:"label,omitempty"`
	Base      string `json:"base"`
	Nullable  *bool  `json:"nullable,omitempty"`
	Minimum   *int64 `json:"minimum,omitempty"`
	Maximum   *int64 `json:"maximum,omitempty"`
	Precision *int32 `json:"precision,omitempty"`
	Scale     *int32 `json:"scale,omitempty"`
	MaxLength int    `json:"maxLength,omitempty"`
	Rule      string `json:"rule,omitempty"`
	Builtin   bool   `json:"builtin"`
}

// FromDefinition converts a registry definition to a response DTO.
func FromDefinition(def metadata.Definition) RegisteredTypeResponse {
	return RegisteredTypeResponse{
		Name:      def.Name,
		Label:     def.Label,
		Base:      string(def.Base),
		Nullable:  def.Nullable,
		Minimum:   def.Minimum,
		Maximum:   def.Maximum,
		Precision: def.Precision,
		Scale:     def.Scale,
		MaxLength: def.MaxLength,
		Rule:      def.Rule,
		Builtin:   def.Builtin,
	}
}
