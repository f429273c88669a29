package typedef

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"

	"metatype/internal/core/apperror"
	"metatype/internal/core/id"
	"metatype/internal/core/locale"
	"metatype/internal/core/types"
	"metatype/internal/metadata"
	"metatype/pkg/logger"
)

var tracer = otel.Tracer("metatype/typedef")

// Service provides business logic for the TypeDef catalog and the
// value operations (format, parse, validate) backed by the registry.
type Service struct {
	repo     Repository
	registry *metadata.Registry
	env      *locale.Environment
}

// NewService creates a new TypeDef service.
func NewService(repo Repository, registry *metadata.Registry, env *locale.Environment) *Service {
	if env == nil {
		env = locale.Default()
	}
	return &Service{repo: repo, registry: registry, env: env}
}

// LoadAll reads every stored definition and registers it. Called at
// startup after the registry is built with the built-in types.
func (s *Service) LoadAll(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "typedef.loadAll")
	defer span.End()

	defs, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	for _, def := range defs {
		if err := s.registry.Register(def.Definition()); err != nil {
			logger.Warn(ctx, "skipping stored type definition",
				"type", def.Name, "error", err)
			continue
		}
	}
	logger.Info(ctx, "type definitions loaded", "count", len(defs))
	return nil
}

// Create validates, stores and registers a new type definition.
func (s *Service) Create(ctx context.Context, def *TypeDef) error {
	ctx, span := tracer.Start(ctx, "typedef.create",
		trace.WithAttributes(attribute.String("type.name", def.Name)))
	defer span.End()

	if err := def.Validate(ctx); err != nil {
		return err
	}
	if s.registry.IsBuiltin(def.Name) {
		return apperror.NewBuiltinImmutable(def.Name)
	}

	if id.IsNil(def.ID) {
		def.BaseEntity = NewTypeDef(def.Name, def.Base).BaseEntity
	}
	if err := s.repo.Create(ctx, def); err != nil {
		return err
	}
	if err := s.registry.Register(def.Definition()); err != nil {
		return err
	}
	logger.Info(ctx, "type definition created", "type", def.Name)
	return nil
}

// Update validates and saves an existing definition, then re-registers
// the adapter so new constraints take effect immediately.
func (s *Service) Update(ctx context.Context, def *TypeDef) error {
	ctx, span := tracer.Start(ctx, "typedef.update",
		trace.WithAttributes(attribute.String("type.name", def.Name)))
	defer span.End()

	if err := def.Validate(ctx); err != nil {
		return err
	}
	if s.registry.IsBuiltin(def.Name) {
		return apperror.NewBuiltinImmutable(def.Name)
	}

	if err := s.repo.Update(ctx, def); err != nil {
		return err
	}
	if err := s.registry.Register(def.Definition()); err != nil {
		return err
	}
	logger.Info(ctx, "type definition updated", "type", def.Name, "version", def.Version)
	return nil
}

// Delete removes a definition by name and unregisters its adapter.
func (s *Service) Delete(ctx context.Context, name string) error {
	ctx, span := tracer.Start(ctx, "typedef.delete",
		trace.WithAttributes(attribute.String("type.name", name)))
	defer span.End()

	if s.registry.IsBuiltin(name) {
		return apperror.NewBuiltinImmutable(name)
	}

	def, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, def.ID); err != nil {
		return err
	}
	if err := s.registry.Unregister(name); err != nil && !apperror.IsNotFound(err) {
		return err
	}
	logger.Info(ctx, "type definition deleted", "type", name)
	return nil
}

// Get retrieves a stored definition by name.
func (s *Service) Get(ctx context.Context, name string) (*TypeDef, error) {
	return s.repo.FindByName(ctx, name)
}

// List returns all stored definitions.
func (s *Service) List(ctx context.Context) ([]*TypeDef, error) {
	return s.repo.List(ctx)
}

// Registered returns every registered definition, built-ins included.
func (s *Service) Registered() []metadata.Definition {
	return s.registry.List()
}

// FormatValue formats a model value of the named type for output.
func (s *Service) FormatValue(ctx context.Context, typeName string, value any, target types.Kind) (any, error) {
	_, span := tracer.Start(ctx, "typedef.format",
		trace.WithAttributes(attribute.String("type.name", typeName)))
	defer span.End()

	typ, ok := s.registry.Get(typeName)
	if !ok {
		return nil, apperror.NewNotFound("type", typeName)
	}
	return typ.FormatValue(value, target)
}

// ParseValue converts external input of the named type to a model value.
func (s *Service) ParseValue(ctx context.Context, typeName string, raw any, source types.Kind) (any, error) {
	_, span := tracer.Start(ctx, "typedef.parse",
		trace.WithAttributes(attribute.String("type.name", typeName)))
	defer span.End()

	typ, ok := s.registry.Get(typeName)
	if !ok {
		return nil, apperror.NewNotFound("type", typeName)
	}
	return typ.ParseValue(raw, source)
}

// ValidateValue checks a model value against the named type's constraints.
func (s *Service) ValidateValue(ctx context.Context, typeName string, value any) error {
	_, span := tracer.Start(ctx, "typedef.validate",
		trace.WithAttributes(attribute.String("type.name", typeName)))
	defer span.End()

	typ, ok := s.registry.Get(typeName)
	if !ok {
		return apperror.NewNotFound("type", typeName)
	}
	return typ.ValidateValue(value)
}

// SetLocale switches the process locale. Every registered adapter drops
// its cached formatter through the environment subscription.
func (s *Service) SetLocale(ctx context.Context, tag string) error {
	_, span := tracer.Start(ctx, "typedef.setLocale",
		trace.WithAttributes(attribute.String("locale", tag)))
	defer span.End()

	parsed, err := language.Parse(tag)
	if err != nil {
		return apperror.NewValidation("invalid locale tag").
			WithDetail("locale", tag).
			WithCause(err)
	}
	s.env.SetTag(parsed)
	logger.Info(ctx, "locale changed", "locale", parsed.String())
	return nil
}
