package typedef

import (
	"context"

	"metatype/internal/core/id"
)

// Repository defines the interface for TypeDef persistence.
type Repository interface {
	// Create inserts a new definition.
	Create(ctx context.Context, def *TypeDef) error

	// Update saves changes with optimistic locking on Version.
	Update(ctx context.Context, def *TypeDef) error

	// Get retrieves a definition by ID.
	Get(ctx context.Context, id id.ID) (*TypeDef, error)

	// FindByName retrieves a definition by its unique name.
	FindByName(ctx context.Context, name string) (*TypeDef, error)

	// List returns all definitions ordered by name.
	List(ctx context.Context) ([]*TypeDef, error)

	// Delete removes a definition by ID.
	Delete(ctx context.Context, id id.ID) error
}
