// Package typedef_repo provides the PostgreSQL implementation of the
// TypeDef repository.
package typedef_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"metatype/internal/core/apperror"
	"metatype/internal/core/id"
	"metatype/internal/domain/typedef"
	"metatype/internal/infrastructure/storage/postgres"
)

const tableName = "type_defs"

// Compile-time check that Repo implements typedef.Repository.
var _ typedef.Repository = (*Repo)(nil)

// Repo persists type definitions in PostgreSQL.
type Repo struct {
	pool *postgres.Pool
	cols []string
}

// NewRepo creates a new TypeDef repository.
func NewRepo(pool *postgres.Pool) *Repo {
	return &Repo{
		pool: pool,
		cols: postgres.ExtractDBColumns[typedef.TypeDef](),
	}
}

// builder returns a squirrel builder with PostgreSQL placeholder format.
func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *Repo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(r.cols...).
		From(tableName)
}

// Create inserts a new definition.
func (r *Repo) Create(ctx context.Context, def *typedef.TypeDef) error {
	data := postgres.StructToMap(def)

	q := r.builder().
		Insert(tableName).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		// Unique violation on name (23505)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("type", "name", def.Name).WithCause(err)
		}
		return fmt.Errorf("insert %s: %w", tableName, err)
	}

	return nil
}

// Update saves changes with optimistic locking on version.
func (r *Repo) Update(ctx context.Context, def *typedef.TypeDef) error {
	now := time.Now().UTC()

	sql, args, err := updateQuery(def, now).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", tableName, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("type", def.ID.String())
	}

	def.UpdatedAt = now
	def.SetVersion(def.Version + 1)
	return nil
}

// updateQuery builds the optimistic-lock update statement. The version
// column is bumped in SQL so a concurrent writer loses the WHERE match,
// and updated_at is stamped server-side rather than taken from the
// possibly stale entity.
func updateQuery(def *typedef.TypeDef, now time.Time) squirrel.UpdateBuilder {
	data := postgres.StructToMap(def)
	delete(data, "id")
	delete(data, "version")
	delete(data, "created_at")
	data["updated_at"] = now

	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Update(tableName).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": def.ID}).
		Where(squirrel.Eq{"version": def.Version})
}

// Get retrieves a definition by ID.
func (r *Repo) Get(ctx context.Context, defID id.ID) (*typedef.TypeDef, error) {
	def := &typedef.TypeDef{}

	q := r.baseSelect().
		Where(squirrel.Eq{"id": defID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.pool, def, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("type", defID.String())
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}

	return def, nil
}

// FindByName retrieves a definition by its unique name.
func (r *Repo) FindByName(ctx context.Context, name string) (*typedef.TypeDef, error) {
	def := &typedef.TypeDef{}

	q := r.baseSelect().
		Where(squirrel.Eq{"name": name}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.pool, def, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("type", name)
		}
		return nil, fmt.Errorf("get by name: %w", err)
	}

	return def, nil
}

// List returns all definitions ordered by name.
func (r *Repo) List(ctx context.Context) ([]*typedef.TypeDef, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var defs []*typedef.TypeDef
	if err := pgxscan.Select(ctx, r.pool, &defs, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", tableName, err)
	}

	return defs, nil
}

// Delete removes a definition by ID.
func (r *Repo) Delete(ctx context.Context, defID id.ID) error {
	q := r.builder().
		Delete(tableName).
		Where(squirrel.Eq{"id": defID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", tableName, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("type", defID.String())
	}

	return nil
}
