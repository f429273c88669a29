package typedef_repo

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metatype/internal/core/entity"
	"metatype/internal/core/id"
	"metatype/internal/domain/typedef"
	"metatype/internal/metadata"
)

func TestUpdateQuery(t *testing.T) {
	stale := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	def := &typedef.TypeDef{
		BaseEntity: entity.BaseEntity{
			ID:        id.New(),
			Version:   3,
			CreatedAt: stale,
			UpdatedAt: stale,
		},
		Name: "Percentage",
		Base: metadata.KindInt32,
	}

	sql, args, err := updateQuery(def, now).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "version = version + 1")
	assert.Contains(t, sql, "updated_at = $")
	assert.NotContains(t, sql, "created_at")

	// The WHERE clause must lock on the version read by the caller.
	where := sql[strings.Index(sql, "WHERE"):]
	assert.Contains(t, where, "version = $")
	assert.Contains(t, args, def.Version)

	// updated_at is stamped with the write time, not the entity's value.
	assert.Contains(t, args, now)
	assert.NotContains(t, args, stale)
}
