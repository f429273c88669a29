package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metatype/internal/domain/typedef"
	"metatype/internal/metadata"
)

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[typedef.TypeDef]()

	// Embedded BaseEntity columns come first.
	assert.Contains(t, cols, "id")
	assert.Contains(t, cols, "version")
	assert.Contains(t, cols, "deletion_mark")
	assert.Contains(t, cols, "name")
	assert.Contains(t, cols, "base")
	assert.Contains(t, cols, "rule")
	assert.NotContains(t, cols, "")
}

func TestStructToMap(t *testing.T) {
	def := typedef.NewTypeDef("Percentage", metadata.KindInt32)
	minVal := int64(0)
	def.Minimum = &minVal

	data := StructToMap(def)
	require.NotEmpty(t, data)

	assert.Equal(t, "Percentage", data["name"])
	assert.Equal(t, metadata.KindInt32, data["base"])
	assert.Equal(t, def.ID, data["id"])
	assert.Equal(t, 1, data["version"])
	assert.Equal(t, &minVal, data["minimum"])
}
