package typedef

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"metatype/internal/core/apperror"
	"metatype/internal/core/id"
	"metatype/internal/core/locale"
	"metatype/internal/core/types"
	"metatype/internal/metadata"
)

// mockRepo is an in-memory Repository.
type mockRepo struct {
	byID   map[id.ID]*TypeDef
	byName map[string]*TypeDef
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		byID:   make(map[id.ID]*TypeDef),
		byName: make(map[string]*TypeDef),
	}
}

func (m *mockRepo) Create(_ context.Context, def *TypeDef) error {
	if _, ok := m.byName[def.Name]; ok {
		return apperror.NewDuplicate("type", "name", def.Name)
	}
	m.byID[def.ID] = def
	m.byName[def.Name] = def
	return nil
}

func (m *mockRepo) Update(_ context.Context, def *TypeDef) error {
	stored, ok := m.byID[def.ID]
	if !ok {
		return apperror.NewNotFound("type", def.ID)
	}
	if stored.Version != def.Version {
		return apperror.NewConcurrentModification("type", def.ID)
	}
	def.Touch()
	m.byID[def.ID] = def
	m.byName[def.Name] = def
	return nil
}

func (m *mockRepo) Get(_ context.Context, defID id.ID) (*TypeDef, error) {
	def, ok := m.byID[defID]
	if !ok {
		return nil, apperror.NewNotFound("type", defID)
	}
	return def, nil
}

func (m *mockRepo) FindByName(_ context.Context, name string) (*TypeDef, error) {
	def, ok := m.byName[name]
	if !ok {
		return nil, apperror.NewNotFound("type", name)
	}
	return def, nil
}

func (m *mockRepo) List(_ context.Context) ([]*TypeDef, error) {
	list := make([]*TypeDef, 0, len(m.byID))
	for _, def := range m.byID {
		list = append(list, def)
	}
	return list, nil
}

func (m *mockRepo) Delete(_ context.Context, defID id.ID) error {
	def, ok := m.byID[defID]
	if !ok {
		return apperror.NewNotFound("type", defID)
	}
	delete(m.byID, defID)
	delete(m.byName, def.Name)
	return nil
}

func newTestService(t *testing.T) (*Service, *mockRepo, *locale.Environment) {
	t.Helper()
	env := locale.New(language.English)
	registry := metadata.NewRegistry(env)
	repo := newMockRepo()
	return NewService(repo, registry, env), repo, env
}

func int64Ptr(v int64) *int64 { return &v }

func TestService_CreateAndUse(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	def := NewTypeDef("Percentage", metadata.KindInt32)
	def.Minimum = int64Ptr(0)
	def.Maximum = int64Ptr(100)
	require.NoError(t, svc.Create(ctx, def))

	// The adapter is live right after Create.
	require.NoError(t, svc.ValidateValue(ctx, "Percentage", int64(50)))

	err := svc.ValidateValue(ctx, "Percentage", int64(101))
	require.Error(t, err)
	ae, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, ae.Code)

	out, err := svc.FormatValue(ctx, "Percentage", int64(42), types.KindString)
	require.NoError(t, err)
	assert.Equal(t, "42", out)
}

func TestService_CreateRejectsInvalidDefinition(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	def := NewTypeDef("Broken", metadata.KindInt32)
	def.Minimum = int64Ptr(10)
	def.Maximum = int64Ptr(5)
	err := svc.Create(ctx, def)
	require.Error(t, err)
	assert.Empty(t, repo.byName)
}

func TestService_BuiltinNamesImmutable(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	err := svc.Create(ctx, NewTypeDef("Int32", metadata.KindInt32))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeBuiltinType))

	err = svc.Delete(ctx, "Int64")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeBuiltinType))
}

func TestService_UpdateReplacesAdapter(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	def := NewTypeDef("Score", metadata.KindInt16)
	def.Maximum = int64Ptr(10)
	require.NoError(t, svc.Create(ctx, def))
	require.Error(t, svc.ValidateValue(ctx, "Score", int64(11)))

	def.Maximum = int64Ptr(20)
	require.NoError(t, svc.Update(ctx, def))
	require.NoError(t, svc.ValidateValue(ctx, "Score", int64(11)))
}

func TestService_DeleteUnregisters(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, NewTypeDef("Temp", metadata.KindInt32)))
	require.NoError(t, svc.Delete(ctx, "Temp"))

	err := svc.ValidateValue(ctx, "Temp", int64(1))
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_LoadAll(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	stored := NewTypeDef("Rating", metadata.KindSByte)
	stored.Minimum = int64Ptr(1)
	stored.Maximum = int64Ptr(5)
	require.NoError(t, repo.Create(ctx, stored))

	require.NoError(t, svc.LoadAll(ctx))
	require.NoError(t, svc.ValidateValue(ctx, "Rating", int64(5)))
	require.Error(t, svc.ValidateValue(ctx, "Rating", int64(6)))
}

func TestService_SetLocale(t *testing.T) {
	svc, _, env := newTestService(t)
	ctx := context.Background()

	out, err := svc.FormatValue(ctx, "Int32", int64(1234567), types.KindString)
	require.NoError(t, err)
	assert.Equal(t, "1,234,567", out)

	require.NoError(t, svc.SetLocale(ctx, "de"))
	assert.Equal(t, language.German, env.Tag())

	out, err = svc.FormatValue(ctx, "Int32", int64(1234567), types.KindString)
	require.NoError(t, err)
	assert.Equal(t, "1.234.567", out)

	err = svc.SetLocale(ctx, "not a tag")
	require.Error(t, err)
}

func TestService_UnknownType(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.ParseValue(ctx, "Nope", "1", types.KindString)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
