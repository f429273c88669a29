package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	token, expiresAt, err := svc.GenerateAccessToken("alice", []string{"admin"})
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	caller, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", caller.Subject)
	assert.Equal(t, []string{"admin"}, caller.Roles)
	assert.False(t, caller.IsService)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("secret-a"))
	verifier := NewJWTService(DefaultJWTConfig("secret-b"))

	token, _, err := issuer.GenerateAccessToken("alice", nil)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
}

func TestJWTService_RejectsExpired(t *testing.T) {
	cfg := DefaultJWTConfig("test-secret")
	cfg.AccessTokenTTL = -time.Minute
	svc := NewJWTService(cfg)

	token, _, err := svc.GenerateAccessToken("alice", nil)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
}

func TestAPIKeyService_ValidateKey(t *testing.T) {
	hash, err := HashKey("s3cret")
	require.NoError(t, err)

	svc := NewAPIKeyService([]ServiceAccount{
		{Name: "importer", KeyHash: hash, Roles: []string{"writer"}},
	})

	caller, err := svc.ValidateKey("importer", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "importer", caller.Subject)
	assert.True(t, caller.IsService)

	_, err = svc.ValidateKey("importer", "wrong")
	require.Error(t, err)

	_, err = svc.ValidateKey("nobody", "s3cret")
	require.Error(t, err)
}
