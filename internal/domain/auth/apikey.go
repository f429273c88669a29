package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	appctx "metatype/internal/core/context"
)

// ServiceAccount is a trusted machine caller identified by a bcrypt
// hash of its API key.
type ServiceAccount struct {
	Name    string
	KeyHash string
	Roles   []string
}

// APIKeyService verifies service account keys against stored hashes.
type APIKeyService struct {
	accounts map[string]ServiceAccount
}

// NewAPIKeyService creates an API key verifier from the given accounts.
func NewAPIKeyService(accounts []ServiceAccount) *APIKeyService {
	byName := make(map[string]ServiceAccount, len(accounts))
	for _, acc := range accounts {
		byName[acc.Name] = acc
	}
	return &APIKeyService{accounts: byName}
}

// HashKey produces a bcrypt hash for a new API key.
func HashKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash key: %w", err)
	}
	return string(hash), nil
}

// ValidateKey checks the key for the named account and returns caller
// context on success.
func (s *APIKeyService) ValidateKey(client, key string) (*appctx.CallerContext, error) {
	acc, ok := s.accounts[client]
	if !ok {
		// Compare against a dummy hash so unknown and known accounts
		// take the same time.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(key))
		return nil, fmt.Errorf("unknown api client")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.KeyHash), []byte(key)); err != nil {
		return nil, fmt.Errorf("key mismatch: %w", err)
	}

	return &appctx.CallerContext{
		Subject:   acc.Name,
		Roles:     acc.Roles,
		IsService: true,
	}, nil
}

// dummyHash is a valid bcrypt hash of an unguessable value, used to
// equalize timing for unknown clients.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")
