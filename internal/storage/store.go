// Package storage provides the key-value store that holds the persisted
// documents ("users", "currentUser", "foodEntries").
package storage

import (
	"context"
	"errors"
)

// Keys of the persisted documents.
const (
	KeyUsers       = "users"
	KeyCurrentUser = "currentUser"
	KeyFoodEntries = "foodEntries"

	// KeyRevokedTokens holds API token ids invalidated by logout.
	KeyRevokedTokens = "revokedTokens"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("storage: key not found")

// Store is a durable key-value store of JSON documents.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
