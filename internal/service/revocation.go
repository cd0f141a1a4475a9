package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/nutritrack/backend/internal/storage"
)

// RevocationList remembers logged-out token ids until the tokens expire.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// StoreRevocationList keeps revoked token ids in the "revokedTokens" document
// of a Store. Expired ids are pruned on every revocation.
type StoreRevocationList struct {
	store storage.Store
	now   func() time.Time
	mu    sync.Mutex
}

func NewStoreRevocationList(store storage.Store) *StoreRevocationList {
	return &StoreRevocationList{store: store, now: time.Now}
}

func (l *StoreRevocationList) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	revoked := map[string]time.Time{}
	if err := loadDocument(ctx, l.store, storage.KeyRevokedTokens, &revoked); err != nil {
		return err
	}
	now := l.now()
	for id, exp := range revoked {
		if !exp.After(now) {
			delete(revoked, id)
		}
	}
	if expiresAt.After(now) {
		revoked[tokenID] = expiresAt
	}
	return saveDocument(ctx, l.store, storage.KeyRevokedTokens, revoked)
}

func (l *StoreRevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	revoked := map[string]time.Time{}
	if err := loadDocument(ctx, l.store, storage.KeyRevokedTokens, &revoked); err != nil {
		return false, err
	}
	_, ok := revoked[tokenID]
	return ok, nil
}

// RedisRevocationList stores one key per revoked token, expiring with it.
type RedisRevocationList struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisRevocationList(client *redis.Client, prefix string) *RedisRevocationList {
	return &RedisRevocationList{client: client, prefix: prefix, now: time.Now}
}

func (l *RedisRevocationList) key(tokenID string) string {
	return fmt.Sprintf("%s:revoked_token:%s", l.prefix, tokenID)
}

func (l *RedisRevocationList) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(l.now())
	if ttl <= 0 {
		return nil
	}
	if err := l.client.Set(ctx, l.key(tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (l *RedisRevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := l.client.Exists(ctx, l.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return n > 0, nil
}
