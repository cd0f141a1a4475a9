package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pageza/nutritrack/backend/internal/storage"
)

// loadDocument decodes the JSON document stored under key into v. A missing
// key leaves v untouched.
func loadDocument(ctx context.Context, store storage.Store, key string, v any) error {
	data, err := store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: corrupt %s document: %v", ErrStorageUnavailable, key, err)
	}
	return nil
}

func saveDocument(ctx context.Context, store storage.Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrStorageUnavailable, key, err)
	}
	if err := store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func deleteDocument(ctx context.Context, store storage.Store, key string) error {
	if err := store.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}
