package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/nutritrack/backend/internal/service"
	"github.com/pageza/nutritrack/backend/internal/storage"
)

var fixedNow = time.Date(2024, time.March, 14, 12, 30, 0, 0, time.UTC)

type testStores struct {
	store    *storage.MemoryStore
	identity *service.IdentityStore
	profiles *service.ProfileStore
	foodLog  *service.FoodLogStore
}

func newTestStores(t *testing.T, persistSession bool) *testStores {
	t.Helper()
	store := storage.NewMemoryStore()
	opts := []service.IdentityOption{
		service.WithBcryptCost(bcrypt.MinCost),
		service.WithIdentityClock(func() time.Time { return fixedNow }),
	}
	if persistSession {
		opts = append(opts, service.WithSessionPersistence())
	}
	identity := service.NewIdentityStore(store, nil, opts...)
	return &testStores{
		store:    store,
		identity: identity,
		profiles: service.NewProfileStore(identity, nil),
		foodLog: service.NewFoodLogStore(store, nil,
			service.WithLocation(time.UTC),
			service.WithFoodLogClock(func() time.Time { return fixedNow })),
	}
}

// registerAndLogin creates an account and returns its session.
func (s *testStores) registerAndLogin(t *testing.T, email string) *service.Session {
	t.Helper()
	ctx := context.Background()
	_, err := s.identity.Register(ctx, email, "password123")
	require.NoError(t, err)
	session, err := s.identity.Login(ctx, email, "password123")
	require.NoError(t, err)
	return session
}

// failingStore simulates an unreachable backend.
type failingStore struct{}

var errBackendDown = errors.New("connection refused")

func (failingStore) Get(context.Context, string) ([]byte, error) { return nil, errBackendDown }
func (failingStore) Set(context.Context, string, []byte) error   { return errBackendDown }
func (failingStore) Delete(context.Context, string) error        { return errBackendDown }
