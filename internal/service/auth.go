package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/nutritrack/backend/internal/logging"
	"github.com/pageza/nutritrack/backend/internal/models"
	"github.com/pageza/nutritrack/backend/internal/storage"
)

// IdentityStore owns the registered accounts ("users") and, for local
// clients, the persisted logged-in account ("currentUser").
//
// Writes to "users" are a whole-document read-modify-write serialized by an
// in-process mutex. Two processes sharing a backend can still lose updates.
type IdentityStore struct {
	store          storage.Store
	log            *zap.Logger
	now            func() time.Time
	bcryptCost     int
	persistSession bool

	mu sync.Mutex
}

// IdentityOption configures an IdentityStore.
type IdentityOption func(*IdentityStore)

// WithSessionPersistence mirrors the logged-in account under "currentUser" so
// that Restore can pick it up on the next start. Used by the local client.
func WithSessionPersistence() IdentityOption {
	return func(s *IdentityStore) { s.persistSession = true }
}

// WithBcryptCost overrides bcrypt.DefaultCost.
func WithBcryptCost(cost int) IdentityOption {
	return func(s *IdentityStore) { s.bcryptCost = cost }
}

// WithIdentityClock overrides time.Now.
func WithIdentityClock(now func() time.Time) IdentityOption {
	return func(s *IdentityStore) { s.now = now }
}

// NewIdentityStore creates a new IdentityStore instance
func NewIdentityStore(store storage.Store, log *zap.Logger, opts ...IdentityOption) *IdentityStore {
	s := &IdentityStore{
		store:      store,
		log:        logging.OrNop(log),
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account. Emails are compared with exact string
// equality.
func (s *IdentityStore) Register(ctx context.Context, email, secret string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email == email {
			return nil, ErrDuplicateEmail
		}
	}

	if len(secret) > MaxSecretBytes {
		return nil, ErrInvalidSecret
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}

	account := models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	users = append(users, account)
	if err := saveDocument(ctx, s.store, storage.KeyUsers, users); err != nil {
		return nil, err
	}

	s.log.Info("account registered", zap.String("account_id", account.ID))
	out := account.Sanitized()
	return &out, nil
}

// Login checks the credential against the persisted accounts and returns a
// new session. A failed login has no side effects.
func (s *IdentityStore) Login(ctx context.Context, email, secret string) (*Session, error) {
	s.mu.Lock()
	users, err := s.loadUsers(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if u.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(secret)) != nil {
			break
		}
		session := NewSession(u)
		if err := s.persistCurrent(ctx, session); err != nil {
			return nil, err
		}
		s.log.Info("account logged in", zap.String("account_id", u.ID))
		return session, nil
	}

	s.log.Debug("login rejected")
	return nil, ErrInvalidCredentials
}

// Logout clears the session and its persisted copy.
func (s *IdentityStore) Logout(ctx context.Context, session *Session) error {
	if session != nil {
		s.log.Info("account logged out", zap.String("account_id", session.AccountID()))
		session.clear()
	}
	if !s.persistSession {
		return nil
	}
	return deleteDocument(ctx, s.store, storage.KeyCurrentUser)
}

// Restore returns the persisted session, or nil when nobody is logged in or
// session persistence is disabled.
func (s *IdentityStore) Restore(ctx context.Context) (*Session, error) {
	if !s.persistSession {
		return nil, nil
	}
	var account models.Account
	if err := loadDocument(ctx, s.store, storage.KeyCurrentUser, &account); err != nil {
		return nil, err
	}
	if account.ID == "" {
		return nil, nil
	}
	return NewSession(account), nil
}

// SessionFor builds a session for an account id taken from a verified token.
func (s *IdentityStore) SessionFor(ctx context.Context, accountID string) (*Session, error) {
	s.mu.Lock()
	users, err := s.loadUsers(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == accountID {
			return NewSession(u), nil
		}
	}
	return nil, ErrNotAuthenticated
}

// setProfile replaces the embedded profile of an account and refreshes the
// session and its persisted copy.
func (s *IdentityStore) setProfile(ctx context.Context, session *Session, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return err
	}

	idx := -1
	for i := range users {
		if users[i].ID == session.AccountID() {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNotAuthenticated
	}

	cp := *profile
	users[idx].Profile = &cp
	if err := saveDocument(ctx, s.store, storage.KeyUsers, users); err != nil {
		return err
	}

	session.setProfile(profile)
	return s.persistCurrent(ctx, session)
}

func (s *IdentityStore) persistCurrent(ctx context.Context, session *Session) error {
	if !s.persistSession {
		return nil
	}
	return saveDocument(ctx, s.store, storage.KeyCurrentUser, session.account)
}

func (s *IdentityStore) loadUsers(ctx context.Context) ([]models.Account, error) {
	var users []models.Account
	if err := loadDocument(ctx, s.store, storage.KeyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}
