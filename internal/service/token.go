package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pageza/nutritrack/backend/internal/models"
	"github.com/pageza/nutritrack/backend/internal/storage"
	"github.com/pageza/nutritrack/backend/internal/types"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenService issues and verifies HS256 session tokens for the HTTP API.
type TokenService struct {
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
	revoked RevocationList
}

type TokenOption func(*TokenService)

// WithRevocationList sets where logged-out tokens are remembered. The default
// list lives in process memory.
func WithRevocationList(list RevocationList) TokenOption {
	return func(s *TokenService) { s.revoked = list }
}

// NewTokenService creates a new TokenService instance
func NewTokenService(secret string, ttl time.Duration, opts ...TokenOption) *TokenService {
	s := &TokenService{
		secret:  []byte(secret),
		ttl:     ttl,
		now:     time.Now,
		revoked: NewStoreRevocationList(storage.NewMemoryStore()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateToken signs a token for the session's account.
func (s *TokenService) GenerateToken(session *Session) (string, error) {
	account := session.Account()
	if account == nil {
		return "", ErrNotAuthenticated
	}
	return s.sign(*account)
}

func (s *TokenService) sign(account models.Account) (string, error) {
	now := s.now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: account.ID,
		Email:  account.Email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken verifies the signature and expiry of a token and rejects
// tokens revoked by RevokeToken.
func (s *TokenService) ValidateToken(ctx context.Context, tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("%w: revoked", ErrInvalidToken)
	}
	return claims, nil
}

// RevokeToken invalidates a token until it would have expired anyway.
func (s *TokenService) RevokeToken(ctx context.Context, claims *types.TokenClaims) error {
	if claims == nil || claims.ID == "" {
		return ErrInvalidToken
	}
	expiresAt := s.now().Add(s.ttl)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return s.revoked.Revoke(ctx, claims.ID, expiresAt)
}
