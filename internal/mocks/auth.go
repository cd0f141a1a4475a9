package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/nutritrack/backend/internal/models"
	"github.com/pageza/nutritrack/backend/internal/service"
	"github.com/pageza/nutritrack/backend/internal/types"
)

// MockIdentityService is a mock implementation of service.IIdentityService
type MockIdentityService struct {
	mock.Mock
}

func (m *MockIdentityService) Register(ctx context.Context, email, secret string) (*models.Account, error) {
	args := m.Called(ctx, email, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockIdentityService) Login(ctx context.Context, email, secret string) (*service.Session, error) {
	args := m.Called(ctx, email, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockIdentityService) Logout(ctx context.Context, session *service.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockIdentityService) Restore(ctx context.Context) (*service.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockIdentityService) SessionFor(ctx context.Context, accountID string) (*service.Session, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

// MockTokenService is a mock implementation of service.ITokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateToken(session *service.Session) (string, error) {
	args := m.Called(session)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}

func (m *MockTokenService) RevokeToken(ctx context.Context, claims *types.TokenClaims) error {
	args := m.Called(ctx, claims)
	return args.Error(0)
}

var (
	_ service.IIdentityService = (*MockIdentityService)(nil)
	_ service.ITokenService    = (*MockTokenService)(nil)
)
