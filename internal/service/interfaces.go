package service

import (
	"context"
	"time"

	"github.com/pageza/nutritrack/backend/internal/models"
	"github.com/pageza/nutritrack/backend/internal/types"
)

// IIdentityService defines the interface for account and session operations
type IIdentityService interface {
	Register(ctx context.Context, email, secret string) (*models.Account, error)
	Login(ctx context.Context, email, secret string) (*Session, error)
	Logout(ctx context.Context, session *Session) error
	Restore(ctx context.Context) (*Session, error)
	SessionFor(ctx context.Context, accountID string) (*Session, error)
}

// IProfileService defines the interface for body-metric profile operations
type IProfileService interface {
	SaveProfile(ctx context.Context, session *Session, input models.Profile) (*models.Profile, error)
	GetProfile(session *Session) *models.Profile
}

// IFoodLogService defines the interface for food log operations
type IFoodLogService interface {
	SaveEntry(ctx context.Context, session *Session, entry *models.FoodEntry) error
	EntriesByUser(ctx context.Context, session *Session) ([]models.FoodEntry, error)
	EntriesByDate(ctx context.Context, session *Session, date time.Time) ([]models.FoodEntry, error)
	DailyStats(ctx context.Context, session *Session, date time.Time) (models.DailyStats, error)
	WeeklyCalories(ctx context.Context, session *Session, end time.Time) ([]models.DayCalories, error)
	StartOfDay(t time.Time) time.Time
}

// ITokenService defines the interface for session token operations
type ITokenService interface {
	GenerateToken(session *Session) (string, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	RevokeToken(ctx context.Context, claims *types.TokenClaims) error
}

var (
	_ IIdentityService = (*IdentityStore)(nil)
	_ IProfileService  = (*ProfileStore)(nil)
	_ IFoodLogService  = (*FoodLogStore)(nil)
	_ ITokenService    = (*TokenService)(nil)
)
