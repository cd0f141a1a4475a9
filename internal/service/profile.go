package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/nutritrack/backend/internal/logging"
	"github.com/pageza/nutritrack/backend/internal/models"
)

// ProfileStore attaches body metrics to the logged-in account.
type ProfileStore struct {
	identity *IdentityStore
	log      *zap.Logger
	now      func() time.Time
}

// NewProfileStore creates a new ProfileStore instance
func NewProfileStore(identity *IdentityStore, log *zap.Logger) *ProfileStore {
	return &ProfileStore{
		identity: identity,
		log:      logging.OrNop(log),
		now:      identity.now,
	}
}

// SaveProfile replaces the account's profile. BMI is always recomputed from
// height and weight; any BMI on the input is ignored.
func (s *ProfileStore) SaveProfile(ctx context.Context, session *Session, input models.Profile) (*models.Profile, error) {
	if !session.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	if input.Height <= 0 || input.Weight <= 0 {
		return nil, ErrInvalidProfile
	}

	profile := input
	profile.BMI = CalculateBMI(input.Height, input.Weight)
	now := s.now()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	if existing := s.GetProfile(session); existing != nil && !existing.CreatedAt.IsZero() {
		profile.CreatedAt = existing.CreatedAt
	}

	if err := s.identity.setProfile(ctx, session, &profile); err != nil {
		return nil, err
	}

	s.log.Info("profile saved",
		zap.String("account_id", session.AccountID()),
		zap.Float64("bmi", profile.BMI))
	return &profile, nil
}

// GetProfile returns the session account's profile, or nil.
func (s *ProfileStore) GetProfile(session *Session) *models.Profile {
	account := session.Account()
	if account == nil {
		return nil
	}
	return account.Profile
}
