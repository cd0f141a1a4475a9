package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/nutritrack/backend/internal/models"
	"github.com/pageza/nutritrack/backend/internal/service"
)

func sampleProfile() models.Profile {
	return models.Profile{
		Age:           30,
		Height:        180,
		Weight:        81,
		Gender:        models.GenderMale,
		ActivityLevel: models.ActivityModerate,
	}
}

func TestSaveProfile(t *testing.T) {
	stores := newTestStores(t, true)
	ctx := context.Background()
	session := stores.registerAndLogin(t, "a@example.com")

	input := sampleProfile()
	input.BMI = 99
	saved, err := stores.profiles.SaveProfile(ctx, session, input)
	require.NoError(t, err)

	assert.InDelta(t, 25.0, saved.BMI, 1e-9)
	assert.Equal(t, fixedNow, saved.CreatedAt)
	assert.Equal(t, fixedNow, saved.UpdatedAt)

	// The session, the users document and the persisted session agree
	got := stores.profiles.GetProfile(session)
	require.NotNil(t, got)
	assert.Equal(t, *saved, *got)

	users := loadUsers(t, stores.store)
	require.Len(t, users, 1)
	require.NotNil(t, users[0].Profile)
	assert.InDelta(t, 25.0, users[0].Profile.BMI, 1e-9)
	assert.NotEmpty(t, users[0].PasswordHash, "the stored credential survives a profile update")

	restored, err := stores.identity.Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, stores.profiles.GetProfile(restored))
	assert.Equal(t, 30, stores.profiles.GetProfile(restored).Age)

	// The credential still verifies after the rewrite
	_, err = stores.identity.Login(ctx, "a@example.com", "password123")
	assert.NoError(t, err)
}

func TestSaveProfileOverwriteKeepsCreatedAt(t *testing.T) {
	store := newTestStores(t, false)
	ctx := context.Background()
	session := store.registerAndLogin(t, "a@example.com")

	first, err := store.profiles.SaveProfile(ctx, session, sampleProfile())
	require.NoError(t, err)

	later := fixedNow.Add(48 * time.Hour)
	profiles := service.NewProfileStore(service.NewIdentityStore(store.store, nil,
		service.WithIdentityClock(func() time.Time { return later })), nil)

	update := sampleProfile()
	update.Weight = 64.8
	second, err := profiles.SaveProfile(ctx, session, update)
	require.NoError(t, err)

	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, later, second.UpdatedAt)
	assert.InDelta(t, 20.0, second.BMI, 1e-9)
}

func TestSaveProfileNotAuthenticated(t *testing.T) {
	stores := newTestStores(t, false)
	ctx := context.Background()

	_, err := stores.profiles.SaveProfile(ctx, nil, sampleProfile())
	assert.ErrorIs(t, err, service.ErrNotAuthenticated)

	session := stores.registerAndLogin(t, "a@example.com")
	require.NoError(t, stores.identity.Logout(ctx, session))
	_, err = stores.profiles.SaveProfile(ctx, session, sampleProfile())
	assert.ErrorIs(t, err, service.ErrNotAuthenticated)
	assert.Nil(t, stores.profiles.GetProfile(session))
}

func TestSaveProfileInvalidMetrics(t *testing.T) {
	stores := newTestStores(t, false)
	session := stores.registerAndLogin(t, "a@example.com")

	for _, mutate := range []func(*models.Profile){
		func(p *models.Profile) { p.Height = 0 },
		func(p *models.Profile) { p.Weight = -1 },
	} {
		p := sampleProfile()
		mutate(&p)
		_, err := stores.profiles.SaveProfile(context.Background(), session, p)
		assert.ErrorIs(t, err, service.ErrInvalidProfile)
	}
	assert.Nil(t, stores.profiles.GetProfile(session))
}

func TestGetProfileWithoutProfile(t *testing.T) {
	stores := newTestStores(t, false)
	session := stores.registerAndLogin(t, "a@example.com")
	assert.Nil(t, stores.profiles.GetProfile(session))
	assert.Nil(t, stores.profiles.GetProfile(nil))
}

func TestBMI(t *testing.T) {
	assert.InDelta(t, 25.0, service.CalculateBMI(180, 81), 1e-9)
	assert.InDelta(t, 22.86, service.CalculateBMI(175, 70), 0.01)

	tests := []struct {
		bmi  float64
		want string
	}{
		{17.9, "Underweight"},
		{18.5, "Normal weight"},
		{24.99, "Normal weight"},
		{25, "Overweight"},
		{29.9, "Overweight"},
		{30, "Obese"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, service.BMICategory(tt.bmi), "bmi %.2f", tt.bmi)
	}
}
