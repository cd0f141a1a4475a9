package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/nutritrack/backend/internal/models"
	"github.com/pageza/nutritrack/backend/internal/service"
)

// MockFoodLogService is a mock implementation of service.IFoodLogService
type MockFoodLogService struct {
	mock.Mock
}

func (m *MockFoodLogService) SaveEntry(ctx context.Context, session *service.Session, entry *models.FoodEntry) error {
	args := m.Called(ctx, session, entry)
	return args.Error(0)
}

func (m *MockFoodLogService) EntriesByUser(ctx context.Context, session *service.Session) ([]models.FoodEntry, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FoodEntry), args.Error(1)
}

func (m *MockFoodLogService) EntriesByDate(ctx context.Context, session *service.Session, date time.Time) ([]models.FoodEntry, error) {
	args := m.Called(ctx, session, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FoodEntry), args.Error(1)
}

func (m *MockFoodLogService) DailyStats(ctx context.Context, session *service.Session, date time.Time) (models.DailyStats, error) {
	args := m.Called(ctx, session, date)
	return args.Get(0).(models.DailyStats), args.Error(1)
}

func (m *MockFoodLogService) WeeklyCalories(ctx context.Context, session *service.Session, end time.Time) ([]models.DayCalories, error) {
	args := m.Called(ctx, session, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DayCalories), args.Error(1)
}

func (m *MockFoodLogService) StartOfDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}

var _ service.IFoodLogService = (*MockFoodLogService)(nil)
