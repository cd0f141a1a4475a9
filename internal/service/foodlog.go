package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/nutritrack/backend/internal/logging"
	"github.com/pageza/nutritrack/backend/internal/models"
	"github.com/pageza/nutritrack/backend/internal/storage"
)

// FoodLogStore is the append-only log of food entries. All accounts share one
// "foodEntries" document; reads filter by owner.
//
// Appends rewrite the whole document under an in-process mutex. Writers in
// other processes sharing the backend can drop each other's entries.
type FoodLogStore struct {
	store  storage.Store
	images ImageStore
	log    *zap.Logger
	now    func() time.Time
	loc    *time.Location

	mu sync.Mutex
}

// FoodLogOption configures a FoodLogStore.
type FoodLogOption func(*FoodLogStore)

// WithImageStore sets where entry images are kept. Defaults to InlineImageStore.
func WithImageStore(images ImageStore) FoodLogOption {
	return func(s *FoodLogStore) { s.images = images }
}

// WithLocation sets the timezone that defines calendar days. Defaults to time.Local.
func WithLocation(loc *time.Location) FoodLogOption {
	return func(s *FoodLogStore) { s.loc = loc }
}

// WithFoodLogClock overrides time.Now.
func WithFoodLogClock(now func() time.Time) FoodLogOption {
	return func(s *FoodLogStore) { s.now = now }
}

// NewFoodLogStore creates a new FoodLogStore instance
func NewFoodLogStore(store storage.Store, log *zap.Logger, opts ...FoodLogOption) *FoodLogStore {
	s := &FoodLogStore{
		store:  store,
		images: InlineImageStore{},
		log:    logging.OrNop(log),
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveEntry stamps the entry with the session's account id, a fresh id and the
// creation time, then appends it to the log. The entry is updated in place.
func (s *FoodLogStore) SaveEntry(ctx context.Context, session *Session, entry *models.FoodEntry) error {
	if !session.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	entry.UserID = session.AccountID()
	entry.ID = uuid.NewString()
	entry.CreatedAt = s.now()

	var uploaded string
	if entry.ImageURL != "" {
		url, err := s.images.Store(ctx, entry.UserID, entry.ImageURL)
		if err != nil {
			return err
		}
		if url != entry.ImageURL {
			uploaded = url
		}
		entry.ImageURL = url
	}

	if err := s.appendEntry(ctx, *entry); err != nil {
		if uploaded != "" {
			if rmErr := s.images.Remove(context.WithoutCancel(ctx), uploaded); rmErr != nil {
				s.log.Warn("failed to remove image of unsaved entry",
					zap.String("image", uploaded), zap.Error(rmErr))
			}
		}
		return err
	}

	s.log.Info("food entry saved",
		zap.String("account_id", entry.UserID),
		zap.String("entry_id", entry.ID),
		zap.String("meal_type", string(entry.MealType)))
	return nil
}

func (s *FoodLogStore) appendEntry(ctx context.Context, entry models.FoodEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadEntries(ctx)
	if err != nil {
		return err
	}
	return saveDocument(ctx, s.store, storage.KeyFoodEntries, append(entries, entry))
}

// EntriesByUser returns every entry owned by the session's account, in
// insertion order. Anonymous callers get an empty slice.
func (s *FoodLogStore) EntriesByUser(ctx context.Context, session *Session) ([]models.FoodEntry, error) {
	if !session.IsAuthenticated() {
		return []models.FoodEntry{}, nil
	}

	s.mu.Lock()
	entries, err := s.loadEntries(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	owned := make([]models.FoodEntry, 0, len(entries))
	for _, e := range entries {
		if e.UserID == session.AccountID() {
			owned = append(owned, e)
		}
	}
	return owned, nil
}

// EntriesByDate returns the account's entries consumed on the calendar day of
// date. Time of day is ignored on both sides.
func (s *FoodLogStore) EntriesByDate(ctx context.Context, session *Session, date time.Time) ([]models.FoodEntry, error) {
	entries, err := s.EntriesByUser(ctx, session)
	if err != nil {
		return nil, err
	}
	return s.filterDay(entries, date), nil
}

// DailyStats sums calories, protein, carbohydrates and fat over the entries
// of one calendar day.
func (s *FoodLogStore) DailyStats(ctx context.Context, session *Session, date time.Time) (models.DailyStats, error) {
	entries, err := s.EntriesByDate(ctx, session, date)
	if err != nil {
		return models.DailyStats{}, err
	}
	return SumDailyStats(entries), nil
}

// WeeklyCalories returns the calorie totals of the seven days ending on end,
// oldest first.
func (s *FoodLogStore) WeeklyCalories(ctx context.Context, session *Session, end time.Time) ([]models.DayCalories, error) {
	entries, err := s.EntriesByUser(ctx, session)
	if err != nil {
		return nil, err
	}

	last := s.StartOfDay(end)
	week := make([]models.DayCalories, 0, 7)
	for i := 6; i >= 0; i-- {
		day := last.AddDate(0, 0, -i)
		stats := SumDailyStats(s.filterDay(entries, day))
		week = append(week, models.DayCalories{Date: day, Calories: stats.TotalCalories})
	}
	return week, nil
}

// StartOfDay truncates t to midnight in the store's timezone.
func (s *FoodLogStore) StartOfDay(t time.Time) time.Time {
	t = t.In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

func (s *FoodLogStore) filterDay(entries []models.FoodEntry, date time.Time) []models.FoodEntry {
	target := s.StartOfDay(date)
	out := make([]models.FoodEntry, 0)
	for _, e := range entries {
		if s.StartOfDay(e.Date).Equal(target) {
			out = append(out, e)
		}
	}
	return out
}

func (s *FoodLogStore) loadEntries(ctx context.Context) ([]models.FoodEntry, error) {
	var entries []models.FoodEntry
	if err := loadDocument(ctx, s.store, storage.KeyFoodEntries, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SumDailyStats folds entries into macro totals. An empty slice yields zeros.
func SumDailyStats(entries []models.FoodEntry) models.DailyStats {
	var stats models.DailyStats
	for _, e := range entries {
		stats.TotalCalories += e.NutritionalValue.Calories
		stats.TotalProtein += e.NutritionalValue.Protein
		stats.TotalCarbs += e.NutritionalValue.Carbohydrates
		stats.TotalFat += e.NutritionalValue.Fat
	}
	return stats
}

// GroupByMealType buckets entries by meal type, preserving their order.
func GroupByMealType(entries []models.FoodEntry) map[models.MealType][]models.FoodEntry {
	groups := make(map[models.MealType][]models.FoodEntry, len(models.MealTypes))
	for _, e := range entries {
		groups[e.MealType] = append(groups[e.MealType], e)
	}
	return groups
}
