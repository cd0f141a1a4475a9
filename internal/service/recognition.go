package service

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/nutritrack/backend/internal/logging"
	"github.com/pageza/nutritrack/backend/internal/models"
)

// RecognitionRequest is the food described by the user.
type RecognitionRequest struct {
	FoodName    string   `json:"foodName"`
	Ingredients []string `json:"ingredients,omitempty"`
	Quantity    float64  `json:"quantity"`
	Unit        string   `json:"unit"`
	// Image is an optional data URI. The mock recognizer ignores it.
	Image string `json:"image,omitempty"`
}

// Recognition is the estimated nutrition of a food and two substitutes.
type Recognition struct {
	NutritionalValue models.NutritionalValue `json:"nutritionalValue"`
	Alternatives     []models.Alternative    `json:"alternatives"`
}

// Recognizer estimates the nutrition of a described food.
type Recognizer interface {
	Recognize(ctx context.Context, req RecognitionRequest) (*Recognition, error)
}

// MockRecognizer fabricates nutrition values from uniform random ranges.
// Values are drawn per 100 units and scaled to the requested quantity.
type MockRecognizer struct {
	delay time.Duration
	log   *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

var _ Recognizer = (*MockRecognizer)(nil)

// RecognizerOption configures a MockRecognizer.
type RecognizerOption func(*MockRecognizer)

// WithRand sets the random source, for reproducible output.
func WithRand(rng *rand.Rand) RecognizerOption {
	return func(r *MockRecognizer) { r.rng = rng }
}

// WithDelay simulates inference latency.
func WithDelay(d time.Duration) RecognizerOption {
	return func(r *MockRecognizer) { r.delay = d }
}

// NewMockRecognizer creates a new MockRecognizer instance
func NewMockRecognizer(log *zap.Logger, opts ...RecognizerOption) *MockRecognizer {
	r := &MockRecognizer{
		log: logging.OrNop(log),
		rng: rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x6e757472)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Recognize never fails on its own; it only returns the context's error when
// the caller gives up during the simulated delay.
func (r *MockRecognizer) Recognize(ctx context.Context, req RecognitionRequest) (*Recognition, error) {
	if r.delay > 0 {
		timer := time.NewTimer(r.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	r.mu.Lock()
	base := sampleBase(r.rng)
	r.mu.Unlock()

	result := &Recognition{
		NutritionalValue: ScaleNutrition(base, req.Quantity),
	}
	for _, alt := range alternativesFor(req.FoodName, base) {
		alt.NutritionalValue = ScaleNutrition(alt.NutritionalValue, req.Quantity)
		result.Alternatives = append(result.Alternatives, alt)
	}

	r.log.Debug("food recognized",
		zap.String("food", req.FoodName),
		zap.Int("ingredients", len(req.Ingredients)),
		zap.Float64("quantity", req.Quantity),
		zap.String("unit", req.Unit),
		zap.Int("calories", result.NutritionalValue.Calories))
	return result, nil
}

// sampleBase draws every field independently as an integer in [lo, lo+span).
func sampleBase(rng *rand.Rand) models.NutritionalValue {
	between := func(lo, span int) int { return lo + rng.IntN(span) }
	return models.NutritionalValue{
		Calories:      between(100, 500),
		Protein:       float64(between(5, 30)),
		Carbohydrates: float64(between(10, 50)),
		Fat:           float64(between(2, 20)),
		Fiber:         float64(between(1, 10)),
		Sugar:         float64(between(2, 15)),
		Sodium:        between(50, 500),
		Cholesterol:   between(5, 50),
	}
}

func alternativesFor(foodName string, base models.NutritionalValue) []models.Alternative {
	lighter := base
	lighter.Calories -= 50
	lighter.Fat -= 2

	richer := base
	richer.Protein += 10

	return []models.Alternative{
		{
			Name:             fmt.Sprintf("Healthier %s", foodName),
			NutritionalValue: lighter,
			Reason:           "Lower in calories and fat",
		},
		{
			Name:             fmt.Sprintf("Protein-rich %s", foodName),
			NutritionalValue: richer,
			Reason:           "Higher protein content for muscle building",
		},
	}
}

// ScaleNutrition scales per-100-unit values to quantity. Calories, sodium and
// cholesterol round to integers, gram fields to one decimal.
func ScaleNutrition(v models.NutritionalValue, quantity float64) models.NutritionalValue {
	m := quantity / 100
	whole := func(x int) int { return int(math.Round(float64(x) * m)) }
	tenth := func(x float64) float64 { return math.Round(x*m*10) / 10 }
	return models.NutritionalValue{
		Calories:      whole(v.Calories),
		Protein:       tenth(v.Protein),
		Carbohydrates: tenth(v.Carbohydrates),
		Fat:           tenth(v.Fat),
		Fiber:         tenth(v.Fiber),
		Sugar:         tenth(v.Sugar),
		Sodium:        whole(v.Sodium),
		Cholesterol:   whole(v.Cholesterol),
	}
}

// SplitIngredients parses a comma separated ingredient list, dropping blanks.
func SplitIngredients(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
