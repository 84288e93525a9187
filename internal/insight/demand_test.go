package insight

import (
	"math"
	"testing"
	"time"

	"github.com/dapurlink/caterwatch/internal/domain"
)

func TestSeasonalMultiplier(t *testing.T) {
	tests := []struct {
		month    time.Month
		expected float64
	}{
		{time.January, 0.8},
		{time.June, 1.4},
		{time.September, 1.0},
		{time.December, 1.5},
	}

	for _, tt := range tests {
		if got := SeasonalMultiplier(tt.month); got != tt.expected {
			t.Errorf("SeasonalMultiplier(%v) = %v, want %v", tt.month, got, tt.expected)
		}
	}
}

func TestCalculateDemandPattern_BucketsByWeekday(t *testing.T) {
	// Monday
	now := time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)

	history := []domain.UsageEntry{
		{Date: now.AddDate(0, 0, -7), QuantityUsed: 5},  // Monday
		{Date: now.AddDate(0, 0, -14), QuantityUsed: 4}, // Monday
		{Date: now.AddDate(0, 0, -6), QuantityUsed: 3},  // Tuesday
	}

	pattern := CalculateDemandPattern(history, now)

	if pattern.Daily[int(time.Monday)] != 9 {
		t.Errorf("Monday bucket = %v, want 9 (buckets are sums, not averages)", pattern.Daily[int(time.Monday)])
	}
	if pattern.Daily[int(time.Tuesday)] != 3 {
		t.Errorf("Tuesday bucket = %v, want 3", pattern.Daily[int(time.Tuesday)])
	}
	if pattern.Daily[int(time.Sunday)] != 0 {
		t.Errorf("Sunday bucket = %v, want 0", pattern.Daily[int(time.Sunday)])
	}
}

func TestCalculateDemandPattern_ExcludesOldUsage(t *testing.T) {
	now := time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)

	history := []domain.UsageEntry{
		{Date: now.AddDate(0, 0, -35), QuantityUsed: 100},
		{Date: now.AddDate(0, 0, -3), QuantityUsed: 2},
	}

	pattern := CalculateDemandPattern(history, now)

	var total float64
	for _, v := range pattern.Daily {
		total += v
	}
	if total != 2 {
		t.Errorf("total bucketed usage = %v, want 2 (entries older than the window must be ignored)", total)
	}
}

func TestCalculateDemandPattern_EmptyHistory(t *testing.T) {
	now := time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)
	pattern := CalculateDemandPattern(nil, now)

	for i, v := range pattern.Daily {
		if v != 0 {
			t.Errorf("Daily[%d] = %v, want 0 for empty history", i, v)
		}
	}
}

func TestPredictFutureDemand_AppliesSeasonalMultiplier(t *testing.T) {
	var pattern domain.DemandPattern
	for i := range pattern.Daily {
		pattern.Daily[i] = 2
	}

	// June: multiplier 1.4, weekly base 14
	june := time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)
	predicted := PredictFutureDemand(pattern, 12, june)

	if predicted.NextWeek != 20 {
		t.Errorf("June NextWeek = %d, want 20", predicted.NextWeek)
	}
	if predicted.NextMonth != 78 {
		t.Errorf("June NextMonth = %d, want 78", predicted.NextMonth)
	}

	// January: multiplier 0.8
	january := time.Date(2025, 1, 13, 12, 0, 0, 0, time.UTC)
	predicted = PredictFutureDemand(pattern, 12, january)

	if predicted.NextWeek != 11 {
		t.Errorf("January NextWeek = %d, want 11", predicted.NextWeek)
	}
}

func TestPredictFutureDemand_Deterministic(t *testing.T) {
	var pattern domain.DemandPattern
	pattern.Daily = [7]float64{1, 2, 3, 4, 3, 2, 1}
	now := time.Date(2025, 3, 5, 9, 30, 0, 0, time.UTC)

	first := PredictFutureDemand(pattern, 8, now)
	second := PredictFutureDemand(pattern, 8, now)

	if first != second {
		t.Errorf("same inputs produced different predictions: %+v vs %+v", first, second)
	}
}

func TestPredictionConfidence(t *testing.T) {
	uniform := domain.DemandPattern{Daily: [7]float64{2, 2, 2, 2, 2, 2, 2}}
	// mean 2, stddev ~4.9: no stability bonus
	spiky := domain.DemandPattern{Daily: [7]float64{14, 0, 0, 0, 0, 0, 0}}
	// mean 2, stddev ~0.53: moderate stability bonus only
	moderate := domain.DemandPattern{Daily: [7]float64{3, 2, 2, 2, 2, 2, 1}}

	tests := []struct {
		name       string
		historyLen int
		pattern    domain.DemandPattern
		expected   float64
	}{
		{"no_history", 0, domain.DemandPattern{}, 0.5},
		{"single_entry", 1, spiky, 0.5},
		{"short_history_spiky", 2, spiky, 0.6},
		{"medium_history_spiky", 5, spiky, 0.7},
		{"long_history_spiky", 10, spiky, 0.8},
		{"moderate_variance", 0, moderate, 0.6},
		{"long_history_uniform_clamped", 10, uniform, 0.95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PredictionConfidence(tt.historyLen, tt.pattern)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("PredictionConfidence(%d, %s) = %v, want %v", tt.historyLen, tt.name, got, tt.expected)
			}
		})
	}
}

func TestPredictionConfidence_NeverExceedsCap(t *testing.T) {
	uniform := domain.DemandPattern{Daily: [7]float64{5, 5, 5, 5, 5, 5, 5}}
	for historyLen := 0; historyLen <= 50; historyLen += 5 {
		if got := PredictionConfidence(historyLen, uniform); got > 0.95 {
			t.Fatalf("confidence %v exceeds 0.95 cap at historyLen %d", got, historyLen)
		}
	}
}
