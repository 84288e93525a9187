// internal/insight/demand.go
//
// Demand estimation over an item's recent usage history. All functions are
// pure: identical inputs (history, reference time) yield identical outputs,
// and callers persist the derived values separately.
package insight

import (
	"math"
	"time"

	"github.com/dapurlink/caterwatch/internal/domain"
)

const demandWindowDays = 30

// seasonalFactors adjusts demand by calendar month (January first). Catering
// demand peaks around the mid-year wedding season and December holidays.
var seasonalFactors = [12]float64{0.8, 0.9, 1.1, 1.2, 1.3, 1.4, 1.2, 1.1, 1.0, 1.1, 1.2, 1.5}

// SeasonalMultiplier returns the demand multiplier for the given month.
func SeasonalMultiplier(month time.Month) float64 {
	return seasonalFactors[int(month)-1]
}

// CalculateDemandPattern buckets the last 30 days of usage by weekday,
// summing quantities per bucket. Buckets are sums, not per-week averages;
// that is a fixed policy of the scoring formulas.
func CalculateDemandPattern(history []domain.UsageEntry, now time.Time) domain.DemandPattern {
	cutoff := now.Add(-demandWindowDays * 24 * time.Hour)

	var pattern domain.DemandPattern
	for _, usage := range history {
		if usage.Date.Before(cutoff) {
			continue
		}
		pattern.Daily[int(usage.Date.Weekday())] += float64(usage.QuantityUsed)
	}

	return pattern
}

// PredictFutureDemand projects next-week and next-month demand from the daily
// pattern, adjusted by the current month's seasonal multiplier. historyLen is
// the full usage-history length and feeds the confidence score.
func PredictFutureDemand(pattern domain.DemandPattern, historyLen int, now time.Time) domain.PredictedDemand {
	avgWeekly := pattern.AvgDaily() * 7
	multiplier := SeasonalMultiplier(now.Month())

	return domain.PredictedDemand{
		NextWeek:   int(math.Round(avgWeekly * multiplier)),
		NextMonth:  int(math.Round(avgWeekly * 4 * multiplier)),
		Confidence: PredictionConfidence(historyLen, pattern),
	}
}

// PredictionConfidence scores how trustworthy a prediction is, from history
// depth and daily-pattern variance. Clamped to [0, 0.95].
func PredictionConfidence(historyLen int, pattern domain.DemandPattern) float64 {
	confidence := 0.5

	switch {
	case historyLen >= 10:
		confidence += 0.3
	case historyLen >= 5:
		confidence += 0.2
	case historyLen >= 2:
		confidence += 0.1
	}

	mean := pattern.AvgDaily()
	var variance float64
	for _, v := range pattern.Daily {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(pattern.Daily))
	stddev := math.Sqrt(variance)

	if stddev < mean*0.2 {
		confidence += 0.2
	} else if stddev < mean*0.5 {
		confidence += 0.1
	}

	return math.Min(0.95, confidence)
}
