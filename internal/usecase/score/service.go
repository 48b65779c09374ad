// Package score ranks cities by how well they match a preference record.
package score

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cityscout/internal/domain/city"
	"github.com/kailas-cloud/cityscout/internal/domain/preference"
	"github.com/kailas-cloud/cityscout/internal/domain/recommendation"
	"github.com/kailas-cloud/cityscout/internal/logger"
	"github.com/kailas-cloud/cityscout/internal/metrics"
)

// Term weights.
const (
	WeightActivity    = 0.4
	WeightBudget      = 0.2
	WeightTemperature = 0.15
	WeightFilters     = 0.15
	WeightDuration    = 0.1
	// PenaltyPerPoint is subtracted per point the weakest selected activity
	// falls short of the threshold.
	PenaltyPerPoint = 0.1

	// IdealSummerTemp and TempSpread define the moderate temperature curve.
	IdealSummerTemp = 22.5
	TempSpread      = 30.0
)

// Service scores cities against preferences.
type Service struct{}

// New creates a preference scoring service.
func New() *Service { return &Service{} }

// Score returns the cities ranked by recommendation score, highest first,
// with excluded cities removed. topN <= 0 returns every remaining city.
// Rows with equal scores keep their table order.
func (s *Service) Score(ctx context.Context, t *city.Table, prefs preference.Preferences, topN int) []recommendation.Item {
	start := time.Now()
	defer metrics.ObserveAnalysis("score", start, nil)

	if t == nil || t.Len() == 0 {
		return nil
	}

	n := t.Len()
	scores := make([]float64, n)
	parts := make([]recommendation.Breakdown, n)

	acts, _ := t.Available(prefs.Activities())
	if len(acts) > 0 {
		activityTerm(t, acts, scores, parts)
	}
	if b, ok := prefs.Budget(); ok && t.HasColumn(city.BudgetNumeric) {
		budgetTerm(t, b.Numeric(), scores, parts)
	}
	if tp, ok := prefs.Temperature(); ok && t.HasColumn(city.AvgTempSummer) {
		if lo, hi, ok := temperatureTerm(t, tp, scores, parts); !ok {
			logger.FromContext(ctx).Debug("Temperature term skipped: summer temperature range is zero",
				zap.String("preference", string(tp)),
				zap.Float64("min", lo),
				zap.Float64("max", hi),
			)
		}
	}
	if filters := prefs.SpecialFilters(); len(filters) > 0 {
		filterTerm(t, filters, scores, parts)
	}
	if th := prefs.Threshold(); th > 0 && len(acts) > 0 {
		penaltyTerm(t, acts, float64(th), scores, parts)
	}

	items := make([]recommendation.Item, 0, n)
	dur, hasDur := prefs.Duration()
	hasDur = hasDur && t.HasColumn(dur)
	for i := 0; i < n; i++ {
		r := t.Row(i)
		if prefs.IsExcluded(r.City) {
			continue
		}
		if hasDur {
			d := WeightDuration * r.ValueOr(dur, 0)
			parts[i].Duration = d
			scores[i] += d
		}
		b := parts[i]
		items = append(items, recommendation.New(r, i).WithRecommendation(scores[i], &b))
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, _ := items[i].Recommendation()
		b, _ := items[j].Recommendation()
		return a > b
	})
	return recommendation.Truncate(items, topN)
}

// activityTerm adds the mean of the selected activities normalized by the
// dataset maximum of that mean.
func activityTerm(t *city.Table, acts []string, scores []float64, parts []recommendation.Breakdown) {
	means := make([]float64, t.Len())
	maxMean := math.Inf(-1)
	for i := range means {
		m, ok := rowMean(t.Row(i), acts)
		if !ok {
			m = math.NaN()
		} else if m > maxMean {
			maxMean = m
		}
		means[i] = m
	}
	for i, m := range means {
		if math.IsNaN(m) {
			continue
		}
		if maxMean > 0 {
			m /= maxMean
		}
		v := WeightActivity * m
		parts[i].Activity = v
		scores[i] += v
	}
}

// budgetTerm awards an exact tier match fully and an adjacent tier half.
func budgetTerm(t *city.Table, want float64, scores []float64, parts []recommendation.Breakdown) {
	for i := 0; i < t.Len(); i++ {
		diff := math.Abs(t.Row(i).Value(city.BudgetNumeric) - want)
		var match float64
		switch {
		case diff == 0:
			match = 1
		case diff == 1:
			match = 0.5
		}
		v := WeightBudget * match
		parts[i].Budget = v
		scores[i] += v
	}
}

// temperatureTerm reports false when warm/cold cannot be normalized over the
// observed [lo, hi] summer range.
func temperatureTerm(
	t *city.Table, pref preference.Temperature, scores []float64, parts []recommendation.Breakdown,
) (lo, hi float64, ok bool) {
	temps := t.Column(city.AvgTempSummer)
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range temps {
		if math.IsNaN(v) {
			continue
		}
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if pref != preference.Moderate && !(hi > lo) {
		return lo, hi, false
	}
	for i, v := range temps {
		if math.IsNaN(v) {
			continue
		}
		var ts float64
		switch pref {
		case preference.Warm:
			ts = (v - lo) / (hi - lo)
		case preference.Cold:
			ts = 1 - (v-lo)/(hi-lo)
		default:
			ts = math.Max(0, math.Min(1, 1-math.Abs(v-IdealSummerTemp)/TempSpread))
		}
		w := WeightTemperature * ts
		parts[i].Temperature = w
		scores[i] += w
	}
	return lo, hi, true
}

// filterTerm averages the requested boolean columns over the number requested,
// so an unknown filter counts as unmet.
func filterTerm(t *city.Table, filters []string, scores []float64, parts []recommendation.Breakdown) {
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		var sum float64
		for _, f := range filters {
			sum += r.ValueOr(f, 0)
		}
		v := WeightFilters * sum / float64(len(filters))
		parts[i].Filters = v
		scores[i] += v
	}
}

// penaltyTerm subtracts for the weakest selected activity below the
// threshold and clamps the running score at zero.
func penaltyTerm(t *city.Table, acts []string, threshold float64, scores []float64, parts []recommendation.Breakdown) {
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		lowest := math.Inf(1)
		for _, a := range acts {
			if v := r.Value(a); !math.IsNaN(v) && v < lowest {
				lowest = v
			}
		}
		if math.IsInf(lowest, 1) {
			continue
		}
		p := PenaltyPerPoint * math.Max(0, threshold-lowest)
		parts[i].Penalty = p
		scores[i] = math.Max(0, scores[i]-p)
	}
}

func rowMean(r city.Row, cols []string) (float64, bool) {
	var sum float64
	var n int
	for _, c := range cols {
		if v := r.Value(c); !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
