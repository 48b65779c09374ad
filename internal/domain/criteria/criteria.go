// Package criteria describes the results-page filter over the city table.
package criteria

import (
	"math"

	"github.com/kailas-cloud/cityscout/internal/domain/city"
)

// Criteria selects the cities shown on the results page. Empty fields do not filter.
type Criteria struct {
	TargetCity        string   `json:"target_city,omitempty"`
	Region            string   `json:"region,omitempty"`
	Country           string   `json:"country,omitempty"`
	BudgetLevel       string   `json:"budget_level,omitempty"`
	Duration          string   `json:"duration_col,omitempty"`
	Activities        []string `json:"selected_activities,omitempty"`
	ActivityThreshold int      `json:"activity_threshold,omitempty"`
	SpecialFilters    []string `json:"special_filters,omitempty"`
}

// IsEmpty reports whether no filter is set.
func (c Criteria) IsEmpty() bool {
	return c.TargetCity == "" && c.Region == "" && c.Country == "" && c.BudgetLevel == "" &&
		c.Duration == "" && (len(c.Activities) == 0 || c.ActivityThreshold <= 0) &&
		len(c.SpecialFilters) == 0
}

// Matcher returns a row predicate for table t. A target city overrides every
// other filter. Column-based filters on columns absent from t are ignored.
func (c Criteria) Matcher(t *city.Table) func(city.Row) bool {
	if c.TargetCity != "" {
		return func(r city.Row) bool { return r.City == c.TargetCity }
	}

	duration := ""
	if c.Duration != "" && t.HasColumn(c.Duration) {
		duration = c.Duration
	}
	var acts []string
	if c.ActivityThreshold > 0 {
		acts, _ = t.Available(c.Activities)
	}
	var filters []string
	filters, _ = t.Available(c.SpecialFilters)

	return func(r city.Row) bool {
		if c.Region != "" && r.Region != c.Region {
			return false
		}
		if c.Country != "" && r.Country != c.Country {
			return false
		}
		if c.BudgetLevel != "" && r.BudgetLevel != c.BudgetLevel {
			return false
		}
		if duration != "" && r.Value(duration) != 1 {
			return false
		}
		if len(acts) > 0 {
			m, ok := meanPresent(r, acts)
			if !ok || m < float64(c.ActivityThreshold) {
				return false
			}
		}
		for _, f := range filters {
			if r.Value(f) != 1 {
				return false
			}
		}
		return true
	}
}

func meanPresent(r city.Row, cols []string) (float64, bool) {
	var sum float64
	var n int
	for _, c := range cols {
		v := r.Value(c)
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
