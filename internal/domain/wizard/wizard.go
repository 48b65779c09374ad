// Package wizard models the step-by-step trip planner: destination, budget,
// duration and activities, followed by the results page.
package wizard

import (
	"fmt"

	"github.com/kailas-cloud/cityscout/internal/domain"
	"github.com/kailas-cloud/cityscout/internal/domain/city"
	"github.com/kailas-cloud/cityscout/internal/domain/criteria"
	"github.com/kailas-cloud/cityscout/internal/domain/preference"
)

// Step is a wizard page.
type Step int

// Wizard steps in navigation order.
const (
	StepDestination Step = iota + 1
	StepBudget
	StepDuration
	StepActivities
	StepResults
)

// String returns the step name.
func (s Step) String() string {
	switch s {
	case StepDestination:
		return "destination"
	case StepBudget:
		return "budget"
	case StepDuration:
		return "duration"
	case StepActivities:
		return "activities"
	case StepResults:
		return "results"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// DefaultActivities is the activity selection a fresh wizard starts with.
var DefaultActivities = []string{city.Culture}

var durationLabels = map[string]string{
	"Short Trip (<3 Days)": city.ShortTrip,
	"Weekend":              city.Weekend,
	"One Week":             city.OneWeek,
	"Long Trip (>1 Week)":  city.LongTrip,
	"Day Trip":             city.DayTrip,
}

// DurationLabels returns the label to column mapping offered on the duration step.
func DurationLabels() map[string]string {
	out := make(map[string]string, len(durationLabels))
	for k, v := range durationLabels {
		out[k] = v
	}
	return out
}

// State is the serializable wizard selection.
type State struct {
	Step              Step     `json:"page"`
	TargetCity        string   `json:"target_city,omitempty"`
	TargetRegion      string   `json:"target_region,omitempty"`
	TargetCountry     string   `json:"target_country,omitempty"`
	BudgetLevel       string   `json:"budget_level,omitempty"`
	DurationLabel     string   `json:"duration_label,omitempty"`
	DurationCol       string   `json:"duration_col,omitempty"`
	Activities        []string `json:"selected_activities"`
	ActivityThreshold int      `json:"activity_threshold"`
	SpecialFilters    []string `json:"special_filters,omitempty"`
	Temperature       string   `json:"avg_temp_preference,omitempty"`
}

// New returns a wizard on the first step with default selections.
func New() State {
	return State{
		Step:        StepDestination,
		Activities:  append([]string(nil), DefaultActivities...),
		Temperature: string(preference.Moderate),
	}
}

// Destination kinds.
const (
	DestinationCity    = "city"
	DestinationRegion  = "region"
	DestinationCountry = "country"
)

// ChooseDestination sets one destination target and clears the other two.
func (s *State) ChooseDestination(kind, value string) error {
	if value == "" {
		return fmt.Errorf("%w: destination value is required", domain.ErrInvalidPreferences)
	}
	s.TargetCity, s.TargetRegion, s.TargetCountry = "", "", ""
	switch kind {
	case DestinationCity:
		s.TargetCity = value
	case DestinationRegion:
		s.TargetRegion = value
	case DestinationCountry:
		s.TargetCountry = value
	default:
		return fmt.Errorf("%w: unknown destination kind %q", domain.ErrInvalidPreferences, kind)
	}
	return nil
}

// Destination returns the selected destination, whichever kind it is.
func (s State) Destination() string {
	switch {
	case s.TargetCity != "":
		return s.TargetCity
	case s.TargetRegion != "":
		return s.TargetRegion
	default:
		return s.TargetCountry
	}
}

// SetBudget selects a budget tier.
func (s *State) SetBudget(level string) error {
	b, err := city.ParseBudget(level)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidPreferences, err)
	}
	s.BudgetLevel = string(b)
	return nil
}

// SetDuration selects a trip duration by its display label.
func (s *State) SetDuration(label string) error {
	col, ok := durationLabels[label]
	if !ok {
		return fmt.Errorf("%w: unknown duration %q", domain.ErrInvalidPreferences, label)
	}
	s.DurationLabel, s.DurationCol = label, col
	return nil
}

// SetActivities replaces the activity step selections after validating them.
func (s *State) SetActivities(activities []string, threshold int, filters []string) error {
	if _, err := preference.New(preference.Params{
		Activities:        activities,
		ActivityThreshold: threshold,
		SpecialFilters:    filters,
	}); err != nil {
		return err
	}
	s.Activities = append([]string(nil), activities...)
	s.ActivityThreshold = threshold
	s.SpecialFilters = append([]string(nil), filters...)
	return nil
}

// SetTemperature selects the summer climate preference.
func (s *State) SetTemperature(t string) error {
	if !preference.Temperature(t).IsValid() {
		return fmt.Errorf("%w: unknown temperature %q", domain.ErrInvalidPreferences, t)
	}
	s.Temperature = t
	return nil
}

// Next advances one step, stopping at the results page.
func (s *State) Next() {
	if s.Step < StepResults {
		s.Step++
	}
}

// Prev goes back one step, stopping at the destination page.
func (s *State) Prev() {
	if s.Step > StepDestination {
		s.Step--
	}
}

// Reset clears every selection and returns to the first step.
func (s *State) Reset() { *s = New() }

// Preferences converts the selections into a preference record for the scorer.
func (s State) Preferences() (preference.Preferences, error) {
	return preference.New(preference.Params{
		Activities:        s.Activities,
		Budget:            s.BudgetLevel,
		ActivityThreshold: s.ActivityThreshold,
		SpecialFilters:    s.SpecialFilters,
		Temperature:       s.Temperature,
		Duration:          s.DurationCol,
		TargetCity:        s.TargetCity,
	})
}

// Criteria converts the selections into the results-page filter.
func (s State) Criteria() criteria.Criteria {
	return criteria.Criteria{
		TargetCity:        s.TargetCity,
		Region:            s.TargetRegion,
		Country:           s.TargetCountry,
		BudgetLevel:       s.BudgetLevel,
		Duration:          s.DurationCol,
		Activities:        append([]string(nil), s.Activities...),
		ActivityThreshold: s.ActivityThreshold,
		SpecialFilters:    append([]string(nil), s.SpecialFilters...),
	}
}
