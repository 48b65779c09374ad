package wizard

import (
	"fmt"

	"github.com/kailas-cloud/cityscout/internal/domain"
)

// Navigation actions applied after the field updates of a Patch.
const (
	NavigateNext  = "next"
	NavigatePrev  = "prev"
	NavigateReset = "reset"
)

// Destination is a destination choice inside a Patch.
type Destination struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// Patch is a partial wizard update. Nil fields are unchanged.
type Patch struct {
	Destination       *Destination `json:"destination,omitempty"`
	BudgetLevel       *string      `json:"budget_level,omitempty"`
	Duration          *string      `json:"duration_label,omitempty"`
	Activities        *[]string    `json:"selected_activities,omitempty"`
	ActivityThreshold *int         `json:"activity_threshold,omitempty"`
	SpecialFilters    *[]string    `json:"special_filters,omitempty"`
	Temperature       *string      `json:"avg_temp_preference,omitempty"`
	Navigate          string       `json:"navigate,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Destination == nil && p.BudgetLevel == nil && p.Duration == nil &&
		p.Activities == nil && p.ActivityThreshold == nil && p.SpecialFilters == nil &&
		p.Temperature == nil && p.Navigate == ""
}

// Apply returns the state with the patch applied. The input is not modified.
// A reset discards the field updates of the same patch.
func (p Patch) Apply(s State) (State, error) {
	if p.IsEmpty() {
		return s, fmt.Errorf("%w: at least one field must be provided", domain.ErrInvalidPreferences)
	}
	switch p.Navigate {
	case "", NavigateNext, NavigatePrev:
	case NavigateReset:
		return New(), nil
	default:
		return s, fmt.Errorf("%w: unknown navigation %q", domain.ErrInvalidPreferences, p.Navigate)
	}

	out := s
	out.Activities = append([]string(nil), s.Activities...)
	out.SpecialFilters = append([]string(nil), s.SpecialFilters...)

	if d := p.Destination; d != nil {
		if err := out.ChooseDestination(d.Kind, d.Value); err != nil {
			return s, err
		}
	}
	if p.BudgetLevel != nil {
		if err := out.SetBudget(*p.BudgetLevel); err != nil {
			return s, err
		}
	}
	if p.Duration != nil {
		if err := out.SetDuration(*p.Duration); err != nil {
			return s, err
		}
	}
	if p.Activities != nil || p.ActivityThreshold != nil || p.SpecialFilters != nil {
		acts, threshold, filters := out.Activities, out.ActivityThreshold, out.SpecialFilters
		if p.Activities != nil {
			acts = *p.Activities
		}
		if p.ActivityThreshold != nil {
			threshold = *p.ActivityThreshold
		}
		if p.SpecialFilters != nil {
			filters = *p.SpecialFilters
		}
		if err := out.SetActivities(acts, threshold, filters); err != nil {
			return s, err
		}
	}
	if p.Temperature != nil {
		if err := out.SetTemperature(*p.Temperature); err != nil {
			return s, err
		}
	}

	switch p.Navigate {
	case NavigateNext:
		out.Next()
	case NavigatePrev:
		out.Prev()
	}
	return out, nil
}
