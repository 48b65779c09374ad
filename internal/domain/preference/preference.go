// Package preference holds the validated user preference record consumed by
// the scorer and the recommendation orchestrator.
package preference

import (
	"strings"

	"github.com/kailas-cloud/cityscout/internal/domain/city"
)

// Temperature is the preferred summer climate.
type Temperature string

// Temperature preferences.
const (
	Warm     Temperature = "warm"
	Moderate Temperature = "moderate"
	Cold     Temperature = "cold"
)

// IsValid checks if the temperature preference is supported.
func (t Temperature) IsValid() bool {
	return t == Warm || t == Moderate || t == Cold
}

// Preferences is an immutable, validated preference record.
type Preferences struct {
	activities  []string
	budget      city.Budget
	threshold   int
	filters     []string
	temperature Temperature
	duration    string
	target      string
	excluded    []string
	excludedSet map[string]struct{}
}

// New validates params and builds a preference record. Set-valued fields
// are deduplicated, keeping first-seen order. Blank exclusions are ignored.
func New(p Params) (Preferences, error) {
	if err := p.validate(); err != nil {
		return Preferences{}, err
	}
	out := Preferences{
		activities:  dedupe(p.Activities),
		budget:      city.Budget(p.Budget),
		threshold:   p.ActivityThreshold,
		filters:     dedupe(p.SpecialFilters),
		temperature: Temperature(p.Temperature),
		duration:    p.Duration,
		target:      strings.TrimSpace(p.TargetCity),
	}
	out.setExcluded(dedupe(p.ExcludeCities))
	return out, nil
}

// Activities returns the selected activity columns.
func (p Preferences) Activities() []string { return clone(p.activities) }

// Budget returns the requested budget tier, if any.
func (p Preferences) Budget() (city.Budget, bool) { return p.budget, p.budget != "" }

// Threshold returns the minimum activity score (0 disables the penalty).
func (p Preferences) Threshold() int { return p.threshold }

// SpecialFilters returns the requested boolean filter columns.
func (p Preferences) SpecialFilters() []string { return clone(p.filters) }

// Temperature returns the temperature preference, if any.
func (p Preferences) Temperature() (Temperature, bool) { return p.temperature, p.temperature != "" }

// Duration returns the trip duration column, if any.
func (p Preferences) Duration() (string, bool) { return p.duration, p.duration != "" }

// Target returns the reference city for similarity-based modes, if any.
func (p Preferences) Target() (string, bool) { return p.target, p.target != "" }

// Excluded returns the excluded city names.
func (p Preferences) Excluded() []string { return clone(p.excluded) }

// IsExcluded reports whether the named city must be dropped from results.
func (p Preferences) IsExcluded(name string) bool {
	_, ok := p.excludedSet[name]
	return ok
}

// IsEmpty reports whether no scored preference is set.
func (p Preferences) IsEmpty() bool {
	return len(p.activities) == 0 && p.budget == "" && len(p.filters) == 0 &&
		p.temperature == "" && p.duration == "" && p.threshold == 0
}

// WithExcluded returns a copy with additional excluded city names.
func (p Preferences) WithExcluded(names ...string) Preferences {
	all := append(clone(p.excluded), names...)
	p.setExcluded(dedupe(all))
	return p
}

// Params converts the record back to its wire form.
func (p Preferences) Params() Params {
	return Params{
		Activities:        clone(p.activities),
		Budget:            string(p.budget),
		ActivityThreshold: p.threshold,
		SpecialFilters:    clone(p.filters),
		Temperature:       string(p.temperature),
		Duration:          p.duration,
		TargetCity:        p.target,
		ExcludeCities:     clone(p.excluded),
	}
}

func (p *Preferences) setExcluded(names []string) {
	p.excluded = names
	p.excludedSet = make(map[string]struct{}, len(names))
	for _, n := range names {
		p.excludedSet[n] = struct{}{}
	}
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func clone(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
