// Package recommendation holds ranked recommendation items.
package recommendation

import "github.com/kailas-cloud/cityscout/internal/domain/city"

// Breakdown holds the weighted contribution of each preference term.
// Penalty is the amount subtracted by the activity threshold (before clamping).
type Breakdown struct {
	Activity    float64 `json:"activity"`
	Budget      float64 `json:"budget"`
	Temperature float64 `json:"temperature"`
	Filters     float64 `json:"filters"`
	Penalty     float64 `json:"penalty"`
	Duration    float64 `json:"duration"`
}

// Item is a city row annotated with one or more scores.
type Item struct {
	row   city.Row
	index int

	recommendation    float64
	hasRecommendation bool
	similarity        float64
	hasSimilarity     bool
	hybrid            float64
	hasHybrid         bool

	breakdown *Breakdown
}

// New creates an item for the row at position index of its source table.
func New(row city.Row, index int) Item {
	return Item{row: row, index: index}
}

// Row returns the city record.
func (i Item) Row() city.Row { return i.row }

// Index returns the row position in the source table.
func (i Item) Index() int { return i.index }

// Recommendation returns the preference score, if computed.
func (i Item) Recommendation() (float64, bool) { return i.recommendation, i.hasRecommendation }

// Similarity returns the similarity score, if computed.
func (i Item) Similarity() (float64, bool) { return i.similarity, i.hasSimilarity }

// Hybrid returns the hybrid score, if computed.
func (i Item) Hybrid() (float64, bool) { return i.hybrid, i.hasHybrid }

// Breakdown returns the per-term scores, or nil.
func (i Item) Breakdown() *Breakdown { return i.breakdown }

// WithRecommendation returns a copy carrying the preference score.
func (i Item) WithRecommendation(score float64, b *Breakdown) Item {
	i.recommendation, i.hasRecommendation = score, true
	i.breakdown = b
	return i
}

// WithSimilarity returns a copy carrying the similarity score.
func (i Item) WithSimilarity(score float64) Item {
	i.similarity, i.hasSimilarity = score, true
	return i
}

// WithHybrid returns a copy carrying the hybrid score.
func (i Item) WithHybrid(score float64) Item {
	i.hybrid, i.hasHybrid = score, true
	return i
}

// Score returns the ranking score: hybrid, then recommendation, then similarity.
func (i Item) Score() float64 {
	switch {
	case i.hasHybrid:
		return i.hybrid
	case i.hasRecommendation:
		return i.recommendation
	default:
		return i.similarity
	}
}

// Dedupe keeps the first item per (city, country).
func Dedupe(items []Item) []Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		k := it.row.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}

// Truncate returns at most n items; n <= 0 keeps all.
func Truncate(items []Item, n int) []Item {
	if n <= 0 || n >= len(items) {
		return items
	}
	return items[:n]
}
