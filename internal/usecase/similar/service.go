// Package similar ranks cities by content similarity to a reference city.
package similar

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cityscout/internal/domain/city"
	"github.com/kailas-cloud/cityscout/internal/domain/feature"
	"github.com/kailas-cloud/cityscout/internal/domain/recommendation"
	"github.com/kailas-cloud/cityscout/internal/domain/similarity"
	"github.com/kailas-cloud/cityscout/internal/logger"
	"github.com/kailas-cloud/cityscout/internal/metrics"
)

// Service computes cosine similarity between cities.
type Service struct{}

// New creates a similarity service.
func New() *Service { return &Service{} }

// Similar scores every city except the reference by cosine similarity over
// the activity columns (all nine when activities is empty) plus budget and
// seasonal temperatures. Missing cells count as zero and nothing is
// standardized. An unknown reference yields an empty result.
func (s *Service) Similar(ctx context.Context, t *city.Table, reference string, activities []string) []recommendation.Item {
	start := time.Now()
	defer metrics.ObserveAnalysis("similar", start, nil)

	if t == nil {
		return nil
	}
	ref, ok := t.IndexOf(reference)
	if !ok {
		logger.FromContext(ctx).Debug("Reference city not found", zap.String("city", reference))
		return nil
	}

	cols, _ := t.Available(Columns(activities))
	vectors := feature.Select(t, cols, feature.FillZero)
	target := vectors[ref]

	items := make([]recommendation.Item, 0, t.Len())
	for i, vec := range vectors {
		r := t.Row(i)
		if r.City == reference {
			continue
		}
		items = append(items, recommendation.New(r, i).WithSimilarity(similarity.Cosine(target, vec)))
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, _ := items[i].Similarity()
		b, _ := items[j].Similarity()
		return a > b
	})
	return items
}

// Columns returns the declared similarity feature list for the given
// activity selection. Unknown activity names are dropped.
func Columns(activities []string) []string {
	var cols []string
	for _, a := range activities {
		if city.IsActivity(a) {
			cols = append(cols, a)
		}
	}
	if len(cols) == 0 {
		cols = city.ActivityColumns()
	}
	return append(cols, city.SimilarityExtras()...)
}
