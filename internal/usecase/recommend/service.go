// Package recommend combines preference scoring, similarity and clustering
// into a single ranked recommendation list.
package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cityscout/internal/domain"
	"github.com/kailas-cloud/cityscout/internal/domain/city"
	"github.com/kailas-cloud/cityscout/internal/domain/preference"
	"github.com/kailas-cloud/cityscout/internal/domain/recommendation"
	"github.com/kailas-cloud/cityscout/internal/domain/recommendation/mode"
	"github.com/kailas-cloud/cityscout/internal/logger"
	"github.com/kailas-cloud/cityscout/internal/metrics"
	"github.com/kailas-cloud/cityscout/internal/usecase/cluster"
)

// Hybrid blend weights.
const (
	HybridPreferenceWeight = 0.6
	HybridSimilarityWeight = 0.4
)

// Service orchestrates recommendation strategies.
type Service struct {
	scorer    Scorer
	similar   SimilarityRanker
	clusterer Clusterer
}

// New creates a recommendation service. clusterer may be nil, which
// disables the cluster mode.
func New(scorer Scorer, similar SimilarityRanker, clusterer Clusterer) *Service {
	return &Service{scorer: scorer, similar: similar, clusterer: clusterer}
}

// Recommend returns at most topN cities ranked by the strategy m. Results
// are deduplicated on (city, country). topN <= 0 returns every candidate.
func (s *Service) Recommend(
	ctx context.Context, t *city.Table, prefs preference.Preferences, m mode.Mode, topN int,
) (items []recommendation.Item, err error) {
	start := time.Now()
	defer func() { metrics.ObserveAnalysis("recommend", start, err) }()

	if m == "" {
		m = mode.Hybrid
	}
	switch m {
	case mode.Preferences:
		items = s.byPreferences(ctx, t, prefs, topN)
	case mode.Similarity:
		items = s.bySimilarity(ctx, t, prefs, topN)
	case mode.Hybrid:
		items = s.hybrid(ctx, t, prefs, topN)
	case mode.Cluster:
		items, err = s.byCluster(ctx, t, prefs, topN)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMode, m)
	}

	logger.FromContext(ctx).Debug("Recommendations computed",
		zap.String("mode", string(m)),
		zap.Int("results", len(items)),
	)
	return items, nil
}

func (s *Service) byPreferences(ctx context.Context, t *city.Table, prefs preference.Preferences, topN int) []recommendation.Item {
	if target, ok := prefs.Target(); ok {
		prefs = prefs.WithExcluded(target)
	}
	return finish(s.scorer.Score(ctx, t, prefs, 0), topN)
}

func (s *Service) bySimilarity(ctx context.Context, t *city.Table, prefs preference.Preferences, topN int) []recommendation.Item {
	target, ok := prefs.Target()
	if !ok {
		return nil
	}
	return finish(s.similar.Similar(ctx, t, target, prefs.Activities()), topN)
}

// hybrid scores 2*topN preference candidates and blends in the similarity
// to the target city, when one is set. The target never ranks in its own
// list.
func (s *Service) hybrid(ctx context.Context, t *city.Table, prefs preference.Preferences, topN int) []recommendation.Item {
	candidates := 0
	if topN > 0 {
		candidates = 2 * topN
	}
	target, ok := prefs.Target()
	if !ok {
		return finish(s.scorer.Score(ctx, t, prefs, candidates), topN)
	}
	scored := s.scorer.Score(ctx, t, prefs.WithExcluded(target), candidates)

	sims := make(map[string]float64)
	for _, it := range s.similar.Similar(ctx, t, target, prefs.Activities()) {
		name := it.Row().City
		if _, seen := sims[name]; seen {
			continue
		}
		sims[name], _ = it.Similarity()
	}

	blended := make([]recommendation.Item, len(scored))
	for i, it := range scored {
		pref, _ := it.Recommendation()
		sim := sims[it.Row().City]
		blended[i] = it.WithSimilarity(sim).WithHybrid(HybridPreferenceWeight*pref + HybridSimilarityWeight*sim)
	}
	sort.SliceStable(blended, func(i, j int) bool {
		a, _ := blended[i].Hybrid()
		b, _ := blended[j].Hybrid()
		return a > b
	})
	return finish(blended, topN)
}

// byCluster returns the other members of the target city's cluster ranked by
// mean activity score.
func (s *Service) byCluster(ctx context.Context, t *city.Table, prefs preference.Preferences, topN int) ([]recommendation.Item, error) {
	target, ok := prefs.Target()
	if !ok || s.clusterer == nil {
		return nil, nil
	}
	ref, ok := t.IndexOf(target)
	if !ok {
		return nil, nil
	}
	res, err := s.clusterer.Cluster(ctx, t, cluster.Params{})
	if err != nil {
		return nil, fmt.Errorf("cluster: %w", err)
	}
	id := res.Labeled.Labels[ref]

	acts, _ := t.Available(city.ActivityColumns())
	type member struct {
		item recommendation.Item
		avg  float64
	}
	var members []member
	for _, i := range res.Labeled.Members(id) {
		r := t.Row(i)
		if r.City == target {
			continue
		}
		members = append(members, member{item: recommendation.New(r, i), avg: meanActivity(r, acts)})
	}
	if len(acts) > 0 {
		sort.SliceStable(members, func(i, j int) bool { return members[i].avg > members[j].avg })
	}
	items := make([]recommendation.Item, len(members))
	for i, m := range members {
		items[i] = m.item
	}
	return finish(items, topN), nil
}

func finish(items []recommendation.Item, topN int) []recommendation.Item {
	return recommendation.Truncate(recommendation.Dedupe(items), topN)
}

func meanActivity(r city.Row, acts []string) float64 {
	var sum float64
	var n int
	for _, a := range acts {
		if v := r.Value(a); !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.Inf(-1)
	}
	return sum / float64(n)
}
