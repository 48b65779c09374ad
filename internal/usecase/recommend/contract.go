package recommend

import (
	"context"

	"github.com/kailas-cloud/cityscout/internal/domain/city"
	"github.com/kailas-cloud/cityscout/internal/domain/preference"
	"github.com/kailas-cloud/cityscout/internal/domain/recommendation"
	"github.com/kailas-cloud/cityscout/internal/usecase/cluster"
)

// Scorer ranks cities by preference match.
type Scorer interface {
	Score(ctx context.Context, t *city.Table, prefs preference.Preferences, topN int) []recommendation.Item
}

// SimilarityRanker ranks cities by similarity to a reference city.
type SimilarityRanker interface {
	Similar(ctx context.Context, t *city.Table, reference string, activities []string) []recommendation.Item
}

// Clusterer labels cities with cluster ids.
type Clusterer interface {
	Cluster(ctx context.Context, t *city.Table, p cluster.Params) (cluster.Result, error)
}
