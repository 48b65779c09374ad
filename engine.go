package cityscout

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cityscout/internal/domain/feature"
	"github.com/kailas-cloud/cityscout/internal/logger"
	"github.com/kailas-cloud/cityscout/internal/repository/dataset"
	"github.com/kailas-cloud/cityscout/internal/usecase/cluster"
	"github.com/kailas-cloud/cityscout/internal/usecase/recommend"
	"github.com/kailas-cloud/cityscout/internal/usecase/reduce"
	"github.com/kailas-cloud/cityscout/internal/usecase/score"
	"github.com/kailas-cloud/cityscout/internal/usecase/similar"
)

// Engine runs the analyses over caller-supplied tables. It holds no table
// state and is safe for concurrent use.
type Engine struct {
	cfg       AnalysisConfig
	log       *zap.Logger
	reduce    *reduce.Service
	cluster   *cluster.Service
	similar   *similar.Service
	score     *score.Service
	recommend *recommend.Service
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	cfg := &engineConfig{analysis: DefaultAnalysisConfig(), logger: zap.NewNop()}
	for _, o := range opts {
		o(cfg)
	}

	clusterSvc := cluster.New(cfg.analysis)
	similarSvc := similar.New()
	scoreSvc := score.New()
	return &Engine{
		cfg:       cfg.analysis,
		log:       cfg.logger,
		reduce:    reduce.New(cfg.analysis.VarianceThreshold),
		cluster:   clusterSvc,
		similar:   similarSvc,
		score:     scoreSvc,
		recommend: recommend.New(scoreSvc, similarSvc, clusterSvc),
	}
}

// Config returns the effective tunables.
func (e *Engine) Config() AnalysisConfig { return e.cfg }

// LoadTable reads and cleans a city CSV.
func (e *Engine) LoadTable(ctx context.Context, r io.Reader) (*Table, error) {
	return dataset.Load(e.ctx(ctx), r)
}

// LoadFile reads and cleans the city CSV at path.
func (e *Engine) LoadFile(ctx context.Context, path string) (*Table, error) {
	return dataset.LoadFile(e.ctx(ctx), path)
}

// PrepareFeatures selects and imputes the clustering features of t.
func (e *Engine) PrepareFeatures(t *Table) (Features, error) {
	return feature.Prepare(t)
}

// ReduceDimensions projects the standardized features onto principal components.
func (e *Engine) ReduceDimensions(ctx context.Context, t *Table, p ReduceParams) (Projection, error) {
	return e.reduce.Reduce(e.ctx(ctx), t, p)
}

// Cluster labels every row of t. A nil p.K selects K by silhouette.
func (e *Engine) Cluster(ctx context.Context, t *Table, p ClusterParams) (ClusterResult, error) {
	return e.cluster.Cluster(e.ctx(ctx), t, p)
}

// Elbow fits K-means for K = 1..maxK and reports the inertia of each.
func (e *Engine) Elbow(ctx context.Context, t *Table, p ClusterParams, maxK int) ([]ElbowPoint, error) {
	return e.cluster.Elbow(e.ctx(ctx), t, p, maxK)
}

// ClusterSummary reports size and attribute means per cluster.
func (e *Engine) ClusterSummary(l Labeled) []ClusterSummary {
	return cluster.Summarize(l)
}

// ClusterDetail describes one cluster. ok is false for an id with no members.
func (e *Engine) ClusterDetail(l Labeled, id int) (ClusterDetail, bool) {
	return l.Detail(id)
}

// SimilarCities ranks every other city by cosine similarity to reference.
// An unknown reference yields no items.
func (e *Engine) SimilarCities(ctx context.Context, t *Table, reference string, activities []string) []Item {
	return e.similar.Similar(e.ctx(ctx), t, reference, activities)
}

// ScoreByPreferences ranks cities by preference match. topN <= 0 returns all.
func (e *Engine) ScoreByPreferences(ctx context.Context, t *Table, prefs Preferences, topN int) []Item {
	return e.score.Score(e.ctx(ctx), t, prefs, topN)
}

// Recommend ranks cities with the strategy m.
func (e *Engine) Recommend(ctx context.Context, t *Table, prefs Preferences, m Mode, topN int) ([]Item, error) {
	return e.recommend.Recommend(e.ctx(ctx), t, prefs, m, topN)
}

// ctx attaches the engine logger unless the caller already carries one.
func (e *Engine) ctx(ctx context.Context) context.Context {
	if _, ok := logger.Lookup(ctx); ok {
		return ctx
	}
	return logger.ContextWithLogger(ctx, e.log)
}
