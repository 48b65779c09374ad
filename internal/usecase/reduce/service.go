// Package reduce projects the city feature matrix onto its principal components.
package reduce

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cityscout/internal/domain"
	"github.com/kailas-cloud/cityscout/internal/domain/city"
	"github.com/kailas-cloud/cityscout/internal/domain/feature"
	"github.com/kailas-cloud/cityscout/internal/domain/pca"
	"github.com/kailas-cloud/cityscout/internal/logger"
	"github.com/kailas-cloud/cityscout/internal/metrics"
)

// Params controls the projection. A nil Components selects the smallest
// count whose cumulative explained variance reaches VarianceThreshold;
// a zero VarianceThreshold uses the service default.
type Params struct {
	Components        *int    `json:"n_components,omitempty"`
	VarianceThreshold float64 `json:"variance_threshold,omitempty"`
}

// ProjectedRow is one city in component space.
type ProjectedRow struct {
	City       string    `json:"city"`
	Country    string    `json:"country"`
	Region     string    `json:"region"`
	Components []float64 `json:"components"`
}

// Projection is the row-aligned PCA output.
type Projection struct {
	Rows                   []ProjectedRow `json:"rows"`
	ExplainedVarianceRatio []float64      `json:"explained_variance_ratio"`
	Features               []string       `json:"features"`
}

// ComponentNames returns PC1..PCk.
func (p Projection) ComponentNames() []string {
	names := make([]string, len(p.ExplainedVarianceRatio))
	for i := range names {
		names[i] = fmt.Sprintf("PC%d", i+1)
	}
	return names
}

// Cumulative returns the running sum of the explained variance ratios.
func (p Projection) Cumulative() []float64 { return pca.Cumulative(p.ExplainedVarianceRatio) }

// Service runs dimensionality reduction.
type Service struct {
	threshold float64
}

// New creates a reduce service. threshold is the default cumulative variance target.
func New(threshold float64) *Service {
	if threshold <= 0 || threshold > 1 {
		threshold = domain.DefaultAnalysisConfig().VarianceThreshold
	}
	return &Service{threshold: threshold}
}

// Reduce prepares and standardizes the table features, then projects them.
func (s *Service) Reduce(ctx context.Context, t *city.Table, p Params) (out Projection, err error) {
	start := time.Now()
	defer func() { metrics.ObserveAnalysis("reduce", start, err) }()

	prep, err := feature.Prepare(t)
	if err != nil {
		return Projection{}, err
	}
	if prep.Len() < domain.MinAnalysisRows {
		return Projection{}, domain.NewInsufficientData(prep.Len(), domain.MinAnalysisRows)
	}
	log := logger.FromContext(ctx)
	if len(prep.Missing) > 0 {
		log.Warn("Feature columns missing from dataset", zap.Strings("columns", prep.Missing))
	}

	threshold := p.VarianceThreshold
	if threshold == 0 {
		threshold = s.threshold
	}
	projected, ratios, err := Project(feature.Standardize(prep.Rows), p.Components, threshold)
	if err != nil {
		return Projection{}, err
	}

	rows := make([]ProjectedRow, len(projected))
	for i, vec := range projected {
		r := t.Row(i)
		rows[i] = ProjectedRow{City: r.City, Country: r.Country, Region: r.Region, Components: vec}
	}

	log.Debug("PCA fitted",
		zap.Int("features", prep.Dim()),
		zap.Int("components", len(ratios)),
		zap.Float64s("explained_variance_ratio", ratios),
	)
	return Projection{Rows: rows, ExplainedVarianceRatio: ratios, Features: prep.Names}, nil
}

// Project fits PCA on an already standardized matrix and returns the rows
// projected onto the requested number of components together with their
// explained variance ratios. A nil components selects the count from threshold.
func Project(std [][]float64, components *int, threshold float64) ([][]float64, []float64, error) {
	if threshold <= 0 || threshold > 1 {
		return nil, nil, domain.NewParameterError("variance_threshold", threshold, 0, 1)
	}
	model, err := pca.Fit(std)
	if err != nil {
		return nil, nil, fmt.Errorf("fit pca: %w", err)
	}

	k := 0
	if components != nil {
		k = *components
		if k < 1 || k > model.Available() {
			return nil, nil, domain.NewParameterError("n_components", float64(k), 1, float64(model.Available()))
		}
	} else {
		k = model.ComponentsFor(threshold)
	}

	projected, err := model.Transform(std, k)
	if err != nil {
		return nil, nil, fmt.Errorf("project: %w", err)
	}
	return projected, model.Ratios(k), nil
}
