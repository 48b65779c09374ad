// Package cityscout is the embeddable entry point to the city analysis
// engine: dimensionality reduction, clustering, similarity and
// preference-based recommendations over a table of cities.
package cityscout

import (
	"github.com/kailas-cloud/cityscout/internal/domain"
	"github.com/kailas-cloud/cityscout/internal/domain/city"
	"github.com/kailas-cloud/cityscout/internal/domain/feature"
	"github.com/kailas-cloud/cityscout/internal/domain/preference"
	"github.com/kailas-cloud/cityscout/internal/domain/recommendation"
	"github.com/kailas-cloud/cityscout/internal/domain/recommendation/mode"
	"github.com/kailas-cloud/cityscout/internal/usecase/cluster"
	"github.com/kailas-cloud/cityscout/internal/usecase/reduce"
)

// Aliases so callers outside the module can name engine inputs and outputs.
type (
	Table            = city.Table
	Row              = city.Row
	Features         = feature.Prepared
	ReduceParams     = reduce.Params
	Projection       = reduce.Projection
	ClusterParams    = cluster.Params
	ClusterResult    = cluster.Result
	Labeled          = cluster.Labeled
	ClusterSummary   = cluster.Summary
	ClusterDetail    = cluster.Detail
	ElbowPoint       = cluster.ElbowPoint
	Item             = recommendation.Item
	Breakdown        = recommendation.Breakdown
	Preferences      = preference.Preferences
	PreferenceParams = preference.Params
	Mode             = mode.Mode
	AnalysisConfig   = domain.AnalysisConfig
)

// Recommendation modes.
const (
	ModeHybrid      = mode.Hybrid
	ModePreferences = mode.Preferences
	ModeSimilarity  = mode.Similarity
	ModeCluster     = mode.Cluster
)

// Errors returned by the engine. Match them with errors.Is.
var (
	ErrEmptyDataset       = domain.ErrEmptyDataset
	ErrInsufficientData   = domain.ErrInsufficientData
	ErrInvalidParameter   = domain.ErrInvalidParameter
	ErrInvalidPreferences = domain.ErrInvalidPreferences
	ErrUnknownMode        = domain.ErrUnknownMode
)

// NewPreferences validates p and builds a preference record.
func NewPreferences(p PreferenceParams) (Preferences, error) { return preference.New(p) }

// ParseMode converts a mode name; the empty string selects ModeHybrid.
func ParseMode(s string) (Mode, error) { return mode.Parse(s) }

// NewTable builds a table from rows.
func NewTable(rows []Row) *Table { return city.NewTable(rows) }

// NewRow builds a row from its identity and numeric attributes.
func NewRow(name, country, region string, values map[string]float64) Row {
	return city.NewRow(name, country, region, values)
}

// DefaultAnalysisConfig returns the tunables used when none are set.
func DefaultAnalysisConfig() AnalysisConfig { return domain.DefaultAnalysisConfig() }
