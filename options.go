package cityscout

import "go.uber.org/zap"

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	analysis AnalysisConfig
	logger   *zap.Logger
}

// WithAnalysisConfig replaces the clustering and ranking tunables.
// Zero fields fall back to their defaults.
func WithAnalysisConfig(c AnalysisConfig) Option {
	return func(cfg *engineConfig) {
		def := DefaultAnalysisConfig()
		if c.Seed == 0 {
			c.Seed = def.Seed
		}
		if c.Restarts <= 0 {
			c.Restarts = def.Restarts
		}
		if c.MaxIterations <= 0 {
			c.MaxIterations = def.MaxIterations
		}
		if c.Tolerance <= 0 {
			c.Tolerance = def.Tolerance
		}
		if c.VarianceThreshold <= 0 || c.VarianceThreshold > 1 {
			c.VarianceThreshold = def.VarianceThreshold
		}
		if c.DefaultTopN <= 0 {
			c.DefaultTopN = def.DefaultTopN
		}
		if c.MaxTopN <= 0 {
			c.MaxTopN = def.MaxTopN
		}
		if c.ElbowMaxK <= 0 {
			c.ElbowMaxK = def.ElbowMaxK
		}
		cfg.analysis = c
	}
}

// WithSeed sets the seed of the randomized stages.
func WithSeed(seed uint64) Option {
	return func(cfg *engineConfig) {
		cfg.analysis.Seed = seed
	}
}

// WithLogger attaches a logger to every engine call. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *engineConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}
