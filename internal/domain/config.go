package domain

// MinAnalysisRows is the smallest dataset PCA and clustering accept.
const MinAnalysisRows = 3

// AnalysisConfig holds tunables shared by the analysis services.
type AnalysisConfig struct {
	Seed              uint64
	Restarts          int
	MaxIterations     int
	Tolerance         float64
	VarianceThreshold float64
	DefaultTopN       int
	MaxTopN           int
	ElbowMaxK         int
}

// DefaultAnalysisConfig returns the defaults used when nothing is configured.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		Seed:              42,
		Restarts:          10,
		MaxIterations:     300,
		Tolerance:         1e-4,
		VarianceThreshold: 0.95,
		DefaultTopN:       10,
		MaxTopN:           100,
		ElbowMaxK:         15,
	}
}
