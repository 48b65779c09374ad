package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/cityscout/internal/domain"
)

// Analysis Prometheus metrics.
var (
	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Duration of analysis operations in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	AnalysisErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_errors_total",
			Help:      "Total failed analysis operations",
		},
		[]string{"operation", "kind"},
	)

	ClusterChosenK = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cluster_chosen_k",
			Help:      "Cluster count of the most recent fit",
		},
	)

	ClusterSilhouette = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cluster_silhouette",
			Help:      "Silhouette score of the most recent fit",
		},
	)
)

var analysisMetricsRegistered bool

// RegisterAnalysisMetrics registers the analysis metrics. Must be called once from main.
func RegisterAnalysisMetrics() {
	if analysisMetricsRegistered {
		return
	}
	prometheus.MustRegister(AnalysisDuration)
	prometheus.MustRegister(AnalysisErrorsTotal)
	prometheus.MustRegister(ClusterChosenK)
	prometheus.MustRegister(ClusterSilhouette)
	analysisMetricsRegistered = true
}

// ObserveAnalysis records the duration of an operation started at start and
// counts err, if any, by its kind.
func ObserveAnalysis(operation string, start time.Time, err error) {
	AnalysisDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		AnalysisErrorsTotal.WithLabelValues(operation, ErrorKind(err)).Inc()
	}
}

// ObserveClusterFit records the outcome of a clustering fit.
func ObserveClusterFit(k int, silhouette float64) {
	ClusterChosenK.Set(float64(k))
	ClusterSilhouette.Set(silhouette)
}

// ErrorKind maps an error to a low-cardinality label.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyDataset):
		return "empty_dataset"
	case errors.Is(err, domain.ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, domain.ErrInvalidParameter):
		return "invalid_parameter"
	case errors.Is(err, domain.ErrInvalidPreferences):
		return "invalid_preferences"
	case errors.Is(err, domain.ErrUnknownMode):
		return "unknown_mode"
	default:
		return "internal"
	}
}
