package mode

import (
	"fmt"

	"github.com/kailas-cloud/cityscout/internal/domain"
)

// Mode is the recommendation strategy.
type Mode string

// Recommendation mode constants.
const (
	// Hybrid blends preference and similarity scores.
	Hybrid      Mode = "hybrid"
	Preferences Mode = "preferences"
	Similarity  Mode = "similarity"
	// Cluster returns the other members of the target city's cluster.
	Cluster Mode = "cluster"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Hybrid || m == Preferences || m == Similarity || m == Cluster
}

// Parse converts a string to a Mode. Empty input selects Hybrid.
func Parse(s string) (Mode, error) {
	if s == "" {
		return Hybrid, nil
	}
	m := Mode(s)
	if !m.IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownMode, s)
	}
	return m, nil
}
