// Package feature turns a city table into the numeric matrix consumed by
// PCA and clustering.
package feature

import (
	"fmt"

	"github.com/kailas-cloud/cityscout/internal/domain"
	"github.com/kailas-cloud/cityscout/internal/domain/city"
)

// Prepared is a feature matrix aligned row-by-row with its source table.
type Prepared struct {
	// Rows holds one vector per table row, in table order.
	Rows [][]float64
	// Names are the effective feature columns, in canonical order.
	Names []string
	// Missing are the canonical features absent from the table.
	Missing []string
}

// Dim returns the number of feature columns.
func (p Prepared) Dim() int { return len(p.Names) }

// Len returns the number of rows.
func (p Prepared) Len() int { return len(p.Rows) }

// Prepare selects the canonical clustering features present in t and fills
// missing cells with the column mean. An all-missing column is filled with 0.
func Prepare(t *city.Table) (Prepared, error) {
	if t == nil || t.Len() == 0 {
		return Prepared{}, fmt.Errorf("prepare features: %w", domain.ErrEmptyDataset)
	}
	names, missing := t.Available(city.ClusterFeatures())
	return Prepared{
		Rows:    Select(t, names, FillMean),
		Names:   names,
		Missing: missing,
	}, nil
}

// Fill decides how missing cells are replaced.
type Fill int

// Fill policies.
const (
	// FillMean replaces a missing cell with the mean of the column's present cells.
	FillMean Fill = iota
	// FillZero replaces a missing cell with 0.
	FillZero
)

// Select builds a row-aligned matrix from the given columns.
func Select(t *city.Table, names []string, fill Fill) [][]float64 {
	fills := make([]float64, len(names))
	if fill == FillMean {
		for j, name := range names {
			fills[j] = city.PresentMean(t.Column(name))
		}
	}

	rows := make([][]float64, t.Len())
	for i := range rows {
		r := t.Row(i)
		vec := make([]float64, len(names))
		for j, name := range names {
			vec[j] = r.ValueOr(name, fills[j])
		}
		rows[i] = vec
	}
	return rows
}
