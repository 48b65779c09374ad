package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDataset signals a dataset without rows.
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrInsufficientData signals too few rows for the requested analysis.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidParameter signals a caller-supplied parameter outside its valid range.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInvalidPreferences signals a preference record that failed validation.
	ErrInvalidPreferences = errors.New("invalid preferences")
	// ErrUnknownMode signals an unsupported recommendation mode.
	ErrUnknownMode = errors.New("unknown recommendation mode")
	// ErrSessionNotFound signals a missing or expired wizard session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrDatasetUnavailable signals that no dataset has been loaded.
	ErrDatasetUnavailable = errors.New("dataset unavailable")
	// ErrClusterNotFound signals a cluster id outside the fitted labels.
	ErrClusterNotFound = errors.New("cluster not found")
)

// ParameterError wraps ErrInvalidParameter with the offending value and its bounds.
type ParameterError struct {
	Name  string
	Value float64
	Min   float64
	Max   float64
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: %s=%g outside [%g, %g]", ErrInvalidParameter.Error(), e.Name, e.Value, e.Min, e.Max)
}

func (e *ParameterError) Unwrap() error { return ErrInvalidParameter }

// NewParameterError creates an invalid-parameter error.
func NewParameterError(name string, value, lo, hi float64) error {
	return &ParameterError{Name: name, Value: value, Min: lo, Max: hi}
}

// InsufficientDataError wraps ErrInsufficientData with the row counts.
type InsufficientDataError struct {
	Rows int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: at least %d cities are required, got %d", ErrInsufficientData.Error(), e.Need, e.Rows)
}

func (e *InsufficientDataError) Unwrap() error { return ErrInsufficientData }

// NewInsufficientData creates an insufficient-data error.
func NewInsufficientData(rows, need int) error {
	return &InsufficientDataError{Rows: rows, Need: need}
}
