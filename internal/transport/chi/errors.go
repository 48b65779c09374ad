package chi

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cityscout/internal/domain"
	"github.com/kailas-cloud/cityscout/internal/logger"
)

// ErrorCode is the machine-readable error class of an API response.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest         ErrorCode = "bad_request"
	CodeValidationFailed   ErrorCode = "validation_failed"
	CodeUnknownMode        ErrorCode = "unknown_mode"
	CodeUnauthorized       ErrorCode = "unauthorized"
	CodeSessionNotFound    ErrorCode = "session_not_found"
	CodeClusterNotFound    ErrorCode = "cluster_not_found"
	CodeNotFound           ErrorCode = "not_found"
	CodeInsufficientData   ErrorCode = "insufficient_data"
	CodeEmptyDataset       ErrorCode = "empty_dataset"
	CodeDatasetUnavailable ErrorCode = "dataset_unavailable"
	CodeRateLimited        ErrorCode = "rate_limited"
	CodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	// Parameter is set for out-of-range parameters.
	Parameter *ParameterDetail `json:"parameter,omitempty"`
}

// ParameterDetail describes an out-of-range parameter.
type ParameterDetail struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		parameterErrorHandler,
		sentinelHandler(domain.ErrInvalidPreferences, http.StatusBadRequest, CodeValidationFailed, true),
		sentinelHandler(domain.ErrUnknownMode, http.StatusBadRequest, CodeUnknownMode, true),
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, CodeSessionNotFound, false),
		sentinelHandler(domain.ErrClusterNotFound, http.StatusNotFound, CodeClusterNotFound, true),
		sentinelHandler(domain.ErrInsufficientData, http.StatusUnprocessableEntity, CodeInsufficientData, true),
		sentinelHandler(domain.ErrEmptyDataset, http.StatusUnprocessableEntity, CodeEmptyDataset, false),
		sentinelHandler(domain.ErrDatasetUnavailable, http.StatusServiceUnavailable, CodeDatasetUnavailable, false),
	}
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// verbose handlers echo the full error chain, which only carries user input.
func sentinelHandler(sentinel error, status int, code ErrorCode, verbose bool) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := sentinel.Error()
		if verbose {
			msg = err.Error()
		}
		writeError(w, status, code, msg)
		return true
	}
}

// parameterErrorHandler handles ErrInvalidParameter with the offending bounds.
func parameterErrorHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrInvalidParameter) {
		return false
	}
	resp := ErrorResponse{Code: CodeValidationFailed, Message: err.Error()}
	var pe *domain.ParameterError
	if errors.As(err, &pe) {
		resp.Parameter = &ParameterDetail{Name: pe.Name, Value: pe.Value, Min: pe.Min, Max: pe.Max}
	}
	writeJSON(w, http.StatusBadRequest, resp)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
