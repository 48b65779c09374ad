package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Check names.
const (
	CheckSessions = "sessions"
	CheckDataset  = "dataset"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	store   StorePinger
	dataset DatasetChecker
}

// New creates a Service. Either dependency may be nil, which skips its check.
func New(store StorePinger, dataset DatasetChecker) *Service {
	return &Service{store: store, dataset: dataset}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.store != nil {
		checks[CheckSessions] = result(s.store.Ping(ctx))
	}
	if s.dataset != nil {
		checks[CheckDataset] = result(s.dataset.Ready(ctx))
	}

	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}

	status := Healthy
	switch {
	case failed > 0 && failed == len(checks):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
