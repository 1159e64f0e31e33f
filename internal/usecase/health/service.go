package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates no model can serve predictions.
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

// Report aggregates health check results.
type Report struct {
	Status   Status                 `json:"status"`
	MLLoaded bool                   `json:"ml_model_loaded"`
	DLLoaded bool                   `json:"dl_model_loaded"`
	Checks   map[string]CheckResult `json:"checks"`
}

// Service coordinates health checks.
type Service struct {
	models ModelChecker
	cache  CachePinger
}

// New creates a Service. cache can be nil when caching is disabled.
func New(models ModelChecker, cache CachePinger) *Service {
	return &Service{models: models, cache: cache}
}

// Check reports model availability and cache connectivity. The service is
// unhealthy only when no model at all can predict; a single missing model
// or a dead cache degrades it.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	status := s.models.Status()
	if status.MLLoaded {
		checks["ml_model"] = CheckOK
	} else {
		checks["ml_model"] = CheckError
	}
	if status.DLLoaded {
		checks["dl_model"] = CheckOK
	} else {
		checks["dl_model"] = CheckError
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = CheckError
		} else {
			checks["cache"] = CheckOK
		}
	}

	overall := Healthy
	for _, v := range checks {
		if v == CheckError {
			overall = Degraded
			break
		}
	}
	if !status.Ready {
		overall = Unhealthy
	}

	return Report{
		Status:   overall,
		MLLoaded: status.MLLoaded,
		DLLoaded: status.DLLoaded,
		Checks:   checks,
	}
}
