package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckLoading indicates the model has not finished loading.
	CheckLoading CheckResult = "loading"
)

// Check names.
const (
	CheckVectorIndex = "vector_index"
	CheckEmbedding   = "embedding"
	CheckModel       = "model"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Readiness is the side-effect-free model readiness snapshot.
type Readiness struct {
	Status     Status
	ModelReady bool
	Timestamp  time.Time
}

// Service coordinates health checks.
type Service struct {
	index     IndexPinger
	embedding EmbeddingChecker
	model     ModelState
	now       func() time.Time
}

// New creates a Service. index and embedding can be nil.
func New(index IndexPinger, embedding EmbeddingChecker, model ModelState) *Service {
	return &Service{index: index, embedding: embedding, model: model, now: time.Now}
}

// Readiness reads the model flag only; it never touches collaborators.
func (s *Service) Readiness() Readiness {
	return Readiness{
		Status:     Healthy,
		ModelReady: s.model.IsReady(),
		Timestamp:  s.now().UTC(),
	}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 3)

	if s.index != nil {
		checks[CheckVectorIndex] = result(s.index.Ping(ctx))
	}
	if s.embedding != nil {
		checks[CheckEmbedding] = result(s.embedding.HealthCheck(ctx))
	}
	switch {
	case s.model.IsReady():
		checks[CheckModel] = CheckOK
	case s.model.LoadFailed():
		checks[CheckModel] = CheckError
	default:
		checks[CheckModel] = CheckLoading
	}

	status := Healthy
	for _, v := range checks {
		if v != CheckOK {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
