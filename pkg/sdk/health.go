package docsearch

import (
	"context"

	healthuc "github.com/kailas-cloud/docsearch/internal/usecase/health"
)

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded"
	Checks map[string]string // component → "ok"/"error"/"loading"
}

// Health checks the vector index, the embedding provider and the model.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// Ready reports whether the query embedding model has loaded.
func (c *Client) Ready() bool {
	return c.healthSvc.Readiness().ModelReady
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
	Readiness() healthuc.Readiness
}
