package sportspulse

import (
	"context"

	healthuc "github.com/kailas-cloud/sportspulse/internal/usecase/health"
)

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"/"disabled"
}

// Health checks the corpus, the search provider, the page cache and the embedding API.
func (c *Client) Health(ctx context.Context) HealthStatus {
	if c.healthSvc == nil {
		return HealthStatus{Status: string(healthuc.Unhealthy), Checks: map[string]string{}}
	}
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
