package quota

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sportspulse/internal/domain"
	"github.com/kailas-cloud/sportspulse/internal/domain/websearch"
	"github.com/kailas-cloud/sportspulse/internal/metrics"
)

// Provider wraps a SearchProvider with budget enforcement.
// Only successful searches are counted; failed calls are not billed by the provider.
type Provider struct {
	inner  SearchProvider
	name   string
	budget Checker
	logger *zap.Logger
}

// NewProvider wraps inner. name labels logs and metrics.
func NewProvider(inner SearchProvider, name string, budget Checker, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Provider{inner: inner, name: name, budget: budget, logger: logger}
	p.publishRemaining()
	return p
}

// Search reserves a call, delegates, and commits the reservation on success.
func (p *Provider) Search(ctx context.Context, query string, n int) ([]websearch.Result, error) {
	if err := p.budget.Reserve(ctx); err != nil {
		p.logger.Warn("Search quota exhausted, skipping web search",
			zap.String("provider", p.name),
			zap.Int64("remaining_daily", p.budget.RemainingDaily()),
			zap.Int64("remaining_monthly", p.budget.RemainingMonthly()),
		)
		return nil, domain.NewSearchUnavailable(domain.ReasonQuotaExceeded, err)
	}

	results, err := p.inner.Search(ctx, query, n)
	if err != nil {
		p.budget.Release()
		return nil, fmt.Errorf("search: %w", err)
	}

	p.budget.Commit()
	p.publishRemaining()
	return results, nil
}

func (p *Provider) publishRemaining() {
	g := metrics.SearchQuotaRemaining
	g.WithLabelValues(p.name, "daily").Set(float64(p.budget.RemainingDaily()))
	g.WithLabelValues(p.name, "monthly").Set(float64(p.budget.RemainingMonthly()))
}
