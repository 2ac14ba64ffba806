package sportspulse

import (
	"context"
	"time"

	"github.com/kailas-cloud/sportspulse/internal/domain/answer"
	"github.com/kailas-cloud/sportspulse/internal/domain/query"
	"github.com/kailas-cloud/sportspulse/internal/domain/usage"
	"github.com/kailas-cloud/sportspulse/internal/domain/usage/budget"
	"github.com/kailas-cloud/sportspulse/internal/repository/docstore"
	healthuc "github.com/kailas-cloud/sportspulse/internal/usecase/health"
)

// --- qaUseCase mock ---

type mockQA struct {
	askFn func(ctx context.Context, q query.Request) (answer.Result, error)
}

func (m *mockQA) Ask(ctx context.Context, q query.Request) (answer.Result, error) {
	return m.askFn(ctx, q)
}

// --- healthUseCase mock ---

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report {
	return m.report
}

// --- corpusStats mock ---

type mockCorpus struct {
	stats docstore.Stats
}

func (m *mockCorpus) Stats() docstore.Stats {
	return m.stats
}

// --- usageUseCase mock ---

type mockUsage struct {
	got usage.Period
}

func (m *mockUsage) GetReport(_ context.Context, p usage.Period) usage.Report {
	m.got = p
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return usage.NewReport(p, start.UnixMilli(), end.UnixMilli(), "serpapi", 7,
		budget.New(10, 3, false, end.UnixMilli()))
}
