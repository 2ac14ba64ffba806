package quota

import (
	"context"

	"github.com/kailas-cloud/sportspulse/internal/domain/websearch"
)

// Store persists counters across restarts.
// Implementations must be idempotent (IncrBy can be called repeatedly).
type Store interface {
	IncrBy(ctx context.Context, key string, val int64) error
	Get(ctx context.Context, key string) (int64, error)
}

// SearchProvider queries an external web search API.
type SearchProvider interface {
	Search(ctx context.Context, query string, n int) ([]websearch.Result, error)
}

// Checker enforces a call budget. Reserve claims a call atomically; the caller then
// either commits it after a successful search or releases it.
type Checker interface {
	Reserve(ctx context.Context) error
	Commit()
	Release()
	RemainingDaily() int64
	RemainingMonthly() int64
}
