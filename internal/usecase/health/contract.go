package health

import "context"

// CorpusState reports whether the document store is loaded.
type CorpusState interface {
	Ready() bool
}

// SearchProvider reports whether live web search is configured.
type SearchProvider interface {
	Configured() bool
}

// CachePinger checks page cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
