package web

import (
	"context"

	"github.com/kailas-cloud/sportspulse/internal/domain/websearch"
)

// SearchProvider queries an external web search API.
type SearchProvider interface {
	Search(ctx context.Context, query string, n int) ([]websearch.Result, error)
}

// PageFetcher downloads a page body.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
