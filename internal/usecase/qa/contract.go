package qa

import (
	"context"

	"github.com/kailas-cloud/sportspulse/internal/domain/answer"
	"github.com/kailas-cloud/sportspulse/internal/domain/passage"
	"github.com/kailas-cloud/sportspulse/internal/domain/query"
)

// Router decides whether a question needs live data.
type Router interface {
	Route(question string, liveEnabled bool) query.Decision
}

// Retriever returns candidate passages for a question.
type Retriever interface {
	Retrieve(ctx context.Context, question string, k int) ([]passage.Passage, error)
}

// WebRetriever is a Retriever backed by an optional search provider.
type WebRetriever interface {
	Retriever
	Configured() bool
}

// Ranker merges candidates into ordered answers.
type Ranker interface {
	Rank(static, web []passage.Passage) []answer.Answer
}

// Readiness reports whether the document store has been loaded.
type Readiness interface {
	Ready() bool
}
