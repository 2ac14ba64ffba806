package passage

import "github.com/kailas-cloud/sportspulse/internal/domain"

// Extraction quality of a web passage.
const (
	ExtractionFull    = "full"
	ExtractionPartial = "partial"
)

// Passage is a scored text span returned by a retriever.
// Score is the retriever's own confidence in [0,1]; it is not comparable across sources
// until the ranker calibrates it.
type Passage struct {
	Text           string
	Context        string
	Score          float64
	RetrievalScore float64 // BM25 score for static passages
	DocumentID     string  // document id or page URL
	Title          string
	URL            string
	Source         domain.Source
	SearchRank     int    // 1-based provider rank, web passages only
	Extraction     string // ExtractionFull / ExtractionPartial, web passages only
	Meta           map[string]string
}
