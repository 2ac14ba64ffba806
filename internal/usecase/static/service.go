// Package static retrieves answer passages from the loaded document store.
package static

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sportspulse/internal/domain"
	"github.com/kailas-cloud/sportspulse/internal/domain/document"
	"github.com/kailas-cloud/sportspulse/internal/domain/passage"
	"github.com/kailas-cloud/sportspulse/internal/logger"
	"github.com/kailas-cloud/sportspulse/internal/textproc"
)

// Defaults for the static retriever.
const (
	DefaultCandidates   = 10
	DefaultMinScore     = 0.2
	DefaultContextChars = 250
)

// Service is the static retriever: a BM25 shortlist narrowed to the best span per document.
type Service struct {
	store          Store
	candidates     int
	minScore       float64
	contextChars   int
	embedder       domain.Embedder
	semanticWeight float64
}

// New creates a static retriever over store.
func New(store Store) *Service {
	return &Service{
		store:        store,
		candidates:   DefaultCandidates,
		minScore:     DefaultMinScore,
		contextChars: DefaultContextChars,
	}
}

// WithCandidates sets the BM25 shortlist size.
func (s *Service) WithCandidates(n int) *Service {
	if n > 0 {
		s.candidates = n
	}
	return s
}

// WithMinScore sets the reader score floor. Passages below it are not returned.
func (s *Service) WithMinScore(f float64) *Service {
	if f >= 0 && f <= 1 {
		s.minScore = f
	}
	return s
}

// WithContextChars sets the maximum context snippet length.
func (s *Service) WithContextChars(n int) *Service {
	if n > 0 {
		s.contextChars = n
	}
	return s
}

// WithSemantic blends cosine similarity from e into the reader score with the given weight.
// A nil embedder or a weight outside (0,1] leaves scoring lexical.
func (s *Service) WithSemantic(e domain.Embedder, weight float64) *Service {
	if e != nil && weight > 0 && weight <= 1 {
		s.embedder = e
		s.semanticWeight = weight
	}
	return s
}

// Retrieve returns at most k passages for the question, ordered by reader score, then BM25
// score, then document id. An empty slice means nothing passed the relevance floor.
func (s *Service) Retrieve(ctx context.Context, question string, k int) ([]passage.Passage, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", domain.ErrInvalidQuery)
	}
	if !s.store.Ready() {
		return nil, domain.ErrNotReady
	}
	if k <= 0 {
		return []passage.Passage{}, nil
	}

	terms := textproc.UniqueTerms(question)
	if len(terms) == 0 {
		return []passage.Passage{}, nil
	}

	hits, err := s.store.Search(terms, s.candidates)
	if err != nil {
		return nil, fmt.Errorf("search store: %w", err)
	}

	rd := textproc.NewSpanReader(terms, s.store.IDF, s.contextChars)
	out := make([]passage.Passage, 0, len(hits))
	for _, h := range hits {
		doc, err := s.store.Get(h.DocumentID)
		if err != nil {
			return nil, fmt.Errorf("get document %q: %w", h.DocumentID, err)
		}
		sp, ok := rd.Best(doc.Body())
		if !ok {
			continue
		}
		out = append(out, toPassage(&doc, h, sp))
	}

	if s.embedder != nil && len(out) > 0 {
		s.blendSemantic(ctx, question, out)
	}

	kept := out[:0]
	for _, p := range out {
		if p.Score >= s.minScore && p.Score > 0 {
			kept = append(kept, p)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.RetrievalScore != b.RetrievalScore {
			return a.RetrievalScore > b.RetrievalScore
		}
		return a.DocumentID < b.DocumentID
	})
	if len(kept) > k {
		kept = kept[:k]
	}
	return kept, nil
}

// blendSemantic mixes query/span cosine similarity into passage scores. Embedding failures
// keep the lexical scores.
func (s *Service) blendSemantic(ctx context.Context, question string, ps []passage.Passage) {
	texts := make([]string, 0, len(ps)+1)
	texts = append(texts, question)
	for _, p := range ps {
		texts = append(texts, p.Text)
	}

	res, err := domain.EmbedAll(ctx, s.embedder, texts)
	if err != nil {
		logger.FromContext(ctx).Warn("Semantic reader unavailable, keeping lexical scores", zap.Error(err))
		return
	}

	q := res.Embeddings[0]
	w := s.semanticWeight
	for i := range ps {
		cos := math.Max(0, cosine(q, res.Embeddings[i+1]))
		ps[i].Score = math.Min(1, (1-w)*ps[i].Score+w*cos)
	}
}

func toPassage(doc *document.Document, h document.Hit, sp textproc.Span) passage.Passage {
	meta := map[string]string{}
	if doc.Category() != "" {
		meta["category"] = doc.Category()
	}
	if doc.Source() != "" {
		meta["publisher"] = doc.Source()
	}
	if t := doc.PublishedAt(); t != nil {
		meta["published_at"] = t.Format(time.RFC3339)
	}
	return passage.Passage{
		Text:           sp.Text,
		Context:        sp.Context,
		Score:          sp.Score,
		RetrievalScore: h.Score,
		DocumentID:     doc.ID(),
		Title:          doc.Title(),
		URL:            doc.URL(),
		Source:         domain.SourceKnowledgeBase,
		Meta:           meta,
	}
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
