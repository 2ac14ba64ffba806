package static

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/sportspulse/internal/domain"
	"github.com/kailas-cloud/sportspulse/internal/domain/document"
	"github.com/kailas-cloud/sportspulse/internal/repository/docstore"
)

// --- Mocks ---

type mockStore struct {
	ready     bool
	searchErr error
	searched  bool
}

func (m *mockStore) Ready() bool { return m.ready }

func (m *mockStore) Search(_ []string, _ int) ([]document.Hit, error) {
	m.searched = true
	return nil, m.searchErr
}

func (m *mockStore) Get(id string) (document.Document, error) {
	return document.Document{}, errors.New("not found")
}

func (m *mockStore) IDF(_ string) float64 { return 1 }

type mockEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	if v, ok := m.vectors[text]; ok {
		return domain.EmbeddingResult{Embedding: v}, nil
	}
	return domain.EmbeddingResult{Embedding: []float32{0, 1}}, nil
}

// --- Helpers ---

func newCorpus(t *testing.T) *docstore.Store {
	t.Helper()
	docs := []struct{ id, title, body string }{
		{"lbj", "LeBron James and Stephen A. Smith",
			"The Lakers lost again on Thursday. LeBron James confronted Stephen A. Smith courtside after the game. " +
				"The exchange was about comments Smith made regarding Bronny James. Smith later addressed it on his show."},
		{"celtics", "Celtics roll",
			"The Boston Celtics beat the Knicks by twenty points. Jayson Tatum scored thirty."},
		{"rental", "Rental dispute",
			"A former NBA player was accused of leaving a rental home in disrepair. The landlord filed a complaint."},
	}
	in := make([]document.Document, 0, len(docs))
	for _, d := range docs {
		doc, err := document.New(d.id, document.Fields{Title: d.title, Body: d.body, Category: "NBA"})
		if err != nil {
			t.Fatalf("document.New: %v", err)
		}
		in = append(in, doc)
	}
	s := docstore.New(docstore.DefaultParams())
	if err := s.Load(in); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

// --- Tests ---

func TestRetrieve_InvalidQuery(t *testing.T) {
	store := &mockStore{ready: true}
	svc := New(store)
	for _, q := range []string{"", "   \t\n"} {
		if _, err := svc.Retrieve(context.Background(), q, 5); !errors.Is(err, domain.ErrInvalidQuery) {
			t.Errorf("%q: expected ErrInvalidQuery, got %v", q, err)
		}
	}
	if store.searched {
		t.Error("store must not be searched for an invalid query")
	}
}

func TestRetrieve_NotReady(t *testing.T) {
	svc := New(&mockStore{ready: false})
	if _, err := svc.Retrieve(context.Background(), "who won", 5); !errors.Is(err, domain.ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", err)
	}
}

func TestRetrieve_SearchError(t *testing.T) {
	svc := New(&mockStore{ready: true, searchErr: errors.New("boom")})
	if _, err := svc.Retrieve(context.Background(), "celtics", 5); err == nil {
		t.Error("expected search error to propagate")
	}
}

func TestRetrieve_BestSpan(t *testing.T) {
	svc := New(newCorpus(t))
	ps, err := svc.Retrieve(context.Background(), "What happened between LeBron James and Stephen A. Smith?", 5)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(ps) == 0 {
		t.Fatal("expected passages")
	}
	top := ps[0]
	if top.DocumentID != "lbj" {
		t.Fatalf("expected lbj first, got %q", top.DocumentID)
	}
	if !strings.Contains(top.Text, "confronted Stephen A. Smith") {
		t.Errorf("expected the confrontation sentence, got %q", top.Text)
	}
	if top.Source != domain.SourceKnowledgeBase {
		t.Errorf("expected knowledge_base source, got %q", top.Source)
	}
	if top.Score <= 0 || top.Score > 1 {
		t.Errorf("score out of range: %f", top.Score)
	}
	if top.RetrievalScore <= 0 {
		t.Error("expected BM25 score to be carried")
	}
	if len([]rune(top.Context)) > DefaultContextChars+3 {
		t.Errorf("context too long: %d", len(top.Context))
	}
	if top.Meta["category"] != "NBA" {
		t.Errorf("expected category meta, got %v", top.Meta)
	}
}

func TestRetrieve_Bounds(t *testing.T) {
	svc := New(newCorpus(t)).WithMinScore(0)
	ps, err := svc.Retrieve(context.Background(), "NBA Celtics Knicks LeBron rental", 2)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(ps) > 2 {
		t.Errorf("expected at most 2 passages, got %d", len(ps))
	}
	for i := 1; i < len(ps); i++ {
		if ps[i].Score > ps[i-1].Score {
			t.Errorf("passages not sorted at %d", i)
		}
	}

	none, err := svc.Retrieve(context.Background(), "celtics", 0)
	if err != nil || len(none) != 0 {
		t.Errorf("k=0 must return no passages, got %d (%v)", len(none), err)
	}
}

func TestRetrieve_NoMatchIsEmpty(t *testing.T) {
	svc := New(newCorpus(t))
	ps, err := svc.Retrieve(context.Background(), "cricket world cup", 5)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if ps == nil || len(ps) != 0 {
		t.Errorf("expected empty non-nil result, got %v", ps)
	}
}

func TestRetrieve_StopWordsOnly(t *testing.T) {
	svc := New(newCorpus(t))
	ps, err := svc.Retrieve(context.Background(), "what is the", 5)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(ps) != 0 {
		t.Errorf("expected no passages, got %d", len(ps))
	}
}

func TestRetrieve_Floor(t *testing.T) {
	svc := New(newCorpus(t)).WithMinScore(1)
	ps, err := svc.Retrieve(context.Background(), "Celtics landlord complaint Tatum", 5)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(ps) != 0 {
		t.Errorf("partial matches must not pass a floor of 1, got %+v", ps)
	}
}

func TestRetrieve_TieBreakByDocumentID(t *testing.T) {
	s := docstore.New(docstore.DefaultParams())
	var docs []document.Document
	for _, id := range []string{"b", "a"} {
		d, _ := document.New(id, document.Fields{Body: "Trade deadline moves."})
		docs = append(docs, d)
	}
	if err := s.Load(docs); err != nil {
		t.Fatalf("Load: %v", err)
	}
	ps, err := New(s).Retrieve(context.Background(), "trade deadline", 5)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(ps) != 2 || ps[0].DocumentID != "a" || ps[1].DocumentID != "b" {
		t.Errorf("expected a before b, got %+v", ps)
	}
}

func TestRetrieve_Idempotent(t *testing.T) {
	svc := New(newCorpus(t))
	q := "Celtics Knicks score"
	first, err := svc.Retrieve(context.Background(), q, 5)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := svc.Retrieve(context.Background(), q, 5)
		if err != nil {
			t.Fatalf("Retrieve: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("length changed: %d vs %d", len(again), len(first))
		}
		for j := range first {
			if again[j].DocumentID != first[j].DocumentID || again[j].Score != first[j].Score {
				t.Fatalf("result %d changed", j)
			}
		}
	}
}

func TestRetrieve_SemanticBlend(t *testing.T) {
	q := "Celtics Knicks"
	emb := &mockEmbedder{vectors: map[string][]float32{q: {1, 0}}}
	lexical, err := New(newCorpus(t)).Retrieve(context.Background(), q, 5)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	blended, err := New(newCorpus(t)).WithMinScore(0).WithSemantic(emb, 0.5).Retrieve(context.Background(), q, 5)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if emb.calls == 0 {
		t.Fatal("expected embedder to be called")
	}
	// orthogonal span vectors halve the lexical score
	if len(lexical) == 0 || len(blended) == 0 {
		t.Fatal("expected passages")
	}
	if want := lexical[0].Score * 0.5; blended[0].Score != want {
		t.Errorf("expected blended score %f, got %f", want, blended[0].Score)
	}
}

func TestRetrieve_SemanticFailureKeepsLexical(t *testing.T) {
	q := "Celtics Knicks"
	lexical, _ := New(newCorpus(t)).Retrieve(context.Background(), q, 5)
	emb := &mockEmbedder{err: errors.New("provider down")}
	got, err := New(newCorpus(t)).WithSemantic(emb, 0.5).Retrieve(context.Background(), q, 5)
	if err != nil {
		t.Fatalf("embedding failure must not fail retrieval: %v", err)
	}
	if len(got) != len(lexical) || got[0].Score != lexical[0].Score {
		t.Errorf("expected lexical scores to be kept, got %+v", got)
	}
}

func TestCosine(t *testing.T) {
	if c := cosine([]float32{1, 0}, []float32{1, 0}); c != 1 {
		t.Errorf("expected 1, got %f", c)
	}
	if c := cosine([]float32{1, 0}, []float32{0, 1}); c != 0 {
		t.Errorf("expected 0, got %f", c)
	}
	if c := cosine([]float32{1}, []float32{1, 0}); c != 0 {
		t.Errorf("mismatched dims must score 0, got %f", c)
	}
}
