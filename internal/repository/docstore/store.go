package docstore

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kailas-cloud/sportspulse/internal/domain"
	"github.com/kailas-cloud/sportspulse/internal/domain/document"
)

// Stats describes the loaded corpus.
type Stats struct {
	Ready     bool
	Documents int
	Terms     int
	LoadedAt  time.Time
}

// Store is the in-memory document store with BM25 retrieval.
// It is written exactly once by Load; all reads after that are lock-free.
type Store struct {
	params Params
	loadMu sync.Mutex
	idx    atomic.Pointer[index]
}

// New creates an empty store. Queries fail with domain.ErrNotReady until Load completes.
func New(params Params) *Store {
	return &Store{params: params.withDefaults()}
}

// Load indexes the corpus and opens the store for queries. It can be called once.
func (s *Store) Load(docs []document.Document) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if s.idx.Load() != nil {
		return domain.ErrAlreadyLoaded
	}

	idx, err := buildIndex(docs, s.params)
	if err != nil {
		return err
	}
	s.idx.Store(idx)
	return nil
}

// Ready reports whether Load has completed.
func (s *Store) Ready() bool { return s.idx.Load() != nil }

// Stats returns corpus statistics; zero value when not loaded.
func (s *Store) Stats() Stats {
	idx := s.idx.Load()
	if idx == nil {
		return Stats{}
	}
	return Stats{Ready: true, Documents: len(idx.docs), Terms: len(idx.postings), LoadedAt: idx.builtAt}
}

// Get returns a document by id.
func (s *Store) Get(id string) (document.Document, error) {
	idx := s.idx.Load()
	if idx == nil {
		return document.Document{}, domain.ErrNotReady
	}
	i, ok := idx.byID[id]
	if !ok {
		return document.Document{}, fmt.Errorf("document %q not found", id)
	}
	return idx.docs[i], nil
}

// Search scores documents against the query terms with BM25 and returns at most n hits with
// a positive score, ordered by score descending then document id ascending.
func (s *Store) Search(terms []string, n int) ([]document.Hit, error) {
	idx := s.idx.Load()
	if idx == nil {
		return nil, domain.ErrNotReady
	}
	if n <= 0 || len(terms) == 0 {
		return []document.Hit{}, nil
	}

	scores := make(map[int]float64)
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		if seen[t] {
			continue
		}
		seen[t] = true
		idf := idx.idf(t)
		for _, di := range idx.postings[t] {
			scores[di] += idf * idx.termWeight(di, t, s.params)
		}
	}

	hits := make([]document.Hit, 0, len(scores))
	for di, sc := range scores {
		if sc > 0 {
			hits = append(hits, document.Hit{DocumentID: idx.docs[di].ID(), Score: sc})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].DocumentID < hits[j].DocumentID
	})
	if len(hits) > n {
		hits = hits[:n]
	}
	return hits, nil
}

// IDF returns the inverse document frequency of a term. Terms absent from the corpus get the
// highest possible value; 0 when not loaded.
func (s *Store) IDF(term string) float64 {
	idx := s.idx.Load()
	if idx == nil {
		return 0
	}
	return idx.idf(term)
}

// HasTerm reports whether any loaded document contains the term.
func (s *Store) HasTerm(term string) bool {
	idx := s.idx.Load()
	if idx == nil {
		return false
	}
	return len(idx.postings[term]) > 0
}
