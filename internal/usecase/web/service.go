// Package web retrieves answer passages from live web search results.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sportspulse/internal/domain"
	"github.com/kailas-cloud/sportspulse/internal/domain/passage"
	"github.com/kailas-cloud/sportspulse/internal/domain/websearch"
	"github.com/kailas-cloud/sportspulse/internal/logger"
	"github.com/kailas-cloud/sportspulse/internal/metrics"
	"github.com/kailas-cloud/sportspulse/internal/textproc"
	"github.com/kailas-cloud/sportspulse/internal/usecase/web/extract"
)

// Defaults for the web retriever.
const (
	DefaultTopN          = 5
	DefaultTimeout       = 20 * time.Second
	DefaultSearchTimeout = 8 * time.Second
	DefaultScopeTerms    = "sports news NBA basketball"
	DefaultWorkers       = 5
	DefaultContextChars  = 250
)

// Config tunes the web retriever. Zero values take the defaults.
type Config struct {
	TopN int
	// Timeout bounds the whole retrieval: search, fetch and extraction.
	Timeout time.Duration
	// SearchTimeout bounds the provider call alone so that page fetching keeps part of
	// Timeout. It is capped at half of Timeout.
	SearchTimeout time.Duration
	ScopeTerms   string
	Workers      int
	ContextChars int
}

// Service is the web retriever: search, fetch, extract and score.
type Service struct {
	provider  SearchProvider
	fetcher   PageFetcher
	extractor *extract.Extractor
	pool      *ants.Pool
	cfg       Config
}

// New creates a web retriever. provider can be nil, in which case every Retrieve fails with
// a search-unavailable error. Call Close to release the fetch workers.
func New(provider SearchProvider, fetcher PageFetcher, extractor *extract.Extractor, cfg Config) (*Service, error) {
	if cfg.TopN <= 0 {
		cfg.TopN = DefaultTopN
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = DefaultSearchTimeout
	}
	if cfg.SearchTimeout > cfg.Timeout/2 {
		cfg.SearchTimeout = cfg.Timeout / 2
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.ContextChars <= 0 {
		cfg.ContextChars = DefaultContextChars
	}
	cfg.ScopeTerms = strings.TrimSpace(cfg.ScopeTerms)

	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("create fetch pool: %w", err)
	}
	return &Service{
		provider:  provider,
		fetcher:   fetcher,
		extractor: extractor,
		pool:      pool,
		cfg:       cfg,
	}, nil
}

// Configured reports whether a search provider is available.
func (s *Service) Configured() bool { return s.provider != nil }

// Close releases the fetch workers.
func (s *Service) Close() { s.pool.Release() }

// Retrieve searches the web for the question and returns at most k passages in provider rank
// order. Pages that cannot be fetched or extracted are dropped. Provider failures and a
// request timeout without any passage are reported as domain.ErrSearchUnavailable.
func (s *Service) Retrieve(ctx context.Context, question string, k int) ([]passage.Passage, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", domain.ErrInvalidQuery)
	}
	if s.provider == nil {
		return nil, domain.NewSearchUnavailable(domain.ReasonUnconfigured, nil)
	}
	if k <= 0 {
		return []passage.Passage{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	results, err := s.search(ctx, question)
	if err != nil {
		return nil, err
	}
	if len(results) > s.cfg.TopN {
		results = results[:s.cfg.TopN]
	}

	terms := textproc.UniqueTerms(question)
	pages := s.fetchAll(ctx, results, terms)

	out := make([]passage.Passage, 0, len(pages))
	for _, p := range pages {
		if p != nil {
			out = append(out, *p)
		}
	}
	if len(out) == 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, domain.NewSearchUnavailable(domain.ReasonTimeout, ctx.Err())
	}
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

func (s *Service) scoped(question string) string {
	if s.cfg.ScopeTerms == "" {
		return question
	}
	return question + " " + s.cfg.ScopeTerms
}

// fetchAll reads every result page on the worker pool. The returned slice is indexed like
// results; dropped pages are nil.
func (s *Service) fetchAll(ctx context.Context, results []websearch.Result, terms []string) []*passage.Passage {
	log := logger.FromContext(ctx)
	pages := make([]*passage.Passage, len(results))

	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			pages[i] = s.readPage(ctx, results[i], terms)
		})
		if err != nil {
			wg.Done()
			log.Warn("Failed to schedule page fetch", zap.String("url", results[i].URL), zap.Error(err))
		}
	}
	wg.Wait()
	return pages
}

func (s *Service) readPage(ctx context.Context, r websearch.Result, terms []string) *passage.Passage {
	log := logger.FromContext(ctx).With(zap.String("url", r.URL), zap.Int("rank", r.Rank))

	if r.URL == "" || s.fetcher == nil {
		return nil
	}
	body, err := s.fetcher.Fetch(ctx, r.URL)
	if err != nil {
		metrics.PageExtractionsTotal.WithLabelValues("fetch_failed").Inc()
		log.Debug("Dropping page: fetch failed", zap.Error(err))
		return nil
	}
	ex, err := s.extractor.Extract(bytes.NewReader(body))
	if err != nil {
		metrics.PageExtractionsTotal.WithLabelValues("failed").Inc()
		log.Debug("Dropping page: no content", zap.Error(err))
		return nil
	}
	metrics.PageExtractionsTotal.WithLabelValues(ex.Strategy).Inc()

	rd := textproc.NewSpanReader(terms, nil, s.cfg.ContextChars)
	sp, ok := rd.Best(ex.Text)
	if !ok {
		sp = rd.Lead(ex.Text)
	}

	meta := map[string]string{"strategy": ex.Strategy}
	if r.Snippet != "" {
		meta["snippet"] = r.Snippet
	}
	if r.Date != "" {
		meta["date"] = r.Date
	}
	if r.Publisher != "" {
		meta["publisher"] = r.Publisher
	}

	return &passage.Passage{
		Text:       sp.Text,
		Context:    sp.Context,
		Score:      Score(r.Rank, ex.Quality),
		DocumentID: r.URL,
		Title:      r.Title,
		URL:        r.URL,
		Source:     domain.SourceWebSearch,
		SearchRank: r.Rank,
		Extraction: ex.Quality,
		Meta:       meta,
	}
}

// search runs the provider call under its own deadline inside the retrieval deadline.
func (s *Service) search(ctx context.Context, question string) ([]websearch.Result, error) {
	sctx, cancel := context.WithTimeout(ctx, s.cfg.SearchTimeout)
	defer cancel()

	results, err := s.provider.Search(sctx, s.scoped(question), s.cfg.TopN)
	if err != nil {
		return nil, classify(sctx, err)
	}
	return results, nil
}

// classify turns a provider error into a search-unavailable error with a reason.
func classify(ctx context.Context, err error) error {
	if domain.SearchUnavailableReason(err) != "" {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.NewSearchUnavailable(domain.ReasonTimeout, err)
	}
	return domain.NewSearchUnavailable(domain.ReasonProviderError, err)
}
