// Package app wires the question answering pipeline from configuration. It is shared by the
// HTTP server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sportspulse/internal/config"
	dbRedis "github.com/kailas-cloud/sportspulse/internal/db/redis"
	"github.com/kailas-cloud/sportspulse/internal/metrics"
	"github.com/kailas-cloud/sportspulse/internal/repository/budget"
	"github.com/kailas-cloud/sportspulse/internal/repository/corpus"
	"github.com/kailas-cloud/sportspulse/internal/repository/docstore"
	"github.com/kailas-cloud/sportspulse/internal/repository/pagecache"
	"github.com/kailas-cloud/sportspulse/internal/transport/httpfetch"
	openaiEmb "github.com/kailas-cloud/sportspulse/internal/transport/openai"
	"github.com/kailas-cloud/sportspulse/internal/transport/serpapi"
	healthuc "github.com/kailas-cloud/sportspulse/internal/usecase/health"
	"github.com/kailas-cloud/sportspulse/internal/usecase/qa"
	"github.com/kailas-cloud/sportspulse/internal/usecase/quota"
	"github.com/kailas-cloud/sportspulse/internal/usecase/ranking"
	"github.com/kailas-cloud/sportspulse/internal/usecase/router"
	usageuc "github.com/kailas-cloud/sportspulse/internal/usecase/usage"
	"github.com/kailas-cloud/sportspulse/internal/usecase/static"
	"github.com/kailas-cloud/sportspulse/internal/usecase/web"
	"github.com/kailas-cloud/sportspulse/internal/usecase/web/extract"
)

// searchProviderName labels quota keys, logs and metrics.
const searchProviderName = "serpapi"

// App holds the wired services.
type App struct {
	Store  *docstore.Store
	QA     *qa.Service
	Health *healthuc.Service
	Usage  *usageuc.Service

	cfg    config.Config
	web    *web.Service
	cache  *dbRedis.Store
	logger *zap.Logger
}

// New builds every component from cfg. The document store starts empty; call LoadCorpus
// before answering questions. Optional components (page cache, semantic reader) that fail to
// initialise are logged and left out.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	a := &App{
		Store:  docstore.New(docstore.DefaultParams()),
		cfg:    cfg,
		logger: logger,
	}

	fetcher := a.buildFetcher(ctx)

	// Pass nil interfaces (not typed nil pointers) when search is not configured.
	var (
		provider web.SearchProvider
		quotaRd  usageuc.BudgetReader
	)
	if cfg.WebEnabled() {
		tracker := a.buildQuota(ctx)
		provider = quota.NewProvider(serpapi.NewClient(serpapi.Config{
			APIKey:  cfg.Search.APIKey,
			BaseURL: cfg.Search.BaseURL,
			Engine:  cfg.Search.Engine,
			News:    cfg.Search.News,
			Timeout: time.Duration(cfg.Search.SearchTimeoutSec) * time.Second,
			Logger:  logger,
		}), searchProviderName, tracker, logger)
		quotaRd = tracker
	} else {
		logger.Warn("Search provider key not set, web search disabled")
	}
	a.Usage = usageuc.New(searchProviderName, quotaRd)

	extractor := extract.NewDefault(extract.Config{
		MinFullChars: cfg.Fetch.MinFullChars,
		MinChars:     cfg.Fetch.MinChars,
		MaxChars:     cfg.Fetch.MaxChars,
	})

	webSvc, err := web.New(provider, fetcher, extractor, web.Config{
		TopN:          cfg.Search.TopN,
		Timeout:       time.Duration(cfg.Search.TimeoutSec) * time.Second,
		SearchTimeout: time.Duration(cfg.Search.SearchTimeoutSec) * time.Second,
		ScopeTerms:    cfg.Search.ScopeTerms,
		Workers:       cfg.Search.Workers,
		ContextChars:  cfg.Retrieval.ContextChars,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create web retriever: %w", err)
	}
	a.web = webSvc

	staticSvc := static.New(a.Store).
		WithCandidates(cfg.Retrieval.Candidates).
		WithMinScore(cfg.Retrieval.MinScore).
		WithContextChars(cfg.Retrieval.ContextChars)

	var embedder *openaiEmb.Embedder
	if sem := cfg.Reader.Semantic; sem.Enabled {
		embedder = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     sem.APIKey,
			BaseURL:    sem.BaseURL,
			Model:      sem.Model,
			Dimensions: sem.Dimensions,
			Logger:     logger,
		})
		staticSvc = staticSvc.WithSemantic(embedder, sem.Weight)
		logger.Info("Semantic reader enabled",
			zap.String("model", sem.Model),
			zap.Float64("weight", sem.Weight),
		)
	}

	rtr := router.New(a.Store).WithThreshold(cfg.Retrieval.RouteThreshold)
	ranker := ranking.New(ranking.Config{
		StaticWeight:   cfg.Ranking.StaticWeight,
		WebWeight:      cfg.Ranking.WebWeight,
		StaticMinScore: cfg.Ranking.StaticMinScore,
		WebMinScore:    cfg.Ranking.WebMinScore,
		MaxAnswers:     cfg.Ranking.MaxAnswers,
	})

	a.QA = qa.New(rtr, staticSvc, webSvc, ranker, a.Store).
		WithLimits(cfg.Retrieval.StaticK, cfg.Retrieval.WebK)

	a.Health = healthuc.New(a.Store, webSvc)
	if a.cache != nil {
		a.Health = a.Health.WithCache(a.cache)
	}
	if embedder != nil {
		a.Health = a.Health.WithEmbedding(embedder)
	}

	return a, nil
}

// buildFetcher returns the page fetcher, wrapped in the Redis page cache when enabled and
// reachable.
func (a *App) buildFetcher(ctx context.Context) web.PageFetcher {
	cfg := a.cfg
	fetcher := httpfetch.New(httpfetch.Config{
		UserAgent:  cfg.Fetch.UserAgent,
		Timeout:    time.Duration(cfg.Fetch.TimeoutSec) * time.Second,
		MaxBytes:   cfg.Fetch.MaxBytes,
		RatePerSec: cfg.Fetch.RatePerSec,
		Burst:      cfg.Fetch.Burst,
		Logger:     a.logger,
	})
	if !cfg.Cache.Enabled {
		return fetcher
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Cache.Addrs,
		Password: cfg.Cache.Password,
	})
	if err != nil {
		a.logger.Warn("Page cache disabled", zap.Error(err))
		return fetcher
	}
	timeout := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		a.logger.Warn("Page cache disabled", zap.Strings("addrs", cfg.Cache.Addrs), zap.Error(err))
		return fetcher
	}

	a.cache = store
	a.logger.Info("Page cache connected",
		zap.Strings("addrs", cfg.Cache.Addrs),
		zap.Int("ttl_sec", cfg.Cache.TTLSec),
	)
	ttl := time.Duration(cfg.Cache.TTLSec) * time.Second
	return pagecache.New(fetcher, store, ttl, metrics.PageCacheTotal, a.logger)
}

// buildQuota creates the search call budget, persisted in the page cache database when one is
// connected.
func (a *App) buildQuota(ctx context.Context) *quota.Tracker {
	q := a.cfg.Search.Quota
	tracker := quota.NewTracker(searchProviderName, q.DailyLimit, q.MonthlyLimit, quota.Action(q.Action), a.logger)
	if a.cache != nil {
		tracker = tracker.WithStore(ctx, budget.New(a.cache, 0, 0))
	}
	if q.DailyLimit > 0 || q.MonthlyLimit > 0 {
		a.logger.Info("Search quota enabled",
			zap.Int64("daily_limit", q.DailyLimit),
			zap.Int64("monthly_limit", q.MonthlyLimit),
			zap.String("action", q.Action),
			zap.Bool("persistent", a.cache != nil),
		)
	}
	return tracker
}

// LoadCorpus reads the configured corpus file into the document store.
func (a *App) LoadCorpus() error {
	start := time.Now()
	docs, stats, err := corpus.NewLoader(a.logger).LoadFile(a.cfg.Corpus.Path)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}
	if len(docs) == 0 {
		return errors.New("load corpus: no usable documents in " + a.cfg.Corpus.Path)
	}
	if err := a.Store.Load(docs); err != nil {
		return fmt.Errorf("index corpus: %w", err)
	}

	st := a.Store.Stats()
	a.logger.Info("Corpus loaded",
		zap.String("path", a.cfg.Corpus.Path),
		zap.Int("records", stats.Records),
		zap.Int("skipped", stats.Skipped),
		zap.Int("documents", st.Documents),
		zap.Int("terms", st.Terms),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// WebEnabled reports whether live web search is configured.
func (a *App) WebEnabled() bool {
	return a.web != nil && a.web.Configured()
}

// Close releases the fetch workers and the cache connection.
func (a *App) Close() {
	if a.web != nil {
		a.web.Close()
	}
	if a.cache != nil {
		a.cache.Close()
	}
}
