package sportspulse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sportspulse/internal/app"
	"github.com/kailas-cloud/sportspulse/internal/config"
	"github.com/kailas-cloud/sportspulse/internal/domain/answer"
	"github.com/kailas-cloud/sportspulse/internal/domain/query"
	"github.com/kailas-cloud/sportspulse/internal/domain/usage"
	"github.com/kailas-cloud/sportspulse/internal/repository/docstore"
	healthuc "github.com/kailas-cloud/sportspulse/internal/usecase/health"
)

// Internal interfaces for substitution in tests.
type qaUseCase interface {
	Ask(ctx context.Context, q query.Request) (answer.Result, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

type usageUseCase interface {
	GetReport(ctx context.Context, period usage.Period) usage.Report
}

type corpusStats interface {
	Stats() docstore.Stats
}

// Client is the sportspulse entry point.
type Client struct {
	qaSvc     qaUseCase
	healthSvc healthUseCase
	corpus    corpusStats
	usageSvc  usageUseCase
	obs       *observer
	close     func()
}

// New builds the answering pipeline and loads the corpus.
// The provided context bounds the optional cache readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cc := &clientConfig{}
	for _, o := range opts {
		o.apply(cc)
	}

	obs, err := newObserver(cc.logger, cc.metricsReg)
	if err != nil {
		return nil, err
	}

	cfg := buildConfig(cc)
	if err := cfg.ValidatePipeline(); err != nil {
		return nil, fmt.Errorf("sportspulse: invalid options: %w", err)
	}

	start := time.Now()
	application, err := app.New(ctx, cfg, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("sportspulse: %w", err)
	}
	err = application.LoadCorpus()
	obs.observe("load_corpus", start, err, "path", cfg.Corpus.Path)
	if err != nil {
		application.Close()
		return nil, fmt.Errorf("sportspulse: %w", err)
	}

	return &Client{
		qaSvc:     application.QA,
		healthSvc: application.Health,
		corpus:    application.Store,
		usageSvc:  application.Usage,
		obs:       obs,
		close:     application.Close,
	}, nil
}

// buildConfig maps options onto the service configuration.
func buildConfig(cc *clientConfig) config.Config {
	var cfg config.Config
	cfg.Corpus.Path = cc.corpusPath
	cfg.Search.APIKey = cc.serpAPIKey
	cfg.Search.BaseURL = cc.serpBaseURL
	cfg.Search.News = cc.news
	cfg.Search.Quota.DailyLimit = cc.dailyQuota
	cfg.Search.Quota.MonthlyLimit = cc.monthlyQuota
	cfg.Retrieval.RouteThreshold = cc.routeThreshold
	cfg.Ranking.MaxAnswers = cc.maxAnswers
	if len(cc.cacheAddrs) > 0 {
		cfg.Cache.Enabled = true
		cfg.Cache.Addrs = cc.cacheAddrs
		cfg.Cache.Password = cc.cachePassword
	}
	if cc.semanticKey != "" {
		cfg.Reader.Semantic.Enabled = true
		cfg.Reader.Semantic.APIKey = cc.semanticKey
		cfg.Reader.Semantic.Model = cc.semanticModel
	}
	cfg.ApplyDefaults()
	return cfg
}

// Close releases fetch workers and the cache connection.
func (c *Client) Close() {
	if c.close != nil {
		c.close()
	}
}

// AskOption tunes a single question.
type AskOption func(*askConfig)

type askConfig struct {
	web      bool
	forceWeb bool
}

// WithoutWebSearch answers from the corpus only.
func WithoutWebSearch() AskOption {
	return func(c *askConfig) { c.web = false }
}

// ForceWebSearch searches the web even when the corpus covers the question.
func ForceWebSearch() AskOption {
	return func(c *askConfig) { c.forceWeb = true }
}

// Ask answers a question. A result with Found=false is not an error; it carries
// NoAnswerMessage.
func (c *Client) Ask(ctx context.Context, question string, opts ...AskOption) (res Result, err error) {
	start := time.Now()
	defer func() {
		c.obs.observe("ask", start, err, "answers", len(res.Answers), "degraded", res.Summary.Degraded)
	}()

	ac := askConfig{web: true}
	for _, o := range opts {
		o(&ac)
	}
	q, err := query.New(question, ac.web, ac.forceWeb)
	if err != nil {
		return Result{}, fmt.Errorf("ask: %w", err)
	}
	r, err := c.qaSvc.Ask(ctx, q)
	if err != nil {
		return Result{}, fmt.Errorf("ask: %w", err)
	}
	return resultFromDomain(&r), nil
}

// Corpus returns statistics about the loaded corpus.
func (c *Client) Corpus() CorpusStats {
	st := c.corpus.Stats()
	return CorpusStats(st)
}

var errNoHealth = errors.New("sportspulse: health checks unavailable")

// Ready reports whether the client can answer questions.
func (c *Client) Ready(ctx context.Context) error {
	if c.healthSvc == nil {
		return errNoHealth
	}
	if c.healthSvc.Check(ctx).Status == healthuc.Unhealthy {
		return ErrNotReady
	}
	return nil
}
