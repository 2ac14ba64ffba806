package sportspulse

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	corpusPath string

	serpAPIKey  string
	serpBaseURL string
	news        bool

	dailyQuota   int64
	monthlyQuota int64

	cacheAddrs    []string
	cachePassword string

	semanticKey   string
	semanticModel string

	maxAnswers     int
	routeThreshold float64

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithCorpus sets the path of the JSON article corpus.
// Defaults to data/sports_articles.json.
func WithCorpus(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.corpusPath = path
	})
}

// WithSerpAPI enables live web search through SerpAPI.
// Without it the client answers from the corpus only.
func WithSerpAPI(apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.serpAPIKey = apiKey
	})
}

// WithSerpAPIEndpoint overrides the SerpAPI base URL.
func WithSerpAPIEndpoint(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.serpBaseURL = baseURL
	})
}

// WithNewsSearch queries the news vertical in addition to organic results.
func WithNewsSearch() Option {
	return optionFunc(func(c *clientConfig) {
		c.news = true
	})
}

// WithSearchQuota caps successful SerpAPI searches per UTC day and month.
// Zero leaves a period unlimited. Once a cap is reached questions are answered
// from the corpus only.
func WithSearchQuota(daily, monthly int64) Option {
	return optionFunc(func(c *clientConfig) {
		c.dailyQuota = daily
		c.monthlyQuota = monthly
	})
}

// WithRedisCache caches downloaded pages in Redis.
// An unreachable cache is skipped, not fatal.
func WithRedisCache(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
	})
}

// WithSemanticReader rescores knowledge base answers with OpenAI embeddings.
// An empty model selects text-embedding-3-small.
func WithSemanticReader(apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.semanticKey = apiKey
		c.semanticModel = model
	})
}

// WithMaxAnswers caps the number of ranked answers. Default: 5.
func WithMaxAnswers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxAnswers = n
	})
}

// WithRouteThreshold sets the corpus match score above which a question without recency cues
// skips web search. Default: 0.5.
func WithRouteThreshold(t float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.routeThreshold = t
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
