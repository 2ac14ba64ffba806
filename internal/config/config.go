package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the sportspulse configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Search    SearchConfig    `yaml:"search"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Ranking   RankingConfig   `yaml:"ranking"`
	Reader    ReaderConfig    `yaml:"reader"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. Empty APIKeys disables authentication.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CorpusConfig points at the JSON article corpus.
type CorpusConfig struct {
	Path string `yaml:"path"`
}

// SearchConfig holds web search provider settings. An empty APIKey disables web search.
type SearchConfig struct {
	APIKey     string      `yaml:"api_key"`
	BaseURL    string      `yaml:"base_url"`
	Engine     string      `yaml:"engine"`
	News       bool        `yaml:"news"`
	TopN       int         `yaml:"top_n"`
	TimeoutSec int         `yaml:"timeout_sec"` // whole web retrieval
	ScopeTerms string      `yaml:"scope_terms"`
	Workers    int         `yaml:"workers"`
	Quota      QuotaConfig `yaml:"quota"`

	// SearchTimeoutSec bounds the provider call alone, leaving the rest of
	// TimeoutSec for page fetches.
	SearchTimeoutSec int `yaml:"search_timeout_sec"`
}

// QuotaConfig caps successful search provider calls. Zero limits mean unlimited.
// Counters persist in the cache database when it is enabled.
type QuotaConfig struct {
	DailyLimit   int64  `yaml:"daily_limit"`
	MonthlyLimit int64  `yaml:"monthly_limit"`
	Action       string `yaml:"action"` // reject (default) or warn
}

// FetchConfig holds page download and extraction settings.
type FetchConfig struct {
	UserAgent    string  `yaml:"user_agent"`
	TimeoutSec   int     `yaml:"timeout_sec"`
	RatePerSec   float64 `yaml:"rate_per_sec"`
	Burst        int     `yaml:"burst"`
	MaxBytes     int64   `yaml:"max_bytes"`
	MinFullChars int     `yaml:"min_full_chars"`
	MinChars     int     `yaml:"min_chars"`
	MaxChars     int     `yaml:"max_chars"`
}

// RetrievalConfig holds retriever and router settings.
type RetrievalConfig struct {
	StaticK        int     `yaml:"static_k"`
	WebK           int     `yaml:"web_k"`
	Candidates     int     `yaml:"candidates"`
	MinScore       float64 `yaml:"min_score"`
	ContextChars   int     `yaml:"context_chars"`
	RouteThreshold float64 `yaml:"route_threshold"`
}

// RankingConfig holds answer calibration settings.
type RankingConfig struct {
	StaticWeight   float64 `yaml:"static_weight"`
	WebWeight      float64 `yaml:"web_weight"`
	StaticMinScore float64 `yaml:"static_min_score"`
	WebMinScore    float64 `yaml:"web_min_score"`
	MaxAnswers     int     `yaml:"max_answers"`
}

// ReaderConfig holds optional reader settings.
type ReaderConfig struct {
	Semantic SemanticConfig `yaml:"semantic"`
}

// SemanticConfig configures embedding-based span rescoring.
type SemanticConfig struct {
	Enabled    bool    `yaml:"enabled"`
	APIKey     string  `yaml:"api_key"`
	BaseURL    string  `yaml:"base_url"`
	Model      string  `yaml:"model"`
	Dimensions int     `yaml:"dimensions"`
	Weight     float64 `yaml:"weight"`
}

// CacheConfig holds the optional Redis page cache settings.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit YAML path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// WebEnabled reports whether a search provider credential is configured.
func (c *Config) WebEnabled() bool {
	return c.Search.APIKey != ""
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	// Web retrieval can take up to search.timeout_sec; leave headroom for the response.
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Corpus.Path == "" {
		c.Corpus.Path = "data/sports_articles.json"
	}

	c.applySearchDefaults()
	c.applyFetchDefaults()
	c.applyRetrievalDefaults()
	c.applyRankingDefaults()

	if c.Reader.Semantic.Model == "" {
		c.Reader.Semantic.Model = "text-embedding-3-small"
	}
	if c.Reader.Semantic.Weight <= 0 {
		c.Reader.Semantic.Weight = 0.3
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 3600
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
}

func (c *Config) applySearchDefaults() {
	if c.Search.Engine == "" {
		c.Search.Engine = "google"
	}
	if c.Search.TopN <= 0 {
		c.Search.TopN = 5
	}
	if c.Search.TimeoutSec <= 0 {
		c.Search.TimeoutSec = 20
	}
	if c.Search.SearchTimeoutSec <= 0 {
		c.Search.SearchTimeoutSec = max(1, min(8, c.Search.TimeoutSec/2))
	}
	if c.Search.ScopeTerms == "" {
		c.Search.ScopeTerms = "sports news NBA basketball"
	}
	if c.Search.Workers <= 0 {
		c.Search.Workers = 5
	}
	if c.Search.Quota.Action == "" {
		c.Search.Quota.Action = "reject"
	}
}

func (c *Config) applyFetchDefaults() {
	if c.Fetch.TimeoutSec <= 0 {
		c.Fetch.TimeoutSec = 10
	}
	if c.Fetch.RatePerSec <= 0 {
		c.Fetch.RatePerSec = 5
	}
	if c.Fetch.Burst <= 0 {
		c.Fetch.Burst = 5
	}
	if c.Fetch.MaxBytes <= 0 {
		c.Fetch.MaxBytes = 2 << 20
	}
	if c.Fetch.MinFullChars <= 0 {
		c.Fetch.MinFullChars = 200
	}
	if c.Fetch.MinChars <= 0 {
		c.Fetch.MinChars = 50
	}
	if c.Fetch.MaxChars <= 0 {
		c.Fetch.MaxChars = 2000
	}
}

func (c *Config) applyRetrievalDefaults() {
	if c.Retrieval.StaticK <= 0 {
		c.Retrieval.StaticK = 5
	}
	if c.Retrieval.WebK <= 0 {
		c.Retrieval.WebK = 5
	}
	if c.Retrieval.Candidates <= 0 {
		c.Retrieval.Candidates = 10
	}
	if c.Retrieval.MinScore <= 0 {
		c.Retrieval.MinScore = 0.2
	}
	if c.Retrieval.ContextChars <= 0 {
		c.Retrieval.ContextChars = 250
	}
	if c.Retrieval.RouteThreshold <= 0 {
		c.Retrieval.RouteThreshold = 0.5
	}
}

func (c *Config) applyRankingDefaults() {
	if c.Ranking.StaticWeight <= 0 {
		c.Ranking.StaticWeight = 0.9
	}
	if c.Ranking.WebWeight <= 0 {
		c.Ranking.WebWeight = 1.0
	}
	if c.Ranking.StaticMinScore == 0 {
		c.Ranking.StaticMinScore = 0.3
	}
	if c.Ranking.WebMinScore == 0 {
		c.Ranking.WebMinScore = 0.2
	}
	if c.Ranking.MaxAnswers <= 0 {
		c.Ranking.MaxAnswers = 5
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	return c.ValidatePipeline()
}

// ValidatePipeline checks everything except the HTTP server settings. Embedded use has no
// server.
func (c *Config) ValidatePipeline() error {
	if c.Corpus.Path == "" {
		return errors.New("corpus.path is required")
	}
	if c.Ranking.StaticMinScore > 1 || c.Ranking.WebMinScore > 1 {
		return fmt.Errorf("ranking min scores must be at most 1, got static=%v web=%v",
			c.Ranking.StaticMinScore, c.Ranking.WebMinScore)
	}
	if c.Retrieval.RouteThreshold > 1 {
		return fmt.Errorf("retrieval.route_threshold must be in (0, 1], got %v", c.Retrieval.RouteThreshold)
	}
	if s := c.Reader.Semantic; s.Enabled {
		if s.APIKey == "" {
			return errors.New("reader.semantic.api_key is required when semantic reader is enabled")
		}
		if s.Weight > 1 {
			return fmt.Errorf("reader.semantic.weight must be in (0, 1], got %v", s.Weight)
		}
	}
	if c.Search.SearchTimeoutSec >= c.Search.TimeoutSec {
		return fmt.Errorf("search.search_timeout_sec must be below search.timeout_sec, got %d >= %d",
			c.Search.SearchTimeoutSec, c.Search.TimeoutSec)
	}
	if q := c.Search.Quota; q.DailyLimit < 0 || q.MonthlyLimit < 0 {
		return fmt.Errorf("search.quota limits must be non-negative, got daily=%d monthly=%d",
			q.DailyLimit, q.MonthlyLimit)
	}
	if a := c.Search.Quota.Action; a != "reject" && a != "warn" {
		return fmt.Errorf("search.quota.action must be reject or warn, got %q", a)
	}
	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return errors.New("cache.addrs is required when cache is enabled")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
