// Package serpapi is a web search provider backed by the SerpAPI Google engine.
package serpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sportspulse/internal/domain"
	"github.com/kailas-cloud/sportspulse/internal/domain/websearch"
)

// DefaultBaseURL is the SerpAPI search endpoint.
const DefaultBaseURL = "https://serpapi.com/search.json"

const maxResponseBytes = 4 << 20

// Config holds SerpAPI settings.
type Config struct {
	APIKey  string
	BaseURL string
	Engine  string // default "google"
	// News restricts the search to the news vertical (tbm=nws).
	News    bool
	Timeout time.Duration
	Logger  *zap.Logger
}

// Client calls SerpAPI.
type Client struct {
	http      *http.Client
	apiKey    string
	baseURL   string
	engine    string
	news      bool
	sanitizer *bluemonday.Policy
	logger    *zap.Logger
}

// NewClient creates a SerpAPI client. An empty API key is allowed; the caller decides
// whether the provider is configured.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Engine == "" {
		cfg.Engine = "google"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Client{
		http:      &http.Client{Timeout: cfg.Timeout},
		apiKey:    cfg.APIKey,
		baseURL:   cfg.BaseURL,
		engine:    cfg.Engine,
		news:      cfg.News,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    cfg.Logger,
	}
}

type newsResult struct {
	Position int    `json:"position"`
	Link     string `json:"link"`
	Title    string `json:"title"`
	Snippet  string `json:"snippet"`
	Date     string `json:"date"`
	Source   any    `json:"source"`
}

type organicResult struct {
	Position int    `json:"position"`
	Link     string `json:"link"`
	Title    string `json:"title"`
	Snippet  string `json:"snippet"`
	Date     string `json:"date"`
}

type response struct {
	Error          string          `json:"error"`
	NewsResults    []newsResult    `json:"news_results"`
	OrganicResults []organicResult `json:"organic_results"`
}

// Search returns up to n results: news results first, then organic results, deduplicated by
// URL and ranked 1..n in that order.
func (c *Client) Search(ctx context.Context, query string, n int) ([]websearch.Result, error) {
	if c.apiKey == "" {
		return nil, domain.NewSearchUnavailable(domain.ReasonUnconfigured, nil)
	}
	if n <= 0 {
		return []websearch.Result{}, nil
	}

	resp, err := c.do(ctx, query, n)
	if err != nil {
		return nil, err
	}
	return c.merge(resp, n), nil
}

func (c *Client) do(ctx context.Context, query string, n int) (*response, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("api_key", c.apiKey)
	params.Set("engine", c.engine)
	params.Set("num", strconv.Itoa(n))
	if c.news {
		params.Set("tbm", "nws")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, domain.NewSearchUnavailable(domain.ReasonProviderError, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	httpResp, err := c.http.Do(req)
	if err != nil {
		reason := domain.ReasonUnreachable
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			reason = domain.ReasonTimeout
		}
		return nil, domain.NewSearchUnavailable(reason, fmt.Errorf("serpapi request: %w", err))
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, domain.NewSearchUnavailable(domain.ReasonUnreachable, fmt.Errorf("read response: %w", err))
	}

	c.logger.Debug("SerpAPI response",
		zap.Int("status", httpResp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.Int("bytes", len(body)),
	)

	var parsed response
	jsonErr := json.Unmarshal(body, &parsed)

	switch {
	case httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden:
		return nil, domain.NewSearchUnavailable(domain.ReasonUnauthenticated,
			fmt.Errorf("serpapi status %d: %s", httpResp.StatusCode, parsed.Error))
	case httpResp.StatusCode != http.StatusOK:
		return nil, domain.NewSearchUnavailable(domain.ReasonProviderError,
			fmt.Errorf("serpapi status %d: %s", httpResp.StatusCode, parsed.Error))
	case jsonErr != nil:
		return nil, domain.NewSearchUnavailable(domain.ReasonProviderError, fmt.Errorf("decode response: %w", jsonErr))
	}
	if parsed.Error != "" {
		if err := apiError(parsed.Error); err != nil {
			return nil, err
		}
	}
	return &parsed, nil
}

// apiError classifies the "error" field of a 200 response. SerpAPI reports an empty result
// set this way; that is not a failure.
func apiError(msg string) error {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "hasn't returned any results"):
		return nil
	case strings.Contains(lower, "api key"):
		return domain.NewSearchUnavailable(domain.ReasonUnauthenticated, errors.New(msg))
	}
	return domain.NewSearchUnavailable(domain.ReasonProviderError, errors.New(msg))
}

func (c *Client) merge(resp *response, n int) []websearch.Result {
	out := make([]websearch.Result, 0, n)
	seen := make(map[string]bool)
	add := func(r websearch.Result) {
		if len(out) >= n || r.URL == "" || seen[r.URL] {
			return
		}
		seen[r.URL] = true
		r.Rank = len(out) + 1
		out = append(out, r)
	}

	for _, nr := range resp.NewsResults {
		add(websearch.Result{
			URL:       nr.Link,
			Title:     c.clean(nr.Title),
			Snippet:   c.clean(nr.Snippet),
			Date:      nr.Date,
			Publisher: c.clean(publisherName(nr.Source)),
		})
	}
	for _, or := range resp.OrganicResults {
		add(websearch.Result{
			URL:     or.Link,
			Title:   c.clean(or.Title),
			Snippet: c.clean(or.Snippet),
			Date:    or.Date,
		})
	}
	return out
}

// clean strips markup from provider text and decodes entities.
func (c *Client) clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(c.sanitizer.Sanitize(s)))
}

// publisherName reads the news source, which is a string or an object with a name.
func publisherName(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case map[string]any:
		if name, ok := s["name"].(string); ok {
			return name
		}
	}
	return ""
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
