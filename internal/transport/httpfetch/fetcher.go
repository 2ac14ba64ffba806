// Package httpfetch downloads web pages for content extraction.
package httpfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultUserAgent identifies as a desktop browser; many news sites reject unknown agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Errors returned by Fetch.
var (
	ErrStatus      = errors.New("unexpected status")
	ErrRateLimited = errors.New("rate limited")
	ErrNotHTML     = errors.New("not an html page")
)

// Config holds fetcher settings.
type Config struct {
	UserAgent string
	Timeout   time.Duration // per request, default 10s
	MaxBytes  int64         // response body cap, default 2 MiB
	// RatePerSec limits outbound requests across all hosts. Zero disables limiting.
	RatePerSec float64
	Burst      int
	// MaxBackoff caps how long a host is skipped after it answers 429, default 30s.
	MaxBackoff time.Duration
	Logger     *zap.Logger
}

// Fetcher is a rate-limited HTTP page downloader.
type Fetcher struct {
	http       *http.Client
	userAgent  string
	maxBytes   int64
	maxBackoff time.Duration
	limiter    *limiter
	logger     *zap.Logger
}

// New creates a Fetcher.
func New(cfg Config) *Fetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 2 << 20
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Fetcher{
		http:       &http.Client{Timeout: cfg.Timeout},
		userAgent:  cfg.UserAgent,
		maxBytes:   cfg.MaxBytes,
		maxBackoff: cfg.MaxBackoff,
		limiter:    newLimiter(cfg.RatePerSec, cfg.Burst),
		logger:     cfg.Logger,
	}
}

// Fetch downloads rawURL and returns at most MaxBytes of its body.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	host := req.URL.Host
	if err := f.limiter.Wait(ctx, host); err != nil {
		return nil, fmt.Errorf("wait for rate limit: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		wait := retryAfter(resp.Header.Get("Retry-After"), f.maxBackoff)
		f.limiter.Backoff(host, wait)
		f.logger.Warn("Page fetch rate limited",
			zap.String("url", rawURL),
			zap.String("host", host),
			zap.Duration("backoff", wait),
		)
		return nil, fmt.Errorf("fetch %s: %w", rawURL, ErrRateLimited)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("fetch %s: %w %d", rawURL, ErrStatus, resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !isHTML(ct) {
		return nil, fmt.Errorf("fetch %s: %w (%s)", rawURL, ErrNotHTML, ct)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}
	return body, nil
}

func isHTML(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "html") || strings.HasPrefix(ct, "text/plain")
}

// retryAfter parses a Retry-After header in seconds or HTTP-date form.
func retryAfter(v string, max time.Duration) time.Duration {
	d := 5 * time.Second
	if v != "" {
		if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && secs >= 0 {
			d = time.Duration(secs) * time.Second
		} else if at, err := http.ParseTime(v); err == nil {
			d = time.Until(at)
		}
	}
	if d < 0 {
		d = 0
	}
	if d > max {
		d = max
	}
	return d
}
