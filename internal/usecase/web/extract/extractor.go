// Package extract pulls the main text out of fetched HTML pages.
package extract

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"

	"github.com/kailas-cloud/sportspulse/internal/domain"
	"github.com/kailas-cloud/sportspulse/internal/domain/passage"
	"github.com/kailas-cloud/sportspulse/internal/textproc"
)

// Defaults for extracted content bounds.
const (
	DefaultMinFullChars = 200
	DefaultMinChars     = 50
	DefaultMaxChars     = 2000
)

// noise is removed before any strategy runs.
const noise = "script, style, noscript, nav, header, footer, aside, form, iframe, svg"

// Result is the extracted text of one page.
type Result struct {
	Text     string
	Strategy string
	// Quality is passage.ExtractionFull when a primary strategy matched,
	// passage.ExtractionPartial for fallbacks.
	Quality string
}

// Config bounds extraction.
type Config struct {
	// MinFullChars is the text length a primary strategy must reach to be accepted.
	MinFullChars int
	// MinChars is the shortest text kept at all.
	MinChars int
	// MaxChars truncates the normalized text.
	MaxChars int
}

// Extractor runs the primary strategies in order, then the fallbacks.
type Extractor struct {
	primary   []Strategy
	fallbacks []Strategy
	cfg       Config
}

// New creates an Extractor. Zero config values take the defaults.
func New(primary, fallbacks []Strategy, cfg Config) *Extractor {
	if cfg.MinFullChars <= 0 {
		cfg.MinFullChars = DefaultMinFullChars
	}
	if cfg.MinChars <= 0 {
		cfg.MinChars = DefaultMinChars
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = DefaultMaxChars
	}
	return &Extractor{primary: primary, fallbacks: fallbacks, cfg: cfg}
}

// NewDefault creates an Extractor with the default strategy chain.
func NewDefault(cfg Config) *Extractor {
	return New(DefaultStrategies(), DefaultFallbacks(), cfg)
}

// Extract parses HTML and returns its main text. domain.ErrExtractionFailed is returned when
// no strategy yields at least MinChars characters.
func (e *Extractor) Extract(r io.Reader) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("%w: parse html: %w", domain.ErrExtractionFailed, err)
	}
	doc.Find(noise).Remove()

	for _, s := range e.primary {
		text := textproc.CollapseWhitespace(s.Extract(doc))
		if len([]rune(text)) >= e.cfg.MinFullChars {
			return e.result(text, s.Name(), passage.ExtractionFull), nil
		}
	}
	for _, s := range e.fallbacks {
		text := textproc.CollapseWhitespace(s.Extract(doc))
		if len([]rune(text)) >= e.cfg.MinChars {
			return e.result(text, s.Name(), passage.ExtractionPartial), nil
		}
	}
	return Result{}, fmt.Errorf("%w: no strategy produced %d chars", domain.ErrExtractionFailed, e.cfg.MinChars)
}

func (e *Extractor) result(text, strategy, quality string) Result {
	return Result{
		Text:     textproc.Truncate(text, e.cfg.MaxChars),
		Strategy: strategy,
		Quality:  quality,
	}
}
