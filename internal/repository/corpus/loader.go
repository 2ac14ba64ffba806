// Package corpus reads article records from JSON or Parquet files into documents.
package corpus

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sportspulse/internal/domain/document"
)

// idNamespace seeds name-based ids for records that carry none.
var idNamespace = uuid.MustParse("6f2b1c1e-3a8d-5d4e-9c57-2f0d8a4b7e61")

var publishLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
}

// record accepts both flat article records and {content, meta} records.
type record struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Text        string         `json:"text"`
	FullContent string         `json:"fullContent"`
	Content     string         `json:"content"`
	Source      string         `json:"source"`
	Category    string         `json:"category"`
	PublishDate string         `json:"publishDate"`
	URL         string         `json:"url"`
	Meta        map[string]any `json:"meta"`
}

// Stats summarizes one load.
type Stats struct {
	Records int
	Loaded  int
	Skipped int
}

// Loader reads corpus files.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a Loader. logger can be nil.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// LoadFile reads documents from a JSON file, or from a Parquet file when path ends in
// .parquet.
func (l *Loader) LoadFile(path string) ([]document.Document, Stats, error) {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		docs, stats, err := l.readParquet(path)
		if err != nil {
			return nil, stats, fmt.Errorf("read corpus %s: %w", path, err)
		}
		return docs, stats, nil
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open corpus %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	docs, stats, err := l.Read(f)
	if err != nil {
		return nil, stats, fmt.Errorf("read corpus %s: %w", path, err)
	}
	return docs, stats, nil
}

// Read decodes either a JSON array of records or a stream of JSON objects.
// Records without any body text are skipped; a malformed stream fails the load.
func (l *Loader) Read(r io.Reader) ([]document.Document, Stats, error) {
	br := bufio.NewReader(r)
	array, err := startsWithArray(br)
	if err != nil {
		return nil, Stats{}, err
	}

	dec := json.NewDecoder(br)
	if array {
		if _, err := dec.Token(); err != nil {
			return nil, Stats{}, fmt.Errorf("read array start: %w", err)
		}
	}

	c := l.newCollector()
	for dec.More() {
		var rec record
		if err := dec.Decode(&rec); err != nil {
			return nil, c.stats, fmt.Errorf("decode record %d: %w", c.stats.Records, err)
		}
		c.add(rec)
	}
	if array {
		if _, err := dec.Token(); err != nil {
			return nil, c.stats, fmt.Errorf("read array end: %w", err)
		}
	}

	docs, stats := c.result()
	return docs, stats, nil
}

// collector converts records and drops unusable or duplicate ones.
type collector struct {
	logger *zap.Logger
	docs   []document.Document
	stats  Stats
	seen   map[string]bool
}

func (l *Loader) newCollector() *collector {
	return &collector{logger: l.logger, seen: make(map[string]bool)}
}

func (c *collector) add(rec record) {
	c.stats.Records++

	doc, err := rec.toDocument()
	if err != nil {
		c.logger.Debug("Skipping corpus record",
			zap.Int("record", c.stats.Records-1), zap.Error(err))
		c.stats.Skipped++
		return
	}
	if c.seen[doc.ID()] {
		c.logger.Debug("Skipping duplicate corpus record", zap.String("id", doc.ID()))
		c.stats.Skipped++
		return
	}
	c.seen[doc.ID()] = true
	c.docs = append(c.docs, doc)
}

func (c *collector) result() ([]document.Document, Stats) {
	c.stats.Loaded = len(c.docs)
	return c.docs, c.stats
}

func startsWithArray(br *bufio.Reader) (bool, error) {
	if b, err := br.Peek(3); err == nil && bytes.Equal(b, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
	}
	for {
		c, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("peek corpus: %w", err)
		}
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		}
		if err := br.UnreadByte(); err != nil {
			return false, fmt.Errorf("peek corpus: %w", err)
		}
		return c == '[', nil
	}
}

func (r record) toDocument() (document.Document, error) {
	f := document.Fields{
		Title:    strings.TrimSpace(r.Title),
		Body:     strings.TrimSpace(firstNonEmpty(r.FullContent, r.Text, r.Content)),
		Source:   strings.TrimSpace(r.Source),
		Category: strings.TrimSpace(r.Category),
		URL:      strings.TrimSpace(r.URL),
	}
	published := r.PublishDate

	if len(r.Meta) > 0 {
		meta := flattenMeta(r.Meta)
		f.Title = firstNonEmpty(f.Title, meta["title"])
		f.Source = firstNonEmpty(f.Source, meta["source"])
		f.Category = firstNonEmpty(f.Category, meta["category"])
		f.URL = firstNonEmpty(f.URL, meta["url"])
		published = firstNonEmpty(published, meta["publishDate"], meta["publish_date"])
		if r.ID == "" {
			r.ID = meta["id"]
		}
		f.Meta = meta
	}

	if published != "" {
		if t, ok := parsePublished(published); ok {
			f.PublishedAt = &t
		}
	}
	if f.Body == "" {
		return document.Document{}, errors.New("record has no text")
	}

	id := strings.TrimSpace(r.ID)
	if id == "" {
		id = uuid.NewSHA1(idNamespace, []byte(f.Title+"\x00"+f.Body)).String()
	}
	doc, err := document.New(id, f)
	if err != nil {
		return document.Document{}, fmt.Errorf("build document: %w", err)
	}
	return doc, nil
}

func flattenMeta(m map[string]any) map[string]string {
	out := make(map[string]string, len(m))
	for k, raw := range m {
		switch v := raw.(type) {
		case nil:
		case string:
			out[k] = strings.TrimSpace(v)
		case float64:
			out[k] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(v)
		default:
			b, err := json.Marshal(v)
			if err == nil {
				out[k] = string(b)
			}
		}
	}
	return out
}

func parsePublished(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range publishLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
