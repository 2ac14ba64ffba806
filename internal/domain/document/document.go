package document

import (
	"fmt"
	"time"
)

// MaxBodySize is the maximum article body size in bytes.
const MaxBodySize = 1 << 20 // 1MB

// Fields holds the article attributes of a Document.
type Fields struct {
	Title       string
	Body        string
	Source      string
	Category    string
	URL         string
	PublishedAt *time.Time
	Meta        map[string]string
}

// Document is a preprocessed article of the static corpus (immutable value object).
type Document struct {
	id          string
	title       string
	body        string
	source      string
	category    string
	url         string
	publishedAt *time.Time
	meta        map[string]string
}

// New validates and creates a Document.
// ID: non-empty, max 256 chars. Body: non-empty, max 1MB.
func New(id string, f Fields) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if len(id) > 256 {
		return Document{}, fmt.Errorf("document ID too long (max 256)")
	}
	if f.Body == "" {
		return Document{}, fmt.Errorf("document %q: body is required", id)
	}
	if len(f.Body) > MaxBodySize {
		return Document{}, fmt.Errorf("document %q: body too large (max %d bytes)", id, MaxBodySize)
	}

	var published *time.Time
	if f.PublishedAt != nil {
		t := *f.PublishedAt
		published = &t
	}

	return Document{
		id:          id,
		title:       f.Title,
		body:        f.Body,
		source:      f.Source,
		category:    f.Category,
		url:         f.URL,
		publishedAt: published,
		meta:        cloneStringMap(f.Meta),
	}, nil
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Title returns the article title.
func (d *Document) Title() string { return d.title }

// Body returns the full article text.
func (d *Document) Body() string { return d.body }

// Source returns the publisher tag of the article (e.g. "espn").
func (d *Document) Source() string { return d.source }

// Category returns the article category.
func (d *Document) Category() string { return d.category }

// URL returns the article URL, if known.
func (d *Document) URL() string { return d.url }

// PublishedAt returns the publish timestamp, nil when unknown.
func (d *Document) PublishedAt() *time.Time { return d.publishedAt }

// Meta returns a copy of the free-form metadata.
func (d *Document) Meta() map[string]string { return cloneStringMap(d.meta) }

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
