package document

import (
	"strings"
	"testing"
	"time"
)

func TestNew_Valid(t *testing.T) {
	published := time.Date(2024, 11, 3, 12, 0, 0, 0, time.UTC)
	doc, err := New("doc-1", Fields{
		Title:       "Lakers beat Kings",
		Body:        "LeBron James scored 30 points.",
		Source:      "espn",
		Category:    "nba",
		URL:         "https://example.com/a",
		PublishedAt: &published,
		Meta:        map[string]string{"author": "staff"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID() != "doc-1" {
		t.Errorf("ID() = %q", doc.ID())
	}
	if doc.Title() != "Lakers beat Kings" {
		t.Errorf("Title() = %q", doc.Title())
	}
	if doc.Body() != "LeBron James scored 30 points." {
		t.Errorf("Body() = %q", doc.Body())
	}
	if doc.Source() != "espn" || doc.Category() != "nba" || doc.URL() != "https://example.com/a" {
		t.Errorf("unexpected attributes: %q %q %q", doc.Source(), doc.Category(), doc.URL())
	}
	if doc.PublishedAt() == nil || !doc.PublishedAt().Equal(published) {
		t.Errorf("PublishedAt() = %v", doc.PublishedAt())
	}
	if doc.Meta()["author"] != "staff" {
		t.Errorf("Meta() = %v", doc.Meta())
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		id   string
		body string
	}{
		{"empty id", "", "body"},
		{"long id", strings.Repeat("a", 257), "body"},
		{"empty body", "doc-1", ""},
		{"huge body", "doc-1", strings.Repeat("x", MaxBodySize+1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.id, Fields{Body: tc.body}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNew_IsolatedFromCaller(t *testing.T) {
	published := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	meta := map[string]string{"k": "v"}
	doc, err := New("doc-1", Fields{Body: "text", PublishedAt: &published, Meta: meta})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	meta["k"] = "changed"
	published = published.AddDate(1, 0, 0)

	if doc.Meta()["k"] != "v" {
		t.Error("Meta should not change when the caller mutates its map")
	}
	if doc.PublishedAt().Year() != 2024 {
		t.Error("PublishedAt should not change when the caller mutates its value")
	}

	got := doc.Meta()
	got["k"] = "mutated"
	if doc.Meta()["k"] != "v" {
		t.Error("Meta() must return a copy")
	}
}

func TestNew_NilMeta(t *testing.T) {
	doc, err := New("doc-1", Fields{Body: "text"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Meta() != nil {
		t.Errorf("Meta() = %v, want nil", doc.Meta())
	}
	if doc.PublishedAt() != nil {
		t.Errorf("PublishedAt() = %v, want nil", doc.PublishedAt())
	}
}
