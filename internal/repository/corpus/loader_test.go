package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const flatArray = `[
  {"id": "lbj-1", "title": "LeBron James responds", "fullContent": "LeBron James confronted Stephen A. Smith.",
   "source": "ESPN", "category": "NBA", "publishDate": "2024-03-05T18:30:00Z", "url": "https://espn.example/lbj"},
  {"title": "Celtics win", "text": "The Celtics beat the Knicks.", "source": "AP", "category": "NBA"},
  {"title": "Empty", "text": "   "}
]`

func TestRead_FlatArray(t *testing.T) {
	docs, stats, err := NewLoader(nil).Read(strings.NewReader(flatArray))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if stats.Records != 3 || stats.Loaded != 2 || stats.Skipped != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 docs, got %d", len(docs))
	}

	d := docs[0]
	if d.ID() != "lbj-1" || d.Title() != "LeBron James responds" || d.Source() != "ESPN" {
		t.Errorf("unexpected first doc: %q %q %q", d.ID(), d.Title(), d.Source())
	}
	if d.PublishedAt() == nil || d.PublishedAt().Year() != 2024 {
		t.Errorf("expected parsed publish date, got %v", d.PublishedAt())
	}
	if d.URL() != "https://espn.example/lbj" {
		t.Errorf("unexpected url %q", d.URL())
	}
	if docs[1].Body() != "The Celtics beat the Knicks." {
		t.Errorf("text field not used as body: %q", docs[1].Body())
	}
}

func TestRead_BodyPrecedence(t *testing.T) {
	in := `[{"id":"x","fullContent":"full","text":"text","content":"content"}]`
	docs, _, err := NewLoader(nil).Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if docs[0].Body() != "full" {
		t.Errorf("expected fullContent to win, got %q", docs[0].Body())
	}
}

func TestRead_DerivedIDsAreStable(t *testing.T) {
	in := `{"title":"Trade news","text":"A trade happened."}`
	a, _, err := NewLoader(nil).Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	b, _, err := NewLoader(nil).Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if a[0].ID() == "" || a[0].ID() != b[0].ID() {
		t.Errorf("expected stable derived id, got %q and %q", a[0].ID(), b[0].ID())
	}
}

func TestRead_DuplicateRecordsSkipped(t *testing.T) {
	in := `{"title":"A","text":"same"}
{"title":"A","text":"same"}`
	docs, stats, err := NewLoader(nil).Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(docs) != 1 || stats.Skipped != 1 {
		t.Errorf("expected duplicate to be skipped, docs=%d stats=%+v", len(docs), stats)
	}
}

func TestRead_HaystackRecords(t *testing.T) {
	in := `[{"content": "Bronny James was drafted.",
	         "meta": {"title": "Draft night", "source": "NBA.com", "category": "Draft",
	                  "url": "https://nba.example/draft", "publishDate": "2024-06-27", "wordCount": 4}}]`
	docs, _, err := NewLoader(nil).Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 doc, got %d", len(docs))
	}
	d := docs[0]
	if d.Title() != "Draft night" || d.Category() != "Draft" || d.URL() != "https://nba.example/draft" {
		t.Errorf("meta not applied: %q %q %q", d.Title(), d.Category(), d.URL())
	}
	if d.Meta()["wordCount"] != "4" {
		t.Errorf("expected numeric meta flattened, got %q", d.Meta()["wordCount"])
	}
	if d.PublishedAt() == nil {
		t.Error("expected publish date from meta")
	}
}

func TestRead_UnparseableDateIgnored(t *testing.T) {
	in := `[{"id":"d","text":"body","publishDate":"sometime"}]`
	docs, _, err := NewLoader(nil).Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if docs[0].PublishedAt() != nil {
		t.Error("unparseable date must be ignored")
	}
}

func TestRead_Malformed(t *testing.T) {
	if _, _, err := NewLoader(nil).Read(strings.NewReader(`[{"title": `)); err == nil {
		t.Error("expected error for malformed json")
	}
}

func TestRead_Empty(t *testing.T) {
	docs, stats, err := NewLoader(nil).Read(strings.NewReader("  \n"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(docs) != 0 || stats.Records != 0 {
		t.Errorf("expected empty load, got %d docs", len(docs))
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "documents.json")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBF"+flatArray), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	docs, _, err := NewLoader(nil).LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("expected 2 docs, got %d", len(docs))
	}

	if _, _, err := NewLoader(nil).LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
