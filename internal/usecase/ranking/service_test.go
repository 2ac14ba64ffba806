package ranking

import (
	"testing"

	"github.com/kailas-cloud/sportspulse/internal/domain"
	"github.com/kailas-cloud/sportspulse/internal/domain/passage"
)

func static(id, text string, score float64) passage.Passage {
	return passage.Passage{DocumentID: id, Text: text, Score: score, Source: domain.SourceKnowledgeBase}
}

func web(url, text string, score float64, rank int) passage.Passage {
	return passage.Passage{
		DocumentID: url, URL: url, Text: text, Score: score,
		Source: domain.SourceWebSearch, SearchRank: rank, Extraction: passage.ExtractionFull,
	}
}

func TestRank_Empty(t *testing.T) {
	got := New(Config{}).Rank(nil, nil)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil answers, got %v", got)
	}
}

func TestRank_CalibrationAndOrder(t *testing.T) {
	r := New(Config{})
	got := r.Rank(
		[]passage.Passage{static("a", "Static answer one.", 1.0), static("b", "Static answer two.", 0.5)},
		[]passage.Passage{web("https://w/1", "Web answer.", 0.95, 1)},
	)
	if len(got) != 3 {
		t.Fatalf("expected 3 answers, got %d", len(got))
	}
	if got[0].Source != domain.SourceWebSearch || got[0].Confidence != 0.95 {
		t.Errorf("expected web answer first at 0.95, got %+v", got[0])
	}
	if got[1].Confidence != 0.9 {
		t.Errorf("expected static 1.0 calibrated to 0.9, got %f", got[1].Confidence)
	}
	for i, a := range got {
		if a.Rank != i+1 {
			t.Errorf("answer %d has rank %d", i, a.Rank)
		}
		if a.Confidence < 0 || a.Confidence > 1 {
			t.Errorf("confidence out of range: %f", a.Confidence)
		}
		if i > 0 && a.Confidence > got[i-1].Confidence {
			t.Errorf("answers not sorted at %d", i)
		}
	}
	if got[0].Meta["search_rank"] != "1" || got[0].Meta["extraction"] != passage.ExtractionFull {
		t.Errorf("expected web provenance in meta, got %v", got[0].Meta)
	}
}

func TestRank_Floors(t *testing.T) {
	r := New(Config{StaticMinScore: 0.5, WebMinScore: 0.6})
	got := r.Rank(
		[]passage.Passage{static("a", "kept", 0.5), static("b", "dropped", 0.49)},
		[]passage.Passage{web("https://w/1", "web dropped", 0.59, 1)},
	)
	if len(got) != 1 || got[0].DocumentID != "a" {
		t.Errorf("expected only the static answer above its floor, got %+v", got)
	}

	noFloor := New(Config{StaticMinScore: -1}).Rank([]passage.Passage{static("c", "low", 0.01)}, nil)
	if len(noFloor) != 1 {
		t.Errorf("negative floor must disable filtering, got %d answers", len(noFloor))
	}
}

func TestRank_DedupKeepsHigherScored(t *testing.T) {
	r := New(Config{})
	got := r.Rank(
		[]passage.Passage{static("a", "The Celtics  won the title.", 0.6)},
		[]passage.Passage{web("https://w/1", "the celtics won THE title.", 0.9, 1)},
	)
	if len(got) != 1 {
		t.Fatalf("expected one answer after dedup, got %d", len(got))
	}
	if got[0].Source != domain.SourceWebSearch || got[0].Confidence != 0.9 {
		t.Errorf("expected the higher-scored web instance, got %+v", got[0])
	}

	got = r.Rank(
		[]passage.Passage{static("a", "Same text.", 1.0)},
		[]passage.Passage{web("https://w/1", "same   text.", 0.5, 3)},
	)
	if len(got) != 1 || got[0].Source != domain.SourceKnowledgeBase {
		t.Errorf("expected the higher-scored static instance with its tag, got %+v", got)
	}
}

func TestRank_DedupTieKeepsFirstSeen(t *testing.T) {
	got := New(Config{StaticWeight: 1}).Rank(
		[]passage.Passage{static("a", "Tie text.", 0.8)},
		[]passage.Passage{web("https://w/1", "tie text.", 0.8, 1)},
	)
	if len(got) != 1 || got[0].Source != domain.SourceKnowledgeBase {
		t.Errorf("expected the first-seen instance on a tie, got %+v", got)
	}
}

func TestRank_TieBreaks(t *testing.T) {
	got := New(Config{StaticWeight: 1}).Rank(
		[]passage.Passage{static("b", "Second doc.", 0.7), static("a", "First doc.", 0.7)},
		[]passage.Passage{web("https://w/1", "Web doc.", 0.7, 1)},
	)
	want := []string{"a", "b", "https://w/1"}
	for i, id := range want {
		if got[i].DocumentID != id {
			t.Errorf("position %d: expected %q, got %q", i, id, got[i].DocumentID)
		}
	}
}

func TestRank_MaxAnswers(t *testing.T) {
	var ps []passage.Passage
	for i, text := range []string{"one", "two", "three", "four", "five", "six", "seven"} {
		ps = append(ps, static(text, text, 1-float64(i)*0.05))
	}
	got := New(Config{}).Rank(ps, nil)
	if len(got) != DefaultMaxAnswers {
		t.Fatalf("expected %d answers, got %d", DefaultMaxAnswers, len(got))
	}
	if got[0].DocumentID != "one" || got[4].DocumentID != "five" {
		t.Errorf("expected the top five, got %q..%q", got[0].DocumentID, got[4].DocumentID)
	}
}

func TestRank_ClampsConfidence(t *testing.T) {
	got := New(Config{WebWeight: 2}).Rank(nil, []passage.Passage{web("https://w/1", "x", 0.9, 1)})
	if got[0].Confidence != 1 {
		t.Errorf("expected clamp to 1, got %f", got[0].Confidence)
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	in := []passage.Passage{static("a", "text", 0.8)}
	in[0].Meta = map[string]string{"category": "NBA"}
	got := New(Config{}).Rank(in, nil)
	got[0].Meta["category"] = "changed"
	if in[0].Meta["category"] != "NBA" {
		t.Error("ranker must copy passage metadata")
	}
	if in[0].Score != 0.8 {
		t.Error("ranker must not rescale input passages")
	}
}
