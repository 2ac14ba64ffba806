package answer

import (
	"testing"

	"github.com/kailas-cloud/sportspulse/internal/domain"
)

func TestResult_Best(t *testing.T) {
	var empty Result
	if empty.Best() != nil {
		t.Fatal("expected nil best answer for empty result")
	}

	r := Result{Answers: []Answer{
		{Text: "first", Confidence: 0.9, Rank: 1},
		{Text: "second", Confidence: 0.5, Rank: 2},
	}}
	if got := r.Best(); got == nil || got.Text != "first" {
		t.Fatalf("unexpected best answer: %+v", got)
	}
}

func TestResult_Sources(t *testing.T) {
	r := Result{Answers: []Answer{
		{Source: domain.SourceWebSearch},
		{Source: domain.SourceKnowledgeBase},
		{Source: domain.SourceWebSearch},
	}}
	got := r.Sources()
	if len(got) != 2 || got[0] != domain.SourceWebSearch || got[1] != domain.SourceKnowledgeBase {
		t.Errorf("unexpected sources: %v", got)
	}
}
