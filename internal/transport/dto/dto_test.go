package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/sportspulse/internal/domain"
	"github.com/kailas-cloud/sportspulse/internal/domain/answer"
	"github.com/kailas-cloud/sportspulse/internal/domain/usage"
	"github.com/kailas-cloud/sportspulse/internal/domain/usage/budget"
)

func TestAskRequest_WebEnabledDefault(t *testing.T) {
	var req AskRequest
	if err := json.Unmarshal([]byte(`{"question":"q"}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !req.WebEnabled() {
		t.Error("web search must default to enabled")
	}
	if err := json.Unmarshal([]byte(`{"question":"q","enable_web_search":false}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if req.WebEnabled() {
		t.Error("explicit false must disable web search")
	}
}

func TestNewAskResponse_Found(t *testing.T) {
	res := answer.Result{
		Found: true,
		Answers: []answer.Answer{
			{
				Text: "Nuggets beat the Heat", Context: "...the Nuggets beat the Heat 94-89...",
				Confidence: 0.82, Source: domain.SourceWebSearch, Rank: 1,
				DocumentID: "https://espn.example/a", Title: "Finals", URL: "https://espn.example/a",
				Meta: map[string]string{"search_rank": "1"},
			},
			{Text: "Jokic won MVP", Confidence: 0.4, Source: domain.SourceKnowledgeBase, Rank: 2, DocumentID: "d1"},
		},
		Summary: answer.SourceSummary{
			Routing:       answer.Routing{UseStatic: true, UseWeb: true, Cues: []string{"recency:last night"}},
			KnowledgeBase: answer.SourceReport{Status: answer.StatusOK, Candidates: 3, Answers: 1},
			Web:           answer.SourceReport{Status: answer.StatusOK, Candidates: 2, Answers: 1},
		},
	}

	out := NewAskResponse(&res)

	if !out.Found || out.Answer != "Nuggets beat the Heat" || out.Score != 0.82 || out.Source != "web_search" {
		t.Errorf("unexpected best answer: %+v", out)
	}
	if out.Meta["title"] != "Finals" || out.Meta["url"] != "https://espn.example/a" || out.Meta["search_rank"] != "1" {
		t.Errorf("unexpected best meta: %v", out.Meta)
	}
	if len(out.Answers) != 2 || out.Answers[1].Source != "knowledge_base" {
		t.Errorf("unexpected answers: %+v", out.Answers)
	}
	if !out.SourceSummary.Routing.UseWeb || out.SourceSummary.WebSearch.Answers != 1 {
		t.Errorf("unexpected summary: %+v", out.SourceSummary)
	}
}

func TestNewAskResponse_NotFound(t *testing.T) {
	res := answer.Result{Message: answer.NoAnswerMessage}

	out := NewAskResponse(&res)

	if out.Found || out.Answer != answer.NoAnswerMessage || out.Score != 0 || out.Source != "none" {
		t.Errorf("unexpected empty response: %+v", out)
	}

	data, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if answers, ok := raw["answers"].([]any); !ok || len(answers) != 0 {
		t.Errorf("answers must encode as an empty array, got %v", raw["answers"])
	}
	summary := raw["source_summary"].(map[string]any)
	routing := summary["routing"].(map[string]any)
	if cues, ok := routing["cues"].([]any); !ok || len(cues) != 0 {
		t.Errorf("cues must encode as an empty array, got %v", routing["cues"])
	}
}

func TestNewUsageResponse(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	r := usage.NewReport(usage.PeriodMonth, start.UnixMilli(), end.UnixMilli(), "serpapi", 1000,
		budget.New(1000, 0, true, end.UnixMilli()))

	resp := NewUsageResponse(&r)

	if resp.Period != "month" || resp.Calls != 1000 || !resp.Budget.Exhausted {
		t.Errorf("unexpected response: %+v", resp)
	}
	if !resp.PeriodEnd.Equal(end) || !resp.Budget.ResetsAt.Equal(end) {
		t.Errorf("period end %v, resets at %v, want %v", resp.PeriodEnd, resp.Budget.ResetsAt, end)
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"period_start":"2026-03-01T00:00:00Z"`) {
		t.Errorf("expected RFC 3339 timestamps, got %s", raw)
	}
}
