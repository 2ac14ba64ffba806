// Package dto holds the JSON shapes shared by the HTTP API and the CLI.
package dto

import (
	"github.com/kailas-cloud/sportspulse/internal/domain"
	"github.com/kailas-cloud/sportspulse/internal/domain/answer"
)

// AskRequest is the body of POST /api/v1/ask.
type AskRequest struct {
	Question        string `json:"question"`
	EnableWebSearch *bool  `json:"enable_web_search,omitempty"` // default true
	ForceWebSearch  bool   `json:"force_web_search,omitempty"`
}

// WebEnabled resolves the enable_web_search default.
func (r AskRequest) WebEnabled() bool {
	return r.EnableWebSearch == nil || *r.EnableWebSearch
}

// Answer is one ranked answer.
type Answer struct {
	Rank       int               `json:"rank"`
	Answer     string            `json:"answer"`
	Context    string            `json:"context"`
	Score      float64           `json:"score"`
	Source     string            `json:"source"`
	DocumentID string            `json:"document_id"`
	Title      string            `json:"title,omitempty"`
	URL        string            `json:"url,omitempty"`
	Meta       map[string]string `json:"meta,omitempty"`
}

// SourceReport describes one retrieval path.
type SourceReport struct {
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
	Candidates int    `json:"candidates"`
	Answers    int    `json:"answers"`
}

// Routing mirrors the router decision.
type Routing struct {
	UseStatic bool     `json:"use_static"`
	UseWeb    bool     `json:"use_web"`
	Cues      []string `json:"cues"`
}

// SourceSummary reports which sources contributed.
type SourceSummary struct {
	Routing       Routing      `json:"routing"`
	KnowledgeBase SourceReport `json:"knowledge_base"`
	WebSearch     SourceReport `json:"web_search"`
	Degraded      bool         `json:"degraded"`
}

// AskResponse is the body returned for a question. The top-level answer fields repeat the
// best answer; when nothing qualifies they carry the no-answer message with score 0.
type AskResponse struct {
	Found         bool              `json:"found"`
	Answer        string            `json:"answer"`
	Score         float64           `json:"score"`
	Source        string            `json:"source"`
	Context       string            `json:"context"`
	Meta          map[string]string `json:"meta"`
	Answers       []Answer          `json:"answers"`
	SourceSummary SourceSummary     `json:"source_summary"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewAskResponse converts a query result.
func NewAskResponse(res *answer.Result) AskResponse {
	out := AskResponse{
		Found:         res.Found,
		Answer:        res.Message,
		Source:        string(domain.SourceNone),
		Meta:          map[string]string{},
		Answers:       make([]Answer, len(res.Answers)),
		SourceSummary: newSourceSummary(res.Summary),
	}
	for i := range res.Answers {
		out.Answers[i] = newAnswer(&res.Answers[i])
	}
	if best := res.Best(); best != nil {
		a := out.Answers[0]
		out.Answer = a.Answer
		out.Score = a.Score
		out.Source = a.Source
		out.Context = a.Context
		out.Meta = bestMeta(best)
	}
	return out
}

func newAnswer(a *answer.Answer) Answer {
	return Answer{
		Rank:       a.Rank,
		Answer:     a.Text,
		Context:    a.Context,
		Score:      a.Confidence,
		Source:     string(a.Source),
		DocumentID: a.DocumentID,
		Title:      a.Title,
		URL:        a.URL,
		Meta:       a.Meta,
	}
}

// bestMeta folds title and url into the metadata map for the top answer.
func bestMeta(a *answer.Answer) map[string]string {
	m := make(map[string]string, len(a.Meta)+2)
	for k, v := range a.Meta {
		m[k] = v
	}
	if a.Title != "" {
		m["title"] = a.Title
	}
	if a.URL != "" {
		m["url"] = a.URL
	}
	return m
}

func newSourceSummary(s answer.SourceSummary) SourceSummary {
	cues := s.Routing.Cues
	if cues == nil {
		cues = []string{}
	}
	return SourceSummary{
		Routing: Routing{
			UseStatic: s.Routing.UseStatic,
			UseWeb:    s.Routing.UseWeb,
			Cues:      cues,
		},
		KnowledgeBase: SourceReport(s.KnowledgeBase),
		WebSearch:     SourceReport(s.Web),
		Degraded:      s.Degraded,
	}
}
