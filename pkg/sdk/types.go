package sportspulse

import (
	"time"

	"github.com/kailas-cloud/sportspulse/internal/domain/answer"
)

// Source identifies where an answer came from.
type Source string

// Answer sources.
const (
	SourceKnowledgeBase Source = "knowledge_base"
	SourceWebSearch     Source = "web_search"
)

// Source statuses reported in SourceSummary.
const (
	StatusOK          = answer.StatusOK
	StatusSkipped     = answer.StatusSkipped
	StatusDisabled    = answer.StatusDisabled
	StatusUnavailable = answer.StatusUnavailable
)

// NoAnswerMessage is returned in Result.Message when no answer qualifies.
const NoAnswerMessage = answer.NoAnswerMessage

// Answer is one ranked answer.
type Answer struct {
	Rank       int
	Text       string
	Context    string
	Confidence float64
	Source     Source
	DocumentID string
	Title      string
	URL        string
	Meta       map[string]string
}

// SourceReport describes one retrieval path.
type SourceReport struct {
	Status     string
	Reason     string
	Candidates int
	Answers    int
}

// SourceSummary reports how the question was routed and what each source contributed.
type SourceSummary struct {
	UseStatic     bool
	UseWeb        bool
	Cues          []string
	KnowledgeBase SourceReport
	WebSearch     SourceReport
	Degraded      bool
}

// Result holds the ranked answers to a question.
type Result struct {
	Answers []Answer
	Found   bool
	Message string
	Summary SourceSummary
}

// Best returns the highest ranked answer or nil.
func (r *Result) Best() *Answer {
	if len(r.Answers) == 0 {
		return nil
	}
	return &r.Answers[0]
}

// CorpusStats describes the loaded corpus.
type CorpusStats struct {
	Ready     bool
	Documents int
	Terms     int
	LoadedAt  time.Time
}

func resultFromDomain(r *answer.Result) Result {
	out := Result{
		Answers: make([]Answer, len(r.Answers)),
		Found:   r.Found,
		Message: r.Message,
		Summary: SourceSummary{
			UseStatic:     r.Summary.Routing.UseStatic,
			UseWeb:        r.Summary.Routing.UseWeb,
			Cues:          r.Summary.Routing.Cues,
			KnowledgeBase: SourceReport(r.Summary.KnowledgeBase),
			WebSearch:     SourceReport(r.Summary.Web),
			Degraded:      r.Summary.Degraded,
		},
	}
	for i := range r.Answers {
		a := &r.Answers[i]
		out.Answers[i] = Answer{
			Rank:       a.Rank,
			Text:       a.Text,
			Context:    a.Context,
			Confidence: a.Confidence,
			Source:     Source(a.Source),
			DocumentID: a.DocumentID,
			Title:      a.Title,
			URL:        a.URL,
			Meta:       a.Meta,
		}
	}
	return out
}
