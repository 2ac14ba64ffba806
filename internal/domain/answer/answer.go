package answer

import "github.com/kailas-cloud/sportspulse/internal/domain"

// NoAnswerMessage is returned to the caller when no candidate qualifies.
const NoAnswerMessage = "Sorry, I couldn't find any answer related to that topic in my knowledge base or web search."

// Answer is a ranked output unit. Answers are built per query and never cached.
type Answer struct {
	Text       string
	Context    string
	Confidence float64
	Source     domain.Source
	Rank       int // 1-based
	DocumentID string
	Title      string
	URL        string
	Meta       map[string]string
}

// Source status values reported in the summary.
const (
	StatusOK          = "ok"
	StatusSkipped     = "skipped"     // routed away by the heuristic
	StatusDisabled    = "disabled"    // turned off by the caller
	StatusUnavailable = "unavailable" // wanted but unusable: degraded mode
)

// SourceReport describes one retrieval path for a query.
type SourceReport struct {
	Status     string
	Reason     string
	Candidates int
	Answers    int
}

// Routing mirrors the router decision for the caller.
type Routing struct {
	UseStatic bool
	UseWeb    bool
	Cues      []string
}

// SourceSummary tells the caller which sources contributed and whether the result is degraded.
type SourceSummary struct {
	Routing       Routing
	KnowledgeBase SourceReport
	Web           SourceReport
	Degraded      bool
}

// Result is the caller-facing outcome of a question.
type Result struct {
	Answers []Answer
	Found   bool
	Message string
	Summary SourceSummary
}

// Best returns the top answer, or nil when nothing was found.
func (r *Result) Best() *Answer {
	if len(r.Answers) == 0 {
		return nil
	}
	return &r.Answers[0]
}

// Sources returns the distinct sources that contributed answers, in rank order.
func (r *Result) Sources() []domain.Source {
	seen := make(map[domain.Source]bool, 2)
	var out []domain.Source
	for _, a := range r.Answers {
		if !seen[a.Source] {
			seen[a.Source] = true
			out = append(out, a.Source)
		}
	}
	return out
}
