package query

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/sportspulse/internal/domain"
)

// MaxQuestionLength is the maximum accepted question length in bytes.
const MaxQuestionLength = 1024

// Request is a validated question.
type Request struct {
	question  string
	enableWeb bool
	forceWeb  bool
}

// New validates a question. The text is trimmed; empty or oversized input is rejected
// with domain.ErrInvalidQuery.
// enableWeb allows live search; forceWeb bypasses the routing heuristic and requires enableWeb.
func New(question string, enableWeb, forceWeb bool) (Request, error) {
	if forceWeb && !enableWeb {
		return Request{}, fmt.Errorf("%w: web search cannot be both disabled and forced", domain.ErrInvalidQuery)
	}
	q := strings.TrimSpace(question)
	if q == "" {
		return Request{}, fmt.Errorf("%w: question is required", domain.ErrInvalidQuery)
	}
	if len(q) > MaxQuestionLength {
		return Request{}, fmt.Errorf("%w: question too long (max %d chars)", domain.ErrInvalidQuery, MaxQuestionLength)
	}
	return Request{question: q, enableWeb: enableWeb, forceWeb: forceWeb}, nil
}

// Question returns the trimmed question text.
func (r *Request) Question() string { return r.question }

// EnableWeb reports whether the caller allows live web search.
func (r *Request) EnableWeb() bool { return r.enableWeb }

// ForceWeb reports whether the caller wants web search regardless of the heuristic.
func (r *Request) ForceWeb() bool { return r.forceWeb }

// Decision is the routing outcome for one question.
type Decision struct {
	UseStatic bool
	UseWeb    bool
	// Score is the accumulated live-data weight; UseWeb is set when it reaches the threshold.
	Score float64
	// Cues lists the signals that contributed to Score.
	Cues []string
}
