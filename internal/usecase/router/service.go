// Package router decides per question whether live web data is needed.
package router

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kailas-cloud/sportspulse/internal/domain/query"
	"github.com/kailas-cloud/sportspulse/internal/textproc"
)

// DefaultThreshold is the live-data weight at which web search is used.
const DefaultThreshold = 0.5

const (
	recencyWeight       = 1.0
	topicalWeight       = 0.3
	unknownEntityWeight = 0.6
)

var recencyWords = map[string]bool{
	"latest": true, "today": true, "tonight": true, "now": true, "current": true,
	"currently": true, "recent": true, "recently": true, "yesterday": true, "tomorrow": true,
	"live": true, "breaking": true, "upcoming": true, "ago": true, "ongoing": true,
}

var recencyPhrases = [][]string{
	{"last", "night"},
	{"right", "now"},
	{"so", "far"},
	{"as", "of", "today"},
	{"this", "morning"},
	{"this", "afternoon"},
	{"this", "evening"},
}

// relativeAnchors combine with relativeUnits into phrases like "last week" or "this season".
var relativeAnchors = map[string]bool{"last": true, "this": true, "next": true, "past": true}

var relativeUnits = map[string]bool{
	"week": true, "weekend": true, "month": true, "season": true, "year": true, "game": true,
	"games": true, "match": true, "night": true, "round": true,
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true, "friday": true,
	"saturday": true, "sunday": true,
}

var topicalWords = map[string]bool{
	"score": true, "scores": true, "standings": true, "schedule": true, "stats": true,
	"injury": true, "injured": true, "injuries": true, "trade": true, "traded": true,
	"status": true, "rank": true, "ranking": true, "rankings": true, "record": true,
	"game": true, "match": true, "news": true, "update": true, "updates": true,
	"playoffs": true, "won": true, "result": true, "results": true, "lineup": true,
}

// Router classifies questions as static-sufficient or needing live search.
type Router struct {
	vocab     Vocabulary
	threshold float64
}

// New creates a Router. vocab can be nil, which disables the unknown-entity cue.
func New(vocab Vocabulary) *Router {
	return &Router{vocab: vocab, threshold: DefaultThreshold}
}

// WithThreshold overrides the live-data threshold. Non-positive values are ignored.
func (r *Router) WithThreshold(t float64) *Router {
	if t > 0 {
		r.threshold = t
	}
	return r
}

// Route returns the routing decision for a question. Static retrieval is always used; web
// retrieval only when liveEnabled and the accumulated cue weight reaches the threshold.
// Route has no side effects.
func (r *Router) Route(question string, liveEnabled bool) query.Decision {
	d := query.Decision{UseStatic: true}
	if !liveEnabled {
		return d
	}

	words := textproc.Words(question)
	seen := make(map[string]bool)
	add := func(cue string, w float64) {
		if seen[cue] {
			return
		}
		seen[cue] = true
		d.Cues = append(d.Cues, cue)
		d.Score += w
	}

	for i, w := range words {
		if recencyWords[w] {
			add("recency:"+w, recencyWeight)
		}
		if relativeAnchors[w] && i+1 < len(words) && relativeUnits[words[i+1]] {
			add("recency:"+w+" "+words[i+1], recencyWeight)
		}
		for _, p := range recencyPhrases {
			if hasPhraseAt(words, i, p) {
				add("recency:"+strings.Join(p, " "), recencyWeight)
			}
		}
		if topicalWords[w] {
			add("topical:"+w, topicalWeight)
		}
	}

	if r.vocab != nil {
		if unknown, total := r.unknownEntities(question); total > 0 && unknown*2 >= total {
			add(fmt.Sprintf("unknown_entities:%d/%d", unknown, total), unknownEntityWeight)
		}
	}

	d.UseWeb = d.Score >= r.threshold
	return d
}

// unknownEntities counts capitalized non-leading words of the question that the corpus
// has never seen.
func (r *Router) unknownEntities(question string) (unknown, total int) {
	fields := strings.FieldsFunc(question, func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsDigit(c)
	})
	for i, f := range fields {
		if i == 0 || !isCapitalized(f) {
			continue
		}
		term := strings.ToLower(f)
		if textproc.IsStopWord(term) {
			continue
		}
		total++
		if !r.vocab.HasTerm(term) {
			unknown++
		}
	}
	return unknown, total
}

func isCapitalized(w string) bool {
	rs := []rune(w)
	return len(rs) >= 2 && unicode.IsUpper(rs[0])
}

func hasPhraseAt(words []string, i int, phrase []string) bool {
	if i+len(phrase) > len(words) {
		return false
	}
	for j, p := range phrase {
		if words[i+j] != p {
			return false
		}
	}
	return true
}
