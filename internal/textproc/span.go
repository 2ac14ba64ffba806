package textproc

import "strings"

// pairPenalty discounts two-sentence spans so a single sentence wins at equal coverage.
const pairPenalty = 0.9

// Span is the best-matching part of a text.
type Span struct {
	Text    string
	Context string
	// Score is the weighted share of query terms the span covers, in [0,1].
	Score float64
}

// SpanReader picks the best sentence or adjacent sentence pair of a text and scores it by the
// weighted share of query terms it covers.
type SpanReader struct {
	terms        []string
	weights      map[string]float64
	total        float64
	contextChars int
}

// NewSpanReader creates a reader for the query terms. weight gives each term's importance
// (nil means uniform); contextChars bounds Span.Context.
func NewSpanReader(terms []string, weight func(string) float64, contextChars int) *SpanReader {
	r := &SpanReader{terms: terms, weights: make(map[string]float64, len(terms)), contextChars: contextChars}
	for _, t := range terms {
		w := 1.0
		if weight != nil {
			w = weight(t)
		}
		r.weights[t] = w
		r.total += w
	}
	return r
}

// Best returns the highest scoring span of text. ok is false when no span covers any term.
// Ties keep the earliest span.
func (r *SpanReader) Best(text string) (Span, bool) {
	sentences := Sentences(text)
	if len(sentences) == 0 {
		return Span{}, false
	}

	sets := make([]map[string]bool, len(sentences))
	for i, s := range sentences {
		sets[i] = tokenSet(s)
	}

	best, bestStart, bestEnd := 0.0, -1, -1
	for i := range sentences {
		if sc := r.coverage(sets[i], nil); sc > best {
			best, bestStart, bestEnd = sc, i, i
		}
		if i+1 < len(sentences) {
			if sc := r.coverage(sets[i], sets[i+1]) * pairPenalty; sc > best {
				best, bestStart, bestEnd = sc, i, i+1
			}
		}
	}
	if bestStart < 0 {
		return Span{}, false
	}

	if best > 1 {
		best = 1
	}
	return Span{
		Text:    strings.Join(sentences[bestStart:bestEnd+1], " "),
		Context: r.context(sentences, bestStart, bestEnd),
		Score:   best,
	}, true
}

// Lead returns the opening sentences of text bounded to contextChars, for texts where no
// span matches.
func (r *SpanReader) Lead(text string) Span {
	sentences := Sentences(text)
	if len(sentences) == 0 {
		return Span{}
	}
	end := 0
	if len(sentences) > 1 {
		end = 1
	}
	return Span{
		Text:    Truncate(strings.Join(sentences[:end+1], " "), r.contextChars),
		Context: r.context(sentences, 0, end),
	}
}

func (r *SpanReader) coverage(a, b map[string]bool) float64 {
	if r.total <= 0 {
		return 0
	}
	var got float64
	for _, t := range r.terms {
		if a[t] || b[t] {
			got += r.weights[t]
		}
	}
	return got / r.total
}

// context widens the span by one sentence on each side and bounds it to contextChars.
func (r *SpanReader) context(sentences []string, start, end int) string {
	if start > 0 {
		start--
	}
	if end+1 < len(sentences) {
		end++
	}
	return Truncate(strings.Join(sentences[start:end+1], " "), r.contextChars)
}

func tokenSet(s string) map[string]bool {
	out := make(map[string]bool)
	for _, t := range Tokenize(s) {
		out[t] = true
	}
	return out
}
