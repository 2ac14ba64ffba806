// Package ranking merges static and web passages into one calibrated answer list.
package ranking

import (
	"sort"
	"strconv"

	"github.com/kailas-cloud/sportspulse/internal/domain"
	"github.com/kailas-cloud/sportspulse/internal/domain/answer"
	"github.com/kailas-cloud/sportspulse/internal/domain/passage"
	"github.com/kailas-cloud/sportspulse/internal/textproc"
)

// Defaults for ranking.
const (
	DefaultStaticWeight   = 0.9
	DefaultWebWeight      = 1.0
	DefaultStaticMinScore = 0.3
	DefaultWebMinScore    = 0.2
	DefaultMaxAnswers     = 5
)

// Config holds per-source calibration. Zero values take the defaults; a negative min score
// disables that floor.
type Config struct {
	StaticWeight   float64
	WebWeight      float64
	StaticMinScore float64
	WebMinScore    float64
	MaxAnswers     int
}

// Ranker calibrates, merges and orders candidate passages.
type Ranker struct {
	cfg Config
}

// New creates a Ranker.
func New(cfg Config) *Ranker {
	if cfg.StaticWeight <= 0 {
		cfg.StaticWeight = DefaultStaticWeight
	}
	if cfg.WebWeight <= 0 {
		cfg.WebWeight = DefaultWebWeight
	}
	if cfg.StaticMinScore == 0 {
		cfg.StaticMinScore = DefaultStaticMinScore
	}
	if cfg.WebMinScore == 0 {
		cfg.WebMinScore = DefaultWebMinScore
	}
	if cfg.MaxAnswers <= 0 {
		cfg.MaxAnswers = DefaultMaxAnswers
	}
	return &Ranker{cfg: cfg}
}

// Rank returns answers in descending confidence with ranks 1..n. Candidates below their
// source's raw floor are dropped; text that is equal after case and whitespace folding keeps
// only its highest-confidence instance. Source tags are never changed.
func (r *Ranker) Rank(static, web []passage.Passage) []answer.Answer {
	byKey := make(map[string]int)
	var out []answer.Answer

	add := func(p passage.Passage, weight, floor float64) {
		if p.Score < floor {
			return
		}
		a := toAnswer(p, clamp01(p.Score*weight))
		key := textproc.Fold(a.Text)
		if key == "" {
			return
		}
		if i, ok := byKey[key]; ok {
			if a.Confidence > out[i].Confidence {
				out[i] = a
			}
			return
		}
		byKey[key] = len(out)
		out = append(out, a)
	}

	for _, p := range static {
		add(p, r.cfg.StaticWeight, r.cfg.StaticMinScore)
	}
	for _, p := range web {
		add(p, r.cfg.WebWeight, r.cfg.WebMinScore)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Source != b.Source {
			return sourceOrder(a.Source) < sourceOrder(b.Source)
		}
		if a.DocumentID != b.DocumentID {
			return a.DocumentID < b.DocumentID
		}
		return a.Text < b.Text
	})

	if len(out) > r.cfg.MaxAnswers {
		out = out[:r.cfg.MaxAnswers]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	if out == nil {
		out = []answer.Answer{}
	}
	return out
}

func toAnswer(p passage.Passage, confidence float64) answer.Answer {
	meta := make(map[string]string, len(p.Meta)+2)
	for k, v := range p.Meta {
		meta[k] = v
	}
	if p.SearchRank > 0 {
		meta["search_rank"] = strconv.Itoa(p.SearchRank)
	}
	if p.Extraction != "" {
		meta["extraction"] = p.Extraction
	}
	return answer.Answer{
		Text:       p.Text,
		Context:    p.Context,
		Confidence: confidence,
		Source:     p.Source,
		DocumentID: p.DocumentID,
		Title:      p.Title,
		URL:        p.URL,
		Meta:       meta,
	}
}

func sourceOrder(s domain.Source) int {
	switch s {
	case domain.SourceKnowledgeBase:
		return 0
	case domain.SourceWebSearch:
		return 1
	}
	return 2
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
