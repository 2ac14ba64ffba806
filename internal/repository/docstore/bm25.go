package docstore

import (
	"fmt"
	"math"
	"time"

	"github.com/kailas-cloud/sportspulse/internal/domain"
	"github.com/kailas-cloud/sportspulse/internal/domain/document"
	"github.com/kailas-cloud/sportspulse/internal/textproc"
)

// Params tunes BM25 scoring.
type Params struct {
	K1 float64
	B  float64
	// TitleWeight multiplies title term frequencies.
	TitleWeight int
}

// DefaultParams returns the usual Okapi BM25 constants.
func DefaultParams() Params {
	return Params{K1: 1.2, B: 0.75, TitleWeight: 2}
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.K1 <= 0 {
		p.K1 = d.K1
	}
	if p.B < 0 || p.B > 1 {
		p.B = d.B
	}
	if p.TitleWeight <= 0 {
		p.TitleWeight = d.TitleWeight
	}
	return p
}

type index struct {
	docs     []document.Document
	byID     map[string]int
	tf       []map[string]int
	lengths  []int
	avgLen   float64
	postings map[string][]int
	builtAt  time.Time
}

func buildIndex(docs []document.Document, p Params) (*index, error) {
	idx := &index{
		docs:     make([]document.Document, len(docs)),
		byID:     make(map[string]int, len(docs)),
		tf:       make([]map[string]int, len(docs)),
		lengths:  make([]int, len(docs)),
		postings: make(map[string][]int),
	}
	copy(idx.docs, docs)

	total := 0
	for i := range idx.docs {
		d := &idx.docs[i]
		if _, dup := idx.byID[d.ID()]; dup {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateDocument, d.ID())
		}
		idx.byID[d.ID()] = i

		tf := make(map[string]int)
		length := 0
		for _, t := range textproc.Tokenize(d.Title()) {
			tf[t] += p.TitleWeight
			length += p.TitleWeight
		}
		for _, t := range textproc.Tokenize(d.Body()) {
			tf[t]++
			length++
		}
		for t := range tf {
			idx.postings[t] = append(idx.postings[t], i)
		}
		idx.tf[i] = tf
		idx.lengths[i] = length
		total += length
	}
	if len(idx.docs) > 0 {
		idx.avgLen = float64(total) / float64(len(idx.docs))
	}
	idx.builtAt = time.Now()
	return idx, nil
}

// idf is the non-negative BM25 inverse document frequency.
func (idx *index) idf(term string) float64 {
	n := float64(len(idx.docs))
	df := float64(len(idx.postings[term]))
	return math.Log(1 + (n-df+0.5)/(df+0.5))
}

func (idx *index) termWeight(di int, term string, p Params) float64 {
	f := float64(idx.tf[di][term])
	if f == 0 {
		return 0
	}
	norm := 1.0
	if idx.avgLen > 0 {
		norm = 1 - p.B + p.B*float64(idx.lengths[di])/idx.avgLen
	}
	return f * (p.K1 + 1) / (f + p.K1*norm)
}
