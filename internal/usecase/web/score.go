package web

import "github.com/kailas-cloud/sportspulse/internal/domain/passage"

// rankDecay controls how quickly confidence falls with provider rank.
const rankDecay = 0.25

// partialQuality penalizes pages that only yielded fallback text.
const partialQuality = 0.7

// RankScore maps a 1-based provider rank onto (0,1]: 1/(1+0.25*(rank-1)).
// Rank 1 scores 1.0, rank 5 scores 0.5. Strictly decreasing in rank.
func RankScore(rank int) float64 {
	if rank < 1 {
		rank = 1
	}
	return 1 / (1 + rankDecay*float64(rank-1))
}

// Score is the web passage confidence: rank score times extraction quality.
func Score(rank int, extraction string) float64 {
	q := 1.0
	if extraction != passage.ExtractionFull {
		q = partialQuality
	}
	return RankScore(rank) * q
}
