// Package metrics implements ranking quality metrics over graded
// relevance judgments. Inputs are relevance scores listed in ranked
// order, highest rank first.
package metrics

import (
	"errors"
	"math"
	"sort"
)

// ErrNoRelevantResults reports a ranking whose ideal gain is zero, which
// leaves NDCG undefined.
var ErrNoRelevantResults = errors.New("no relevant results")

// DCGAtK computes discounted cumulative gain over the top k results
// using linear gain: each relevance is discounted by log2 of its
// 1-indexed rank plus one.
func DCGAtK(relevances []float64, k int) float64 {
	n := min(k, len(relevances))
	var dcg float64
	for i := 0; i < n; i++ {
		dcg += relevances[i] / math.Log2(float64(i)+2)
	}
	return dcg
}

// NDCGAtK computes DCG at k normalized by the ideal ordering of the same
// relevances. Returns ErrNoRelevantResults when every relevance in the
// top k of the ideal ordering is zero.
func NDCGAtK(relevances []float64, k int) (float64, error) {
	ideal := DCGAtK(IdealRelevances(relevances), k)
	if ideal == 0 {
		return 0, ErrNoRelevantResults
	}
	return DCGAtK(relevances, k) / ideal, nil
}

// IdealRelevances returns the relevances sorted descending, the ordering
// a perfect ranker would have shown. The sort is stable so tied scores
// keep their observed order.
func IdealRelevances(relevances []float64) []float64 {
	ideal := make([]float64, len(relevances))
	copy(ideal, relevances)
	sort.SliceStable(ideal, func(i, j int) bool {
		return ideal[i] > ideal[j]
	})
	return ideal
}
