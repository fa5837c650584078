package metrics

import "github.com/rankwell/releval/judgment"

// PrecisionAtK computes the fraction of the top k results judged relevant,
// meaning judged at or above the threshold. Unjudged results are never
// relevant, whatever the threshold. The divisor is k even when fewer
// results were returned, so short rankings are penalized.
func PrecisionAtK(results []judgment.Record, k int, relevanceThreshold float64) float64 {
	if k <= 0 || len(results) == 0 {
		return 0
	}
	relevant := countRelevant(results, min(k, len(results)), relevanceThreshold)
	return float64(relevant) / float64(k)
}

// AveragePrecision computes the mean of precision values at each relevant
// rank, over the total number of relevant results.
func AveragePrecision(results []judgment.Record, relevanceThreshold float64) float64 {
	totalRelevant := countRelevant(results, len(results), relevanceThreshold)
	if totalRelevant == 0 {
		return 0
	}

	var relevantSeen int
	var sumPrecision float64
	for i, res := range results {
		if relevant(res, relevanceThreshold) {
			relevantSeen++
			sumPrecision += float64(relevantSeen) / float64(i+1)
		}
	}
	return sumPrecision / float64(totalRelevant)
}

func relevant(r judgment.Record, threshold float64) bool {
	return r.Judged() && r.Relevance() >= threshold
}

func countRelevant(results []judgment.Record, n int, threshold float64) int {
	var count int
	for i := 0; i < n; i++ {
		if relevant(results[i], threshold) {
			count++
		}
	}
	return count
}
