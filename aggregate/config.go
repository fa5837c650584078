// Package aggregate rolls per-query ranking metrics up into group level
// summaries: mean NDCG at the configured cutoffs, precision, error rates and
// score distributions, overall and per domain.
package aggregate

import (
	"runtime"
	"sort"
)

// DefaultKValues are the NDCG cutoffs reported when none are configured.
var DefaultKValues = []int{5, 10}

const (
	// DefaultErrorCutoff is the NDCG cutoff the error rate is derived from.
	DefaultErrorCutoff = 10
	// DefaultRelevanceThreshold is the lowest judgment counted as relevant.
	DefaultRelevanceThreshold = 1.0
)

type Config struct {
	// KValues are the cutoffs at which mean NDCG is reported.
	KValues []int
	// ErrorCutoff selects the NDCG cutoff behind the ndcg_error figure.
	ErrorCutoff int
	// RelevanceThreshold is the lowest judgment counted as relevant for
	// precision. Zero is honored, so judged-but-irrelevant results count.
	RelevanceThreshold float64
	// Workers caps how many queries are scored concurrently.
	Workers int
}

func DefaultConfig() Config {
	return Config{
		KValues:            DefaultKValues,
		ErrorCutoff:        DefaultErrorCutoff,
		RelevanceThreshold: DefaultRelevanceThreshold,
		Workers:            runtime.NumCPU(),
	}
}

func (c Config) normalized() Config {
	if len(c.KValues) == 0 {
		c.KValues = DefaultKValues
	}
	if c.ErrorCutoff <= 0 {
		c.ErrorCutoff = DefaultErrorCutoff
	}
	if c.Workers < 1 {
		c.Workers = runtime.NumCPU()
	}
	return c
}

// cutoffs returns the sorted union of the configured k values and the error
// cutoff, ignoring non-positive entries.
func (c Config) cutoffs() []int {
	seen := make(map[int]struct{}, len(c.KValues)+1)
	var ks []int
	for _, k := range append(append([]int{}, c.KValues...), c.ErrorCutoff) {
		if k <= 0 {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		ks = append(ks, k)
	}
	sort.Ints(ks)
	return ks
}
