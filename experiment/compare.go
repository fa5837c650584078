package experiment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rankwell/releval/aggregate"
	"github.com/rankwell/releval/judgment"
	"golang.org/x/sync/errgroup"
)

// DefaultSignificanceLevel is the p-value bound under which an NDCG delta
// counts as statistically significant.
const DefaultSignificanceLevel = 0.05

type Config struct {
	// Aggregate configures the per-group summaries.
	Aggregate aggregate.Config
	// SignificanceLevel bounds the p-value for calling a delta significant.
	SignificanceLevel float64
}

func DefaultConfig() Config {
	return Config{
		Aggregate:         aggregate.DefaultConfig(),
		SignificanceLevel: DefaultSignificanceLevel,
	}
}

// Compare summarizes both groups and reports how the experimental one moved
// against the baseline.
func Compare(baseline, experimental *judgment.Group, cfg Config) (*Report, error) {
	if baseline == nil || experimental == nil {
		return nil, errors.New("compare: nil group")
	}
	if cfg.SignificanceLevel <= 0 {
		cfg.SignificanceLevel = DefaultSignificanceLevel
	}
	cutoff := cfg.Aggregate.ErrorCutoff
	if cutoff <= 0 {
		cutoff = aggregate.DefaultErrorCutoff
	}

	var baseSummary, expSummary *aggregate.Summary
	var eg errgroup.Group
	eg.Go(func() error {
		var err error
		baseSummary, err = aggregate.Summarize(baseline, cfg.Aggregate)
		return err
	})
	eg.Go(func() error {
		var err error
		expSummary, err = aggregate.Summarize(experimental, cfg.Aggregate)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("summarizing groups: %w", err)
	}

	report := &Report{
		Baseline:      GroupResult{Name: reportName(baseline.Name, "baseline"), Summary: baseSummary},
		Experimental:  GroupResult{Name: reportName(experimental.Name, "experimental"), Summary: expSummary},
		NDCGDelta:     expSummary.Stats.NDCG[cutoff] - baseSummary.Stats.NDCG[cutoff],
		NumUniqueQRPs: countUniqueQRPs(baseline, experimental),
		NumTotalDiffs: countRankDiffs(baseline, experimental),
	}
	if report.NDCGDelta != 0 {
		report.Significance = pairedSignificance(baseSummary, expSummary, cutoff, cfg.SignificanceLevel)
	}
	return report, nil
}

func reportName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

func countUniqueQRPs(groups ...*judgment.Group) int {
	type qrp struct {
		key judgment.QueryKey
		id  string
	}
	seen := make(map[qrp]struct{})
	for _, g := range groups {
		for _, q := range g.Queries {
			for _, rec := range q.Results {
				seen[qrp{key: q.Key(), id: rec.ResultID}] = struct{}{}
			}
		}
	}
	return len(seen)
}

// countRankDiffs counts, over queries present in both groups, the results
// returned by both sides at different positions. Results only one side
// returned do not count.
func countRankDiffs(baseline, experimental *judgment.Group) int {
	var diffs int
	for _, q := range baseline.Queries {
		other, ok := experimental.Get(q.Domain, q.Query)
		if !ok {
			continue
		}
		positions := make(map[string]int, len(other.Results))
		for _, rec := range other.Results {
			positions[rec.ResultID] = rec.Position
		}
		for _, rec := range q.Results {
			if pos, ok := positions[rec.ResultID]; ok && pos != rec.Position {
				diffs++
			}
		}
	}
	return diffs
}

// pairedSignificance tests the per-query NDCG deltas over queries scored in
// both groups, walking keys in sorted order so the pairing is stable.
func pairedSignificance(base, exp *aggregate.Summary, cutoff int, level float64) *Significance {
	keys := make([]judgment.QueryKey, 0, len(base.PerQuery))
	for key := range base.PerQuery {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Compare(keys[j]) < 0 })

	var x, y []float64
	for _, key := range keys {
		bv, ok := base.PerQuery[key].NDCG[cutoff]
		if !ok {
			continue
		}
		expScores, ok := exp.PerQuery[key]
		if !ok {
			continue
		}
		ev, ok := expScores.NDCG[cutoff]
		if !ok {
			continue
		}
		x = append(x, bv)
		y = append(y, ev)
	}

	sig, err := WilcoxonSignedRank(x, y, level)
	if err != nil {
		return nil
	}
	return sig
}
