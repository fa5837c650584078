package aggregate

import (
	"errors"
	"fmt"

	"github.com/rankwell/releval/judgment"
	"github.com/rankwell/releval/metrics"
	"golang.org/x/sync/errgroup"
)

// QueryScores holds the metric values of a single query.
type QueryScores struct {
	NDCG             map[int]float64 `json:"ndcg"`
	AveragePrecision float64         `json:"average_precision"`
}

// Summary is the metric rollup for one result group.
type Summary struct {
	Group string `json:"group"`
	Stats Stats  `json:"stats"`
	// ByDomain breaks the same figures out per domain.
	ByDomain map[string]Stats `json:"by_domain,omitempty"`
	// MeanAveragePrecision averages AP over queries that returned results.
	MeanAveragePrecision float64 `json:"mean_average_precision"`
	// Distribution spreads the per-query NDCG at the error cutoff.
	Distribution ScoreDistribution `json:"ndcg_distribution"`
	// PerQuery keeps the raw per-query scores for drill-down and pairing.
	PerQuery map[judgment.QueryKey]QueryScores `json:"per_query,omitempty"`
}

// Summarize scores every query in the group and rolls the results up into a
// summary. Queries are scored concurrently, bounded by cfg.Workers, and
// reduced in group order so repeated runs produce identical summaries.
func Summarize(group *judgment.Group, cfg Config) (*Summary, error) {
	if group == nil {
		return nil, errors.New("summarize: nil group")
	}
	cfg = cfg.normalized()
	ks := cfg.cutoffs()

	scores := make([]queryScore, len(group.Queries))
	var eg errgroup.Group
	eg.SetLimit(cfg.Workers)
	for i, q := range group.Queries {
		eg.Go(func() error {
			scores[i] = scoreQuery(q, ks, cfg.RelevanceThreshold)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("scoring %s: %w", group.Name, err)
	}

	overall := newTally(cfg.ErrorCutoff)
	byDomain := make(map[string]*tally)
	var (
		apSum   float64
		apCount int
		samples []float64
	)
	perQuery := make(map[judgment.QueryKey]QueryScores, len(scores))

	for _, s := range scores {
		overall.add(s)
		dt, ok := byDomain[s.key.Domain]
		if !ok {
			dt = newTally(cfg.ErrorCutoff)
			byDomain[s.key.Domain] = dt
		}
		dt.add(s)

		if s.empty {
			continue
		}
		apSum += s.ap
		apCount++
		if v, ok := s.ndcg[cfg.ErrorCutoff]; ok {
			samples = append(samples, v)
		}
		perQuery[s.key] = QueryScores{NDCG: s.ndcg, AveragePrecision: s.ap}
	}

	summary := &Summary{
		Group:        group.Name,
		Stats:        overall.stats(ks),
		ByDomain:     make(map[string]Stats, len(byDomain)),
		Distribution: newDistribution(samples),
		PerQuery:     perQuery,
	}
	for domain, dt := range byDomain {
		summary.ByDomain[domain] = dt.stats(ks)
	}
	if apCount > 0 {
		summary.MeanAveragePrecision = apSum / float64(apCount)
	}
	return summary, nil
}

// queryScore is the raw outcome of scoring one query.
type queryScore struct {
	key        judgment.QueryKey
	empty      bool
	ndcg       map[int]float64
	ap         float64
	results    int
	relevant   int
	irrelevant int
	unjudged   int
}

func scoreQuery(q judgment.QueryGroup, ks []int, threshold float64) queryScore {
	score := queryScore{key: q.Key()}
	if q.Empty() {
		score.empty = true
		return score
	}

	for _, rec := range q.Results {
		score.results++
		switch {
		case !rec.Judged():
			score.unjudged++
		case rec.Relevance() < threshold:
			score.irrelevant++
		default:
			score.relevant++
		}
	}

	rels := q.Relevances()
	score.ndcg = make(map[int]float64, len(ks))
	for _, k := range ks {
		v, err := metrics.NDCGAtK(rels, k)
		if err != nil {
			// no relevant results, NDCG stays undefined at this cutoff
			continue
		}
		score.ndcg[k] = v
	}
	score.ap = metrics.AveragePrecision(q.Results, threshold)
	return score
}

// tally accumulates query scores into group figures.
type tally struct {
	ndcgSum     map[int]float64
	ndcgCount   map[int]int
	queries     int
	zeroResults int
	results     int
	relevant    int
	irrelevant  int
	unjudged    int
	errorCutoff int
}

func newTally(errorCutoff int) *tally {
	return &tally{
		ndcgSum:     make(map[int]float64),
		ndcgCount:   make(map[int]int),
		errorCutoff: errorCutoff,
	}
}

func (t *tally) add(s queryScore) {
	t.queries++
	if s.empty {
		t.zeroResults++
		return
	}
	t.results += s.results
	t.relevant += s.relevant
	t.irrelevant += s.irrelevant
	t.unjudged += s.unjudged
	for k, v := range s.ndcg {
		t.ndcgSum[k] += v
		t.ndcgCount[k]++
	}
}

// stats averages NDCG over the queries where it was defined. A cutoff no
// query contributed to reports 0.
func (t *tally) stats(ks []int) Stats {
	s := Stats{
		NDCG:                 make(map[int]float64, len(ks)),
		NumQueries:           t.queries,
		NumZeroResultQueries: t.zeroResults,
		NumIrrelevant:        t.irrelevant,
		UnjudgedQRPs:         t.unjudged,
	}
	for _, k := range ks {
		if n := t.ndcgCount[k]; n > 0 {
			s.NDCG[k] = t.ndcgSum[k] / float64(n)
		} else {
			s.NDCG[k] = 0
		}
	}
	if t.results > 0 {
		s.Precision = float64(t.relevant) / float64(t.results)
	}
	s.NDCGError = 1 - s.NDCG[t.errorCutoff]
	return s
}
