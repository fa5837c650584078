package judgment

import (
	"log/slog"
	"sort"
)

// QueryGroup is the ranked list of judged results returned for one query,
// ordered by the position shown to the annotator.
type QueryGroup struct {
	Query   string
	Domain  string
	Results []Record
}

// Key returns the group's identity within its result group.
func (q QueryGroup) Key() QueryKey {
	return QueryKey{Domain: q.Domain, Query: q.Query}
}

// Empty reports whether the search returned no results for the query.
func (q QueryGroup) Empty() bool {
	return len(q.Results) == 0
}

// Relevances returns the judgment value at each rank position, with unjudged
// results mapped to relevance 0.
func (q QueryGroup) Relevances() []float64 {
	rels := make([]float64, len(q.Results))
	for i, r := range q.Results {
		rels[i] = r.Relevance()
	}
	return rels
}

// Group is a named collection of query groups representing one full
// experimental condition, e.g. a baseline ranker or a candidate change.
// Queries are ordered by (domain, query) so that walking a group is
// deterministic.
type Group struct {
	Name    string
	Queries []QueryGroup

	index map[QueryKey]int
}

// BuildStats reports what happened to the raw records during group building.
type BuildStats struct {
	// Accepted counts records that entered a ranked list.
	Accepted int
	// Skipped counts malformed records that were dropped.
	Skipped int
	// Duplicates counts extra records for an already seen (query, result)
	// pair; the first record wins.
	Duplicates int
	// Unjudgeable counts records whose negative judgment ("something went
	// wrong") was cleared to unjudged.
	Unjudgeable int
}

// BuildGroup assembles raw judgment records into a result group. Malformed
// records are skipped and counted, never silently dropped. Within each query
// the records are ordered by their given position and then renumbered so that
// positions are contiguous from 0.
func BuildGroup(name string, records []Record) (*Group, BuildStats) {
	var stats BuildStats
	groups := make(map[QueryKey][]Record)
	type resultKey struct {
		key QueryKey
		id  string
	}
	seen := make(map[resultKey]struct{}, len(records))

	for _, rec := range records {
		if err := rec.validate(); err != nil {
			stats.Skipped++
			recErr := &RecordError{Record: rec, Err: err}
			slog.Warn("Skipping malformed judgment record",
				"query", rec.Query, "result_id", rec.ResultID, "error", recErr)
			continue
		}

		key := rec.Key()
		if rec.ResultID == "" {
			// zero-result marker: the query ran but returned nothing
			if _, ok := groups[key]; !ok {
				groups[key] = nil
			}
			continue
		}

		rk := resultKey{key: key, id: rec.ResultID}
		if _, dup := seen[rk]; dup {
			stats.Duplicates++
			slog.Warn("Skipping duplicate judgment record",
				"query", rec.Query, "result_id", rec.ResultID)
			continue
		}
		seen[rk] = struct{}{}

		if rec.Judgment != nil && *rec.Judgment < 0 {
			rec.Judgment = nil
			stats.Unjudgeable++
		}

		groups[key] = append(groups[key], rec)
		stats.Accepted++
	}

	return newGroup(name, groups), stats
}

func newGroup(name string, groups map[QueryKey][]Record) *Group {
	keys := make([]QueryKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Compare(keys[j]) < 0 })

	g := &Group{
		Name:    name,
		Queries: make([]QueryGroup, 0, len(keys)),
		index:   make(map[QueryKey]int, len(keys)),
	}
	for _, key := range keys {
		recs := groups[key]
		sort.SliceStable(recs, func(i, j int) bool { return recs[i].Position < recs[j].Position })
		for i := range recs {
			recs[i].Position = i
		}
		g.index[key] = len(g.Queries)
		g.Queries = append(g.Queries, QueryGroup{Query: key.Query, Domain: key.Domain, Results: recs})
	}
	return g
}

// Get returns the query group for the given domain and query.
func (g *Group) Get(domain, query string) (QueryGroup, bool) {
	i, ok := g.index[QueryKey{Domain: domain, Query: query}]
	if !ok {
		return QueryGroup{}, false
	}
	return g.Queries[i], true
}

// Domains returns the distinct domains present in the group, sorted.
func (g *Group) Domains() []string {
	var domains []string
	for _, q := range g.Queries {
		if len(domains) == 0 || domains[len(domains)-1] != q.Domain {
			domains = append(domains, q.Domain)
		}
	}
	return domains
}

// NumRecords returns the total number of judgment records across all queries.
func (g *Group) NumRecords() int {
	var n int
	for _, q := range g.Queries {
		n += len(q.Results)
	}
	return n
}

// FilterFunc decides whether a record stays in a filtered group.
type FilterFunc func(Record) bool

// Filter returns a new group holding the records the predicate keeps,
// renumbered to contiguous positions. Queries whose every record is rejected
// drop out entirely. Empty query groups are tested through a synthetic record
// carrying just the query and domain, so domain predicates apply to them too.
func (g *Group) Filter(keep FilterFunc) *Group {
	groups := make(map[QueryKey][]Record)
	for _, q := range g.Queries {
		if q.Empty() {
			if keep(Record{Query: q.Query, Domain: q.Domain}) {
				groups[q.Key()] = nil
			}
			continue
		}
		var kept []Record
		for _, rec := range q.Results {
			if keep(rec) {
				kept = append(kept, rec)
			}
		}
		if len(kept) > 0 {
			groups[q.Key()] = kept
		}
	}
	return newGroup(g.Name, groups)
}

// InDomain keeps records belonging to the given domain.
func InDomain(domain string) FilterFunc {
	return func(r Record) bool { return r.Domain == domain }
}

// QueryIn keeps records whose query is one of the given queries.
func QueryIn(queries ...string) FilterFunc {
	set := make(map[string]struct{}, len(queries))
	for _, q := range queries {
		set[q] = struct{}{}
	}
	return func(r Record) bool {
		_, ok := set[r.Query]
		return ok
	}
}

// Judged keeps records that carry a judgment.
func Judged() FilterFunc {
	return func(r Record) bool { return r.Judged() }
}
