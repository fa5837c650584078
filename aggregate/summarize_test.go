package aggregate

import (
	"encoding/json"
	"testing"

	"github.com/rankwell/releval/judgment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 {
	return &v
}

// fixtureGroup builds four queries across two domains: one fully judged, one
// zero-result, one with nothing relevant, one half unjudged.
func fixtureGroup(t *testing.T) *judgment.Group {
	t.Helper()
	group, stats := judgment.BuildGroup("baseline", []judgment.Record{
		{Query: "shoes", Domain: "data.example.com", ResultID: "s-1", Position: 0, Judgment: f64(1.0)},
		{Query: "shoes", Domain: "data.example.com", ResultID: "s-2", Position: 1, Judgment: f64(0.0)},
		{Query: "shoes", Domain: "data.example.com", ResultID: "s-3", Position: 2, Judgment: f64(0.5)},
		{Query: "boots", Domain: "data.example.com"},
		{Query: "sandals", Domain: "data.example.com", ResultID: "d-1", Position: 0, Judgment: f64(0)},
		{Query: "sandals", Domain: "data.example.com", ResultID: "d-2", Position: 1, Judgment: f64(0)},
		{Query: "lamps", Domain: "catalog.example.com", ResultID: "l-1", Position: 0, Judgment: f64(1.0)},
		{Query: "lamps", Domain: "catalog.example.com", ResultID: "l-2", Position: 1},
	})
	require.Equal(t, 7, stats.Accepted)
	return group
}

func TestSummarize(t *testing.T) {
	group := fixtureGroup(t)

	summary, err := Summarize(group, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "baseline", summary.Group)

	s := summary.Stats
	assert.Equal(t, 4, s.NumQueries)
	assert.Equal(t, 1, s.NumZeroResultQueries)
	assert.Equal(t, 4, s.NumIrrelevant)
	assert.Equal(t, 1, s.UnjudgedQRPs)
	assert.InDelta(t, 2.0/7.0, s.Precision, 1e-9)

	// shoes scores 0.95023..., lamps scores 1.0, sandals has nothing
	// relevant and stays out of the average
	assert.InDelta(t, 0.9751172083949178, s.NDCG[5], 1e-9)
	assert.InDelta(t, 0.9751172083949178, s.NDCG[10], 1e-9)
	assert.InDelta(t, 0.024882791605082, s.NDCGError, 1e-9)

	assert.InDelta(t, 2.0/3.0, summary.MeanAveragePrecision, 1e-9)

	require.Len(t, summary.ByDomain, 2)
	data := summary.ByDomain["data.example.com"]
	assert.Equal(t, 3, data.NumQueries)
	assert.Equal(t, 1, data.NumZeroResultQueries)
	assert.InDelta(t, 0.2, data.Precision, 1e-9)
	assert.InDelta(t, 0.9502344167898356, data.NDCG[10], 1e-9)
	catalog := summary.ByDomain["catalog.example.com"]
	assert.Equal(t, 1, catalog.NumQueries)
	assert.InDelta(t, 0.5, catalog.Precision, 1e-9)
	assert.InDelta(t, 1.0, catalog.NDCG[10], 1e-9)
	assert.InDelta(t, 0.0, catalog.NDCGError, 1e-9)

	dist := summary.Distribution
	assert.Equal(t, 2, dist.SampleCount)
	assert.InDelta(t, 0.9502344167898356, dist.Min, 1e-9)
	assert.InDelta(t, 1.0, dist.Max, 1e-9)
	assert.InDelta(t, 0.9751172083949178, dist.Mean, 1e-9)

	require.Len(t, summary.PerQuery, 3)
	shoes := summary.PerQuery[judgment.QueryKey{Domain: "data.example.com", Query: "shoes"}]
	assert.InDelta(t, 0.9502344167898356, shoes.NDCG[10], 1e-9)
	assert.InDelta(t, 1.0, shoes.AveragePrecision, 1e-9)
	sandals := summary.PerQuery[judgment.QueryKey{Domain: "data.example.com", Query: "sandals"}]
	assert.Empty(t, sandals.NDCG)
	assert.Zero(t, sandals.AveragePrecision)
}

func TestSummarize_NilGroup(t *testing.T) {
	_, err := Summarize(nil, DefaultConfig())
	assert.Error(t, err)
}

func TestSummarize_EmptyGroup(t *testing.T) {
	group, _ := judgment.BuildGroup("baseline", nil)

	summary, err := Summarize(group, DefaultConfig())
	require.NoError(t, err)
	assert.Zero(t, summary.Stats.NumQueries)
	assert.Zero(t, summary.Stats.Precision)
	assert.Zero(t, summary.Stats.NDCG[10])
	assert.InDelta(t, 1.0, summary.Stats.NDCGError, 1e-9)
	assert.True(t, summary.Distribution.IsZero())
	assert.Empty(t, summary.PerQuery)
}

func TestSummarize_CustomCutoffs(t *testing.T) {
	group := fixtureGroup(t)

	cfg := DefaultConfig()
	cfg.KValues = []int{3, 3, 10}
	cfg.ErrorCutoff = 3
	summary, err := Summarize(group, cfg)
	require.NoError(t, err)

	require.Len(t, summary.Stats.NDCG, 2)
	assert.InDelta(t, 0.9751172083949178, summary.Stats.NDCG[3], 1e-9)
	assert.InDelta(t, 0.024882791605082, summary.Stats.NDCGError, 1e-9)
}

func TestSummarize_ZeroThresholdUnjudged(t *testing.T) {
	group, _ := judgment.BuildGroup("baseline", []judgment.Record{
		{Query: "shoes", ResultID: "s-1", Position: 0},
		{Query: "lamps", ResultID: "l-1", Position: 0},
		{Query: "lamps", ResultID: "l-2", Position: 1, Judgment: f64(0)},
	})

	cfg := DefaultConfig()
	cfg.RelevanceThreshold = 0
	summary, err := Summarize(group, cfg)
	require.NoError(t, err)

	// judged-at-zero results count as relevant at threshold 0, unjudged
	// results never do
	assert.Equal(t, 2, summary.Stats.UnjudgedQRPs)
	assert.Zero(t, summary.Stats.NumIrrelevant)
	assert.InDelta(t, 1.0/3.0, summary.Stats.Precision, 1e-9)
	assert.InDelta(t, 0.25, summary.MeanAveragePrecision, 1e-9)
	assert.InDelta(t, 1.0, summary.Stats.NDCGError, 1e-9)
}

func TestSummarize_Deterministic(t *testing.T) {
	group := fixtureGroup(t)

	serial := DefaultConfig()
	serial.Workers = 1
	parallel := DefaultConfig()
	parallel.Workers = 8

	first, err := Summarize(group, serial)
	require.NoError(t, err)
	second, err := Summarize(group, parallel)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

func TestStats_MarshalJSON(t *testing.T) {
	s := Stats{
		NDCG:                 map[int]float64{5: 0.9, 10: 0.8},
		NDCGError:            0.2,
		Precision:            0.5,
		NumQueries:           12,
		NumZeroResultQueries: 1,
		NumIrrelevant:        3,
		UnjudgedQRPs:         4,
	}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	wantKeys := []string{
		"avg_ndcg_at_5", "avg_ndcg_at_10",
		"num_zero_result_queries", "num_queries", "num_irrelevant",
		"precision", "unjudged_qrps", "ndcg_error",
	}
	assert.Len(t, decoded, len(wantKeys))
	for _, key := range wantKeys {
		assert.Contains(t, decoded, key)
	}
	assert.InDelta(t, 0.9, decoded["avg_ndcg_at_5"].(float64), 1e-9)
	assert.InDelta(t, 12, decoded["num_queries"].(float64), 1e-9)
}
