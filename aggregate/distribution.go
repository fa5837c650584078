package aggregate

import (
	"github.com/montanaflynn/stats"
)

var distributionPercentiles = []int{50, 75, 90, 95, 99}

// ScoreDistribution describes how a score spreads across the queries of a
// group.
type ScoreDistribution struct {
	Min         float64         `json:"min"`
	Max         float64         `json:"max"`
	Mean        float64         `json:"mean"`
	Median      float64         `json:"median"`
	Stddev      float64         `json:"stddev"`
	Percentiles map[int]float64 `json:"percentiles,omitempty"`
	SampleCount int             `json:"sample_count"`
}

func newDistribution(samples []float64) ScoreDistribution {
	if len(samples) == 0 {
		return ScoreDistribution{Percentiles: make(map[int]float64)}
	}

	d := ScoreDistribution{
		Percentiles: make(map[int]float64, len(distributionPercentiles)),
		SampleCount: len(samples),
	}
	d.Min, _ = stats.Min(samples)
	d.Max, _ = stats.Max(samples)
	d.Mean, _ = stats.Mean(samples)
	d.Median, _ = stats.Median(samples)
	d.Stddev, _ = stats.StandardDeviation(samples)
	for _, p := range distributionPercentiles {
		d.Percentiles[p], _ = stats.Percentile(samples, float64(p))
	}
	return d
}

func (d ScoreDistribution) P50() float64 { return d.Percentiles[50] }
func (d ScoreDistribution) P90() float64 { return d.Percentiles[90] }
func (d ScoreDistribution) P99() float64 { return d.Percentiles[99] }

func (d ScoreDistribution) IsZero() bool {
	return d.SampleCount == 0
}
