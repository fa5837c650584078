package experiment

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInsufficientPairs reports paired samples too small or too uniform for
// the signed-rank approximation.
var ErrInsufficientPairs = errors.New("not enough differing pairs")

// Significance is the outcome of a paired significance test.
type Significance struct {
	Statistic   float64 `json:"statistic"`
	PValue      float64 `json:"p_value"`
	Pairs       int     `json:"pairs"`
	Level       float64 `json:"level"`
	Significant bool    `json:"significant"`
}

// WilcoxonSignedRank runs a two-sided Wilcoxon signed-rank test on paired
// samples. Zero differences stay in the ranking but count toward neither
// side, and the normal approximation is corrected for both zeros and tied
// ranks, so results line up with the Pratt treatment in common statistics
// packages.
func WilcoxonSignedRank(x, y []float64, level float64) (*Significance, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("paired samples differ in length: %d vs %d", len(x), len(y))
	}
	n := len(x)
	if n < 2 {
		return nil, ErrInsufficientPairs
	}

	d := make([]float64, n)
	var zeros int
	for i := range x {
		d[i] = y[i] - x[i]
		if d[i] == 0 {
			zeros++
		}
	}
	if zeros == n {
		return nil, ErrInsufficientPairs
	}

	ranks := rankAbs(d)

	var wPlus, wMinus float64
	for i, diff := range d {
		switch {
		case diff > 0:
			wPlus += ranks[i]
		case diff < 0:
			wMinus += ranks[i]
		}
	}
	statistic := math.Min(wPlus, wMinus)

	fn := float64(n)
	fz := float64(zeros)
	mean := (fn*(fn+1) - fz*(fz+1)) / 4

	inner := fn*(fn+1)*(2*fn+1) - fz*(fz+1)*(2*fz+1)
	inner -= 0.5 * tieCorrection(d, ranks)
	if inner <= 0 {
		return nil, ErrInsufficientPairs
	}
	se := math.Sqrt(inner / 24)

	z := (statistic - mean) / se
	p := 2 * distuv.UnitNormal.CDF(-math.Abs(z))
	if p > 1 {
		p = 1
	}

	return &Significance{
		Statistic:   statistic,
		PValue:      p,
		Pairs:       n,
		Level:       level,
		Significant: p <= level,
	}, nil
}

// rankAbs assigns 1-based ranks to the absolute differences, zeros included,
// with tied values sharing their average rank.
func rankAbs(d []float64) []float64 {
	n := len(d)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return math.Abs(d[order[a]]) < math.Abs(d[order[b]])
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && math.Abs(d[order[j+1]]) == math.Abs(d[order[i]]) {
			j++
		}
		avg := float64(i+j+2) / 2
		for t := i; t <= j; t++ {
			ranks[order[t]] = avg
		}
		i = j + 1
	}
	return ranks
}

// tieCorrection sums t*(t*t-1) over groups of tied ranks among the nonzero
// differences.
func tieCorrection(d, ranks []float64) float64 {
	counts := make(map[float64]int)
	for i, diff := range d {
		if diff != 0 {
			counts[ranks[i]]++
		}
	}
	var sum float64
	for _, t := range counts {
		ft := float64(t)
		sum += ft * (ft*ft - 1)
	}
	return sum
}
