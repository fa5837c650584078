package agreement

import "sort"

// DifferenceFunc scores how far apart two judgment values are. Zero means
// identical.
type DifferenceFunc func(a, b float64) float64

// NominalDifference treats values as unordered labels: any two distinct
// values are equally far apart.
func NominalDifference(a, b float64) float64 {
	if a == b {
		return 0
	}
	return 1
}

// IntervalDifference squares the distance between values.
func IntervalDifference(a, b float64) float64 {
	d := a - b
	return d * d
}

// RatioDifference scales the squared distance by the values' magnitude, so
// disagreement between small judgments weighs more than the same gap
// between large ones.
func RatioDifference(a, b float64) float64 {
	if a+b == 0 {
		return 0
	}
	r := (a - b) / (a + b)
	return r * r
}

// OrdinalDifference builds a rank-based difference from the judgment
// frequencies in the matrix: two values are as far apart as the number of
// pairable judgments lying between them. The returned function reflects the
// matrix as it was at call time.
func OrdinalDifference(m *Matrix) DifferenceFunc {
	freq := make(map[float64]float64)
	for _, v := range m.pairableValues() {
		freq[v]++
	}
	distinct := make([]float64, 0, len(freq))
	for v := range freq {
		distinct = append(distinct, v)
	}
	sort.Float64s(distinct)

	return func(a, b float64) float64 {
		if a == b {
			return 0
		}
		lo, hi := a, b
		if lo > hi {
			lo, hi = hi, lo
		}
		var between float64
		for _, v := range distinct {
			if v >= lo && v <= hi {
				between += freq[v]
			}
		}
		d := between - (freq[lo]+freq[hi])/2
		return d * d
	}
}
