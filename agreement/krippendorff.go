package agreement

import "errors"

// ErrInsufficientData reports a matrix with too few multiply-judged units to
// measure agreement, or with no variation to measure it against.
var ErrInsufficientData = errors.New("insufficient data for agreement")

// Result carries Krippendorff's alpha and the quantities behind it.
type Result struct {
	// Alpha is 1 under perfect agreement, 0 when agreement looks like
	// chance and negative when disagreement is systematic.
	Alpha                float64
	ObservedDisagreement float64
	ExpectedDisagreement float64
	// PairableValues counts the judgments inside multiply-judged units.
	PairableValues int
	// UnitCounts maps each pairable unit to its judgment count.
	UnitCounts map[string]int
}

// Alpha computes Krippendorff's alpha over the matrix with the given
// difference function, defaulting to IntervalDifference. Units judged by
// fewer than two raters cannot witness agreement and are dropped.
func Alpha(m *Matrix, diff DifferenceFunc) (*Result, error) {
	if diff == nil {
		diff = IntervalDifference
	}

	units := m.pairableUnits()
	if len(units) < 2 {
		return nil, ErrInsufficientData
	}

	var pooled []float64
	counts := make(map[string]int, len(units))
	for _, u := range units {
		pooled = append(pooled, u.values...)
		counts[u.name] = len(u.values)
	}
	n := float64(len(pooled))

	var observed float64
	for _, u := range units {
		var sum float64
		for i := 0; i < len(u.values); i++ {
			for j := i + 1; j < len(u.values); j++ {
				sum += diff(u.values[i], u.values[j])
			}
		}
		observed += 2 * sum / float64(len(u.values)-1)
	}
	observed /= n

	var expectedSum float64
	for i := 0; i < len(pooled); i++ {
		for j := i + 1; j < len(pooled); j++ {
			expectedSum += diff(pooled[i], pooled[j])
		}
	}
	expected := 2 * expectedSum / (n * (n - 1))
	if expected == 0 {
		return nil, ErrInsufficientData
	}

	return &Result{
		Alpha:                1 - observed/expected,
		ObservedDisagreement: observed,
		ExpectedDisagreement: expected,
		PairableValues:       int(n),
		UnitCounts:           counts,
	}, nil
}
