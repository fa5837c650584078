package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDCGAtK(t *testing.T) {
	tests := []struct {
		name       string
		relevances []float64
		k          int
		want       float64
	}{
		{
			name:       "empty",
			relevances: nil,
			k:          5,
			want:       0,
		},
		{
			name:       "k=0",
			relevances: []float64{1.0, 0.5},
			k:          0,
			want:       0,
		},
		{
			name:       "graded relevances",
			relevances: []float64{1.0, 0.0, 0.5},
			k:          3,
			want:       1.25,
		},
		{
			name:       "k beyond length",
			relevances: []float64{1.0, 0.0, 0.5},
			k:          10,
			want:       1.25,
		},
		{
			name:       "k truncates",
			relevances: []float64{1.0, 0.0, 0.5},
			k:          1,
			want:       1.0,
		},
		{
			name:       "integer grades",
			relevances: []float64{3, 2, 3, 0, 1, 2},
			k:          6,
			want:       6.861126688593502,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DCGAtK(tt.relevances, tt.k)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestDCGAtK_MonotoneInRelevance(t *testing.T) {
	base := []float64{1, 0, 0.5, 0}
	for i := range base {
		raised := append([]float64(nil), base...)
		raised[i] += 0.5
		assert.GreaterOrEqual(t, DCGAtK(raised, 4), DCGAtK(base, 4))
	}
}

func TestNDCGAtK(t *testing.T) {
	tests := []struct {
		name       string
		relevances []float64
		k          int
		want       float64
	}{
		{
			name:       "one swap from ideal",
			relevances: []float64{1.0, 0.0, 0.5},
			k:          3,
			want:       0.9502344,
		},
		{
			name:       "perfect ranking",
			relevances: []float64{3, 2, 1},
			k:          3,
			want:       1.0,
		},
		{
			name:       "integer grades",
			relevances: []float64{3, 2, 3, 0, 1, 2},
			k:          6,
			want:       0.9608082,
		},
		{
			name:       "inverse ranking",
			relevances: []float64{0.5, 1.0},
			k:          2,
			want:       0.8597187,
		},
		{
			name:       "ties keep observed order",
			relevances: []float64{1, 1, 1},
			k:          3,
			want:       1.0,
		},
		{
			name:       "relevant result below cutoff",
			relevances: []float64{0, 0, 1},
			k:          1,
			want:       0,
		},
		{
			name:       "k beyond length",
			relevances: []float64{1.0, 0.0, 0.5},
			k:          10,
			want:       0.9502344,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NDCGAtK(tt.relevances, tt.k)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestNDCGAtK_NoRelevantResults(t *testing.T) {
	tests := []struct {
		name       string
		relevances []float64
		k          int
	}{
		{
			name:       "all zero",
			relevances: []float64{0, 0, 0},
			k:          3,
		},
		{
			name:       "empty",
			relevances: nil,
			k:          5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NDCGAtK(tt.relevances, tt.k)
			assert.ErrorIs(t, err, ErrNoRelevantResults)
			assert.Zero(t, got)
		})
	}
}

func TestIdealRelevances(t *testing.T) {
	got := IdealRelevances([]float64{1.0, 0.0, 0.5})
	assert.Equal(t, []float64{1.0, 0.5, 0.0}, got)
}

func TestNDCGAtK_IdealLeavesInputUntouched(t *testing.T) {
	relevances := []float64{0.0, 1.0, 0.5}
	_, err := NDCGAtK(relevances, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.0, 1.0, 0.5}, relevances)
}
