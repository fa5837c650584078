// Package agreement measures how consistently multiple annotators judge the
// same results, using Krippendorff's alpha over a reliability matrix.
package agreement

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Matrix collects the judgments each unit received, a unit being one
// (query, result) pair shown to the annotators. Raters may skip units, so
// units carry different numbers of judgments.
type Matrix struct {
	units map[string][]float64
}

func NewMatrix() *Matrix {
	return &Matrix{units: make(map[string][]float64)}
}

// Add appends judgments to a unit.
func (m *Matrix) Add(unit string, values ...float64) {
	m.units[unit] = append(m.units[unit], values...)
}

// AddRater records one rater's judgments, keyed by unit.
func (m *Matrix) AddRater(judgments map[string]float64) {
	units := make([]string, 0, len(judgments))
	for unit := range judgments {
		units = append(units, unit)
	}
	sort.Strings(units)
	for _, unit := range units {
		m.Add(unit, judgments[unit])
	}
}

// Values returns the judgments recorded for the unit.
func (m *Matrix) Values(unit string) []float64 {
	return m.units[unit]
}

// NumUnits returns how many units the matrix holds.
func (m *Matrix) NumUnits() int {
	return len(m.units)
}

// ReadCSV reads a reliability matrix whose header row names the units and
// whose following rows each hold one rater's judgments. Empty, "*" and "-"
// cells mean the rater skipped that unit.
func ReadCSV(r io.Reader) (*Matrix, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading matrix header: %w", err)
	}
	units := make([]string, len(header))
	for i, name := range header {
		units[i] = strings.TrimSpace(name)
	}

	m := NewMatrix()
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading matrix row: %w", err)
		}
		for i, cell := range row {
			if i >= len(units) {
				break
			}
			cell = strings.TrimSpace(cell)
			if missingCell(cell) {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("unit %q: invalid judgment %q: %w", units[i], cell, err)
			}
			m.Add(units[i], v)
		}
	}
	return m, nil
}

func missingCell(s string) bool {
	return s == "" || s == "*" || s == "-"
}

// ReadUnitRows reads judgments from one column of a CSV where every row is a
// unit and the column holds that unit's judgments separated by whitespace.
// Units are named by row index.
func ReadUnitRows(r io.Reader, column string) (*Matrix, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	col := -1
	for i, name := range header {
		if strings.TrimSpace(name) == column {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("column %q not found", column)
	}

	m := NewMatrix()
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", row+2, err)
		}
		unit := strconv.Itoa(row)
		row++
		if col >= len(record) {
			continue
		}
		for _, field := range strings.Fields(record[col]) {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("unit %s: invalid judgment %q: %w", unit, field, err)
			}
			m.Add(unit, v)
		}
	}
	return m, nil
}

// MostCommon returns a matrix that keeps n judgments per unit, repeatedly
// drawing one judgment of whichever value is currently most frequent, a
// consensus view that damps lone dissenters. Ties draw the smaller value.
// Units with at most n judgments are kept whole, as is everything when n is
// non-positive.
func (m *Matrix) MostCommon(n int) *Matrix {
	out := NewMatrix()
	for unit, values := range m.units {
		out.units[unit] = mostCommon(values, n)
	}
	return out
}

func mostCommon(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return append([]float64(nil), values...)
	}

	counts := make(map[float64]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	distinct := make([]float64, 0, len(counts))
	for v := range counts {
		distinct = append(distinct, v)
	}
	sort.Float64s(distinct)

	kept := make([]float64, 0, n)
	for len(kept) < n {
		best := distinct[0]
		bestCount := counts[best]
		for _, v := range distinct[1:] {
			if counts[v] > bestCount {
				best, bestCount = v, counts[v]
			}
		}
		if bestCount == 0 {
			break
		}
		kept = append(kept, best)
		counts[best]--
	}
	sort.Float64s(kept)
	return kept
}

// FlaggedUnit names a unit and how many raters gave it the flagged value.
type FlaggedUnit struct {
	Unit  string
	Count int
}

// Flagged lists the units where at least minCount raters gave the judgment
// value, most flagged first. Use it to pull out the results annotators kept
// marking broken.
func (m *Matrix) Flagged(value float64, minCount int) []FlaggedUnit {
	if minCount < 1 {
		minCount = 1
	}
	var flagged []FlaggedUnit
	for unit, values := range m.units {
		var count int
		for _, v := range values {
			if v == value {
				count++
			}
		}
		if count >= minCount {
			flagged = append(flagged, FlaggedUnit{Unit: unit, Count: count})
		}
	}
	sort.Slice(flagged, func(i, j int) bool {
		if flagged[i].Count != flagged[j].Count {
			return flagged[i].Count > flagged[j].Count
		}
		return flagged[i].Unit < flagged[j].Unit
	})
	return flagged
}

// unitValues is a unit with its judgments, detached from the matrix map so
// callers can walk units in a stable order.
type unitValues struct {
	name   string
	values []float64
}

// pairableUnits returns the units with at least two judgments, sorted by
// name.
func (m *Matrix) pairableUnits() []unitValues {
	units := make([]unitValues, 0, len(m.units))
	for name, values := range m.units {
		if len(values) < 2 {
			continue
		}
		units = append(units, unitValues{name: name, values: values})
	}
	sort.Slice(units, func(i, j int) bool { return units[i].name < units[j].name })
	return units
}

// pairableValues pools the judgments of every pairable unit.
func (m *Matrix) pairableValues() []float64 {
	var pooled []float64
	for _, u := range m.pairableUnits() {
		pooled = append(pooled, u.values...)
	}
	return pooled
}
