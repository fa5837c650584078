// Package experiment compares two judged result groups, a baseline and an
// experimental condition, and reports how ranking quality moved.
package experiment

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rankwell/releval/aggregate"
)

// GroupResult pairs the name a group is reported under with its summary.
type GroupResult struct {
	Name    string
	Summary *aggregate.Summary
}

// Report is the outcome of comparing an experimental group against a
// baseline.
type Report struct {
	Baseline     GroupResult
	Experimental GroupResult
	// NDCGDelta is experimental minus baseline mean NDCG at the error
	// cutoff. Positive means the experiment ranked better.
	NDCGDelta float64
	// NumUniqueQRPs counts distinct (domain, query, result) triples across
	// both groups.
	NumUniqueQRPs int
	// NumTotalDiffs counts results both groups returned for a query but at
	// different positions.
	NumTotalDiffs int
	// Significance is the paired signed-rank outcome for the delta, nil
	// when the delta is zero or too few pairs differ.
	Significance *Significance
}

// MarshalJSON lays the report out with the cross-group counters at the top
// level and one stats block per group, keyed by group name.
func (r *Report) MarshalJSON() ([]byte, error) {
	baseName := r.Baseline.Name
	expName := r.Experimental.Name
	if baseName == expName {
		baseName += "_baseline"
		expName += "_experimental"
	}
	return json.Marshal(map[string]any{
		"num_unique_qrps": r.NumUniqueQRPs,
		"num_total_diffs": r.NumTotalDiffs,
		"ndcg_delta":      r.NDCGDelta,
		baseName:          r.Baseline.Summary.Stats,
		expName:           r.Experimental.Summary.Stats,
	})
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	_, err = w.Write(data)
	return err
}
