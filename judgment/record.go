// Package judgment defines the relevance judgment data model: records
// collected from human annotators, assembled into the ranked per-query lists
// that the metric calculators consume.
package judgment

import (
	"errors"
	"fmt"
	"strings"
)

// Record is one judged (query, result) pair from an annotation round. A nil
// Judgment means the result was never judged. An empty ResultID marks a query
// that ran but returned no results at all.
type Record struct {
	Query    string   `json:"query"`
	Domain   string   `json:"domain,omitempty"`
	ResultID string   `json:"result_id"`
	Position int      `json:"rank_position"`
	Judgment *float64 `json:"judgment,omitempty"`
	JobID    string   `json:"job_id,omitempty"`
}

// Judged reports whether the record carries a judgment.
func (r Record) Judged() bool {
	return r.Judgment != nil
}

// Relevance returns the judgment value, or 0 when unjudged.
func (r Record) Relevance() float64 {
	if r.Judgment == nil {
		return 0
	}
	return *r.Judgment
}

// Key returns the query group key the record belongs to.
func (r Record) Key() QueryKey {
	return QueryKey{Domain: r.Domain, Query: r.Query}
}

func (r Record) validate() error {
	if r.Query == "" {
		return errMissingQuery
	}
	if r.Position < 0 {
		return fmt.Errorf("%w: %d", errNegativePosition, r.Position)
	}
	return nil
}

var (
	errMissingQuery     = errors.New("missing query")
	errNegativePosition = errors.New("negative rank position")
)

// RecordError describes a malformed record that was skipped during group
// building.
type RecordError struct {
	Record Record
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("malformed judgment record (query=%q, result=%q): %v", e.Record.Query, e.Record.ResultID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// QueryKey identifies a query group within a result group. The same query
// string issued against two domains names two distinct groups.
type QueryKey struct {
	Domain string
	Query  string
}

func (k QueryKey) String() string {
	if k.Domain == "" {
		return k.Query
	}
	return k.Domain + "/" + k.Query
}

// MarshalText lets QueryKey serve as a JSON map key.
func (k QueryKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Compare orders keys by domain, then query.
func (k QueryKey) Compare(other QueryKey) int {
	if c := strings.Compare(k.Domain, other.Domain); c != 0 {
		return c
	}
	return strings.Compare(k.Query, other.Query)
}
