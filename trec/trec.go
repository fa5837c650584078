// Package trec bridges TREC-format run and qrels files into judgment groups,
// so standard retrieval collections feed the same metric pipeline as
// annotation exports.
package trec

import (
	"fmt"
	"io"
	"sort"

	"github.com/hscells/trecresults"
	"github.com/rankwell/releval/judgment"
)

// ReadGroup parses a TREC run file and its qrels into a result group named
// after the experimental condition.
func ReadGroup(name string, run, qrels io.Reader) (*judgment.Group, judgment.BuildStats, error) {
	results, err := trecresults.ResultsFromReader(run)
	if err != nil {
		return nil, judgment.BuildStats{}, fmt.Errorf("parsing run file: %w", err)
	}
	qrelsFile, err := trecresults.QrelsFromReader(qrels)
	if err != nil {
		return nil, judgment.BuildStats{}, fmt.Errorf("parsing qrels: %w", err)
	}
	group, stats := BuildGroup(name, results, qrelsFile)
	return group, stats, nil
}

// BuildGroup converts parsed TREC results into a judgment group. Documents
// the qrels never judged stay unjudged, and topics judged in the qrels but
// absent from the run become zero-result queries. Run ranks are renumbered
// to contiguous positions, so 1-based runs need no fixup.
func BuildGroup(name string, results trecresults.ResultFile, qrels trecresults.QrelsFile) (*judgment.Group, judgment.BuildStats) {
	topics := make([]string, 0, len(results.Results))
	for topic := range results.Results {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	var records []judgment.Record
	for _, topic := range topics {
		for _, res := range results.Results[topic] {
			rec := judgment.Record{
				Query:    topic,
				ResultID: res.DocId,
				Position: int(res.Rank),
				JobID:    res.RunName,
			}
			if qrel, ok := qrels.Qrels[topic][res.DocId]; ok {
				score := float64(qrel.Score)
				rec.Judgment = &score
			}
			records = append(records, rec)
		}
	}

	var unreturned []string
	for topic := range qrels.Qrels {
		if _, ok := results.Results[topic]; !ok {
			unreturned = append(unreturned, topic)
		}
	}
	sort.Strings(unreturned)
	for _, topic := range unreturned {
		records = append(records, judgment.Record{Query: topic})
	}

	return judgment.BuildGroup(name, records)
}
