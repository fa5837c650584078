package aggregate

import (
	"encoding/json"
	"fmt"
)

// Stats are the rolled-up relevance figures for a set of queries.
type Stats struct {
	// NDCG maps each cutoff to the mean NDCG across queries where it is
	// defined. Queries with no relevant results do not contribute.
	NDCG map[int]float64
	// NDCGError is 1 minus the mean NDCG at the error cutoff.
	NDCGError float64
	// Precision is the share of judged-relevant records among all records.
	// Unjudged records count against it.
	Precision float64
	// NumQueries counts every query in the set, zero-result ones included.
	NumQueries int
	// NumZeroResultQueries counts queries whose search returned nothing.
	NumZeroResultQueries int
	// NumIrrelevant counts records judged below the relevance threshold.
	NumIrrelevant int
	// UnjudgedQRPs counts query-result pairs that never received a judgment.
	UnjudgedQRPs int
}

// MarshalJSON flattens the NDCG map into avg_ndcg_at_<k> keys so the summary
// reads the same at every cutoff.
func (s Stats) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"num_queries":             s.NumQueries,
		"num_zero_result_queries": s.NumZeroResultQueries,
		"num_irrelevant":          s.NumIrrelevant,
		"unjudged_qrps":           s.UnjudgedQRPs,
		"precision":               s.Precision,
		"ndcg_error":              s.NDCGError,
	}
	for k, v := range s.NDCG {
		out[fmt.Sprintf("avg_ndcg_at_%d", k)] = v
	}
	return json.Marshal(out)
}
