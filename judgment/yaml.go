package judgment

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type groupFile struct {
	Name    string      `yaml:"name"`
	Queries []queryFile `yaml:"queries"`
}

type queryFile struct {
	Query   string       `yaml:"query"`
	Domain  string       `yaml:"domain,omitempty"`
	Results []resultFile `yaml:"results"`
}

type resultFile struct {
	ResultID string   `yaml:"result_id"`
	Judgment *float64 `yaml:"judgment,omitempty"`
	JobID    string   `yaml:"job_id,omitempty"`
}

// ReadGroupYAML reads a result group from its YAML form. Rank positions
// follow list order; a query with no results is a zero-result query.
func ReadGroupYAML(r io.Reader) (*Group, BuildStats, error) {
	var file groupFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, BuildStats{}, fmt.Errorf("decoding group yaml: %w", err)
	}
	if file.Name == "" {
		return nil, BuildStats{}, errors.New("group yaml: name is required")
	}

	var records []Record
	for _, q := range file.Queries {
		if len(q.Results) == 0 {
			records = append(records, Record{Query: q.Query, Domain: q.Domain})
			continue
		}
		for i, res := range q.Results {
			records = append(records, Record{
				Query:    q.Query,
				Domain:   q.Domain,
				ResultID: res.ResultID,
				Position: i,
				Judgment: res.Judgment,
				JobID:    res.JobID,
			})
		}
	}

	group, stats := BuildGroup(file.Name, records)
	return group, stats, nil
}

// WriteGroupYAML writes the group in the YAML form ReadGroupYAML accepts.
func WriteGroupYAML(w io.Writer, group *Group) error {
	file := groupFile{Name: group.Name, Queries: make([]queryFile, 0, len(group.Queries))}
	for _, q := range group.Queries {
		qf := queryFile{Query: q.Query, Domain: q.Domain}
		for _, rec := range q.Results {
			qf.Results = append(qf.Results, resultFile{
				ResultID: rec.ResultID,
				Judgment: rec.Judgment,
				JobID:    rec.JobID,
			})
		}
		file.Queries = append(file.Queries, qf)
	}

	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encoding group yaml: %w", err)
	}
	_, err = w.Write(data)
	return err
}
