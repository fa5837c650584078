package judgment

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

var csvHeader = []string{"query", "domain", "result_id", "rank_position", "judgment", "job_id"}

// ReadGroupCSV reads a result group from CSV rows. The header must name at
// least the query and result_id columns; result_fxf and result_position are
// accepted as aliases for result_id and rank_position. When the position
// column is absent, positions follow row order within each query. An empty
// judgment cell means unjudged, and an empty result_id cell marks a
// zero-result query. Rows with unparseable numbers are skipped and counted.
func ReadGroupCSV(r io.Reader, name string) (*Group, BuildStats, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, BuildStats{}, fmt.Errorf("reading csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, col := range header {
		switch col = strings.TrimSpace(col); col {
		case "result_fxf":
			col = "result_id"
		case "result_position":
			col = "rank_position"
		}
		cols[col] = i
	}
	for _, required := range []string{"query", "result_id"} {
		if _, ok := cols[required]; !ok {
			return nil, BuildStats{}, fmt.Errorf("csv header missing %q column", required)
		}
	}
	_, hasPosition := cols["rank_position"]

	var (
		records []Record
		skipped int
		rowNum  = 1
		order   = make(map[QueryKey]int)
	)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, BuildStats{}, fmt.Errorf("reading csv row %d: %w", rowNum+1, err)
		}
		rowNum++

		cell := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		rec := Record{
			Query:    cell("query"),
			Domain:   cell("domain"),
			ResultID: cell("result_id"),
			JobID:    cell("job_id"),
		}
		if hasPosition {
			if v := cell("rank_position"); v != "" {
				pos, err := strconv.Atoi(v)
				if err != nil {
					skipped++
					slog.Warn("Skipping csv row with invalid rank position",
						"row", rowNum, "value", v)
					continue
				}
				rec.Position = pos
			}
		} else {
			rec.Position = order[rec.Key()]
			order[rec.Key()]++
		}
		if v := cell("judgment"); v != "" {
			j, err := strconv.ParseFloat(v, 64)
			if err != nil {
				skipped++
				slog.Warn("Skipping csv row with invalid judgment",
					"row", rowNum, "value", v)
				continue
			}
			rec.Judgment = &j
		}
		records = append(records, rec)
	}

	group, stats := BuildGroup(name, records)
	stats.Skipped += skipped
	return group, stats, nil
}

// WriteGroupCSV writes the group as CSV rows under the canonical header.
// Zero-result queries come out as rows with an empty result_id.
func WriteGroupCSV(w io.Writer, group *Group) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, q := range group.Queries {
		if q.Empty() {
			if err := writer.Write([]string{q.Query, q.Domain, "", "", "", ""}); err != nil {
				return fmt.Errorf("writing csv row: %w", err)
			}
			continue
		}
		for _, rec := range q.Results {
			judgment := ""
			if rec.Judgment != nil {
				judgment = strconv.FormatFloat(*rec.Judgment, 'f', -1, 64)
			}
			row := []string{rec.Query, rec.Domain, rec.ResultID, strconv.Itoa(rec.Position), judgment, rec.JobID}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("writing csv row: %w", err)
			}
		}
	}
	writer.Flush()
	return writer.Error()
}
