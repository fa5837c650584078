package judgment

import (
	"encoding/json"
	"fmt"
	"io"
)

// ReadRecords decodes a JSON array of judgment records.
func ReadRecords(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding judgment records: %w", err)
	}
	return records, nil
}

// WriteRecords encodes judgment records as an indented JSON array.
func WriteRecords(w io.Writer, records []Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding judgment records: %w", err)
	}
	_, err = w.Write(data)
	return err
}
