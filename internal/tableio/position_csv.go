// Package tableio implements the CSV/JSON table readers and writers
// described in spec.md §6: the canonical position input table, the FX rate
// table, the result summary/issuer report, and the diagnostics table.
package tableio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadPositionCSV reads the canonical input table (spec.md §6): one row per
// position, with flexible column names resolved downstream by
// internal/dataprep's alias table. The header row is read as-is (not
// canonicalised here) so dataprep.Prepare can apply its own alias
// resolution uniformly regardless of the record's origin (CSV, JSON, or
// constructed in-process).
func ReadPositionCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tableio: reading header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	var records []map[string]string
	rowIndex := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("tableio: reading row %d: %w", rowIndex, err)
		}
		record := make(map[string]string, len(header))
		for i, value := range row {
			if i >= len(header) {
				break
			}
			record[header[i]] = strings.TrimSpace(value)
		}
		records = append(records, record)
		rowIndex++
	}
	return records, nil
}
