package tableio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/aristath/irc-engine/internal/dataprep"
)

// WriteDiagnosticsCSV writes the parallel diagnostics table for rows that
// could not be fully repaired or that received a default value, per
// spec.md §4.C point 7 and §7.
func WriteDiagnosticsCSV(w io.Writer, diagnostics []dataprep.Diagnostic) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"row_index", "field", "code", "message"}); err != nil {
		return err
	}
	for _, d := range diagnostics {
		if err := writer.Write([]string{
			strconv.Itoa(d.RowIndex),
			d.Field,
			d.Code,
			d.Message,
		}); err != nil {
			return err
		}
	}
	return nil
}
