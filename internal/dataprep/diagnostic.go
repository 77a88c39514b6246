package dataprep

import "fmt"

// Diagnostic is a single row-level issue raised while preparing one input
// record. Diagnostics are collected into a companion table rather than
// silently dropping rows, per spec.md §4.C point 7 and §7.
type Diagnostic struct {
	RowIndex int
	Field    string
	Code     string
	Message  string
}

// Diagnostic codes. Repairable diagnostics (e.g. a defaulted optional field)
// are informational; unrepairable ones (missing required data) cause the
// row to be excluded and roll up into ErrInvalidInput.
const (
	CodeMissingRatingOrPD = "missing_rating_or_pd"
	CodeMissingIssuer     = "missing_issuer"
	CodeUnparseableDate   = "unparseable_date"
	CodeInvalidRating     = "invalid_rating"
	CodeInvalidNumber     = "invalid_number"
	CodeNegativeNotional  = "negative_notional"
	CodeNonPositiveTenor  = "non_positive_tenor"
	CodeMissingTenor      = "missing_tenor_or_maturity"
	CodeMissingFXRate     = "missing_fx_rate"
	CodeDefaultApplied    = "default_applied" // informational, not an exclusion
)

func (d Diagnostic) String() string {
	return fmt.Sprintf("row %d: [%s] %s: %s", d.RowIndex, d.Code, d.Field, d.Message)
}

// ErrInvalidInput aggregates every unrepairable row-level diagnostic from a
// single Prepare call into one failure, per spec.md §7's "aggregated in a
// final InvalidInput failure".
type ErrInvalidInput struct {
	Diagnostics []Diagnostic
}

func (e *ErrInvalidInput) Error() string {
	return fmt.Sprintf("dataprep: %d row(s) failed validation", len(e.Diagnostics))
}
