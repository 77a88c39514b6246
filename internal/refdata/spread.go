package refdata

import "github.com/aristath/irc-engine/internal/ratings"

// SpreadCurve maps rating to annualised credit spread in basis points. Used
// to convert a rating migration into a mark-to-market P&L via
// duration x spread-change.
type SpreadCurve map[ratings.Rating]float64

// Spread returns the spread in basis points for r, or 0 if unknown (D has no
// meaningful spread since a defaulted name is revalued via LGD, not spread
// change).
func (c SpreadCurve) Spread(r ratings.Rating) float64 {
	return c[r]
}

// DefaultSpreadCurve is the reference-data spread table (bps), representative
// of typical investment-grade/high-yield term structure at the one-year
// horizon used throughout this engine.
var DefaultSpreadCurve = SpreadCurve{
	ratings.AAA: 35,
	ratings.AA:  50,
	ratings.A:   75,
	ratings.BBB: 130,
	ratings.BB:  280,
	ratings.B:   480,
	ratings.CCC: 900,
	ratings.D:   0,
}

// Seniority selects the default LGD when a position does not supply an
// explicit override.
type Seniority string

const (
	SeniorSecured   Seniority = "senior_secured"
	SeniorUnsecured Seniority = "senior_unsecured"
	Subordinated    Seniority = "subordinated"
)

// DefaultLGD is the reference LGD-by-seniority table.
var DefaultLGD = map[Seniority]float64{
	SeniorSecured:   0.25,
	SeniorUnsecured: 0.55,
	Subordinated:    0.75,
}

// LGDFor returns the default LGD for a seniority, falling back to
// senior_unsecured for unrecognised values.
func LGDFor(s Seniority) float64 {
	if v, ok := DefaultLGD[s]; ok {
		return v
	}
	return DefaultLGD[SeniorUnsecured]
}

// SystematicFactors is the per-sector default ρ (systematic correlation)
// table. Resolved per spec.md §9: per-position override beats sector default
// beats this global default.
var SystematicFactors = map[string]float64{
	"corporate":  0.20,
	"financials": 0.25,
	"sovereign":  0.30,
}

// DefaultSystematicFactor is used when neither a position override nor a
// matching sector entry is available.
const DefaultSystematicFactor = 0.20

// SystematicFactorFor resolves rho per the documented precedence: override
// (if non-nil) beats the sector table beats DefaultSystematicFactor.
func SystematicFactorFor(override *float64, sector string) float64 {
	if override != nil {
		return *override
	}
	if v, ok := SystematicFactors[sector]; ok {
		return v
	}
	return DefaultSystematicFactor
}
