// Package position defines the canonical Position record the simulator
// consumes. Positions are immutable once prepared: the simulator treats
// them as read-only reference data and never mutates them, keeping all
// per-path state as worker-local scratch memory.
package position

import (
	"fmt"

	"github.com/aristath/irc-engine/internal/ratings"
	"github.com/aristath/irc-engine/internal/refdata"
)

// Position is one trading-book credit exposure, already normalised into
// reference currency and canonical rating by data preparation.
type Position struct {
	PositionID               string
	Issuer                   string
	Notional                 float64
	MarketValue              float64
	Rating                   ratings.Rating
	TenorYears               float64
	CouponRate               float64
	Seniority                refdata.Seniority
	LGD                      float64
	Sector                   string
	Region                   string
	LiquidityHorizonMonths   int
	IsLong                   bool
	SystematicFactorOverride *float64
	// PD is retained post-preparation purely for diagnostics/audit even when
	// a rating was already supplied; nil when the input record had no PD.
	PD *float64
}

// MinTenorYears is the small positive epsilon residual-maturity is floored
// at, per the invariant "tenor_years > 0".
const MinTenorYears = 1.0 / 365.25

// ValidationError reports a Position that fails one of the data-model
// invariants from spec.md §3.
type ValidationError struct {
	PositionID string
	Field      string
	Reason     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("position %s: field %s: %s", e.PositionID, e.Field, e.Reason)
}

// Validate checks the invariants: tenor_years > 0, 0 <= lgd <= 1,
// rating in ladder, liquidity_horizon_months >= 3.
func (p *Position) Validate() error {
	if p.TenorYears <= 0 {
		return &ValidationError{PositionID: p.PositionID, Field: "tenor_years", Reason: "must be > 0"}
	}
	if p.LGD < 0 || p.LGD > 1 {
		return &ValidationError{PositionID: p.PositionID, Field: "lgd", Reason: "must be within [0,1]"}
	}
	if ratings.Index(p.Rating) < 0 {
		return &ValidationError{PositionID: p.PositionID, Field: "rating", Reason: fmt.Sprintf("%q is not on the ladder", p.Rating)}
	}
	if p.LiquidityHorizonMonths < 3 {
		return &ValidationError{PositionID: p.PositionID, Field: "liquidity_horizon_months", Reason: "must be >= 3 (regulatory floor)"}
	}
	return nil
}

// SignedNotional returns Notional with sign applied per IsLong: positive for
// a long position, negative for a short one.
func (p *Position) SignedNotional() float64 {
	if p.IsLong {
		return p.Notional
	}
	return -p.Notional
}
