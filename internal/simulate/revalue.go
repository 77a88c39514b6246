package simulate

import (
	"github.com/aristath/irc-engine/internal/numerics"
	"github.com/aristath/irc-engine/internal/position"
	"github.com/aristath/irc-engine/internal/ratings"
	"github.com/aristath/irc-engine/internal/refdata"
)

// revalue converts a simulated new rating into a position-level loss (a
// positive value is a loss, a negative value a gain), per spec.md §4.D:
//
//   - default: loss = is_long * LGD * notional
//   - migration: loss = is_long * duration * notional * (spread(new) - spread(old)) / 10_000
//   - no migration: zero
func revalue(p position.Position, newRating ratings.Rating, spreads refdata.SpreadCurve) float64 {
	// A position already in default at t=0 is outside IRC scope: it
	// contributes nothing further, per spec.md §4.D.
	if ratings.IsDefault(p.Rating) {
		return 0
	}

	signed := p.SignedNotional()

	if ratings.IsDefault(newRating) {
		return signed * p.LGD
	}
	if newRating == p.Rating {
		return 0
	}

	duration := numerics.Duration(p.CouponRate, p.TenorYears)
	spreadDelta := spreads.Spread(newRating) - spreads.Spread(p.Rating)
	return signed * duration * spreadDelta / 10_000
}
