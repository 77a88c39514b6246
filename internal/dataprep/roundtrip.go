package dataprep

import (
	"strconv"

	"github.com/aristath/irc-engine/internal/position"
)

// ToRecords renders already-canonical Position values back into raw records
// keyed by canonical field names (not aliases). Feeding ToRecords(Prepare(x))
// back into Prepare is how idempotence is exercised: every field is already
// in its canonical, normalised form, so a second pass changes nothing.
func ToRecords(positions []position.Position) []map[string]string {
	out := make([]map[string]string, 0, len(positions))
	for _, p := range positions {
		row := map[string]string{
			"position_id":              p.PositionID,
			"issuer":                   p.Issuer,
			"notional":                 strconv.FormatFloat(p.Notional, 'f', -1, 64),
			"market_value":             strconv.FormatFloat(p.MarketValue, 'f', -1, 64),
			"rating":                   string(p.Rating),
			"tenor_years":              strconv.FormatFloat(p.TenorYears, 'f', -1, 64),
			"coupon_rate":              strconv.FormatFloat(p.CouponRate, 'f', -1, 64),
			"seniority":                string(p.Seniority),
			"lgd":                      strconv.FormatFloat(p.LGD, 'f', -1, 64),
			"sector":                   p.Sector,
			"region":                   p.Region,
			"liquidity_horizon_months": strconv.Itoa(p.LiquidityHorizonMonths),
			"is_long":                  strconv.FormatBool(p.IsLong),
		}
		if p.SystematicFactorOverride != nil {
			row["systematic_factor"] = strconv.FormatFloat(*p.SystematicFactorOverride, 'f', -1, 64)
		}
		if p.PD != nil {
			row["pd"] = strconv.FormatFloat(*p.PD, 'f', -1, 64)
		}
		out = append(out, row)
	}
	return out
}
