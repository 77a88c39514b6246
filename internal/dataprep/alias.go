package dataprep

import "strings"

// canonicalAliases maps each canonical field name to the set of accepted
// source column spellings, case-insensitively. This is the single site
// (per spec.md §9) that tolerates the ambiguity of flexible input naming;
// everything downstream works only with canonical keys.
var canonicalAliases = map[string][]string{
	"position_id":              {"position_id", "id", "trade_id"},
	"issuer":                   {"issuer", "obligor", "company", "issuer name", "issuer_name"},
	"notional":                 {"notional", "notional_amount", "notional amount", "face_value", "amount"},
	"market_value":             {"market_value", "mv", "marketvalue"},
	"currency":                 {"currency", "ccy"},
	"rating":                   {"rating", "credit_rating", "credit rating"},
	"pd":                       {"pd", "probability_of_default"},
	"maturity_date":            {"maturity_date", "maturity date", "maturity"},
	"as_of_date":               {"as_of_date", "as of date", "valuation_date"},
	"tenor_years":              {"tenor_years", "tenor", "residual_maturity"},
	"coupon_rate":              {"coupon_rate", "coupon"},
	"seniority":                {"seniority"},
	"lgd":                      {"lgd", "loss_given_default"},
	"sector":                   {"sector"},
	"region":                   {"region"},
	"liquidity_horizon_months": {"liquidity_horizon_months", "liquidity_horizon", "horizon_months"},
	"is_long":                  {"is_long", "long", "side"},
	"systematic_factor":        {"systematic_factor", "rho", "correlation"},
}

// aliasLookup is the reverse index: lowercased alias -> canonical key, built
// once at package init.
var aliasLookup = func() map[string]string {
	m := make(map[string]string)
	for canonical, aliases := range canonicalAliases {
		for _, a := range aliases {
			m[strings.ToLower(strings.TrimSpace(a))] = canonical
		}
	}
	return m
}()

// canonicalize maps a raw record's column names (any accepted alias, in any
// case) onto canonical keys. Unrecognised columns are dropped silently (they
// carry no meaning to this engine).
func canonicalize(raw map[string]string) map[string]string {
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		canonical, ok := aliasLookup[strings.ToLower(strings.TrimSpace(k))]
		if !ok {
			continue
		}
		out[canonical] = v
	}
	return out
}
