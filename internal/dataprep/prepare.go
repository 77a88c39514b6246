// Package dataprep normalises heterogeneous tabular position records into
// the canonical position.Position values the simulator consumes. This is the
// single site (per spec.md §9) that tolerates ambiguous or loosely-typed
// input; every other package works only with strict, validated values.
package dataprep

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aristath/irc-engine/internal/fx"
	"github.com/aristath/irc-engine/internal/position"
	"github.com/aristath/irc-engine/internal/ratings"
	"github.com/aristath/irc-engine/internal/refdata"
)

// daysPerYear is the day-count convention used to turn a maturity date into
// a residual tenor, per spec.md §4.C point 2.
const daysPerYear = 365.25

// Options configures a Prepare call: the reference currency every notional
// and market value is converted into, the as-of date used when a record
// supplies a maturity date instead of an explicit tenor, and the FX store
// used for currency conversion.
type Options struct {
	ReferenceCurrency string
	AsOfDate          time.Time
	FXStore           *fx.Store
}

// Prepare canonicalises raw records into Position values per spec.md §4.C.
// Rows that fail an unrepairable check are excluded from the returned slice
// and recorded in the diagnostics table; rows that only need a default
// filled in are still repaired and returned, with an informational
// diagnostic. If any row is unrepairable, err is a non-nil *ErrInvalidInput
// wrapping every unrepairable diagnostic (repairable/informational
// diagnostics are still returned but do not trigger the error).
func Prepare(records []map[string]string, opts Options) ([]position.Position, []Diagnostic, error) {
	positions := make([]position.Position, 0, len(records))
	var diagnostics []Diagnostic
	var fatal []Diagnostic

	for i, raw := range records {
		row := canonicalize(raw)
		pos, rowDiags, ok := prepareRow(i, row, opts)
		diagnostics = append(diagnostics, rowDiags...)
		if !ok {
			for _, d := range rowDiags {
				if d.Code != CodeDefaultApplied {
					fatal = append(fatal, d)
				}
			}
			continue
		}
		positions = append(positions, pos)
	}

	if len(fatal) > 0 {
		return positions, diagnostics, &ErrInvalidInput{Diagnostics: fatal}
	}
	return positions, diagnostics, nil
}

// prepareRow applies the per-record contract from spec.md §4.C point by
// point. ok is false when the row carries an unrepairable defect; in that
// case the returned Position is the zero value and callers must not use it.
func prepareRow(rowIndex int, row map[string]string, opts Options) (position.Position, []Diagnostic, bool) {
	var diags []Diagnostic
	add := func(field, code, msg string) {
		diags = append(diags, Diagnostic{RowIndex: rowIndex, Field: field, Code: code, Message: msg})
	}

	issuer := strings.TrimSpace(row["issuer"])
	if issuer == "" {
		add("issuer", CodeMissingIssuer, "issuer is required")
		return position.Position{}, diags, false
	}

	positionID := strings.TrimSpace(row["position_id"])
	if positionID == "" {
		positionID = uuid.New().String()
		add("position_id", CodeDefaultApplied, "generated position_id")
	}

	var pd *float64
	if raw, ok := row["pd"]; ok && strings.TrimSpace(raw) != "" {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			add("pd", CodeInvalidNumber, "pd is not a number")
			return position.Position{}, diags, false
		}
		pd = &v
	}

	rating, ok := resolveRating(row, pd, add)
	if !ok {
		return position.Position{}, diags, false
	}

	tenorYears, ok := resolveTenor(row, opts, add)
	if !ok {
		return position.Position{}, diags, false
	}

	currency := strings.ToUpper(strings.TrimSpace(row["currency"]))
	if currency == "" {
		currency = opts.ReferenceCurrency
	}

	notional, ok := parseRequiredFloat(row, "notional", add)
	if !ok {
		return position.Position{}, diags, false
	}
	if notional < 0 {
		add("notional", CodeNegativeNotional, "notional must be non-negative (use is_long to express direction)")
		return position.Position{}, diags, false
	}

	marketValue := notional
	if raw, ok := row["market_value"]; ok && strings.TrimSpace(raw) != "" {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			add("market_value", CodeInvalidNumber, "market_value is not a number")
			return position.Position{}, diags, false
		}
		marketValue = v
	} else {
		add("market_value", CodeDefaultApplied, "defaulted to notional")
	}

	notional, marketValue, ok = convertToReference(opts, currency, notional, marketValue, add)
	if !ok {
		return position.Position{}, diags, false
	}

	seniority := refdata.Seniority(strings.ToLower(strings.TrimSpace(row["seniority"])))
	if seniority == "" {
		seniority = refdata.SeniorUnsecured
		add("seniority", CodeDefaultApplied, "defaulted to senior_unsecured")
	}

	lgd := refdata.LGDFor(seniority)
	if raw, ok := row["lgd"]; ok && strings.TrimSpace(raw) != "" {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			add("lgd", CodeInvalidNumber, "lgd is not a number")
			return position.Position{}, diags, false
		}
		lgd = v
	}
	if lgd < 0 || lgd > 1 {
		add("lgd", CodeInvalidNumber, "lgd must be within [0,1]")
		return position.Position{}, diags, false
	}

	couponRate := 0.05
	if raw, ok := row["coupon_rate"]; ok && strings.TrimSpace(raw) != "" {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			add("coupon_rate", CodeInvalidNumber, "coupon_rate is not a number")
			return position.Position{}, diags, false
		}
		couponRate = v
	} else {
		add("coupon_rate", CodeDefaultApplied, "defaulted to 0.05")
	}

	sector := strings.ToLower(strings.TrimSpace(row["sector"]))
	if sector == "" {
		sector = "corporate"
		add("sector", CodeDefaultApplied, "defaulted to corporate")
	}
	region := strings.ToLower(strings.TrimSpace(row["region"]))

	horizonMonths := 3
	if raw, ok := row["liquidity_horizon_months"]; ok && strings.TrimSpace(raw) != "" {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			add("liquidity_horizon_months", CodeInvalidNumber, "liquidity_horizon_months is not an integer")
			return position.Position{}, diags, false
		}
		horizonMonths = v
	} else {
		add("liquidity_horizon_months", CodeDefaultApplied, "defaulted to 3 (regulatory floor)")
	}
	if horizonMonths < 3 {
		add("liquidity_horizon_months", CodeInvalidNumber, "must be >= 3 (regulatory floor)")
		return position.Position{}, diags, false
	}

	isLong := true
	if raw, ok := row["is_long"]; ok && strings.TrimSpace(raw) != "" {
		v, err := parseBool(raw)
		if err != nil {
			add("is_long", CodeInvalidNumber, "is_long is not a recognised boolean")
			return position.Position{}, diags, false
		}
		isLong = v
	} else {
		add("is_long", CodeDefaultApplied, "defaulted to long")
	}

	var systematicOverride *float64
	if raw, ok := row["systematic_factor"]; ok && strings.TrimSpace(raw) != "" {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			add("systematic_factor", CodeInvalidNumber, "systematic_factor is not a number")
			return position.Position{}, diags, false
		}
		systematicOverride = &v
	}

	pos := position.Position{
		PositionID:               positionID,
		Issuer:                   issuer,
		Notional:                 notional,
		MarketValue:              marketValue,
		Rating:                   rating,
		TenorYears:               tenorYears,
		CouponRate:               couponRate,
		Seniority:                seniority,
		LGD:                      lgd,
		Sector:                   sector,
		Region:                   region,
		LiquidityHorizonMonths:   horizonMonths,
		IsLong:                   isLong,
		SystematicFactorOverride: systematicOverride,
		PD:                       pd,
	}

	if err := pos.Validate(); err != nil {
		add("position", "validation_failed", err.Error())
		return position.Position{}, diags, false
	}

	return pos, diags, true
}

// resolveRating implements point 3 and 4: rating if present, else derived
// from PD; fails with CodeMissingRatingOrPD if neither is present.
func resolveRating(row map[string]string, pd *float64, add func(field, code, msg string)) (ratings.Rating, bool) {
	if raw := strings.TrimSpace(row["rating"]); raw != "" {
		r, err := ratings.Normalise(raw)
		if err != nil {
			add("rating", CodeInvalidRating, err.Error())
			return "", false
		}
		return r, true
	}
	if pd != nil {
		add("rating", CodeDefaultApplied, "derived from pd")
		return ratings.FromPD(*pd), true
	}
	add("rating", CodeMissingRatingOrPD, "neither rating nor pd supplied")
	return "", false
}

// resolveTenor implements point 2: explicit tenor_years if present, else
// (maturity_date - as_of_date) / 365.25, floored at position.MinTenorYears.
func resolveTenor(row map[string]string, opts Options, add func(field, code, msg string)) (float64, bool) {
	if raw := strings.TrimSpace(row["tenor_years"]); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			add("tenor_years", CodeInvalidNumber, "tenor_years is not a number")
			return 0, false
		}
		return floorTenor(v, add), true
	}

	maturityRaw := strings.TrimSpace(row["maturity_date"])
	if maturityRaw == "" {
		add("tenor_years", CodeMissingTenor, "neither tenor_years nor maturity_date supplied")
		return 0, false
	}
	maturity, err := parseDate(maturityRaw)
	if err != nil {
		add("maturity_date", CodeUnparseableDate, err.Error())
		return 0, false
	}

	asOf := opts.AsOfDate
	if raw := strings.TrimSpace(row["as_of_date"]); raw != "" {
		v, err := parseDate(raw)
		if err != nil {
			add("as_of_date", CodeUnparseableDate, err.Error())
			return 0, false
		}
		asOf = v
	}
	if asOf.IsZero() {
		add("as_of_date", CodeUnparseableDate, "as-of date required to derive tenor from maturity_date")
		return 0, false
	}

	days := maturity.Sub(asOf).Hours() / 24
	return floorTenor(days/daysPerYear, add), true
}

func floorTenor(v float64, add func(field, code, msg string)) float64 {
	if v < position.MinTenorYears {
		add("tenor_years", CodeNonPositiveTenor, "floored at the minimum positive tenor")
		return position.MinTenorYears
	}
	return v
}

// convertToReference implements point 5: FX-convert notional and market
// value into the reference currency. A row whose currency cannot be
// resolved is unrepairable (the FX store has no path for it).
func convertToReference(opts Options, currency string, notional, marketValue float64, add func(field, code, msg string)) (float64, float64, bool) {
	if currency == "" || currency == opts.ReferenceCurrency {
		return notional, marketValue, true
	}
	if opts.FXStore == nil {
		add("currency", CodeMissingFXRate, "no FX table loaded to convert "+currency+" into "+opts.ReferenceCurrency)
		return 0, 0, false
	}
	n, err := opts.FXStore.Convert(notional, currency, opts.ReferenceCurrency)
	if err != nil {
		add("currency", CodeMissingFXRate, err.Error())
		return 0, 0, false
	}
	mv, err := opts.FXStore.Convert(marketValue, currency, opts.ReferenceCurrency)
	if err != nil {
		add("currency", CodeMissingFXRate, err.Error())
		return 0, 0, false
	}
	return n, mv, true
}

func parseRequiredFloat(row map[string]string, field string, add func(field, code, msg string)) (float64, bool) {
	raw := strings.TrimSpace(row[field])
	if raw == "" {
		add(field, CodeInvalidNumber, field+" is required")
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		add(field, CodeInvalidNumber, field+" is not a number")
		return 0, false
	}
	return v, true
}

func parseBool(raw string) (bool, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "true", "long", "1", "yes", "y":
		return true, nil
	case "false", "short", "0", "no", "n":
		return false, nil
	default:
		return strconv.ParseBool(raw)
	}
}

var dateLayouts = []string{"2006-01-02", "2006/01/02", time.RFC3339, "01/02/2006"}

func parseDate(raw string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
