package dataprep

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/irc-engine/internal/fx"
)

func baseOptions() Options {
	return Options{
		ReferenceCurrency: "USD",
		AsOfDate:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		FXStore:           fx.NewStore([]fx.Rate{{Base: "EUR", Quote: "USD", Value: 1.08}}),
	}
}

func TestPrepare_AliasResolutionAndDefaults(t *testing.T) {
	records := []map[string]string{
		{
			"Issuer Name":    "ACME",
			"Notional Amount": "1000000",
			"Credit Rating":  "AA+",
			"Maturity Date":  "2029-01-01",
			"Currency":       "USD",
		},
	}

	positions, diags, err := Prepare(records, baseOptions())
	require.NoError(t, err)
	require.Len(t, positions, 1)

	p := positions[0]
	assert.Equal(t, "ACME", p.Issuer)
	assert.Equal(t, "AA", string(p.Rating))
	assert.InDelta(t, 3.0, p.TenorYears, 0.01)
	assert.Equal(t, "senior_unsecured", string(p.Seniority))
	assert.Equal(t, 0.05, p.CouponRate)
	assert.True(t, p.IsLong)
	assert.NotEmpty(t, diags)
}

func TestPrepare_RatingFromPD(t *testing.T) {
	records := []map[string]string{
		{"issuer": "ACME", "notional": "100", "pd": "0.18", "tenor_years": "5"},
	}
	positions, _, err := Prepare(records, baseOptions())
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, "CCC", string(positions[0].Rating))
}

func TestPrepare_MissingRatingAndPD_Fails(t *testing.T) {
	records := []map[string]string{
		{"issuer": "ACME", "notional": "100", "tenor_years": "5"},
	}
	positions, diags, err := Prepare(records, baseOptions())
	require.Error(t, err)
	assert.Empty(t, positions)

	var invalid *ErrInvalidInput
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, CodeMissingRatingOrPD, invalid.Diagnostics[0].Code)
	assert.NotEmpty(t, diags)
}

func TestPrepare_MissingIssuer_Fails(t *testing.T) {
	records := []map[string]string{
		{"notional": "100", "rating": "AAA", "tenor_years": "1"},
	}
	_, _, err := Prepare(records, baseOptions())
	require.Error(t, err)
	var invalid *ErrInvalidInput
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, CodeMissingIssuer, invalid.Diagnostics[0].Code)
}

func TestPrepare_NegativeNotional_Fails(t *testing.T) {
	records := []map[string]string{
		{"issuer": "ACME", "notional": "-100", "rating": "AAA", "tenor_years": "1"},
	}
	_, _, err := Prepare(records, baseOptions())
	require.Error(t, err)
}

func TestPrepare_InvalidRating_Fails(t *testing.T) {
	records := []map[string]string{
		{"issuer": "ACME", "notional": "100", "rating": "ZZZ", "tenor_years": "1"},
	}
	_, _, err := Prepare(records, baseOptions())
	require.Error(t, err)
	var invalid *ErrInvalidInput
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, CodeInvalidRating, invalid.Diagnostics[0].Code)
}

func TestPrepare_TenorFromMaturityDate(t *testing.T) {
	records := []map[string]string{
		{"issuer": "ACME", "notional": "100", "rating": "A", "maturity_date": "2031-01-01"},
	}
	positions, _, err := Prepare(records, baseOptions())
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.InDelta(t, 5.0, positions[0].TenorYears, 0.01)
}

func TestPrepare_MissingMaturityAndTenor_Fails(t *testing.T) {
	records := []map[string]string{
		{"issuer": "ACME", "notional": "100", "rating": "A"},
	}
	_, diags, err := Prepare(records, baseOptions())
	require.Error(t, err)

	var invalid *ErrInvalidInput
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, CodeMissingTenor, invalid.Diagnostics[0].Code)
	assert.NotEmpty(t, diags)
}

func TestPrepare_UnparseableMaturityDate_Fails(t *testing.T) {
	records := []map[string]string{
		{"issuer": "ACME", "notional": "100", "rating": "A", "maturity_date": "not-a-date"},
	}
	_, _, err := Prepare(records, baseOptions())
	require.Error(t, err)
	var invalid *ErrInvalidInput
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, CodeUnparseableDate, invalid.Diagnostics[0].Code)
}

func TestPrepare_TenorFlooredAtEpsilon(t *testing.T) {
	records := []map[string]string{
		{"issuer": "ACME", "notional": "100", "rating": "A", "tenor_years": "0"},
	}
	positions, diags, err := Prepare(records, baseOptions())
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Greater(t, positions[0].TenorYears, 0.0)

	found := false
	for _, d := range diags {
		if d.Code == CodeNonPositiveTenor {
			found = true
		}
	}
	assert.True(t, found)
}

func TestPrepare_CurrencyConversion(t *testing.T) {
	records := []map[string]string{
		{"issuer": "ACME", "notional": "100", "currency": "EUR", "rating": "A", "tenor_years": "1"},
	}
	positions, _, err := Prepare(records, baseOptions())
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.InDelta(t, 108.0, positions[0].Notional, 1e-9)
}

func TestPrepare_UnsupportedCurrency_Fails(t *testing.T) {
	records := []map[string]string{
		{"issuer": "ACME", "notional": "100", "currency": "ZZZ", "rating": "A", "tenor_years": "1"},
	}
	_, _, err := Prepare(records, baseOptions())
	require.Error(t, err)
	var invalid *ErrInvalidInput
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, CodeMissingFXRate, invalid.Diagnostics[0].Code)
}

func TestPrepare_LGDOverride(t *testing.T) {
	records := []map[string]string{
		{"issuer": "ACME", "notional": "100", "rating": "A", "tenor_years": "1", "lgd": "0.33"},
	}
	positions, _, err := Prepare(records, baseOptions())
	require.NoError(t, err)
	assert.Equal(t, 0.33, positions[0].LGD)
}

func TestPrepare_LGDOutOfRange_Fails(t *testing.T) {
	records := []map[string]string{
		{"issuer": "ACME", "notional": "100", "rating": "A", "tenor_years": "1", "lgd": "1.5"},
	}
	_, _, err := Prepare(records, baseOptions())
	require.Error(t, err)
}

func TestPrepare_Idempotent(t *testing.T) {
	records := []map[string]string{
		{
			"Issuer Name":     "ACME",
			"Notional Amount": "1000000",
			"Credit Rating":   "AA+",
			"Maturity Date":   "2029-01-01",
			"Currency":        "USD",
			"Seniority":       "subordinated",
			"Sector":          "Financials",
		},
		{
			"obligor":  "Globex",
			"notional": "500000",
			"pd":       "0.01",
			"tenor":    "2",
		},
	}

	opts := baseOptions()
	first, _, err := Prepare(records, opts)
	require.NoError(t, err)

	second, _, err := Prepare(ToRecords(first), opts)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i], second[i], "round-tripping a canonical position through Prepare must be a no-op")
	}
}
