package simulate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/irc-engine/internal/position"
	"github.com/aristath/irc-engine/internal/ratings"
	"github.com/aristath/irc-engine/internal/refdata"
	"github.com/aristath/irc-engine/internal/tail"
)

func baseConfig(positions []position.Position, numPaths int, seed int64) Config {
	return Config{
		Positions:   positions,
		Registry:    refdata.DefaultRegistry(),
		SpreadCurve: refdata.DefaultSpreadCurve,
		NumPaths:    numPaths,
		MasterSeed:  seed,
		NumWorkers:  4,
	}
}

func singlePosition(issuer string, notional float64, rating ratings.Rating, tenor float64, horizon int, long bool) position.Position {
	return position.Position{
		PositionID:             issuer + "-1",
		Issuer:                 issuer,
		Notional:               notional,
		MarketValue:            notional,
		Rating:                 rating,
		TenorYears:             tenor,
		CouponRate:             0.05,
		Seniority:              refdata.SeniorUnsecured,
		LGD:                    refdata.LGDFor(refdata.SeniorUnsecured),
		Sector:                 "corporate",
		LiquidityHorizonMonths: horizon,
		IsLong:                 long,
	}
}

func TestRun_DeterministicGivenSeed(t *testing.T) {
	positions := []position.Position{singlePosition("A", 10_000_000, ratings.BBB, 3, 3, true)}
	cfg := baseConfig(positions, 5_000, 42)

	first, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	second, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i], second[i], "same seed must reproduce bit-identical losses")
	}
}

func TestRun_ScaleInvariantOfNotional(t *testing.T) {
	positions := []position.Position{singlePosition("A", 10_000_000, ratings.BB, 5, 3, true)}
	cfg := baseConfig(positions, 5_000, 7)
	base, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	scaled := []position.Position{singlePosition("A", 30_000_000, ratings.BB, 5, 3, true)}
	scaledCfg := baseConfig(scaled, 5_000, 7)
	got, err := Run(context.Background(), scaledCfg)
	require.NoError(t, err)

	for i := range base {
		assert.InDelta(t, base[i]*3.0, got[i], 1e-6)
	}
}

func TestRun_DefaultStateIdempotence(t *testing.T) {
	positions := []position.Position{singlePosition("A", 10_000_000, ratings.BBB, 3, 3, true)}
	cfg := baseConfig(positions, 5_000, 11)
	base, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	baseStats, err := tail.Compute(base)
	require.NoError(t, err)

	withDefaulted := []position.Position{
		singlePosition("A", 10_000_000, ratings.BBB, 3, 3, true),
		singlePosition("Z", 5_000_000, ratings.D, 1, 3, true),
	}
	cfg2 := baseConfig(withDefaulted, 5_000, 11)
	got, err := Run(context.Background(), cfg2)
	require.NoError(t, err)
	gotStats, err := tail.Compute(got)
	require.NoError(t, err)

	assert.InDelta(t, baseStats.IRC, gotStats.IRC, 1e-6, "adding an already-defaulted position must not change IRC")
}

func TestRun_TwoPerfectlyCorrelatedIssuersEqualsSingleDouble(t *testing.T) {
	split := []position.Position{
		singlePosition("A", 5_000_000, ratings.BB, 3, 3, true),
		{
			PositionID: "A-2", Issuer: "A", Notional: 5_000_000, MarketValue: 5_000_000,
			Rating: ratings.BB, TenorYears: 3, CouponRate: 0.05, Seniority: refdata.SeniorUnsecured,
			LGD: refdata.LGDFor(refdata.SeniorUnsecured), Sector: "corporate",
			LiquidityHorizonMonths: 3, IsLong: true,
		},
	}
	combined := []position.Position{singlePosition("A", 10_000_000, ratings.BB, 3, 3, true)}

	splitLosses, err := Run(context.Background(), baseConfig(split, 5_000, 99))
	require.NoError(t, err)
	combinedLosses, err := Run(context.Background(), baseConfig(combined, 5_000, 99))
	require.NoError(t, err)

	for i := range splitLosses {
		assert.InDelta(t, combinedLosses[i], splitLosses[i], 1e-6)
	}
}

func TestRun_HedgeViaShortCancelsOut(t *testing.T) {
	positions := []position.Position{
		singlePosition("A", 10_000_000, ratings.BBB, 3, 3, true),
		singlePosition("A", 10_000_000, ratings.BBB, 3, 3, false),
	}
	losses, err := Run(context.Background(), baseConfig(positions, 5_000, 5))
	require.NoError(t, err)
	for _, l := range losses {
		assert.InDelta(t, 0.0, l, 1e-6)
	}
}

func TestRun_IndependentIssuersDiversifyVersusCorrelated(t *testing.T) {
	independent := []position.Position{
		singlePosition("A", 5_000_000, ratings.BB, 3, 3, true),
		singlePosition("B", 5_000_000, ratings.BB, 3, 3, true),
	}
	indLosses, err := Run(context.Background(), baseConfig(independent, 20_000, 123))
	require.NoError(t, err)
	indStats, err := tail.Compute(indLosses)
	require.NoError(t, err)

	combined := []position.Position{singlePosition("A", 10_000_000, ratings.BB, 3, 3, true)}
	combinedLosses, err := Run(context.Background(), baseConfig(combined, 20_000, 123))
	require.NoError(t, err)
	combinedStats, err := tail.Compute(combinedLosses)
	require.NoError(t, err)

	assert.Less(t, indStats.IRC, combinedStats.IRC, "two independent issuers must diversify relative to one concentrated issuer")
}

func TestRun_LiquidityHorizonIncreasesIRC(t *testing.T) {
	longHorizon := []position.Position{singlePosition("A", 10_000_000, ratings.BB, 3, 12, true)}
	shortHorizon := []position.Position{singlePosition("A", 10_000_000, ratings.BB, 3, 3, true)}

	longLosses, err := Run(context.Background(), baseConfig(longHorizon, 20_000, 321))
	require.NoError(t, err)
	longStats, err := tail.Compute(longLosses)
	require.NoError(t, err)

	shortLosses, err := Run(context.Background(), baseConfig(shortHorizon, 20_000, 321))
	require.NoError(t, err)
	shortStats, err := tail.Compute(shortLosses)
	require.NoError(t, err)

	assert.Greater(t, shortStats.IRC, longStats.IRC, "a 3-month horizon compounds more sub-period tails than a 12-month one")
}

func TestRun_AAAShortTenorSmallIRC(t *testing.T) {
	positions := []position.Position{singlePosition("A", 10_000_000, ratings.AAA, 1, 12, true)}
	losses, err := Run(context.Background(), baseConfig(positions, 50_000, 42))
	require.NoError(t, err)
	stats, err := tail.Compute(losses)
	require.NoError(t, err)
	assert.Less(t, stats.IRC, 0.005*10_000_000)
}

func TestRun_CCCLongTenorDominatedByDefault(t *testing.T) {
	positions := []position.Position{singlePosition("A", 10_000_000, ratings.CCC, 5, 12, true)}
	losses, err := Run(context.Background(), baseConfig(positions, 50_000, 42))
	require.NoError(t, err)
	stats, err := tail.Compute(losses)
	require.NoError(t, err)

	expectedCeiling := refdata.LGDFor(refdata.SeniorUnsecured) * 10_000_000
	assert.InDelta(t, expectedCeiling, stats.IRC, expectedCeiling*0.2)
}

func TestRun_InvalidNumPaths(t *testing.T) {
	_, err := Run(context.Background(), baseConfig(nil, 0, 1))
	require.Error(t, err)
}

func TestRun_Cancellation(t *testing.T) {
	positions := []position.Position{singlePosition("A", 10_000_000, ratings.BBB, 3, 3, true)}
	cfg := baseConfig(positions, 1_000_000, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, cfg)
	require.ErrorIs(t, err, ErrCancelled)
}
