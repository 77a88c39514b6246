package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/irc-engine/internal/dataprep"
)

func sampleRecords() []map[string]string {
	return []map[string]string{
		{
			"issuer": "Acme Corp", "notional": "10000000", "rating": "BBB",
			"tenor_years": "3", "sector": "corporate", "liquidity_horizon_months": "3",
		},
		{
			"issuer": "Globex", "notional": "5000000", "rating": "BB",
			"tenor_years": "5", "sector": "corporate", "liquidity_horizon_months": "3",
		},
	}
}

func basePrepOptions() dataprep.Options {
	return dataprep.Options{
		ReferenceCurrency: "USD",
		AsOfDate:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRun_EndToEndProducesStatsAndAttribution(t *testing.T) {
	req := Request{
		Records:     sampleRecords(),
		PrepOptions: basePrepOptions(),
		NumPaths:    2_000,
		MasterSeed:  7,
		NumWorkers:  2,
	}

	result, err := Run(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, result.Positions, 2)
	assert.Greater(t, result.Stats.IRC, 0.0)
	assert.InDelta(t, result.Stats.IRC*12.5, result.Stats.RWA, 1e-6)

	require.NotNil(t, result.Attribution)
	require.Len(t, result.Attribution.Issuers, 2)
}

func TestRun_SkipIssuerBreakdown(t *testing.T) {
	req := Request{
		Records:             sampleRecords(),
		PrepOptions:         basePrepOptions(),
		NumPaths:            1_000,
		MasterSeed:          3,
		SkipIssuerBreakdown: true,
	}

	result, err := Run(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, result.Attribution)
}

func TestRun_InvalidInputSurfacesDiagnostics(t *testing.T) {
	records := []map[string]string{
		{"notional": "1000"}, // missing issuer and rating/pd
	}
	req := Request{
		Records:     records,
		PrepOptions: basePrepOptions(),
		NumPaths:    100,
	}

	_, err := Run(context.Background(), req)
	require.Error(t, err)
	var invalidInput *dataprep.ErrInvalidInput
	require.True(t, errors.As(err, &invalidInput))
	assert.NotEmpty(t, invalidInput.Diagnostics)
}

func TestRun_CancellationSurfacesDistinctSentinel(t *testing.T) {
	req := Request{
		Records:     sampleRecords(),
		PrepOptions: basePrepOptions(),
		NumPaths:    1_000_000,
		MasterSeed:  1,
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, req)
	require.ErrorIs(t, err, ErrCancelled)
}

func TestRun_DefaultNumPathsAppliedWhenZero(t *testing.T) {
	req := Request{
		Records:             sampleRecords(),
		PrepOptions:         basePrepOptions(),
		SkipIssuerBreakdown: true,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := Run(ctx, req)
	require.NoError(t, err)
	assert.Greater(t, result.Stats.IRC, 0.0)
}
