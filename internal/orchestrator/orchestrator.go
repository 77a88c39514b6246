// Package orchestrator wires data preparation, simulation and tail
// estimation into the single end-to-end `quick_irc` operation described in
// spec.md §4.F: prepare positions, assign each issuer's transition matrix,
// run the simulator at a fixed seed, then compute tail statistics and
// (unless opted out) issuer attribution.
package orchestrator

import (
	"context"
	"errors"

	"github.com/aristath/irc-engine/internal/dataprep"
	"github.com/aristath/irc-engine/internal/position"
	"github.com/aristath/irc-engine/internal/refdata"
	"github.com/aristath/irc-engine/internal/simulate"
	"github.com/aristath/irc-engine/internal/tail"
)

// DefaultNumPaths is the default Monte-Carlo path count, per spec.md §4.F
// point 3.
const DefaultNumPaths = 100_000

// ErrCancelled re-exports simulate.ErrCancelled as a distinct, un-wrapped
// outcome rather than an error, per spec.md §5 and §7.
var ErrCancelled = simulate.ErrCancelled

// Request is the full set of inputs to a single end-to-end IRC run.
type Request struct {
	Records     []map[string]string
	PrepOptions dataprep.Options

	Registry    *refdata.Registry
	SpreadCurve refdata.SpreadCurve

	NumPaths   int // 0 selects DefaultNumPaths
	MasterSeed int64
	NumWorkers int

	SkipIssuerBreakdown bool
}

// Result is the full output of a run: the summary tail statistics, the
// optional issuer attribution block, the prepared positions, and every
// diagnostic raised while preparing the input (informational or not).
type Result struct {
	Stats       tail.Stats
	Attribution *tail.Attribution
	Positions   []position.Position
	Diagnostics []dataprep.Diagnostic
}

// Run executes the full pipeline. A *dataprep.ErrInvalidInput is returned
// unwrapped when any input row is unrepairable, so callers can type-assert
// it to recover the diagnostics table; simulate.ErrCancelled is returned
// unwrapped when ctx is cancelled before every path completes.
func Run(ctx context.Context, req Request) (Result, error) {
	numPaths := req.NumPaths
	if numPaths <= 0 {
		numPaths = DefaultNumPaths
	}

	positions, diagnostics, err := dataprep.Prepare(req.Records, req.PrepOptions)
	if err != nil {
		return Result{Diagnostics: diagnostics}, err
	}

	registry := req.Registry
	if registry == nil {
		registry = refdata.DefaultRegistry()
	}
	spreadCurve := req.SpreadCurve
	if spreadCurve == nil {
		spreadCurve = refdata.DefaultSpreadCurve
	}

	losses, err := simulate.Run(ctx, simulate.Config{
		Positions:   positions,
		Registry:    registry,
		SpreadCurve: spreadCurve,
		NumPaths:    numPaths,
		MasterSeed:  req.MasterSeed,
		NumWorkers:  req.NumWorkers,
	})
	if err != nil {
		if errors.Is(err, simulate.ErrCancelled) {
			return Result{Diagnostics: diagnostics}, ErrCancelled
		}
		return Result{Diagnostics: diagnostics}, err
	}

	stats, err := tail.Compute(losses)
	if err != nil {
		return Result{Diagnostics: diagnostics}, err
	}

	result := Result{
		Stats:       stats,
		Positions:   positions,
		Diagnostics: diagnostics,
	}

	if req.SkipIssuerBreakdown || len(positions) == 0 {
		return result, nil
	}

	sim := func(ctx context.Context, subset []position.Position, n int, seed int64) ([]float64, error) {
		return simulate.Run(ctx, simulate.Config{
			Positions:   subset,
			Registry:    registry,
			SpreadCurve: spreadCurve,
			NumPaths:    n,
			MasterSeed:  seed,
			NumWorkers:  req.NumWorkers,
		})
	}

	// The marginal-IRC subtraction (portfolioIRC - withoutIssuerIRC) only
	// holds if both terms are simulated at the same path count: reusing
	// stats.IRC (computed at numPaths) against issuer re-runs down-sampled
	// to AttributionPaths(numPaths) would bias every issuer's marginal IRC
	// and the portfolio diversification benefit by the two runs' differing
	// Monte-Carlo noise. Recompute the reference portfolio IRC at the
	// attribution path count so the subtraction is self-consistent; the
	// headline "irc" stat returned in Result.Stats still uses the
	// full-precision numPaths run.
	attributionPaths := tail.AttributionPaths(numPaths)
	referenceLosses, err := sim(ctx, positions, attributionPaths, req.MasterSeed)
	if err != nil {
		if errors.Is(err, simulate.ErrCancelled) {
			return result, ErrCancelled
		}
		return result, err
	}
	referenceStats, err := tail.Compute(referenceLosses)
	if err != nil {
		return result, err
	}

	attribution, err := tail.ComputeAttribution(ctx, positions, referenceStats.IRC, sim, tail.AttributionOptions{
		NumPaths:   attributionPaths,
		MasterSeed: req.MasterSeed,
	})
	if err != nil {
		if errors.Is(err, simulate.ErrCancelled) {
			return result, ErrCancelled
		}
		return result, err
	}
	result.Attribution = &attribution

	return result, nil
}
