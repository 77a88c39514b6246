// Package simulate implements the correlated Monte-Carlo simulator: a
// one-factor Gaussian copula over issuers, with per-issuer rating
// transitions drawn from a regulator-style migration matrix, revalued into a
// per-path portfolio loss and compounded across liquidity-horizon
// sub-periods under the constant-level-of-risk assumption.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"

	"github.com/aristath/irc-engine/internal/numerics"
	"github.com/aristath/irc-engine/internal/position"
	"github.com/aristath/irc-engine/internal/refdata"
)

// ErrCancelled is returned by Run when the caller's context is cancelled
// before every path completes. Per spec.md §5, cancellation is a distinct
// outcome, not a wrapped error, and no partial result is reported since
// percentiles require the full draw.
var ErrCancelled = errors.New("simulate: cancelled")

// ErrInvariantViolated reports a broken internal invariant (e.g. a
// latent-CDF value outside [0,1]). Per spec.md §7 this indicates a
// programming bug, not a recoverable condition; it is never retried.
type ErrInvariantViolated struct {
	Reason string
}

func (e *ErrInvariantViolated) Error() string {
	return fmt.Sprintf("simulate: invariant violated: %s", e.Reason)
}

// Config parameterises a single simulation run.
type Config struct {
	Positions   []position.Position
	Registry    *refdata.Registry
	SpreadCurve refdata.SpreadCurve
	NumPaths    int
	MasterSeed  int64
	NumWorkers  int // 0 selects runtime.GOMAXPROCS(0)
}

// Run executes NumPaths independent Monte-Carlo paths and returns the full
// vector of per-path portfolio losses (positive = loss), per spec.md §4.D's
// "the engine retains the full vector of N path losses". Paths are
// distributed across a worker pool; each worker owns a private RNG stream
// seeded from (MasterSeed, workerID) so results are reproducible regardless
// of scheduling, per spec.md §5.
func Run(ctx context.Context, cfg Config) ([]float64, error) {
	if cfg.NumPaths <= 0 {
		return nil, fmt.Errorf("simulate: NumPaths must be > 0")
	}

	groups := buildGroups(cfg.Positions, cfg.Registry)
	maxSubPeriods := 0
	for _, g := range groups {
		if g.subPeriods > maxSubPeriods {
			maxSubPeriods = g.subPeriods
		}
	}

	numWorkers := cfg.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if numWorkers > cfg.NumPaths {
		numWorkers = cfg.NumPaths
	}

	losses := make([]float64, cfg.NumPaths)
	chunks := pathChunks(cfg.NumPaths, numWorkers)

	var wg sync.WaitGroup
	errs := make(chan error, numWorkers)

	for workerID, chunk := range chunks {
		wg.Add(1)
		go func(workerID int, chunk pathRange) {
			defer wg.Done()
			rng := numerics.SeedWorker(cfg.MasterSeed, workerID)
			if err := runWorker(ctx, chunk, rng, groups, maxSubPeriods, cfg.SpreadCurve, losses); err != nil {
				errs <- err
			}
		}(workerID, chunk)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			return nil, err
		}
	}

	select {
	case <-ctx.Done():
		return nil, ErrCancelled
	default:
	}

	return losses, nil
}

// pathRange is a contiguous, disjoint slice of path indices assigned to one
// worker.
type pathRange struct {
	start, end int // [start, end)
}

// pathChunks splits [0, numPaths) into numWorkers contiguous ranges.
func pathChunks(numPaths, numWorkers int) []pathRange {
	chunks := make([]pathRange, 0, numWorkers)
	base := numPaths / numWorkers
	remainder := numPaths % numWorkers
	start := 0
	for i := 0; i < numWorkers; i++ {
		size := base
		if i < remainder {
			size++
		}
		if size == 0 {
			continue
		}
		chunks = append(chunks, pathRange{start: start, end: start + size})
		start += size
	}
	return chunks
}

// checkpointEvery bounds how often a worker checks for cancellation between
// path chunks, per spec.md §5 ("checked once per worker between path
// chunks"). Smaller sub-chunks make cancellation more responsive at a
// negligible overhead.
const checkpointEvery = 2048

// runWorker recovers a panic from runPath into an *ErrInvariantViolated, so
// a broken internal invariant surfaces as a run failure rather than a
// process crash, matching the recover()-at-boundary idiom the teacher uses
// at its HTTP middleware layer.
func runWorker(ctx context.Context, chunk pathRange, rng *rand.Rand, groups []*issuerGroup, maxSubPeriods int, spreads refdata.SpreadCurve, out []float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if invariantErr, ok := r.(*ErrInvariantViolated); ok {
				err = invariantErr
				return
			}
			panic(r)
		}
	}()

	for start := chunk.start; start < chunk.end; start += checkpointEvery {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		end := start + checkpointEvery
		if end > chunk.end {
			end = chunk.end
		}
		for path := start; path < end; path++ {
			out[path] = runPath(rng, groups, maxSubPeriods, spreads)
		}
	}
	return nil
}

// runPath computes one Monte-Carlo path's total portfolio loss: the
// liquidity-horizon compounding resamples a fresh common systematic factor
// per sub-period, shared by every issuer group still active in that
// sub-period, plus a fresh idiosyncratic shock per group, per spec.md §4.D.
func runPath(rng *rand.Rand, groups []*issuerGroup, maxSubPeriods int, spreads refdata.SpreadCurve) float64 {
	total := 0.0
	for sub := 0; sub < maxSubPeriods; sub++ {
		x := rng.NormFloat64()
		for _, g := range groups {
			if sub >= g.subPeriods || g.defaulted {
				continue
			}
			eps := rng.NormFloat64()
			z := math.Sqrt(g.rho)*x + math.Sqrt(1-g.rho)*eps
			u := numerics.PhiCDF(z)
			if u < 0 || u > 1 {
				panic(&ErrInvariantViolated{Reason: fmt.Sprintf("latent CDF value %v outside [0,1]", u)})
			}

			for _, p := range g.positions {
				newRating, err := g.matrix.Bucket(p.Rating, u)
				if err != nil {
					panic(&ErrInvariantViolated{Reason: err.Error()})
				}
				total += revalue(p, newRating, spreads)
			}
		}
	}
	return total
}
