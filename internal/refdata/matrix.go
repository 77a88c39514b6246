// Package refdata holds the engine's reference-data tables: rating
// transition matrices, credit spread curves, LGD-by-seniority, and the
// per-sector systematic factor (rho) table. All of it is loaded once at
// startup and shared read-only across simulation workers, matching the
// lifecycle the core specifies ("reference data: loaded at startup, shared
// read-only, never mutated").
package refdata

import (
	"fmt"
	"math"

	"github.com/aristath/irc-engine/internal/ratings"
)

const matrixTolerance = 1e-9

// TransitionMatrix is a row-stochastic matrix over the rating ladder, stored
// as cumulative row probabilities for O(log K) bucketing. Row order and
// column order both follow ratings.Ladder; the last column ("D") is
// absorbing.
type TransitionMatrix struct {
	name string
	// cumulative[i][k] is the cumulative probability of transitioning from
	// ratings.Ladder[i] to any rating at index <= k.
	cumulative [][]float64
}

// Name returns the matrix's reference-data name (e.g. "global").
func (m *TransitionMatrix) Name() string { return m.name }

// ErrInvalidMatrix reports a matrix that failed load-time validation: a
// configuration error, fatal per the error-handling taxonomy.
type ErrInvalidMatrix struct {
	Matrix string
	Reason string
}

func (e *ErrInvalidMatrix) Error() string {
	return fmt.Sprintf("refdata: invalid transition matrix %q: %s", e.Matrix, e.Reason)
}

// NewTransitionMatrix validates and builds a TransitionMatrix from a dense
// row-major matrix, rows and columns both ordered per ratings.Ladder.
// Non-absorbing rows must sum to 1.0 within matrixTolerance and contain only
// non-negative entries; the last row must be the absorbing {0,...,0,1}.
func NewTransitionMatrix(name string, rows [][]float64) (*TransitionMatrix, error) {
	n := len(ratings.Ladder)
	if len(rows) != n {
		return nil, &ErrInvalidMatrix{Matrix: name, Reason: fmt.Sprintf("expected %d rows, got %d", n, len(rows))}
	}

	cumulative := make([][]float64, n)
	for i, row := range rows {
		if len(row) != n {
			return nil, &ErrInvalidMatrix{Matrix: name, Reason: fmt.Sprintf("row %d: expected %d columns, got %d", i, n, len(row))}
		}

		sum := 0.0
		for k, p := range row {
			if p < 0 {
				return nil, &ErrInvalidMatrix{Matrix: name, Reason: fmt.Sprintf("row %d has negative entry at column %d", i, k)}
			}
			sum += p
		}

		isAbsorbingRow := ratings.Ladder[i] == ratings.D
		if isAbsorbingRow {
			if math.Abs(row[n-1]-1.0) > matrixTolerance || sum-row[n-1] > matrixTolerance {
				return nil, &ErrInvalidMatrix{Matrix: name, Reason: "default row must be absorbing ({0,...,0,1})"}
			}
		} else if math.Abs(sum-1.0) > matrixTolerance {
			return nil, &ErrInvalidMatrix{Matrix: name, Reason: fmt.Sprintf("row %d sums to %.12f, want 1.0 within %g", i, sum, matrixTolerance)}
		}

		cum := make([]float64, n)
		running := 0.0
		for k, p := range row {
			running += p
			cum[k] = running
		}
		// Clamp the final cumulative value to exactly 1.0 so bucketing never
		// misses due to floating point drift within tolerance.
		cum[n-1] = 1.0
		cumulative[i] = cum
	}

	return &TransitionMatrix{name: name, cumulative: cumulative}, nil
}

// Bucket locates the rating bucket for a latent-CDF value u in (0,1], given
// the issuer's starting rating. It performs an O(log K) binary search over
// the cumulative row.
func (m *TransitionMatrix) Bucket(from ratings.Rating, u float64) (ratings.Rating, error) {
	i := ratings.Index(from)
	if i < 0 {
		return "", fmt.Errorf("refdata: unknown starting rating %q", from)
	}
	if u < 0 || u > 1 {
		return "", fmt.Errorf("refdata: latent CDF value %v outside [0,1]", u)
	}

	row := m.cumulative[i]
	lo, hi := 0, len(row)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if row[mid] >= u {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return ratings.Ladder[lo], nil
}

// Registry resolves a named transition matrix from the registry
// {"global","europe","emerging_markets","financials","sovereign"} described
// in spec.md §4.B.
type Registry struct {
	matrices map[string]*TransitionMatrix
}

// NewRegistry builds a Registry from a name->matrix map. It performs no
// validation of its own: each member is expected to have been built (and
// so validated) by NewTransitionMatrix.
func NewRegistry(matrices map[string]*TransitionMatrix) *Registry {
	return &Registry{matrices: matrices}
}

// Resolve selects a matrix by the precedence sector-override > region-override
// > default("global"), per spec.md §4.B. sector and region are first mapped
// to a matrix name via SectorMatrixMap/RegionMatrixMap (spec.md §4.F's
// "override tables") before being looked up in the registry, so values like
// sector="bank" or region="EU" resolve to "financials"/"europe" rather than
// falling through to "global".
func (r *Registry) Resolve(sector, region string) (*TransitionMatrix, string) {
	if name, ok := resolveMatrixName(sector, SectorMatrixMap); ok {
		if m, ok := r.matrices[name]; ok {
			return m, name
		}
	}
	if name, ok := resolveMatrixName(region, RegionMatrixMap); ok {
		if m, ok := r.matrices[name]; ok {
			return m, name
		}
	}
	return r.matrices["global"], "global"
}

// Get returns a named matrix and whether it was found.
func (r *Registry) Get(name string) (*TransitionMatrix, bool) {
	m, ok := r.matrices[name]
	return m, ok
}
