package tail

import (
	"context"
	"sort"

	"github.com/aristath/irc-engine/internal/position"
)

// Simulator is the subset of the simulator the attribution stage needs: run
// N paths for a given position subset. Abstracted as a function type so
// this package never imports internal/simulate directly and the dependency
// graph stays a forest per spec.md §9.
type Simulator func(ctx context.Context, positions []position.Position, numPaths int, seed int64) ([]float64, error)

// IssuerAttribution is one row of the issuer block described in spec.md §6.
type IssuerAttribution struct {
	Issuer        string
	StandaloneIRC float64
	MarginalIRC   float64
	PctOfTotal    float64
}

// Attribution holds the full attribution result: per-issuer rows plus the
// portfolio-level diversification benefit, per spec.md §4.E.
type Attribution struct {
	Issuers                []IssuerAttribution
	DiversificationBenefit float64
}

// AttributionOptions configures the attribution pass, including the
// down-sampled path count used for the per-issuer re-runs, per spec.md §5's
// "the orchestrator may down-sample N for the attribution pass, documenting
// the reduced accuracy".
type AttributionOptions struct {
	NumPaths   int
	MasterSeed int64
}

// ComputeAttribution runs the standalone and marginal attribution passes
// described in spec.md §4.E:
//   - standalone_irc_i: IRC of issuer i's positions alone.
//   - marginal_irc_i: IRC(portfolio) - IRC(portfolio minus issuer i).
//
// portfolioIRC is the full-portfolio IRC already computed by the caller; it
// is not recomputed here, so for a consistent marginal subtraction it should
// come from a run at opts.NumPaths paths.
func ComputeAttribution(ctx context.Context, positions []position.Position, portfolioIRC float64, sim Simulator, opts AttributionOptions) (Attribution, error) {
	byIssuer := groupByIssuer(positions)

	issuers := make([]string, 0, len(byIssuer))
	for issuer := range byIssuer {
		issuers = append(issuers, issuer)
	}
	sort.Strings(issuers)

	var sumStandalone float64
	rows := make([]IssuerAttribution, 0, len(issuers))

	for _, issuer := range issuers {
		standaloneIRC, err := ircOf(ctx, byIssuer[issuer], sim, opts)
		if err != nil {
			return Attribution{}, err
		}

		without := positionsExcluding(positions, issuer)
		var withoutIRC float64
		if len(without) > 0 {
			withoutIRC, err = ircOf(ctx, without, sim, opts)
			if err != nil {
				return Attribution{}, err
			}
		}

		marginal := portfolioIRC - withoutIRC
		sumStandalone += standaloneIRC

		pct := 0.0
		if portfolioIRC != 0 {
			pct = marginal / portfolioIRC * 100
		}

		rows = append(rows, IssuerAttribution{
			Issuer:        issuer,
			StandaloneIRC: standaloneIRC,
			MarginalIRC:   marginal,
			PctOfTotal:    pct,
		})
	}

	return Attribution{
		Issuers:                rows,
		DiversificationBenefit: sumStandalone - portfolioIRC,
	}, nil
}

func ircOf(ctx context.Context, positions []position.Position, sim Simulator, opts AttributionOptions) (float64, error) {
	losses, err := sim(ctx, positions, opts.NumPaths, opts.MasterSeed)
	if err != nil {
		return 0, err
	}
	stats, err := Compute(losses)
	if err != nil {
		return 0, err
	}
	return stats.IRC, nil
}

func groupByIssuer(positions []position.Position) map[string][]position.Position {
	m := make(map[string][]position.Position)
	for _, p := range positions {
		m[p.Issuer] = append(m[p.Issuer], p)
	}
	return m
}

func positionsExcluding(positions []position.Position, issuer string) []position.Position {
	out := make([]position.Position, 0, len(positions))
	for _, p := range positions {
		if p.Issuer != issuer {
			out = append(out, p)
		}
	}
	return out
}

// attributionPathsFloor is the minimum path count the attribution pass will
// down-sample to, per spec.md §5.
const attributionPathsFloor = 10_000

// AttributionPaths derives the attribution pass's path count from the main
// run's path count: one tenth of it, floored at attributionPathsFloor (and
// never more than the main count, for small test runs).
func AttributionPaths(mainPaths int) int {
	n := mainPaths / 10
	if n < attributionPathsFloor {
		n = attributionPathsFloor
	}
	if n > mainPaths {
		n = mainPaths
	}
	return n
}
