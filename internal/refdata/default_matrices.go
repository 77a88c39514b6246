package refdata

import "fmt"

// globalMatrixRows is a representative one-year corporate transition matrix
// (rows/cols ordered AAA,AA,A,BBB,BB,B,CCC,D), broadly in line with public
// agency migration studies. It is supplied as data, per spec.md's non-goal
// of not statistically estimating matrices in-engine.
var globalMatrixRows = [][]float64{
	// AAA
	{0.9081, 0.0833, 0.0068, 0.0006, 0.0008, 0.0003, 0.0000, 0.0001},
	// AA
	{0.0070, 0.9065, 0.0779, 0.0064, 0.0006, 0.0013, 0.0002, 0.0001},
	// A
	{0.0009, 0.0227, 0.9105, 0.0552, 0.0074, 0.0026, 0.0001, 0.0006},
	// BBB
	{0.0002, 0.0033, 0.0595, 0.8693, 0.0530, 0.0117, 0.0012, 0.0018},
	// BB
	{0.0003, 0.0014, 0.0067, 0.0773, 0.8053, 0.0884, 0.0100, 0.0106},
	// B
	{0.0000, 0.0011, 0.0024, 0.0043, 0.0648, 0.8346, 0.0407, 0.0521},
	// CCC
	{0.0022, 0.0000, 0.0022, 0.0130, 0.0238, 0.1124, 0.6486, 0.1978},
	// D (absorbing)
	{0.0000, 0.0000, 0.0000, 0.0000, 0.0000, 0.0000, 0.0000, 1.0000},
}

// europeMatrixRows is a mild regional variant (slightly higher downgrade
// drift than global, reflecting a less diversified issuer base).
var europeMatrixRows = [][]float64{
	{0.9000, 0.0900, 0.0070, 0.0010, 0.0010, 0.0006, 0.0002, 0.0002},
	{0.0060, 0.8990, 0.0840, 0.0078, 0.0010, 0.0015, 0.0003, 0.0004},
	{0.0008, 0.0210, 0.9020, 0.0610, 0.0096, 0.0036, 0.0004, 0.0016},
	{0.0002, 0.0030, 0.0560, 0.8580, 0.0600, 0.0150, 0.0030, 0.0048},
	{0.0002, 0.0012, 0.0060, 0.0720, 0.7900, 0.0980, 0.0140, 0.0186},
	{0.0000, 0.0010, 0.0020, 0.0040, 0.0620, 0.8150, 0.0480, 0.0680},
	{0.0020, 0.0000, 0.0020, 0.0110, 0.0220, 0.1080, 0.6250, 0.2300},
	{0, 0, 0, 0, 0, 0, 0, 1},
}

// emergingMarketsMatrixRows widens tails and default probability relative
// to global across all non-default rungs.
var emergingMarketsMatrixRows = [][]float64{
	{0.8800, 0.1000, 0.0120, 0.0030, 0.0020, 0.0020, 0.0005, 0.0005},
	{0.0080, 0.8700, 0.0980, 0.0140, 0.0030, 0.0040, 0.0015, 0.0015},
	{0.0010, 0.0280, 0.8800, 0.0680, 0.0140, 0.0060, 0.0010, 0.0020},
	{0.0003, 0.0040, 0.0680, 0.8300, 0.0700, 0.0180, 0.0045, 0.0052},
	{0.0003, 0.0018, 0.0080, 0.0850, 0.7500, 0.1150, 0.0200, 0.0199},
	{0.0000, 0.0012, 0.0028, 0.0055, 0.0750, 0.7850, 0.0600, 0.0705},
	{0.0025, 0.0000, 0.0025, 0.0140, 0.0280, 0.1250, 0.5780, 0.2500},
	{0, 0, 0, 0, 0, 0, 0, 1},
}

// financialsMatrixRows: financial issuers carry higher systemic correlation
// (see SystematicFactors) but a comparable standalone migration profile to
// global corporates at investment grade, with somewhat fatter downgrade
// tails at sub-investment grade.
var financialsMatrixRows = [][]float64{
	{0.9050, 0.0860, 0.0070, 0.0007, 0.0008, 0.0003, 0.0001, 0.0001},
	{0.0072, 0.9030, 0.0805, 0.0070, 0.0007, 0.0013, 0.0002, 0.0001},
	{0.0009, 0.0230, 0.9060, 0.0590, 0.0080, 0.0025, 0.0001, 0.0005},
	{0.0002, 0.0033, 0.0600, 0.8620, 0.0580, 0.0130, 0.0015, 0.0020},
	{0.0003, 0.0014, 0.0070, 0.0800, 0.7900, 0.0950, 0.0120, 0.0143},
	{0.0000, 0.0011, 0.0024, 0.0045, 0.0680, 0.8200, 0.0440, 0.0600},
	{0.0022, 0.0000, 0.0022, 0.0130, 0.0250, 0.1150, 0.6300, 0.2126},
	{0, 0, 0, 0, 0, 0, 0, 1},
}

// sovereignMatrixRows: sovereigns are stickier at investment grade (slower
// migration) but, once sub-investment grade, can deteriorate sharply.
var sovereignMatrixRows = [][]float64{
	{0.9400, 0.0540, 0.0040, 0.0010, 0.0005, 0.0003, 0.0001, 0.0001},
	{0.0050, 0.9350, 0.0540, 0.0045, 0.0006, 0.0006, 0.0002, 0.0001},
	{0.0006, 0.0160, 0.9300, 0.0460, 0.0050, 0.0018, 0.0001, 0.0005},
	{0.0002, 0.0020, 0.0450, 0.8950, 0.0420, 0.0110, 0.0020, 0.0028},
	{0.0002, 0.0010, 0.0050, 0.0650, 0.8100, 0.0850, 0.0170, 0.0168},
	{0.0000, 0.0008, 0.0018, 0.0035, 0.0580, 0.8100, 0.0550, 0.0709},
	{0.0015, 0.0000, 0.0015, 0.0090, 0.0200, 0.1400, 0.6000, 0.2280},
	{0, 0, 0, 0, 0, 0, 0, 1},
}

// DefaultRegistry builds the standard named registry documented in
// spec.md §4.B: {"global","europe","emerging_markets","financials","sovereign"}.
// It panics on construction if any embedded matrix fails validation, since
// that would indicate a programming error in this file rather than a runtime
// configuration error.
func DefaultRegistry() *Registry {
	build := func(name string, rows [][]float64) *TransitionMatrix {
		m, err := NewTransitionMatrix(name, rows)
		if err != nil {
			panic(fmt.Sprintf("refdata: embedded matrix %q failed validation: %v", name, err))
		}
		return m
	}

	return NewRegistry(map[string]*TransitionMatrix{
		"global":           build("global", globalMatrixRows),
		"europe":           build("europe", europeMatrixRows),
		"emerging_markets": build("emerging_markets", emergingMarketsMatrixRows),
		"financials":       build("financials", financialsMatrixRows),
		"sovereign":        build("sovereign", sovereignMatrixRows),
	})
}
