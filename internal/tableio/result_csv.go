package tableio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/aristath/irc-engine/internal/tail"
)

// WriteResultCSV writes the two-block result report described in spec.md
// §6: a summary block (IRC, RWA, percentiles, expected shortfall, mean
// loss, diversification benefit) followed by a blank line and an issuer
// block (standalone/marginal IRC and percentage of total per issuer).
// attribution may be nil when the caller opted out of the issuer
// breakdown, in which case only the summary block is written.
func WriteResultCSV(w io.Writer, stats tail.Stats, attribution *tail.Attribution) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	diversification := 0.0
	if attribution != nil {
		diversification = attribution.DiversificationBenefit
	}

	if err := writer.Write([]string{"metric", "value"}); err != nil {
		return err
	}
	summary := [][2]string{
		{"irc", formatFloat(stats.IRC)},
		{"rwa", formatFloat(stats.RWA)},
		{"percentile_95", formatFloat(stats.Percentile95)},
		{"percentile_99", formatFloat(stats.Percentile99)},
		{"percentile_999", formatFloat(stats.Percentile999)},
		{"expected_shortfall_999", formatFloat(stats.ExpectedShortfall999)},
		{"mean_loss", formatFloat(stats.MeanLoss)},
		{"diversification_benefit", formatFloat(diversification)},
	}
	for _, row := range summary {
		if err := writer.Write(row[:]); err != nil {
			return err
		}
	}

	if attribution == nil {
		return nil
	}

	if err := writer.Write([]string{}); err != nil {
		return err
	}
	if err := writer.Write([]string{"issuer", "standalone_irc", "marginal_irc", "pct_of_total"}); err != nil {
		return err
	}
	for _, row := range attribution.Issuers {
		if err := writer.Write([]string{
			row.Issuer,
			formatFloat(row.StandaloneIRC),
			formatFloat(row.MarginalIRC),
			formatFloat(row.PctOfTotal),
		}); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
