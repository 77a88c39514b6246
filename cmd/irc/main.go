// Command irc computes the one-year, 99.9th-percentile Incremental Risk
// Charge for a trading-book credit portfolio: it reads a position table and
// an optional FX table, runs the correlated Monte-Carlo simulator, and
// writes the summary and issuer-attribution report.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/irc-engine/internal/config"
	"github.com/aristath/irc-engine/internal/dataprep"
	"github.com/aristath/irc-engine/internal/fx"
	"github.com/aristath/irc-engine/internal/orchestrator"
	"github.com/aristath/irc-engine/internal/refdata"
	"github.com/aristath/irc-engine/internal/tableio"
	"github.com/aristath/irc-engine/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	defaults, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "irc: loading configuration: %v\n", err)
		return 1
	}

	fs := flag.NewFlagSet("irc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	input := fs.String("input", "", "path to the position CSV table (required)")
	asOf := fs.String("as-of", "", "as-of date, YYYY-MM-DD (required when tenor_years is not supplied)")
	currency := fs.String("currency", defaults.ReferenceCurrency, "reference currency (ISO 4217)")
	fxRates := fs.String("fx-rates", "", "path to a JSON FX rate table")
	fxFormat := fs.String("fx-format", "", "FX table shape: to_reference or market (auto-detected if omitted)")
	simulations := fs.Int("simulations", defaults.NumSimulations, "number of Monte-Carlo paths")
	output := fs.String("output", "", "path to write the result CSV (stdout if omitted)")
	diagnosticsPath := fs.String("diagnostics", "", "path to write the row diagnostics CSV (optional)")
	noIssuerBreakdown := fs.Bool("no-issuer-breakdown", false, "skip the issuer attribution pass")
	quiet := fs.Bool("quiet", false, "suppress progress logging")
	seed := fs.Int64("seed", 1, "master RNG seed")
	workers := fs.Int("workers", defaults.NumWorkers, "worker count (0 selects GOMAXPROCS)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *input == "" {
		fmt.Fprintln(stderr, "irc: -input is required")
		usage(stderr)
		return 2
	}

	log := logger.Nop()
	if !*quiet {
		log = logger.New(logger.Config{Level: defaults.LogLevel, Pretty: true})
	}

	inputFile, err := os.Open(*input)
	if err != nil {
		fmt.Fprintf(stderr, "irc: opening input: %v\n", err)
		return 2
	}
	defer inputFile.Close()

	records, err := tableio.ReadPositionCSV(inputFile)
	if err != nil {
		fmt.Fprintf(stderr, "irc: reading input: %v\n", err)
		return 2
	}
	log.Info().Int("rows", len(records)).Msg("read position table")

	store, err := loadFXStore(*fxRates, *fxFormat, *currency)
	if err != nil {
		fmt.Fprintf(stderr, "irc: loading FX table: %v\n", err)
		return 2
	}

	asOfDate := time.Now().UTC()
	if *asOf != "" {
		parsed, err := time.Parse("2006-01-02", *asOf)
		if err != nil {
			fmt.Fprintf(stderr, "irc: invalid -as-of date: %v\n", err)
			return 2
		}
		asOfDate = parsed
	}

	req := orchestrator.Request{
		Records: records,
		PrepOptions: dataprep.Options{
			ReferenceCurrency: *currency,
			AsOfDate:          asOfDate,
			FXStore:           store,
		},
		Registry:            refdata.DefaultRegistry(),
		SpreadCurve:         refdata.DefaultSpreadCurve,
		NumPaths:            *simulations,
		MasterSeed:          *seed,
		NumWorkers:          *workers,
		SkipIssuerBreakdown: *noIssuerBreakdown,
	}

	log.Info().Int("simulations", *simulations).Msg("running simulation")
	result, err := orchestrator.Run(ctx, req)

	var invalidInput *dataprep.ErrInvalidInput
	if errors.As(err, &invalidInput) {
		writeDiagnosticsIfRequested(stderr, *diagnosticsPath, invalidInput.Diagnostics)
		fmt.Fprintf(stderr, "irc: %v\n", err)
		return 2
	}
	if errors.Is(err, orchestrator.ErrCancelled) {
		fmt.Fprintln(stderr, "irc: cancelled")
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "irc: %v\n", err)
		return 1
	}

	writeDiagnosticsIfRequested(stderr, *diagnosticsPath, result.Diagnostics)

	out := stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(stderr, "irc: opening output: %v\n", err)
			return 1
		}
		defer f.Close()
		out = f
	}

	if err := tableio.WriteResultCSV(out, result.Stats, result.Attribution); err != nil {
		fmt.Fprintf(stderr, "irc: writing result: %v\n", err)
		return 1
	}

	log.Info().Float64("irc", result.Stats.IRC).Msg("done")
	return 0
}

func loadFXStore(path, format, referenceCurrency string) (*fx.Store, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	store, err := tableio.ReadFXTable(f, tableio.FXFormat(format), referenceCurrency)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func writeDiagnosticsIfRequested(stderr io.Writer, path string, diagnostics []dataprep.Diagnostic) {
	if path == "" || len(diagnostics) == 0 {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(stderr, "irc: opening diagnostics output: %v\n", err)
		return
	}
	defer f.Close()
	if err := tableio.WriteDiagnosticsCSV(f, diagnostics); err != nil {
		fmt.Fprintf(stderr, "irc: writing diagnostics: %v\n", err)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: irc -input positions.csv [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -as-of YYYY-MM-DD       as-of date (required unless every row supplies tenor_years)")
	fmt.Fprintln(w, "  -currency ISO4217       reference currency (default USD)")
	fmt.Fprintln(w, "  -fx-rates path          JSON FX rate table")
	fmt.Fprintln(w, "  -fx-format {to_reference,market}")
	fmt.Fprintln(w, "  -simulations N          number of Monte-Carlo paths (default 100000)")
	fmt.Fprintln(w, "  -output path            result CSV (stdout if omitted)")
	fmt.Fprintln(w, "  -diagnostics path       row diagnostics CSV")
	fmt.Fprintln(w, "  -no-issuer-breakdown    skip the issuer attribution pass")
	fmt.Fprintln(w, "  -quiet                  suppress progress logging")
}
