package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/insightdelivered/card-statement-converter/internal/api"
	"github.com/insightdelivered/card-statement-converter/internal/extractor"
	"github.com/insightdelivered/card-statement-converter/internal/logger"
	"github.com/insightdelivered/card-statement-converter/internal/models"
	"github.com/insightdelivered/card-statement-converter/internal/parser"
	"github.com/insightdelivered/card-statement-converter/internal/processor"
	"github.com/insightdelivered/card-statement-converter/internal/reconcile"
	"github.com/insightdelivered/card-statement-converter/internal/writer"
)

const version = "1.0.0"

func main() {
	outputFlag := flag.String("output", "transactions.csv", "Output CSV file path")
	rulesFlag := flag.String("rules", "", "YAML file overriding the description noise rules")
	workersFlag := flag.Int("workers", 4, "Number of documents processed in parallel")
	serveFlag := flag.String("serve", "", "Run the HTTP conversion API on this address instead of converting")
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Card Statement PDF to CSV Converter
by Insight Delivered (QEA AutoLens)

Extracts transactions from credit-card statement PDFs, reconciles them
against the statement's reported totals, and writes a date-sorted CSV.

Usage:
  card-statement-converter [flags] <statement.pdf> [statement2.pdf ...]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Convert one statement
  card-statement-converter statement.pdf

  # Merge several statements into one CSV
  card-statement-converter -output=year.csv jan.pdf feb.pdf mar.pdf

  # Custom description cleaning rules
  card-statement-converter -rules=rules.yaml statement.pdf

  # Run the HTTP API
  card-statement-converter -serve=:8080
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("card-statement-converter v%s\n", version)
		os.Exit(0)
	}

	level := zerolog.InfoLevel
	if *debugFlag {
		level = zerolog.DebugLevel
	}
	log := logger.New(level)

	if *serveFlag != "" {
		log.Info().Str("addr", *serveFlag).Msg("starting HTTP API")
		if err := api.New().Listen(*serveFlag); err != nil {
			log.Fatal().Err(err).Msg("server exited")
		}
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	rules := parser.DefaultRules()
	if *rulesFlag != "" {
		var err error
		rules, err = parser.LoadRules(*rulesFlag)
		if err != nil {
			fatalf("Error: %v\n", err)
		}
	}

	proc := &processor.Processor{
		Extract: extractor.ExtractPages,
		Rules:   rules,
		Log:     log,
	}
	results := proc.ProcessAll(flag.Args(), *workersFlag)

	verified, mismatched, failed := 0, 0, 0
	var lists [][]models.Transaction

	for _, res := range results {
		fmt.Printf("Processing: %s\n", res.Path)
		if res.Err != nil {
			failed++
			fmt.Printf("  Error: %v\n", res.Err)
			continue
		}

		stmt := res.Statement
		fmt.Printf("  Found %d transaction(s)\n", len(stmt.Transactions))
		if len(stmt.Transactions) == 0 {
			fmt.Println("  Warning: transaction section found but no entries listed.")
		}
		if stmt.Verified {
			fmt.Printf("  Reconciliation: verified (credits %s, debits %s)\n",
				stmt.Report.ActualCredits.StringFixed(2),
				stmt.Report.ActualDebits.StringFixed(2))
			verified++
		} else {
			fmt.Printf("  Reconciliation: MISMATCH (credits off by %s, debits off by %s)\n",
				stmt.Report.CreditsDiff().StringFixed(2),
				stmt.Report.DebitsDiff().StringFixed(2))
			mismatched++
		}
		lists = append(lists, stmt.Transactions)
	}

	merged := reconcile.Merge(lists...)

	w := &writer.CSVWriter{}
	if err := w.WriteToFile(*outputFlag, merged); err != nil {
		fatalf("Error: %v\n", err)
	}

	fmt.Printf("\nWrote %d transaction(s) to %s\n", len(merged), *outputFlag)
	fmt.Printf("Documents: %d verified, %d mismatched, %d failed\n", verified, mismatched, failed)

	// reconciliation mismatch is a warning; only extraction failure
	// fails the run
	if failed > 0 {
		os.Exit(1)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
