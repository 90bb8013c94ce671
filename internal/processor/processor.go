package processor

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/card-statement-converter/internal/models"
	"github.com/insightdelivered/card-statement-converter/internal/parser"
	"github.com/insightdelivered/card-statement-converter/internal/reconcile"
)

// ExtractFunc yields the ordered per-page plain-text blocks of one
// document. The processor does not care how the provider decodes the
// document.
type ExtractFunc func(path string) ([]string, error)

// Processor runs the per-document pass: extract pages, normalize,
// locate the summary and the transaction listing, resolve dates, clean
// descriptions, reconcile. Safe for concurrent use; each document's
// pass shares no mutable state with any other.
type Processor struct {
	Extract ExtractFunc
	Rules   *parser.Ruleset
	Log     zerolog.Logger
}

// Result pairs one input document with its statement or its failure.
// A failed document carries no statement and no transactions.
type Result struct {
	Path      string
	Statement *models.Statement
	Err       error
}

// Process runs one document through the full pass. Extraction-level
// failures abort this document only and come back wrapped with the
// document identifier; a reconciliation mismatch does not abort, it
// leaves the statement unverified.
func (p *Processor) Process(path string) (*models.Statement, error) {
	log := p.Log.With().Str("document", path).Str("run_id", uuid.NewString()).Logger()

	pages, err := p.Extract(path)
	if err != nil {
		log.Error().Err(err).Msg("page extraction failed")
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug().Int("pages", len(pages)).Msg("pages extracted")

	text, err := parser.Normalize(pages)
	if err != nil {
		log.Error().Err(err).Msg("document is empty")
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cycle, totals, err := parser.ExtractSummary(text)
	if err != nil {
		log.Error().Err(err).Msg("summary extraction failed")
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	raws, err := parser.ExtractTransactions(text)
	if err != nil {
		log.Error().Err(err).Msg("transaction extraction failed")
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(raws) == 0 {
		log.Warn().Msg("transaction section found but no entries listed")
	}
	log.Debug().Int("transactions", len(raws)).Msg("entries parsed")

	txns, err := parser.Resolve(raws, cycle, p.Rules, path)
	if err != nil {
		log.Error().Err(err).Msg("date resolution failed")
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	report := reconcile.Verify(txns, totals)
	if report.Matched() {
		log.Info().
			Str("credits", report.ActualCredits.StringFixed(2)).
			Str("debits", report.ActualDebits.StringFixed(2)).
			Msg("reconciled")
	} else {
		log.Warn().
			Str("credits_diff", report.CreditsDiff().StringFixed(2)).
			Str("debits_diff", report.DebitsDiff().StringFixed(2)).
			Msg("reconciliation mismatch")
	}

	return &models.Statement{
		Source:       path,
		Cycle:        cycle,
		Totals:       totals,
		Transactions: txns,
		Report:       report,
		Verified:     report.Matched(),
	}, nil
}

// ProcessAll runs the given documents through a fixed-size worker pool
// and returns one Result per input, in input order. Results are indexed
// by input position so the merge tie-break stays independent of
// goroutine scheduling. The pool is the only coordination: workers
// share nothing, and callers see results only after the join.
func (p *Processor) ProcessAll(paths []string, workers int) []Result {
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	results := make([]Result, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				stmt, err := p.Process(paths[i])
				results[i] = Result{Path: paths[i], Statement: stmt, Err: err}
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
