package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/scgc-mis/slrecon/internal/calendar"
	"github.com/scgc-mis/slrecon/internal/dates"
	infraBQ "github.com/scgc-mis/slrecon/internal/infra/bigquery"
	"github.com/scgc-mis/slrecon/internal/jobs"
	"github.com/scgc-mis/slrecon/internal/jobs/inmemory"
	"github.com/scgc-mis/slrecon/internal/ledger"
	"github.com/scgc-mis/slrecon/internal/logger"
	"github.com/scgc-mis/slrecon/internal/recon"
	"github.com/scgc-mis/slrecon/internal/report"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "reconcile":
		runReconcile(log)
	case "batch":
		runBatch(log)
	case "holidays":
		runHolidays()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Subsidiary Ledger Reconciliation CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  reconcile  Reconcile one loan account against its amortization schedule")
	fmt.Println("  batch      Reconcile a list of accounts with a worker pool")
	fmt.Println("  holidays   Print the non-working days for a year")
	fmt.Println("  help       Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runReconcile(log zerolog.Logger) {
	fs := flag.NewFlagSet("reconcile", flag.ExitOnError)
	acctNo := fs.String("acct", "", "Account number to reconcile")
	asOfStr := fs.String("as-of", "", "Reconcile as of this date (YYYY-MM-DD, default today)")
	verbose := fs.Bool("verbose", false, "Emit the per-period simulation trace")
	layout := fs.String("date-layout", dates.LayoutRawPosting, "Layout of warehouse date columns")
	outPath := fs.String("out", "", "Write the CSV report to this file")
	bucket := fs.String("gcs-bucket", "", "Archive the CSV report to this GCS bucket")
	fs.Parse(os.Args[2:])

	if *acctNo == "" {
		log.Fatal().Msg("Error: --acct is required")
	}
	if *verbose {
		log = logger.NewAt(zerolog.DebugLevel)
	}

	asOf := parseAsOf(log, *asOfStr)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info().Str("acct_no", *acctNo).Str("as_of", asOf.String()).Msg("Starting reconciliation")

	repo, err := infraBQ.NewLedgerRepository(ctx, *layout)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create ledger repository")
	}
	defer repo.Close()

	al, err := repo.FetchAccount(ctx, *acctNo)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch account ledger")
	}

	res, err := recon.Reconcile(al, recon.Options{AsOf: asOf, Verbose: *verbose, Logger: &log})
	switch {
	case errors.Is(err, recon.ErrBrokenSchedule):
		log.Warn().Err(err).Msg("Broken schedule: partial result, flag for manual review")
	case err != nil:
		log.Fatal().Err(err).Msg("Reconciliation failed")
	}

	fmt.Printf("PD String:     %s\n", res.DelinquencyString)
	fmt.Printf("Rebate Total:  %s\n", res.RebateTotal)
	fmt.Printf("Penalty Total: %s\n", res.PenaltyTotal)
	fmt.Printf("Periods:       %d\n", res.Periods)

	if *outPath != "" || *bucket != "" {
		data, err := report.BuildCSV(res)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to build report")
		}
		if *outPath != "" {
			if err := os.WriteFile(*outPath, data, 0o644); err != nil {
				log.Fatal().Err(err).Msg("Failed to write report")
			}
			fmt.Printf("Report written to %s\n", *outPath)
		}
		if *bucket != "" {
			object := report.ObjectName(*acctNo, asOf.String())
			if err := report.Upload(ctx, *bucket, object, data); err != nil {
				log.Fatal().Err(err).Msg("Failed to archive report")
			}
			fmt.Printf("Report archived to gs://%s/%s\n", *bucket, object)
		}
	}
}

func runBatch(log zerolog.Logger) {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	accountsPath := fs.String("accounts", "", "File with one account number per line")
	asOfStr := fs.String("as-of", "", "Reconcile as of this date (YYYY-MM-DD, default today)")
	workers := fs.Int("workers", 4, "Number of concurrent reconciliation runs")
	layout := fs.String("date-layout", dates.LayoutRawPosting, "Layout of warehouse date columns")
	fs.Parse(os.Args[2:])

	if *accountsPath == "" {
		log.Fatal().Msg("Error: --accounts is required")
	}

	accounts, err := readAccounts(*accountsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read accounts file")
	}
	if len(accounts) == 0 {
		log.Fatal().Msg("Accounts file is empty")
	}

	asOf := parseAsOf(log, *asOfStr)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	repo, err := infraBQ.NewLedgerRepository(ctx, *layout)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create ledger repository")
	}
	defer repo.Close()

	store := inmemory.NewStore()
	queue := inmemory.NewQueue(len(accounts), *workers, store)

	var wg sync.WaitGroup
	handler := func(ctx context.Context, job jobs.Job) error {
		defer wg.Done()
		rj, ok := job.(*jobs.ReconcileAccountJob)
		if !ok {
			return fmt.Errorf("unexpected job type %T", job)
		}
		return reconcileOne(ctx, log, repo, rj, asOf)
	}

	if err := queue.Start(ctx, handler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start queue")
	}

	for _, acct := range accounts {
		wg.Add(1)
		job := &jobs.ReconcileAccountJob{AcctNo: acct, AsOf: asOf.String()}
		if err := queue.PublishReconcileAccount(ctx, job); err != nil {
			wg.Done()
			log.Error().Err(err).Str("acct_no", acct).Msg("Failed to enqueue account")
		}
	}

	wg.Wait()
	if err := queue.Stop(ctx); err != nil {
		log.Error().Err(err).Msg("Queue shutdown failed")
	}

	done, _ := store.ListJobs(ctx, jobs.JobFilter{})
	var failed, broken int
	for _, j := range done {
		if j.Status == jobs.JobStatusFailed {
			failed++
		}
		if j.Broken {
			broken++
		}
	}
	log.Info().
		Int("accounts", len(accounts)).
		Int("failed", failed).
		Int("broken", broken).
		Msg("Batch reconciliation finished")
}

// reconcileOne runs one account inside the batch. Per-account failures are
// recorded on the job; a malformed or broken account never aborts the batch.
func reconcileOne(ctx context.Context, log zerolog.Logger, repo *infraBQ.LedgerRepository, job *jobs.ReconcileAccountJob, asOf civil.Date) error {
	al, err := repo.FetchAccount(ctx, job.AcctNo)
	if err != nil {
		log.Error().Err(err).Str("acct_no", job.AcctNo).Msg("Account fetch failed")
		return err
	}

	res, err := recon.Reconcile(al, recon.Options{AsOf: asOf})
	switch {
	case errors.Is(err, recon.ErrBrokenSchedule):
		job.Broken = true
		job.DelinquencyString = res.DelinquencyString
		log.Warn().Str("acct_no", job.AcctNo).Str("pd_string", res.DelinquencyString).
			Msg("Broken schedule, flagged for manual review")
		return nil
	case errors.Is(err, ledger.ErrMalformedLedger), errors.Is(err, ledger.ErrDegenerateTerms):
		log.Error().Err(err).Str("acct_no", job.AcctNo).Msg("Account skipped")
		return err
	case err != nil:
		log.Error().Err(err).Str("acct_no", job.AcctNo).Msg("Reconciliation failed")
		return err
	}

	job.DelinquencyString = res.DelinquencyString
	log.Info().
		Str("acct_no", job.AcctNo).
		Str("pd_string", res.DelinquencyString).
		Str("rebate_total", res.RebateTotal.String()).
		Str("penalty_total", res.PenaltyTotal.String()).
		Msg("Account reconciled")
	return nil
}

func runHolidays() {
	fs := flag.NewFlagSet("holidays", flag.ExitOnError)
	year := fs.Int("year", time.Now().Year(), "Year to list")
	fs.Parse(os.Args[2:])

	cal := calendar.Philippines{}
	fmt.Printf("Non-working holidays for %d:\n", *year)
	for _, h := range cal.Holidays(*year) {
		fmt.Printf("  %s (%s)\n", h, dates.Weekday(h))
	}
}

func parseAsOf(log zerolog.Logger, v string) civil.Date {
	if v == "" {
		return civil.DateOf(time.Now())
	}
	d, err := dates.ParseDate(v, dates.LayoutProcessed)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid --as-of date")
	}
	return d
}

func readAccounts(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("readAccounts: %w", err)
	}
	defer f.Close()

	var accounts []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		accounts = append(accounts, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("readAccounts: %w", err)
	}
	return accounts, nil
}
