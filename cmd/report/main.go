// Command report regenerates the result file set for a persisted run.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"osbp-detect/internal/config"
	"osbp-detect/internal/reporting"
	"osbp-detect/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load(os.Getenv("OSBP_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	runID := flag.String("run-id", "", "Identifier of the run to report on")
	postgresDSN := flag.String("postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string")
	outputDir := flag.String("output-dir", cfg.OutputDir, "Base directory for the result run directory")
	list := flag.Bool("list", false, "List persisted runs instead of generating a report")
	flag.Parse()

	logger := log.New(os.Stdout, "[report] ", log.LstdFlags)

	if *postgresDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: -postgres-dsn is required")
		flag.Usage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := postgres.NewPool(ctx, *postgresDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to Postgres: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	runStore := postgres.NewRunStore(pool)

	if *list {
		runs, err := runStore.GetAll(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing runs: %v\n", err)
			os.Exit(1)
		}
		for _, run := range runs {
			fmt.Printf("%s\t%s\t%d channels\t%d events\n",
				run.RunID, run.Source, run.ChannelsTotal, run.EventsTotal)
		}
		return
	}

	if *runID == "" {
		fmt.Fprintln(os.Stderr, "Error: -run-id is required")
		flag.Usage()
		os.Exit(1)
	}

	report, err := reporting.LoadReport(ctx, *runID,
		runStore,
		postgres.NewChannelResultStore(pool),
		postgres.NewEventStore(pool),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading run %s: %v\n", *runID, err)
		os.Exit(1)
	}

	runDir, err := reporting.NewGenerator(*outputDir).Generate(report)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing results: %v\n", err)
		os.Exit(1)
	}

	logger.Printf("Report for run %s written", *runID)
	fmt.Printf("Output directory: %s\n", runDir)
}
