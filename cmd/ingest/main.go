// Command ingest loads the calibrated traces of a bulk acquisition file
// into ClickHouse so later runs can read them through a trace store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"osbp-detect/internal/config"
	"osbp-detect/internal/observability"
	"osbp-detect/internal/storage"
	"osbp-detect/internal/storage/clickhouse"
	"osbp-detect/internal/storage/migrations"
	"osbp-detect/internal/tracesource"
)

func main() {
	cfg, err := config.Load(os.Getenv("OSBP_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	input := flag.String("input", "", "Path to the input bulk acquisition file")
	sourceName := flag.String("source", "", "Source label for the stored traces (default: input file name)")
	clickhouseDSN := flag.String("clickhouse-dsn", cfg.ClickhouseDSN, "ClickHouse connection string")
	metricsAddr := flag.String("metrics-addr", cfg.MetricsAddr, "Prometheus metrics HTTP address (empty to disable)")
	verbose := flag.Bool("verbose", cfg.Verbose, "Per-channel logging")
	flag.Parse()

	logger := log.New(os.Stdout, "[ingest] ", log.LstdFlags)

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Error: -input is required")
		flag.Usage()
		os.Exit(1)
	}
	if *clickhouseDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: -clickhouse-dsn is required")
		flag.Usage()
		os.Exit(1)
	}
	if *sourceName == "" {
		*sourceName = filepath.Base(*input)
	}

	if *metricsAddr != "" {
		go serveMetrics(logger, *metricsAddr)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	source, err := tracesource.OpenBulkFile(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening input: %v\n", err)
		os.Exit(1)
	}
	defer source.Close()

	conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running migrations: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	store := clickhouse.NewTraceStore(conn)

	channels, err := source.Channels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing channels: %v\n", err)
		os.Exit(1)
	}
	logger.Printf("Ingesting %d channels from %s as %q", len(channels), *input, *sourceName)

	var ingested, skipped int
	for _, channelID := range channels {
		if err := ctx.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		trace, err := source.GetTrace(ctx, channelID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading channel %d: %v\n", channelID, err)
			os.Exit(1)
		}

		if err := store.InsertTrace(ctx, *sourceName, trace); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				logger.Printf("Channel %d already ingested, skipping", channelID)
				skipped++
				continue
			}
			fmt.Fprintf(os.Stderr, "Error storing channel %d: %v\n", channelID, err)
			os.Exit(1)
		}

		observability.RecordIngest(len(trace.Samples))
		ingested++
		if *verbose {
			logger.Printf("Channel %d: %d samples at %g Hz", channelID, len(trace.Samples), trace.SampleRate)
		}
	}

	logger.Printf("Ingest complete: %d channels stored, %d already present", ingested, skipped)
}

func serveMetrics(logger *log.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	logger.Printf("Starting metrics server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		logger.Printf("Metrics server error: %v", err)
	}
}
