// Command detect runs translocation event detection over the channels of a
// bulk acquisition and writes the result file set.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"osbp-detect/internal/config"
	"osbp-detect/internal/domain"
	"osbp-detect/internal/observability"
	"osbp-detect/internal/reporting"
	"osbp-detect/internal/scan"
	"osbp-detect/internal/storage/clickhouse"
	"osbp-detect/internal/storage/migrations"
	pgstore "osbp-detect/internal/storage/postgres"
	"osbp-detect/internal/tracesource"
)

func main() {
	// Defaults come from the layered config (built-ins, then OSBP_CONFIG
	// YAML, then OSBP_ env vars); flags override everything.
	cfg, err := config.Load(os.Getenv("OSBP_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	input := flag.String("input", "", "Path to the input bulk acquisition file")
	sourceName := flag.String("source", "", "Ingested source name to read from ClickHouse instead of a file")
	clickhouseDSN := flag.String("clickhouse-dsn", cfg.ClickhouseDSN, "ClickHouse connection string (used with -source)")
	channelRange := flag.String("range", "", "Channel range to analyse, start-end (end exclusive)")
	channelList := flag.String("channels", "", "Specific channels, comma-separated (e.g. 1,4,8)")
	blacklist := flag.String("blacklist", "", "Channels to skip, comma-separated (applied after range/selection)")
	minDuration := flag.Int("min-duration", cfg.MinDuration, "Minimum event duration in samples")
	maxDuration := flag.Int("max-duration", cfg.MaxDuration, "Maximum event duration in samples")
	minIrIo := flag.Float64("min-irio", cfg.MinIrIo, "Lenient Ir/Io entry threshold")
	strictIrIo := flag.Float64("strict-irio", cfg.StrictIrIo, "Strict Ir/Io threshold applied to all event samples")
	strictPolicy := flag.String("strict-policy", cfg.StrictPolicy, "Strict violation handling: REJECT_WHOLE or TRUNCATE")
	maxEvents := flag.Int("max-events", cfg.MaxEventsClean, "Event count above which a channel is skipped as noisy")
	trimStart := flag.Int("trim-start", cfg.TrimStart, "Samples ignored at the trace head")
	workers := flag.Int("workers", cfg.Workers, "Detection worker count")
	outputDir := flag.String("output-dir", cfg.OutputDir, "Base directory for the result run directory")
	postgresDSN := flag.String("postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string for run persistence (empty to disable)")
	metricsAddr := flag.String("metrics-addr", cfg.MetricsAddr, "Prometheus metrics HTTP address (empty to disable)")
	verbose := flag.Bool("verbose", cfg.Verbose, "Verbose per-channel logging")
	flag.Parse()

	logger := log.New(os.Stdout, "[detect] ", log.LstdFlags)

	if (*input == "") == (*sourceName == "") {
		fmt.Fprintln(os.Stderr, "Error: exactly one of -input or -source is required")
		flag.Usage()
		os.Exit(1)
	}
	if *sourceName != "" && *clickhouseDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: -source requires -clickhouse-dsn")
		flag.Usage()
		os.Exit(1)
	}

	selection, err := buildSelection(*channelRange, *channelList, *blacklist)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	detection := cfg.Detection()
	detection.Duration = domain.DurationWindow{Min: *minDuration, Max: *maxDuration}
	detection.MinIrIo = *minIrIo
	detection.StrictIrIo = *strictIrIo
	detection.StrictPolicy = domain.StrictPolicy(*strictPolicy)
	detection.MaxEventsClean = *maxEvents
	detection.TrimStart = *trimStart
	if err := detection.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *metricsAddr != "" {
		go serveMetrics(logger, *metricsAddr)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	source, label, err := openSource(ctx, *input, *sourceName, *clickhouseDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening input: %v\n", err)
		os.Exit(1)
	}
	defer source.Close()

	runID := uuid.NewString()
	logger.Printf("Run %s on %s", runID, label)

	aggregator := scan.New(scan.Options{
		Source:     source,
		Config:     detection,
		RunID:      runID,
		Selection:  selection,
		SourceName: label,
		Workers:    *workers,
		Verbose:    *verbose,
	})

	result, err := aggregator.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running detection: %v\n", err)
		os.Exit(1)
	}

	report := reporting.NewReport(result.Run, result.Channels, result.Run.FinishedAt)
	runDir, err := reporting.NewGenerator(*outputDir).Generate(report)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing results: %v\n", err)
		os.Exit(1)
	}

	if *postgresDSN != "" {
		if err := persistRun(ctx, *postgresDSN, result); err != nil {
			fmt.Fprintf(os.Stderr, "Error persisting run: %v\n", err)
			os.Exit(1)
		}
		logger.Printf("Run %s persisted to Postgres", runID)
	}

	logger.Printf("Processed %d channels: %d clean, %d skipped, %d failed, %d events",
		result.Run.ChannelsTotal, result.Run.ChannelsClean,
		result.Run.ChannelsSkipped, result.Run.ChannelsFailed, result.Run.EventsTotal)
	fmt.Printf("Acquisition processed successfully.\nOutput directory: %s\n", runDir)
}

// openSource opens the trace source named by the flags: a bulk acquisition
// file, or an ingested source read back from ClickHouse.
func openSource(ctx context.Context, input, sourceName, dsn string) (tracesource.Source, string, error) {
	if input != "" {
		source, err := tracesource.OpenBulkFile(input)
		if err != nil {
			return nil, "", err
		}
		return source, filepath.Base(input), nil
	}

	conn, err := clickhouse.NewConn(ctx, dsn)
	if err != nil {
		return nil, "", err
	}
	store := tracesource.NewStoreSource(clickhouse.NewTraceStore(conn), sourceName)
	return &connClosingSource{Source: store, conn: conn}, sourceName, nil
}

// connClosingSource ties the ClickHouse connection's lifetime to the source.
type connClosingSource struct {
	tracesource.Source
	conn *clickhouse.Conn
}

func (s *connClosingSource) Close() error {
	if err := s.Source.Close(); err != nil {
		return err
	}
	return s.conn.Close()
}

// buildSelection parses the -range/-channels/-blacklist flags. Leaving both
// range and list empty selects every channel in the input.
func buildSelection(rangeArg, listArg, blacklistArg string) (domain.ChannelSelection, error) {
	var sel domain.ChannelSelection

	if rangeArg != "" {
		r, err := parseChannelRange(rangeArg)
		if err != nil {
			return sel, err
		}
		sel.Range = r
	}
	if listArg != "" {
		list, err := parseChannelList(listArg)
		if err != nil {
			return sel, fmt.Errorf("invalid -channels: %w", err)
		}
		sel.List = list
	}
	if blacklistArg != "" {
		list, err := parseChannelList(blacklistArg)
		if err != nil {
			return sel, fmt.Errorf("invalid -blacklist: %w", err)
		}
		sel.Blacklist = list
	}
	return sel, nil
}

// parseChannelRange turns a start-end string into a half-open range.
func parseChannelRange(raw string) (*domain.ChannelRange, error) {
	start, end, ok := strings.Cut(raw, "-")
	if !ok {
		return nil, fmt.Errorf("invalid -range %q (expected start-end)", raw)
	}
	s, err1 := strconv.Atoi(strings.TrimSpace(start))
	e, err2 := strconv.Atoi(strings.TrimSpace(end))
	if err1 != nil || err2 != nil {
		return nil, fmt.Errorf("invalid -range %q (expected start-end)", raw)
	}
	return &domain.ChannelRange{Start: s, End: e}, nil
}

// parseChannelList parses comma-separated integers.
func parseChannelList(raw string) ([]int, error) {
	var out []int
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		id, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", token)
		}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no channel ids in %q", raw)
	}
	sort.Ints(out)
	return out, nil
}

// persistRun writes the run record, channel results, and events to Postgres.
func persistRun(ctx context.Context, dsn string, result *scan.Result) error {
	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if err := pgstore.NewRunStore(pool).Insert(ctx, result.Run); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	resultStore := pgstore.NewChannelResultStore(pool)
	for _, ch := range result.Channels {
		if err := resultStore.Insert(ctx, ch); err != nil {
			return fmt.Errorf("insert channel %d result: %w", ch.ChannelID, err)
		}
	}

	if events := result.Events(); len(events) > 0 {
		if err := pgstore.NewEventStore(pool).InsertBulk(ctx, events); err != nil {
			return fmt.Errorf("insert events: %w", err)
		}
	}
	return nil
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
