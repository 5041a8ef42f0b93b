// Package scan runs event detection across the channels of an acquisition.
// It resolves the channel selection, fans detection out over a bounded
// worker pool, classifies each channel, and assembles the run record.
package scan

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"osbp-detect/internal/detect"
	"osbp-detect/internal/domain"
	"osbp-detect/internal/observability"
	"osbp-detect/internal/tracesource"
)

// Options for creating an Aggregator.
type Options struct {
	// Required
	Source tracesource.Source
	Config domain.DetectionConfig
	RunID  string

	// Selection of channels to process. When neither a range nor an
	// explicit list is set, every channel the source offers is used.
	Selection domain.ChannelSelection

	// SourceName labels the run record with the acquisition it came from.
	SourceName string

	// Workers bounds detection concurrency. Values below 2 run channels
	// sequentially.
	Workers int

	Verbose bool

	// Clock overrides time.Now for deterministic run records in tests.
	Clock func() time.Time
}

// Aggregator coordinates per-channel detection for one run.
type Aggregator struct {
	source     tracesource.Source
	cfg        domain.DetectionConfig
	runID      string
	selection  domain.ChannelSelection
	sourceName string
	workers    int
	verbose    bool
	clock      func() time.Time
}

// New creates a new Aggregator.
func New(opts Options) *Aggregator {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Aggregator{
		source:     opts.Source,
		cfg:        opts.Config,
		runID:      opts.RunID,
		selection:  opts.Selection,
		sourceName: opts.SourceName,
		workers:    workers,
		verbose:    opts.Verbose,
		clock:      clock,
	}
}

// Result contains everything a finished run produced.
type Result struct {
	Run      *domain.DetectionRun
	Channels []*domain.ChannelResult // ordered by channel id
}

// Events returns the accepted events of every processed channel, ordered
// by (channel id, start index).
func (r *Result) Events() []*domain.Event {
	var events []*domain.Event
	for _, ch := range r.Channels {
		events = append(events, ch.Events...)
	}
	return events
}

// CleanEvents returns the events of clean channels only, in the same order.
func (r *Result) CleanEvents() []*domain.Event {
	var events []*domain.Event
	for _, ch := range r.Channels {
		if ch.Clean() {
			events = append(events, ch.Events...)
		}
	}
	return events
}

// SkippedChannels returns the channels classified as noisy.
func (r *Result) SkippedChannels() []*domain.ChannelResult {
	var skipped []*domain.ChannelResult
	for _, ch := range r.Channels {
		if ch.Status == domain.ChannelSkipped {
			skipped = append(skipped, ch)
		}
	}
	return skipped
}

// Run executes detection over the resolved channel set. A failure on one
// channel is recorded on its result and does not stop the others; only
// selection errors and context cancellation abort the run.
func (a *Aggregator) Run(ctx context.Context) (*Result, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}

	channels, err := a.resolveChannels(ctx)
	if err != nil {
		return nil, err
	}
	a.log("Processing %d channels with %d workers", len(channels), a.workers)

	startedAt := a.clock()

	results := make([]*domain.ChannelResult, len(channels))
	if a.workers < 2 {
		for i, id := range channels {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = a.processChannel(ctx, id)
		}
	} else {
		if err := a.processParallel(ctx, channels, results); err != nil {
			return nil, err
		}
	}

	finishedAt := a.clock()

	run := &domain.DetectionRun{
		RunID:          a.runID,
		Source:         a.sourceName,
		StartedAt:      startedAt,
		FinishedAt:     finishedAt,
		ChannelsTotal:  len(results),
		MinIrIo:        a.cfg.MinIrIo,
		StrictIrIo:     a.cfg.StrictIrIo,
		MinDuration:    a.cfg.Duration.Min,
		MaxDuration:    a.cfg.Duration.Max,
		MaxEventsClean: a.cfg.MaxEventsClean,
	}
	for _, ch := range results {
		switch ch.Status {
		case domain.ChannelClean:
			run.ChannelsClean++
		case domain.ChannelSkipped:
			run.ChannelsSkipped++
		case domain.ChannelFailed:
			run.ChannelsFailed++
		}
		run.EventsTotal += len(ch.Events)
	}

	observability.RecordRun("completed", finishedAt.Sub(startedAt).Seconds())
	a.log("Run %s finished: %d clean, %d skipped, %d failed, %d events",
		run.RunID, run.ChannelsClean, run.ChannelsSkipped, run.ChannelsFailed, run.EventsTotal)

	return &Result{Run: run, Channels: results}, nil
}

// resolveChannels expands the selection, defaulting to every channel the
// source offers when no range or list was given.
func (a *Aggregator) resolveChannels(ctx context.Context) ([]int, error) {
	sel := a.selection
	if sel.Range == nil && len(sel.List) == 0 {
		ids, err := a.source.Channels(ctx)
		if err != nil {
			return nil, fmt.Errorf("list source channels: %w", err)
		}
		sel.List = ids
	}
	return sel.Resolve()
}

func (a *Aggregator) processParallel(ctx context.Context, channels []int, results []*domain.ChannelResult) error {
	type job struct {
		idx int
		id  int
	}
	jobs := make(chan job)

	var wg sync.WaitGroup
	for w := 0; w < a.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.idx] = a.processChannel(ctx, j.id)
			}
		}()
	}

	var cancelErr error
feed:
	for i, id := range channels {
		select {
		case <-ctx.Done():
			cancelErr = ctx.Err()
			break feed
		case jobs <- job{idx: i, id: id}:
		}
	}
	close(jobs)
	wg.Wait()

	return cancelErr
}

// processChannel runs detection on one channel and classifies the outcome.
// Every path produces a ChannelResult; errors become FAILED results.
func (a *Aggregator) processChannel(ctx context.Context, channelID int) *domain.ChannelResult {
	start := time.Now()

	result := &domain.ChannelResult{
		RunID:     a.runID,
		ChannelID: channelID,
	}

	trace, err := a.source.GetTrace(ctx, channelID)
	if err != nil {
		observability.RecordTraceReadError()
		result.Status = domain.ChannelFailed
		result.Reason = fmt.Sprintf("read trace: %v", err)
		a.finishChannel(result, start)
		return result
	}
	result.SampleRate = trace.SampleRate

	detector := detect.NewChannelDetector(a.runID, a.cfg)
	io, events, err := detector.Detect(trace)
	observability.RecordSamplesProcessed(trace.Len())
	if err != nil {
		result.Status = domain.ChannelFailed
		result.Reason = err.Error()
		a.finishChannel(result, start)
		return result
	}

	sort.Slice(events, func(i, j int) bool { return events[i].StartIndex < events[j].StartIndex })

	result.Io = io
	result.Events = events
	result.EventCount = len(events)
	if a.cfg.MaxEventsClean > 0 && len(events) > a.cfg.MaxEventsClean {
		result.Status = domain.ChannelSkipped
		result.Reason = fmt.Sprintf("%d events exceed the clean limit of %d", len(events), a.cfg.MaxEventsClean)
	} else {
		result.Status = domain.ChannelClean
	}

	observability.RecordEventsDetected(len(events))
	a.finishChannel(result, start)
	return result
}

func (a *Aggregator) finishChannel(result *domain.ChannelResult, start time.Time) {
	observability.RecordChannelProcessed(string(result.Status), time.Since(start).Seconds())
	a.log("  channel %d: %s (%d events) %s",
		result.ChannelID, result.Status, len(result.Events), result.Reason)
}

func (a *Aggregator) log(format string, args ...interface{}) {
	if a.verbose {
		log.Printf("[scan] "+format, args...)
	}
}
