package domain

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks invalid or conflicting run configuration.
// Configuration errors are fatal to the whole run and are reported before
// any channel is processed.
var ErrConfiguration = errors.New("configuration error")

// StrictPolicy selects how a strict-bound violation inside a candidate
// region is handled during segmentation.
type StrictPolicy string

const (
	// StrictRejectWhole scans the region to its lenient exit and then
	// discards it entirely if any sample violated the strict bound.
	StrictRejectWhole StrictPolicy = "REJECT_WHOLE"
	// StrictTruncate closes the region at the first violating sample and
	// emits the prefix as a candidate.
	StrictTruncate StrictPolicy = "TRUNCATE"
)

// BaselineWindow is the sample-index range used to estimate Io.
type BaselineWindow struct {
	Lower int // inclusive
	Upper int // exclusive
}

// DurationWindow bounds accepted event durations, in samples, both inclusive.
type DurationWindow struct {
	Min int
	Max int
}

// IoWindow bounds the plausible open-channel current, in pA, both inclusive.
// A channel whose estimated Io falls outside is failed as a bad channel.
type IoWindow struct {
	Min float64
	Max float64
}

// Default thresholds, matching the tuned values for short single-molecule
// translocations on bulk acquisitions.
const (
	DefaultMinIrIo       = 0.30
	DefaultStrictIrIo    = 0.60
	DefaultMinDuration   = 4
	DefaultMaxDuration   = 1000
	DefaultMaxEventsClean = 200
	DefaultBaselineLower = 0
	DefaultBaselineUpper = 50_000
	DefaultIoMin         = 150.0
	DefaultIoMax         = 300.0
	DefaultMinTraceMean  = 50.0
	DefaultMinTraceStd   = 10.0
)

// DetectionConfig is the full threshold set consumed by the detection core.
// It is passed explicitly into the aggregator; nothing in segmentation
// consults process-wide defaults.
type DetectionConfig struct {
	Baseline      BaselineWindow
	Duration      DurationWindow
	MinIrIo       float64      // lenient entry/exit ratio threshold
	StrictIrIo    float64      // strict acceptance ratio threshold
	StrictPolicy  StrictPolicy // strict-violation handling during segmentation
	MaxEventsClean int         // per-channel event count above which the channel is skipped
	TrimStart     int          // samples at the trace head ignored by segmentation (warm-up)

	// Channel quality gates. Zero values disable the corresponding gate.
	Io           IoWindow // plausible open-channel current range
	MinTraceMean float64  // minimum whole-trace mean for a usable channel
	MinTraceStd  float64  // minimum whole-trace stddev for a usable channel
}

// DefaultDetectionConfig returns the reference threshold set.
func DefaultDetectionConfig() DetectionConfig {
	return DetectionConfig{
		Baseline:       BaselineWindow{Lower: DefaultBaselineLower, Upper: DefaultBaselineUpper},
		Duration:       DurationWindow{Min: DefaultMinDuration, Max: DefaultMaxDuration},
		MinIrIo:        DefaultMinIrIo,
		StrictIrIo:     DefaultStrictIrIo,
		StrictPolicy:   StrictRejectWhole,
		MaxEventsClean: DefaultMaxEventsClean,
		Io:             IoWindow{Min: DefaultIoMin, Max: DefaultIoMax},
		MinTraceMean:   DefaultMinTraceMean,
		MinTraceStd:    DefaultMinTraceStd,
	}
}

// Validate checks the threshold set for internal consistency.
// All violations are configuration errors, fatal to the run.
func (c DetectionConfig) Validate() error {
	if c.Baseline.Lower < 0 || c.Baseline.Lower >= c.Baseline.Upper {
		return fmt.Errorf("%w: baseline window [%d, %d) must satisfy 0 <= lower < upper",
			ErrConfiguration, c.Baseline.Lower, c.Baseline.Upper)
	}
	if c.Duration.Min < 0 || c.Duration.Min > c.Duration.Max {
		return fmt.Errorf("%w: duration window [%d, %d] must satisfy 0 <= min <= max",
			ErrConfiguration, c.Duration.Min, c.Duration.Max)
	}
	if c.MinIrIo <= 0 || c.MinIrIo >= 1 {
		return fmt.Errorf("%w: min_irio %g must lie in (0, 1)", ErrConfiguration, c.MinIrIo)
	}
	if c.StrictIrIo <= 0 || c.StrictIrIo >= 1 {
		return fmt.Errorf("%w: strict_irio %g must lie in (0, 1)", ErrConfiguration, c.StrictIrIo)
	}
	switch c.StrictPolicy {
	case StrictRejectWhole, StrictTruncate:
	default:
		return fmt.Errorf("%w: unknown strict policy %q", ErrConfiguration, c.StrictPolicy)
	}
	if c.MaxEventsClean < 0 {
		return fmt.Errorf("%w: max_events_clean %d must be >= 0", ErrConfiguration, c.MaxEventsClean)
	}
	if c.TrimStart < 0 {
		return fmt.Errorf("%w: trim_start %d must be >= 0", ErrConfiguration, c.TrimStart)
	}
	if c.Io.Min > c.Io.Max {
		return fmt.Errorf("%w: io window [%g, %g] must satisfy min <= max",
			ErrConfiguration, c.Io.Min, c.Io.Max)
	}
	return nil
}
