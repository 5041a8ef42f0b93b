package detect

import (
	"errors"
	"fmt"

	"osbp-detect/internal/domain"
)

// Per-channel baseline failures. Both isolate the channel as FAILED
// without aborting the batch.
var (
	// ErrInvalidWindow is returned when the baseline window lies outside
	// the trace bounds or is inverted.
	ErrInvalidWindow = errors.New("baseline window outside trace bounds")

	// ErrBadChannel is returned when the trace fails the channel quality
	// gates or the estimated Io is implausible for an open pore.
	ErrBadChannel = errors.New("bad channel")
)

// EstimateBaseline computes the open-channel current Io for a trace as the
// median of the samples in the configured window. The median (not the mean)
// keeps the estimate robust to the occasional true event overlapping the
// baseline window.
//
// Quality gates from cfg are applied first: a trace whose overall mean or
// spread is below the configured minimums carries no usable pore signal, and
// an Io outside the plausible open-pore window marks the channel bad.
func EstimateBaseline(trace *domain.Trace, cfg domain.DetectionConfig) (float64, error) {
	w := cfg.Baseline
	if w.Lower < 0 || w.Lower >= w.Upper || w.Upper > trace.Len() {
		return 0, fmt.Errorf("%w: [%d, %d) on trace of %d samples",
			ErrInvalidWindow, w.Lower, w.Upper, trace.Len())
	}

	if cfg.MinTraceMean > 0 {
		if m := mean(trace.Samples); m <= cfg.MinTraceMean {
			return 0, fmt.Errorf("%w: trace mean %.2f pA below minimum %.2f pA",
				ErrBadChannel, m, cfg.MinTraceMean)
		}
	}
	if cfg.MinTraceStd > 0 {
		if sd := stddev(trace.Samples); sd <= cfg.MinTraceStd {
			return 0, fmt.Errorf("%w: trace stddev %.2f pA below minimum %.2f pA",
				ErrBadChannel, sd, cfg.MinTraceStd)
		}
	}

	io := median(trace.Samples[w.Lower:w.Upper])

	if cfg.Io.Min < cfg.Io.Max {
		if io < cfg.Io.Min || io > cfg.Io.Max {
			return 0, fmt.Errorf("%w: Io %.2f pA outside plausible range [%.2f, %.2f]",
				ErrBadChannel, io, cfg.Io.Min, cfg.Io.Max)
		}
	}

	return io, nil
}
