package detect

import (
	"osbp-detect/internal/domain"
	"osbp-detect/internal/idhash"
)

// Validator applies the duration window and the strict Ir/Io bound to
// candidate regions and materializes accepted ones as Events.
// Rejection is a silent, expected filtering outcome: too-short regions are
// transient noise spikes, too-long ones channel-blockage artifacts.
type Validator struct {
	runID string
	cfg   domain.DetectionConfig
}

// NewValidator creates a validator for one detection run.
func NewValidator(runID string, cfg domain.DetectionConfig) *Validator {
	return &Validator{runID: runID, cfg: cfg}
}

// Validate checks a candidate region against the configured bounds and
// returns the resulting Event, or nil when the region is rejected.
// The strict bound is re-verified here so validation stays self-contained
// for regions constructed by alternate segmentation strategies.
func (v *Validator) Validate(region CandidateRegion, trace *domain.Trace, io float64) *domain.Event {
	duration := region.End - region.Start
	if duration < v.cfg.Duration.Min || duration > v.cfg.Duration.Max {
		return nil
	}

	inRegion := trace.Samples[region.Start:region.End]
	for _, sample := range inRegion {
		if sample/io > v.cfg.StrictIrIo {
			return nil
		}
	}

	ir := median(inRegion)

	return &domain.Event{
		EventID:         idhash.ComputeEventID(v.runID, trace.ChannelID, int64(region.Start), int64(region.End)),
		RunID:           v.runID,
		ChannelID:       trace.ChannelID,
		StartIndex:      int64(region.Start),
		EndIndex:        int64(region.End),
		StartSec:        trace.Seconds(region.Start),
		EndSec:          trace.Seconds(region.End),
		DurationSamples: int64(duration),
		DurationSec:     trace.Seconds(duration),
		Ir:              ir,
		Io:              io,
		Ratio:           ir / io,
	}
}
