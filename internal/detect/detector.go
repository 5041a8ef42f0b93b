// Package detect implements the translocation detection core: baseline
// estimation, two-threshold segmentation, and candidate validation.
package detect

import "osbp-detect/internal/domain"

// ChannelDetector runs the full per-channel pipeline:
// baseline estimation -> segmentation -> validation.
// Channels share no state, so one detector is safe to reuse across
// sequential channels or to instantiate per worker.
type ChannelDetector struct {
	runID string
	cfg   domain.DetectionConfig
}

// NewChannelDetector creates a detector bound to a run and its thresholds.
func NewChannelDetector(runID string, cfg domain.DetectionConfig) *ChannelDetector {
	return &ChannelDetector{runID: runID, cfg: cfg}
}

// Detect processes one trace and returns the channel's Io and accepted
// events, ordered by start index. A baseline failure (invalid window or bad
// channel) is the only error path; segmentation and validation cannot fail.
func (d *ChannelDetector) Detect(trace *domain.Trace) (float64, []*domain.Event, error) {
	io, err := EstimateBaseline(trace, d.cfg)
	if err != nil {
		return 0, nil, err
	}

	segmenter := NewSegmenter(io, d.cfg)
	regions := segmenter.Segment(trace.Samples)

	validator := NewValidator(d.runID, d.cfg)
	var events []*domain.Event
	for _, region := range regions {
		if event := validator.Validate(region, trace, io); event != nil {
			events = append(events, event)
		}
	}

	return io, events, nil
}
