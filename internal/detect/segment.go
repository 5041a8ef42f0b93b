package detect

import "osbp-detect/internal/domain"

// CandidateRegion is a contiguous sample range [Start, End) assessed as
// residual-current state relative to Io. Regions only live between
// segmentation and validation; accepted ones become domain.Events.
type CandidateRegion struct {
	Start int
	End   int
}

// segState is the segmenter state.
type segState int

const (
	stateOpen segState = iota // open-channel current, no region in progress
	stateInEvent              // inside a candidate region
)

// Segmenter walks a trace left to right and partitions it into open-channel
// and candidate-event regions using the two-threshold scheme: a lenient
// entry/exit ratio absorbs sample noise at event boundaries, while the
// strict ratio rejects shallow dips that never reach a convincingly low
// current level.
type Segmenter struct {
	io           float64
	minIrIo      float64
	strictIrIo   float64
	strictPolicy domain.StrictPolicy
	trimStart    int
}

// NewSegmenter creates a segmenter for one channel's trace.
// Io must be the channel's established open-channel current.
func NewSegmenter(io float64, cfg domain.DetectionConfig) *Segmenter {
	return &Segmenter{
		io:           io,
		minIrIo:      cfg.MinIrIo,
		strictIrIo:   cfg.StrictIrIo,
		strictPolicy: cfg.StrictPolicy,
		trimStart:    cfg.TrimStart,
	}
}

// inEvent reports whether a sample is below the lenient entry/exit threshold.
func (s *Segmenter) inEvent(sample float64) bool {
	return sample/s.io < s.minIrIo
}

// violatesStrict reports whether a sample breaks the strict acceptance bound.
func (s *Segmenter) violatesStrict(sample float64) bool {
	return sample/s.io > s.strictIrIo
}

// Segment produces the ordered, non-overlapping candidate regions of the
// trace. Segmentation never fails; a trace with no departures from the
// open-channel level yields zero regions. A region still open at the trace
// end is closed at the final sample index.
func (s *Segmenter) Segment(samples []float64) []CandidateRegion {
	var regions []CandidateRegion

	state := stateOpen
	start := 0
	violated := false

	begin := s.trimStart
	if begin > len(samples) {
		begin = len(samples)
	}

	for i := begin; i < len(samples); i++ {
		sample := samples[i]
		switch state {
		case stateOpen:
			if s.inEvent(sample) {
				state = stateInEvent
				start = i
				violated = s.violatesStrict(sample)
			}
		case stateInEvent:
			if !s.inEvent(sample) {
				if !violated {
					regions = append(regions, CandidateRegion{Start: start, End: i})
				}
				state = stateOpen
				continue
			}
			if s.violatesStrict(sample) {
				if s.strictPolicy == domain.StrictTruncate {
					// The violating sample closes the region; the prefix is
					// kept when it was strict-clean throughout.
					if !violated && i > start {
						regions = append(regions, CandidateRegion{Start: start, End: i})
					}
					state = stateOpen
					continue
				}
				violated = true
			}
		}
	}

	if state == stateInEvent && !violated {
		regions = append(regions, CandidateRegion{Start: start, End: len(samples)})
	}

	return regions
}
