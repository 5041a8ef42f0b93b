package detect

import (
	"testing"

	"osbp-detect/internal/domain"
)

func validatorTrace(dipStart, dipEnd int, dipValue float64) *domain.Trace {
	return &domain.Trace{
		ChannelID:  7,
		SampleRate: 1000,
		Samples:    dipTrace(100, 100, [3]float64{float64(dipStart), float64(dipEnd), dipValue}),
	}
}

func TestValidate_AcceptedEvent(t *testing.T) {
	trace := validatorTrace(20, 30, 40)
	cfg := gatelessConfig()
	cfg.Duration = domain.DurationWindow{Min: 4, Max: 1200}
	cfg.StrictIrIo = 0.6

	v := NewValidator("run-1", cfg)
	event := v.Validate(CandidateRegion{Start: 20, End: 30}, trace, 100)
	if event == nil {
		t.Fatal("expected region to be accepted")
	}

	if event.ChannelID != 7 {
		t.Errorf("expected channel 7, got %d", event.ChannelID)
	}
	if event.StartIndex != 20 || event.EndIndex != 30 {
		t.Errorf("expected [20, 30), got [%d, %d)", event.StartIndex, event.EndIndex)
	}
	if event.DurationSamples != 10 {
		t.Errorf("expected duration 10 samples, got %d", event.DurationSamples)
	}
	if event.DurationSec != 0.01 {
		t.Errorf("expected duration 0.01 s at 1 kHz, got %g", event.DurationSec)
	}
	if event.Ir != 40 {
		t.Errorf("expected Ir 40 (median of in-region samples), got %g", event.Ir)
	}
	if event.Io != 100 {
		t.Errorf("expected Io 100, got %g", event.Io)
	}
	if event.Ratio != 0.4 {
		t.Errorf("expected ratio 0.4, got %g", event.Ratio)
	}
	if event.EventID == "" {
		t.Error("expected a non-empty event id")
	}
}

func TestValidate_DurationBoundsInclusive(t *testing.T) {
	cfg := gatelessConfig()
	cfg.Duration = domain.DurationWindow{Min: 5, Max: 10}
	cfg.StrictIrIo = 0.6
	v := NewValidator("run-1", cfg)

	cases := []struct {
		name     string
		end      int
		accepted bool
	}{
		{"below min", 24, false}, // duration 4
		{"at min", 25, true},     // duration 5
		{"at max", 30, true},     // duration 10
		{"above max", 31, false}, // duration 11
	}
	for _, tc := range cases {
		trace := validatorTrace(20, tc.end, 40)
		event := v.Validate(CandidateRegion{Start: 20, End: tc.end}, trace, 100)
		if got := event != nil; got != tc.accepted {
			t.Errorf("%s: accepted=%v, want %v", tc.name, got, tc.accepted)
		}
	}
}

func TestValidate_StrictBoundReverified(t *testing.T) {
	// Validation re-checks the strict bound so it stays self-contained for
	// regions produced by alternate segmentation strategies.
	trace := validatorTrace(20, 30, 40)
	trace.Samples[25] = 70 // ratio 0.7 > strict 0.6

	cfg := gatelessConfig()
	cfg.Duration = domain.DurationWindow{Min: 4, Max: 1200}
	cfg.StrictIrIo = 0.6

	v := NewValidator("run-1", cfg)
	if event := v.Validate(CandidateRegion{Start: 20, End: 30}, trace, 100); event != nil {
		t.Error("expected strict-violating region to be rejected")
	}
}

func TestValidate_RejectionIsSilent(t *testing.T) {
	// Rejection returns nil with no error path at all: the validator's
	// signature has no error to surface.
	trace := validatorTrace(20, 22, 40)
	cfg := gatelessConfig()
	cfg.Duration = domain.DurationWindow{Min: 4, Max: 1200}

	v := NewValidator("run-1", cfg)
	if event := v.Validate(CandidateRegion{Start: 20, End: 22}, trace, 100); event != nil {
		t.Error("expected too-short region to be dropped")
	}
}
