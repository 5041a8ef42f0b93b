package reporting

import (
	"fmt"
	"strings"

	"osbp-detect/internal/domain"
)

// renderHeader writes the run header block shared by all three TSV files.
func renderHeader(sb *strings.Builder, r *Report) {
	const labelWidth = 12
	rule := strings.Repeat("-", 40)

	sb.WriteString(ToolName + "\n")
	sb.WriteString(rule + "\n")
	fmt.Fprintf(sb, "%-*s: %s\n", labelWidth, "Input", r.Run.Source)
	fmt.Fprintf(sb, "%-*s: %d - %d tps\n", labelWidth, "Duration", r.Run.MinDuration, r.Run.MaxDuration)
	fmt.Fprintf(sb, "%-*s: < %g\n", labelWidth, "Lowest Ir/Io", r.Run.MinIrIo)
	fmt.Fprintf(sb, "%-*s: < %g\n", labelWidth, "All Ir/Io", r.Run.StrictIrIo)
	sb.WriteString(rule + "\n\n")
}

// renderChannelSection writes one channel's banner line and event rows.
func renderChannelSection(sb *strings.Builder, ch *domain.ChannelResult) {
	fmt.Fprintf(sb, "# Channel %d, Sampling rate: %g Hz, Io: %g pA\n",
		ch.ChannelID, ch.SampleRate, ch.Io)
	sb.WriteString("seq\tstart\tend\tduration\tir\tratio\n")
	for i, e := range ch.Events {
		fmt.Fprintf(sb, "%d\t%d\t%d\t%d\t%.4f\t%.6f\n",
			i+1, e.StartIndex, e.EndIndex, e.DurationSamples, e.Ir, e.Ratio)
	}
	sb.WriteString("\n")
}

// RenderDetections renders every processed channel: clean and noisy
// channels with their events, failed channels as commented reasons.
func RenderDetections(r *Report) string {
	var sb strings.Builder
	renderHeader(&sb, r)

	for _, ch := range r.Channels {
		if ch.Status == domain.ChannelFailed {
			fmt.Fprintf(&sb, "# Channel %d, FAILED: %s\n\n", ch.ChannelID, ch.Reason)
			continue
		}
		renderChannelSection(&sb, ch)
	}
	return sb.String()
}

// RenderCleaned renders clean channels only.
func RenderCleaned(r *Report) string {
	var sb strings.Builder
	renderHeader(&sb, r)

	for _, ch := range r.Channels {
		if ch.Clean() {
			renderChannelSection(&sb, ch)
		}
	}
	return sb.String()
}

// RenderSkipped renders one summary row per noisy channel.
func RenderSkipped(r *Report) string {
	var sb strings.Builder
	renderHeader(&sb, r)

	sb.WriteString("channel\tio\tevent_count\treason\n")
	for _, ch := range r.Channels {
		if ch.Status == domain.ChannelSkipped {
			fmt.Fprintf(&sb, "%d\t%g\t%d\t%s\n", ch.ChannelID, ch.Io, ch.EventCount, ch.Reason)
		}
	}
	return sb.String()
}
