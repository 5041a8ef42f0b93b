package reporting

import (
	"fmt"
	"strings"

	"osbp-detect/internal/domain"
)

// RenderMarkdown renders the run summary as a markdown document.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Detection Run Summary\n\n")
	fmt.Fprintf(&sb, "Generated: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))

	sb.WriteString("## Run\n\n")
	fmt.Fprintf(&sb, "- Run ID: `%s`\n", r.Run.RunID)
	fmt.Fprintf(&sb, "- Input: `%s`\n", r.Run.Source)
	fmt.Fprintf(&sb, "- Started: %s\n", r.Run.StartedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&sb, "- Finished: %s\n", r.Run.FinishedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&sb, "- Duration window: %d - %d samples\n", r.Run.MinDuration, r.Run.MaxDuration)
	fmt.Fprintf(&sb, "- Ir/Io thresholds: entry < %g, all samples < %g\n\n", r.Run.MinIrIo, r.Run.StrictIrIo)

	sb.WriteString("## Channels\n\n")
	fmt.Fprintf(&sb, "- Total: %d\n", r.Run.ChannelsTotal)
	fmt.Fprintf(&sb, "- Clean: %d\n", r.Run.ChannelsClean)
	fmt.Fprintf(&sb, "- Skipped (noisy): %d\n", r.Run.ChannelsSkipped)
	fmt.Fprintf(&sb, "- Failed: %d\n", r.Run.ChannelsFailed)
	fmt.Fprintf(&sb, "- Events detected: %d\n\n", r.Run.EventsTotal)

	sb.WriteString("## Per-Channel Results\n\n")
	sb.WriteString("| Channel | Status | Io (pA) | Events | Reason |\n")
	sb.WriteString("|---------|--------|---------|--------|--------|\n")
	for _, ch := range r.Channels {
		io := fmt.Sprintf("%.2f", ch.Io)
		if ch.Status == domain.ChannelFailed {
			io = "-"
		}
		fmt.Fprintf(&sb, "| %d | %s | %s | %d | %s |\n",
			ch.ChannelID, ch.Status, io, ch.EventCount, ch.Reason)
	}

	return sb.String()
}
