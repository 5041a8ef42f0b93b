package domain

// ChannelStatus classifies a processed channel.
type ChannelStatus string

const (
	// ChannelClean means the channel produced an acceptable number of events.
	ChannelClean ChannelStatus = "CLEAN"
	// ChannelSkipped means the channel produced more events than
	// MaxEventsClean allows and its events are excluded from cleaned output.
	ChannelSkipped ChannelStatus = "SKIPPED"
	// ChannelFailed means the channel trace could not be read or no
	// plausible baseline could be established.
	ChannelFailed ChannelStatus = "FAILED"
)

// ChannelResult is the per-channel outcome of a detection run.
// Corresponds to the channel_results table in PostgreSQL.
type ChannelResult struct {
	RunID      string        // owning detection run
	ChannelID  int           // processed channel
	Io         float64       // estimated open-channel current (0 when failed)
	SampleRate float64       // trace sample rate in Hz (0 when failed)
	Events     []*Event      // accepted events, ordered by StartIndex ASC
	EventCount int           // len(Events), kept explicit for persistence
	Status     ChannelStatus // CLEAN | SKIPPED | FAILED
	Reason     string        // human-readable reason for SKIPPED/FAILED
}

// Clean reports whether the channel's events belong in the cleaned output.
func (r *ChannelResult) Clean() bool {
	return r.Status == ChannelClean
}
