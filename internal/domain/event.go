package domain

// Event is an accepted translocation event for one channel.
// Corresponds to the events table in PostgreSQL.
type Event struct {
	EventID         string  // PRIMARY KEY, deterministic hash
	RunID           string  // owning detection run
	ChannelID       int     // channel the event was detected on
	StartIndex      int64   // first in-event sample index (inclusive)
	EndIndex        int64   // one past the last in-event sample index
	StartSec        float64 // StartIndex / sample rate
	EndSec          float64 // EndIndex / sample rate
	DurationSamples int64   // EndIndex - StartIndex
	DurationSec     float64 // DurationSamples / sample rate
	Ir              float64 // residual current, median of in-event samples (pA)
	Io              float64 // open-channel current for the channel (pA)
	Ratio           float64 // Ir / Io
}
