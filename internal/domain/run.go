package domain

import "time"

// DetectionRun records one full detection batch over an input file.
// Corresponds to the detection_runs table in PostgreSQL.
type DetectionRun struct {
	RunID           string // PRIMARY KEY, UUID
	Source          string // input file or trace store the run processed
	StartedAt       time.Time
	FinishedAt      time.Time
	ChannelsTotal   int // channels selected for the run
	ChannelsClean   int // channels classified CLEAN
	ChannelsSkipped int // channels classified SKIPPED
	ChannelsFailed  int // channels classified FAILED
	EventsTotal     int // accepted events across all channels
	MinIrIo         float64
	StrictIrIo      float64
	MinDuration     int
	MaxDuration     int
	MaxEventsClean  int
}
