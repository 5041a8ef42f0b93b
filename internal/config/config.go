// Package config loads process configuration for the detection tools by
// layering defaults, an optional YAML file, and OSBP_-prefixed environment
// variables.
package config

import (
	"osbp-detect/internal/domain"
)

// Config contains process configuration for the cmd binaries. Detection
// thresholds mirror domain.DetectionConfig; flags override on top.
type Config struct {
	// Detection thresholds
	MinIrIo        float64 `koanf:"min_irio"`
	StrictIrIo     float64 `koanf:"strict_irio"`
	StrictPolicy   string  `koanf:"strict_policy"`
	MinDuration    int     `koanf:"min_duration"`
	MaxDuration    int     `koanf:"max_duration"`
	MaxEventsClean int     `koanf:"max_events_clean"`
	TrimStart      int     `koanf:"trim_start"`

	// Baseline estimation
	BaselineLower int     `koanf:"baseline_lower"`
	BaselineUpper int     `koanf:"baseline_upper"`
	IoMin         float64 `koanf:"io_min"`
	IoMax         float64 `koanf:"io_max"`
	MinTraceMean  float64 `koanf:"min_trace_mean"`
	MinTraceStd   float64 `koanf:"min_trace_std"`

	// Execution
	Workers   int    `koanf:"workers"`
	OutputDir string `koanf:"output_dir"`
	Verbose   bool   `koanf:"verbose"`

	// Storage
	PostgresDSN   string `koanf:"postgres_dsn"`
	ClickhouseDSN string `koanf:"clickhouse_dsn"`

	// Observability
	MetricsAddr string `koanf:"metrics_addr"`
}

// New returns a Config holding the built-in defaults.
func New() *Config {
	d := domain.DefaultDetectionConfig()
	return &Config{
		MinIrIo:        d.MinIrIo,
		StrictIrIo:     d.StrictIrIo,
		StrictPolicy:   string(d.StrictPolicy),
		MinDuration:    d.Duration.Min,
		MaxDuration:    d.Duration.Max,
		MaxEventsClean: d.MaxEventsClean,
		TrimStart:      d.TrimStart,
		BaselineLower:  d.Baseline.Lower,
		BaselineUpper:  d.Baseline.Upper,
		IoMin:          d.Io.Min,
		IoMax:          d.Io.Max,
		MinTraceMean:   d.MinTraceMean,
		MinTraceStd:    d.MinTraceStd,
		Workers:        1,
		OutputDir:      ".",
	}
}

// Detection converts the loaded values into a domain threshold set.
func (c *Config) Detection() domain.DetectionConfig {
	return domain.DetectionConfig{
		Baseline:       domain.BaselineWindow{Lower: c.BaselineLower, Upper: c.BaselineUpper},
		Duration:       domain.DurationWindow{Min: c.MinDuration, Max: c.MaxDuration},
		MinIrIo:        c.MinIrIo,
		StrictIrIo:     c.StrictIrIo,
		StrictPolicy:   domain.StrictPolicy(c.StrictPolicy),
		MaxEventsClean: c.MaxEventsClean,
		TrimStart:      c.TrimStart,
		Io:             domain.IoWindow{Min: c.IoMin, Max: c.IoMax},
		MinTraceMean:   c.MinTraceMean,
		MinTraceStd:    c.MinTraceStd,
	}
}
