package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"osbp-detect/internal/observability"
)

// Result file names inside the run directory.
const (
	DetectionsFile = "detections.tsv"
	CleanedFile    = "detections.cleaned.tsv"
	SkippedFile    = "detections.skipped.tsv"
	SummaryFile    = "summary.md"
)

// Generator writes the result file set for a run into a timestamped
// directory under the configured base directory.
type Generator struct {
	baseDir string
	now     func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a generator writing under baseDir.
func NewGenerator(baseDir string) *Generator {
	return &Generator{
		baseDir: baseDir,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate renders the report and writes the four result files. It
// returns the run directory it created.
func (g *Generator) Generate(r *Report) (string, error) {
	runDir, err := g.createRunDir()
	if err != nil {
		return "", err
	}

	files := []struct {
		name    string
		content string
	}{
		{DetectionsFile, RenderDetections(r)},
		{CleanedFile, RenderCleaned(r)},
		{SkippedFile, RenderSkipped(r)},
		{SummaryFile, RenderMarkdown(r)},
	}
	for _, f := range files {
		path := filepath.Join(runDir, f.name)
		if err := os.WriteFile(path, []byte(f.content), 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", f.name, err)
		}
		observability.RecordReportGenerated()
	}

	return runDir, nil
}

// createRunDir makes a <dd-mm-yy_HH-MM-SS>_osbp_result directory, adding
// a numeric suffix when the stamp collides with an existing run.
func (g *Generator) createRunDir() (string, error) {
	stamp := g.now().Format("02-01-06_15-04-05")

	runDir := filepath.Join(g.baseDir, stamp+"_osbp_result")
	if _, err := os.Stat(runDir); err == nil {
		suffix := 1
		for {
			candidate := filepath.Join(g.baseDir, fmt.Sprintf("%s_osbp_result_%d", stamp, suffix))
			if _, err := os.Stat(candidate); os.IsNotExist(err) {
				runDir = candidate
				break
			}
			suffix++
		}
	}

	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", fmt.Errorf("create run directory: %w", err)
	}
	return runDir, nil
}
