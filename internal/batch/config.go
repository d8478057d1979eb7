package batch

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/MeKo-Tech/eanscan/internal/metrics"
	"github.com/MeKo-Tech/eanscan/internal/pipeline"
)

// Config holds all configuration for batch processing.
type Config struct {
	Pipeline pipeline.Config

	// Parallel processing settings
	Workers int

	// File discovery settings
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Scoring: a manifest maps images to codes, Reference covers the rest.
	Reference    string
	ManifestPath string

	// Output settings
	OverlayDir string
	Format     string
	OutputFile string

	// Progress settings
	ShowProgress     bool
	Quiet            bool
	ProgressInterval time.Duration

	// Metrics defaults to metrics.Default when nil.
	Metrics *metrics.Recorder
}

// DefaultConfig returns a recursive text-report configuration.
func DefaultConfig() *Config {
	return &Config{
		Pipeline:         pipeline.DefaultConfig(),
		Recursive:        true,
		Format:           "text",
		ProgressInterval: 100 * time.Millisecond,
	}
}

// Item is the outcome for one image.
type Item struct {
	Path     string               `json:"path"`
	Group    string               `json:"group"`
	Result   *pipeline.ScanResult `json:"result,omitempty"`
	Error    string               `json:"error,omitempty"`
	Expected string               `json:"expected,omitempty"`
	Matches  int                  `json:"matches"`
	Score    float64              `json:"score"`
	Scored   bool                 `json:"scored"`
}

// Result holds the result of batch processing.
type Result struct {
	Items       []Item
	Groups      []GroupStats
	Summary     Summary
	Stats       pipeline.ParallelStats
	Duration    time.Duration
	WorkerCount int
}

// FormatResults formats the batch processing results in the specified format.
func (r *Result) FormatResults(format string) (string, error) {
	return formatBatchResults(r, format)
}

// SaveResults writes the formatted results to outputFile, or to w when no
// file is given.
func (r *Result) SaveResults(w io.Writer, format, outputFile string, quiet bool) error {
	output, err := r.FormatResults(format)
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}

	if outputFile == "" {
		_, err := fmt.Fprint(w, output)
		return err
	}
	if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if !quiet {
		_, _ = fmt.Fprintf(w, "Results written to %s\n", outputFile)
	}
	return nil
}
