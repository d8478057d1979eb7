// Package pipeline turns images into EAN-13 scan results: binarization,
// scan-line decoding, optional mirrored retry, metrics and parallel batches.
package pipeline

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/MeKo-Tech/eanscan/internal/binarize"
	"github.com/MeKo-Tech/eanscan/internal/ean13"
	"github.com/MeKo-Tech/eanscan/internal/metrics"
)

// Config holds configuration for the scan pipeline and its components.
type Config struct {
	Binarize binarize.Config
	Decoder  ean13.Options

	// TryMirrored retries the bar sequence read from the opposite end when the
	// first attempt fails or leaves digits undecoded.
	TryMirrored bool

	Parallel ParallelConfig
}

// DefaultConfig returns a default pipeline config with component defaults.
func DefaultConfig() Config {
	return Config{
		Binarize:    binarize.DefaultConfig(),
		Decoder:     ean13.DefaultOptions(),
		TryMirrored: true,
		Parallel:    DefaultParallelConfig(),
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := c.Binarize.Validate(); err != nil {
		return err
	}
	if c.Parallel.MaxWorkers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Parallel.MaxWorkers)
	}
	return nil
}

// Builder constructs a Pipeline with fluent configuration.
type Builder struct {
	cfg     Config
	metrics *metrics.Recorder
}

// NewBuilder creates a new pipeline builder with defaults.
func NewBuilder() *Builder { return &Builder{cfg: DefaultConfig()} }

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.cfg = cfg
	return b
}

// WithMethod selects the threshold method ("otsu" or "fixed").
func (b *Builder) WithMethod(method string) *Builder {
	if method != "" {
		b.cfg.Binarize.Method = method
	}
	return b
}

// WithThreshold switches to a fixed threshold.
func (b *Builder) WithThreshold(t uint8) *Builder {
	b.cfg.Binarize.Method = binarize.MethodFixed
	b.cfg.Binarize.Threshold = t
	return b
}

// WithBlur sets the gaussian blur applied before thresholding.
func (b *Builder) WithBlur(sigma float64) *Builder {
	b.cfg.Binarize.BlurSigma = sigma
	return b
}

// WithInvertInk controls whether dark pixels are treated as bars.
func (b *Builder) WithInvertInk(invert bool) *Builder {
	b.cfg.Binarize.InvertInk = invert
	return b
}

// WithVerifyGuards toggles the middle and end guard checks.
func (b *Builder) WithVerifyGuards(verify bool) *Builder {
	b.cfg.Decoder.VerifyGuards = verify
	return b
}

// WithTryMirrored toggles the mirrored retry.
func (b *Builder) WithTryMirrored(try bool) *Builder {
	b.cfg.TryMirrored = try
	return b
}

// WithWorkers sets the worker count for parallel processing (0 = NumCPU).
func (b *Builder) WithWorkers(n int) *Builder {
	if n >= 0 {
		b.cfg.Parallel.MaxWorkers = n
	}
	return b
}

// WithMetrics records decode outcomes into r instead of metrics.Default.
func (b *Builder) WithMetrics(r *metrics.Recorder) *Builder {
	b.metrics = r
	return b
}

// Config returns the current configuration.
func (b *Builder) Config() Config { return b.cfg }

// Build validates the configuration and returns the pipeline.
func (b *Builder) Build() (*Pipeline, error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline config: %w", err)
	}
	rec := b.metrics
	if rec == nil {
		rec = metrics.Default
	}
	cfg := b.cfg
	if cfg.Parallel.MaxWorkers == 0 {
		cfg.Parallel.MaxWorkers = runtime.NumCPU()
	}
	return &Pipeline{
		cfg:     cfg,
		decoder: ean13.NewDecoder(cfg.Decoder),
		metrics: rec,
	}, nil
}

// Pipeline is safe for concurrent use.
type Pipeline struct {
	cfg     Config
	decoder *ean13.Decoder
	metrics *metrics.Recorder
}

// ErrNotInitialized is returned by methods called on a nil Pipeline.
var ErrNotInitialized = errors.New("pipeline not initialized")

// Config returns the effective configuration.
func (p *Pipeline) Config() Config { return p.cfg }
