package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/MeKo-Tech/eanscan/internal/batch"
	"github.com/MeKo-Tech/eanscan/internal/binarize"
	"github.com/MeKo-Tech/eanscan/internal/ean13"
	"github.com/MeKo-Tech/eanscan/internal/pipeline"
	"github.com/MeKo-Tech/eanscan/internal/synth"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	bin := binarize.DefaultConfig()
	dec := pipeline.DefaultConfig()
	gen := synth.DefaultOptions()
	return Config{
		LogLevel:  "info",
		LogFormat: "json",
		Binarize: BinarizeConfig{
			Method:    bin.Method,
			Threshold: int(bin.Threshold),
			BlurSigma: bin.BlurSigma,
			InvertInk: bin.InvertInk,
		},
		Decoder: DecoderConfig{
			VerifyGuards: dec.Decoder.VerifyGuards,
			TryMirrored:  dec.TryMirrored,
		},
		Output: OutputConfig{
			Format: "text",
		},
		Batch: BatchConfig{
			Workers:         0,
			Recursive:       true,
			ContinueOnError: true,
		},
		Generate: GenerateConfig{
			ModuleWidth:  gen.ModuleWidth,
			QuietModules: gen.QuietModules,
			BarHeight:    gen.BarHeight,
			Margin:       gen.Margin,
		},
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "text"}
	if c.LogFormat != "" && !slices.Contains(validLogFormats, c.LogFormat) {
		return fmt.Errorf("invalid log format: %s (must be one of: %s)", c.LogFormat, strings.Join(validLogFormats, ", "))
	}

	validFormats := []string{"text", "json", "csv"}
	if c.Output.Format != "" && !slices.Contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", c.Output.Format, strings.Join(validFormats, ", "))
	}

	validMethods := []string{binarize.MethodOtsu, binarize.MethodFixed}
	if !slices.Contains(validMethods, c.Binarize.Method) {
		return fmt.Errorf("invalid binarize method: %s (must be one of: %s)", c.Binarize.Method, strings.Join(validMethods, ", "))
	}
	if c.Binarize.Threshold < 0 || c.Binarize.Threshold > 255 {
		return fmt.Errorf("invalid binarize threshold: %d (must be between 0 and 255)", c.Binarize.Threshold)
	}
	if c.Binarize.BlurSigma < 0 {
		return fmt.Errorf("invalid blur sigma: %.2f (must not be negative)", c.Binarize.BlurSigma)
	}

	if c.Batch.Workers < 0 {
		return fmt.Errorf("invalid batch workers: %d (0 uses all CPUs)", c.Batch.Workers)
	}
	if c.Batch.Reference != "" {
		if _, err := ean13.ParseCode(c.Batch.Reference); err != nil {
			return fmt.Errorf("invalid batch reference: %w", err)
		}
	}

	if err := c.ToSynthOptions().Validate(); err != nil {
		return fmt.Errorf("invalid generate settings: %w", err)
	}
	if c.Generate.QuietModules < 0 {
		return fmt.Errorf("invalid quiet modules: %d (must not be negative)", c.Generate.QuietModules)
	}

	return nil
}

// ToPipelineConfig converts the config to the internal pipeline configuration format.
func (c *Config) ToPipelineConfig() pipeline.Config {
	cfg := pipeline.DefaultConfig()
	cfg.Binarize = binarize.Config{
		Method:    c.Binarize.Method,
		Threshold: clampThreshold(c.Binarize.Threshold),
		BlurSigma: c.Binarize.BlurSigma,
		InvertInk: c.Binarize.InvertInk,
	}
	cfg.Decoder = ean13.Options{VerifyGuards: c.Decoder.VerifyGuards}
	cfg.TryMirrored = c.Decoder.TryMirrored
	if c.Batch.Workers > 0 {
		cfg.Parallel.MaxWorkers = c.Batch.Workers
	}
	return cfg
}

// ToBatchConfig converts the config to a batch configuration.
func (c *Config) ToBatchConfig() *batch.Config {
	cfg := batch.DefaultConfig()
	cfg.Pipeline = c.ToPipelineConfig()
	cfg.Workers = c.Batch.Workers
	cfg.Recursive = c.Batch.Recursive
	cfg.IncludePatterns = c.Batch.Include
	cfg.ExcludePatterns = c.Batch.Exclude
	cfg.Reference = c.Batch.Reference
	cfg.ManifestPath = c.Batch.Manifest
	cfg.OverlayDir = c.Output.OverlayDir
	cfg.Format = c.Output.Format
	cfg.OutputFile = c.Output.File
	cfg.ShowProgress = c.Batch.ShowProgress
	return cfg
}

// ToSynthOptions converts the generate section to rendering options.
func (c *Config) ToSynthOptions() synth.Options {
	opts := synth.DefaultOptions()
	opts.ModuleWidth = c.Generate.ModuleWidth
	opts.QuietModules = c.Generate.QuietModules
	opts.BarHeight = c.Generate.BarHeight
	opts.Margin = c.Generate.Margin
	return opts
}

func clampThreshold(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}
