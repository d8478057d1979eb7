//nolint:lll
package config

// Config represents the complete configuration for the eanscan application.
// It includes settings for all commands (decode, batch, generate) and
// supports loading from configuration files, environment variables, and command-line flags.
type Config struct {
	// Global settings
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" json:"log_format"`
	Verbose   bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Binarization of the input image
	Binarize BinarizeConfig `mapstructure:"binarize" yaml:"binarize" json:"binarize"`

	// Scan-line decoding
	Decoder DecoderConfig `mapstructure:"decoder" yaml:"decoder" json:"decoder"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Batch processing configuration
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`

	// Synthetic image rendering (generate command)
	Generate GenerateConfig `mapstructure:"generate" yaml:"generate" json:"generate"`

	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

// BinarizeConfig contains thresholding settings.
type BinarizeConfig struct {
	Method    string  `mapstructure:"method" yaml:"method" json:"method"`
	Threshold int     `mapstructure:"threshold" yaml:"threshold" json:"threshold"`
	BlurSigma float64 `mapstructure:"blur_sigma" yaml:"blur_sigma" json:"blur_sigma"`
	InvertInk bool    `mapstructure:"invert_ink" yaml:"invert_ink" json:"invert_ink"`
}

// DecoderConfig contains decoder settings.
type DecoderConfig struct {
	VerifyGuards bool `mapstructure:"verify_guards" yaml:"verify_guards" json:"verify_guards"`
	TryMirrored  bool `mapstructure:"try_mirrored" yaml:"try_mirrored" json:"try_mirrored"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format     string `mapstructure:"format" yaml:"format" json:"format"`
	File       string `mapstructure:"file" yaml:"file" json:"file"`
	OverlayDir string `mapstructure:"overlay_dir" yaml:"overlay_dir" json:"overlay_dir"`
}

// BatchConfig contains batch processing settings.
type BatchConfig struct {
	Workers         int      `mapstructure:"workers" yaml:"workers" json:"workers"`
	Recursive       bool     `mapstructure:"recursive" yaml:"recursive" json:"recursive"`
	Include         []string `mapstructure:"include" yaml:"include" json:"include"`
	Exclude         []string `mapstructure:"exclude" yaml:"exclude" json:"exclude"`
	Reference       string   `mapstructure:"reference" yaml:"reference" json:"reference"`
	Manifest        string   `mapstructure:"manifest" yaml:"manifest" json:"manifest"`
	ContinueOnError bool     `mapstructure:"continue_on_error" yaml:"continue_on_error" json:"continue_on_error"`
	ShowProgress    bool     `mapstructure:"show_progress" yaml:"show_progress" json:"show_progress"`
}

// GenerateConfig contains synthetic barcode rendering settings.
type GenerateConfig struct {
	ModuleWidth  int `mapstructure:"module_width" yaml:"module_width" json:"module_width"`
	QuietModules int `mapstructure:"quiet_modules" yaml:"quiet_modules" json:"quiet_modules"`
	BarHeight    int `mapstructure:"bar_height" yaml:"bar_height" json:"bar_height"`
	Margin       int `mapstructure:"margin" yaml:"margin" json:"margin"`
}

// MetricsConfig contains metrics export settings.
type MetricsConfig struct {
	File string `mapstructure:"file" yaml:"file" json:"file"`
}
