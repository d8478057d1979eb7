package cmd

import (
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/eanscan/internal/batch"
	"github.com/MeKo-Tech/eanscan/internal/config"
	"github.com/MeKo-Tech/eanscan/internal/metrics"
)

// batchCmd represents the batch command for parallel accuracy runs.
var batchCmd = &cobra.Command{
	Use:   "batch [files or directories...]",
	Short: "Decode many images in parallel and score them against reference codes",
	Long: `Decode every supported image under the given files and directories using
parallel workers. When a reference code or a manifest is given, every decoding
is scored by the share of the thirteen digits that match, and scores are
aggregated per parent directory (for example one directory per noise level).

Supported formats: JPEG, PNG, BMP

Examples:
  eanscan batch scans/
  eanscan batch noise/ --reference 9310232954790 --format csv --output scores.csv
  eanscan batch photos/ --manifest expected.yaml --workers 8 --progress`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runBatchCommand,
}

// configToBatchConfig maps centralized configuration to batch.Config.
// CLI flags override config file values.
func configToBatchConfig(cfg *config.Config, cmd *cobra.Command) *batch.Config {
	batchConfig := cfg.ToBatchConfig()
	batchConfig.Pipeline = configToPipelineConfig(cfg, cmd)
	batchConfig.Metrics = metrics.Default
	flags := cmd.Flags()

	batchConfig.Format = stringFlagOrConfig(cmd, "format", batchConfig.Format)
	batchConfig.OutputFile = stringFlagOrConfig(cmd, "output", batchConfig.OutputFile)
	batchConfig.OverlayDir = stringFlagOrConfig(cmd, "overlay-dir", batchConfig.OverlayDir)
	batchConfig.Reference = stringFlagOrConfig(cmd, "reference", batchConfig.Reference)
	batchConfig.ManifestPath = stringFlagOrConfig(cmd, "manifest", batchConfig.ManifestPath)

	if flags.Changed("workers") {
		batchConfig.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("recursive") {
		batchConfig.Recursive, _ = flags.GetBool("recursive")
	}
	if flags.Changed("include") {
		batchConfig.IncludePatterns, _ = flags.GetStringSlice("include")
	}
	if flags.Changed("exclude") {
		batchConfig.ExcludePatterns, _ = flags.GetStringSlice("exclude")
	}
	if flags.Changed("progress") {
		batchConfig.ShowProgress, _ = flags.GetBool("progress")
	}

	// Progress settings - these are CLI-only
	batchConfig.Quiet, _ = flags.GetBool("quiet")
	batchConfig.ProgressInterval, _ = flags.GetDuration("progress-interval")

	return batchConfig
}

func runBatchCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	config := configToBatchConfig(cfg, cmd)

	continueOnError := cfg.Batch.ContinueOnError
	if cmd.Flags().Changed("continue-on-error") {
		continueOnError, _ = cmd.Flags().GetBool("continue-on-error")
	}

	result, err := batch.ProcessBatch(commandContext(cmd), args, config)
	if err != nil {
		return fmt.Errorf("batch processing failed: %w", err)
	}

	if err := result.SaveResults(cmd.OutOrStdout(), config.Format, config.OutputFile, config.Quiet); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	if failed := result.Summary.Failed; failed > 0 && !continueOnError {
		return fmt.Errorf("%d of %d image(s) could not be decoded", failed, result.Summary.Images)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Output flags
	batchCmd.Flags().StringP("format", "f", outputFormatText, "output format: text, json, csv")
	batchCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	batchCmd.Flags().String("overlay-dir", "", "directory to save overlay images")

	// Scoring flags
	batchCmd.Flags().String("reference", "", "expected code for every image without a manifest entry")
	batchCmd.Flags().String("manifest", "", "YAML manifest mapping images to expected codes")
	batchCmd.Flags().Bool("continue-on-error", true, "exit successfully even when some images fail to decode")

	addScanFlags(batchCmd)

	// Parallel processing flags
	batchCmd.Flags().IntP("workers", "w", 0, fmt.Sprintf("number of parallel workers (default: %d)", runtime.NumCPU()))

	// File discovery flags
	batchCmd.Flags().BoolP("recursive", "r", true, "recursively scan directories")
	batchCmd.Flags().StringSlice("include", []string{}, "file patterns to include (e.g. *.png)")
	batchCmd.Flags().StringSlice("exclude", []string{}, "file patterns to exclude")

	// Progress flags
	batchCmd.Flags().Bool("progress", false, "show progress bar on stderr")
	batchCmd.Flags().Bool("quiet", false, "suppress progress and status messages")
	batchCmd.Flags().Duration("progress-interval", 100*time.Millisecond, "progress update interval")
}
