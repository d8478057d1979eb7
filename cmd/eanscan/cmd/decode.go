package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/eanscan/internal/barcode"
	"github.com/MeKo-Tech/eanscan/internal/binarize"
	"github.com/MeKo-Tech/eanscan/internal/config"
	"github.com/MeKo-Tech/eanscan/internal/metrics"
	"github.com/MeKo-Tech/eanscan/internal/pipeline"
	"github.com/MeKo-Tech/eanscan/internal/utils"
)

// decodeCmd represents the decode command.
var decodeCmd = &cobra.Command{
	Use:   "decode [images...]",
	Short: "Decode EAN-13 barcodes from images",
	Long: `Decode the EAN-13 barcode in one or more image files.

The barcode should be the dominant dark object in the picture. The code is
printed as "C LLLLLL RRRRRR" together with the checksum verdict; digits that
could not be read are shown as '?'.

Supported formats: JPEG, PNG, BMP

Examples:
  eanscan decode product.png
  eanscan decode *.jpg --format json
  eanscan decode scan.bmp --threshold 90 --overlay-dir overlays`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runDecodeCommand,
}

// decodeOutput is one entry of the decode report.
type decodeOutput struct {
	File   string               `json:"file"`
	Result *pipeline.ScanResult `json:"result,omitempty"`
	Error  string               `json:"error,omitempty"`

	// CrossCheck is the reference decoder's reading, set with --cross-check.
	CrossCheck *crossCheck `json:"cross_check,omitempty"`
}

type crossCheck struct {
	Code  string `json:"code,omitempty"`
	Agree bool   `json:"agree"`
	Error string `json:"error,omitempty"`
}

// configToPipelineConfig maps centralized configuration to pipeline.Config.
// Changed flags override config file values.
func configToPipelineConfig(cfg *config.Config, cmd *cobra.Command) pipeline.Config {
	pc := cfg.ToPipelineConfig()
	flags := cmd.Flags()

	if flags.Changed("method") {
		pc.Binarize.Method, _ = flags.GetString("method")
	}
	if flags.Changed("threshold") {
		t, _ := flags.GetUint8("threshold")
		pc.Binarize.Method = binarize.MethodFixed
		pc.Binarize.Threshold = t
	}
	if flags.Changed("blur") {
		pc.Binarize.BlurSigma, _ = flags.GetFloat64("blur")
	}
	if flags.Changed("light-ink") {
		light, _ := flags.GetBool("light-ink")
		pc.Binarize.InvertInk = !light
	}
	if flags.Changed("verify-guards") {
		pc.Decoder.VerifyGuards, _ = flags.GetBool("verify-guards")
	}
	if flags.Changed("try-mirrored") {
		pc.TryMirrored, _ = flags.GetBool("try-mirrored")
	}
	return pc
}

// stringFlagOrConfig returns the flag value when it was set, the config value otherwise.
func stringFlagOrConfig(cmd *cobra.Command, name, fromConfig string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return fromConfig
}

func runDecodeCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	format := stringFlagOrConfig(cmd, "format", cfg.Output.Format)
	outputFile := stringFlagOrConfig(cmd, "output", cfg.Output.File)
	overlayDir := stringFlagOrConfig(cmd, "overlay-dir", cfg.Output.OverlayDir)

	validFormats := []string{outputFormatText, outputFormatJSON, outputFormatCSV}
	if !slices.Contains(validFormats, format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", format, strings.Join(validFormats, ", "))
	}

	pl, err := pipeline.NewBuilder().
		WithConfig(configToPipelineConfig(cfg, cmd)).
		WithMetrics(metrics.Default).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	var reference barcode.Backend
	if crossCheckEnabled, _ := cmd.Flags().GetBool("cross-check"); crossCheckEnabled {
		if !barcode.Available() {
			return barcode.ErrNoBackend
		}
		if reference, err = barcode.NewBackend(); err != nil {
			return err
		}
	}

	ctx := commandContext(cmd)
	outputs := make([]decodeOutput, 0, len(args))
	failed := 0
	for _, pth := range args {
		if !utils.IsSupportedImage(pth) {
			return fmt.Errorf("unsupported image format: %s", pth)
		}
		img, _, err := utils.LoadImage(pth)
		metrics.Default.ObserveImageLoad(err)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", pth, err)
		}

		out := decodeOutput{File: pth}
		res, err := pl.ProcessImageContext(ctx, img)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			out.Error = err.Error()
			failed++
		} else {
			out.Result = res
		}
		if reference != nil {
			out.CrossCheck = runCrossCheck(ctx, reference, img, res)
		}
		outputs = append(outputs, out)

		if overlayDir != "" {
			if err := writeOverlay(img, out, overlayDir); err != nil {
				return err
			}
		}
	}

	report, err := formatDecodeOutputs(outputs, format)
	if err != nil {
		return err
	}
	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(report), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Results written to %s\n", outputFile)
	} else if _, err := fmt.Fprint(cmd.OutOrStdout(), report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d image(s) could not be decoded", failed, len(args))
	}
	return nil
}

// runCrossCheck decodes img with the reference reader and compares codes.
func runCrossCheck(ctx context.Context, b barcode.Backend, img image.Image, res *pipeline.ScanResult) *crossCheck {
	ref, err := b.Decode(ctx, img, barcode.Options{TryHarder: true})
	if err != nil {
		return &crossCheck{Error: err.Error()}
	}
	cc := &crossCheck{Code: ref.Code}
	if res != nil {
		cc.Agree = res.Code == ref.Code
	}
	if !cc.Agree {
		slog.Debug("Reference decoder disagrees", "reference", ref.Code)
	}
	return cc
}

func writeOverlay(img image.Image, out decodeOutput, dir string) error {
	res := out.Result
	if res == nil {
		res = &pipeline.ScanResult{Error: out.Error}
	}
	ov := pipeline.RenderOverlay(img, res, pipeline.DefaultOverlayStyle())
	if ov == nil {
		return nil
	}
	base := filepath.Base(out.File)
	outPath := filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+"_overlay.png")
	if err := utils.SaveImage(ov, outPath); err != nil {
		return fmt.Errorf("failed to save overlay: %w", err)
	}
	slog.Debug("Saved overlay", "path", outPath)
	return nil
}

func formatDecodeOutputs(outputs []decodeOutput, format string) (string, error) {
	switch format {
	case outputFormatJSON:
		bts, err := json.MarshalIndent(outputs, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(bts) + "\n", nil
	case outputFormatCSV:
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		_ = w.Write([]string{"file", "code", "country", "checksum_ok", "undecoded", "reversed", "mirrored", "error"})
		for _, o := range outputs {
			row := []string{o.File, "", "", "false", "", "", "", o.Error}
			if r := o.Result; r != nil {
				row[1] = r.Code
				row[2] = strconv.Itoa(r.CountryCode)
				row[3] = strconv.FormatBool(r.ChecksumOK)
				row[4] = strconv.Itoa(r.Undecoded)
				row[5] = strconv.FormatBool(r.Reversed)
				row[6] = strconv.FormatBool(r.Mirrored)
			}
			_ = w.Write(row)
		}
		w.Flush()
		return buf.String(), w.Error()
	default:
		var sb strings.Builder
		for _, o := range outputs {
			sb.WriteString(o.File)
			sb.WriteString(": ")
			sb.WriteString(describeResult(o))
			if cc := o.CrossCheck; cc != nil {
				sb.WriteString(describeCrossCheck(cc))
			}
			sb.WriteByte('\n')
		}
		return sb.String(), nil
	}
}

func describeResult(o decodeOutput) string {
	r := o.Result
	switch {
	case r == nil:
		return "no code (" + o.Error + ")"
	case r.Undecoded > 0:
		return fmt.Sprintf("%s (%d digit(s) unreadable)", r.Formatted(), r.Undecoded)
	case !r.ChecksumOK:
		return r.Formatted() + " (checksum mismatch)"
	default:
		return r.Formatted() + " (checksum ok)"
	}
}

func describeCrossCheck(cc *crossCheck) string {
	switch {
	case cc.Error != "":
		return " [reference: none]"
	case cc.Agree:
		return " [reference agrees]"
	default:
		return " [reference: " + cc.Code + "]"
	}
}

func addDecodeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", outputFormatText, "output format (text, json, csv)")
	cmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	cmd.Flags().String("overlay-dir", "", "directory to write overlay images (scan line and label)")
	cmd.Flags().Bool("cross-check", false, "compare each code against the reference decoder (needs -tags=barcode_gozxing)")
	addScanFlags(cmd)
}

// addScanFlags registers the binarization and decoder flags shared by decode and batch.
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().String("method", binarize.MethodOtsu, "threshold method: otsu or fixed")
	cmd.Flags().Uint8("threshold", 128, "fixed gray threshold (implies --method fixed)")
	cmd.Flags().Float64("blur", 0, "gaussian blur sigma applied before thresholding")
	cmd.Flags().Bool("light-ink", false, "bars are lighter than the background")
	cmd.Flags().Bool("verify-guards", true, "check the middle and end guard positions")
	cmd.Flags().Bool("try-mirrored", true, "retry the mirrored bar sequence when decoding is incomplete")
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	addDecodeFlags(decodeCmd)
}

// GetDecodeCommand returns the decode command for testing purposes.
func GetDecodeCommand() *cobra.Command {
	return decodeCmd
}
