package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/MeKo-Tech/eanscan/internal/binarize"
	"github.com/MeKo-Tech/eanscan/internal/ean13"
	"github.com/MeKo-Tech/eanscan/internal/metrics"
)

// ProcessImage binarizes and decodes a single image.
func (p *Pipeline) ProcessImage(img image.Image) (*ScanResult, error) {
	return p.ProcessImageContext(context.Background(), img)
}

// ProcessImageContext is ProcessImage with cancellation support.
func (p *Pipeline) ProcessImageContext(ctx context.Context, img image.Image) (*ScanResult, error) {
	if p == nil || p.decoder == nil {
		return nil, ErrNotInitialized
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, errors.New("input image is nil")
	}

	start := time.Now()
	mask, stats, err := binarize.ToMask(img, p.cfg.Binarize)
	if err != nil {
		p.metrics.ObserveDecode(metrics.OutcomeError, time.Since(start), 0)
		return nil, fmt.Errorf("binarize: %w", err)
	}
	binarizeDone := time.Now()
	p.metrics.ObserveInkRatio(stats.InkRatio)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, mirrored, err := p.decodeMask(mask)
	if err != nil {
		p.metrics.ObserveDecode(metrics.OutcomeError, time.Since(start), 0)
		slog.Debug("Decode failed", "width", mask.Width, "height", mask.Height, "error", err)
		return nil, err
	}
	end := time.Now()

	out := p.toScanResult(mask, res, mirrored)
	out.Binarization.Threshold = stats.Threshold
	out.Binarization.InkRatio = stats.InkRatio
	out.Processing.BinarizeNs = binarizeDone.Sub(start).Nanoseconds()
	out.Processing.DecodeNs = end.Sub(binarizeDone).Nanoseconds()
	out.Processing.TotalNs = end.Sub(start).Nanoseconds()

	p.metrics.ObserveDecode(outcomeOf(out), end.Sub(start), out.Undecoded)
	slog.Debug("Decoded image",
		"code", out.Code,
		"checksum_ok", out.ChecksumOK,
		"mirrored", out.Mirrored,
		"threshold", stats.Threshold)
	return out, nil
}

// ProcessMask decodes an already binarized mask.
func (p *Pipeline) ProcessMask(mask ean13.Mask) (*ScanResult, error) {
	if p == nil || p.decoder == nil {
		return nil, ErrNotInitialized
	}
	start := time.Now()
	res, mirrored, err := p.decodeMask(mask)
	if err != nil {
		p.metrics.ObserveDecode(metrics.OutcomeError, time.Since(start), 0)
		return nil, err
	}
	out := p.toScanResult(mask, res, mirrored)
	out.Processing.DecodeNs = time.Since(start).Nanoseconds()
	out.Processing.TotalNs = out.Processing.DecodeNs
	p.metrics.ObserveDecode(outcomeOf(out), time.Since(start), out.Undecoded)
	return out, nil
}

// decodeMask runs the scan-line stages and, when enabled, a second pass over
// the bars read from the other end. The attempt with fewer undecoded digits
// wins; a valid checksum breaks ties.
func (p *Pipeline) decodeMask(mask ean13.Mask) (*ean13.Result, bool, error) {
	g, err := ean13.EstimateGeometry(mask)
	if err != nil {
		return nil, false, err
	}
	line, err := ean13.Sample(mask, g)
	if err != nil {
		return nil, false, err
	}
	bars, err := ean13.Segment(line)
	if err != nil {
		return nil, false, err
	}

	res, err := p.decoder.DecodeBars(bars)
	mirrored := false
	if p.cfg.TryMirrored && !clean(res, err) {
		mres, merr := p.decoder.DecodeBars(ean13.ReverseBars(bars))
		if merr == nil && (err != nil || better(mres, res)) {
			res, err = mres, nil
			mirrored = true
		}
	}
	if err != nil {
		return nil, false, err
	}
	res.Geometry = g
	res.Scanline = len(line)
	if mirrored {
		res.Reversed = !res.Reversed
	}
	return res, mirrored, nil
}

func clean(res *ean13.Result, err error) bool {
	return err == nil && res.UndecodedDigits() == 0 && res.ChecksumOK
}

func better(a, b *ean13.Result) bool {
	ua, ub := a.UndecodedDigits(), b.UndecodedDigits()
	if ua != ub {
		return ua < ub
	}
	return a.ChecksumOK && !b.ChecksumOK
}

func (p *Pipeline) toScanResult(mask ean13.Mask, res *ean13.Result, mirrored bool) *ScanResult {
	out := &ScanResult{
		Width:          mask.Width,
		Height:         mask.Height,
		Code:           res.Decoding.Code(),
		Digits:         res.Decoding.Digits,
		CountryCode:    res.Decoding.CountryCode,
		ChecksumOK:     res.ChecksumOK,
		Undecoded:      res.UndecodedDigits(),
		Reversed:       res.Reversed,
		Mirrored:       mirrored,
		ScanlineLength: res.Scanline,
		Bars:           res.Bars,
	}
	out.Geometry.X = res.Geometry.Centroid.X
	out.Geometry.Y = res.Geometry.Centroid.Y
	out.Geometry.Angle = res.Geometry.Angle
	return out
}

func outcomeOf(r *ScanResult) string {
	switch {
	case r.Undecoded > 0:
		return metrics.OutcomePartial
	case !r.ChecksumOK:
		return metrics.OutcomeChecksumMismatch
	default:
		return metrics.OutcomeOK
	}
}
