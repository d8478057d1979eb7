package pipeline

import (
	"context"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/eanscan/internal/ean13"
	"github.com/MeKo-Tech/eanscan/internal/metrics"
	"github.com/MeKo-Tech/eanscan/internal/synth"
	"github.com/MeKo-Tech/eanscan/internal/testutil"
)

func TestProcessImage_Clean(t *testing.T) {
	p, rec := newTestPipeline(t, nil)
	img := testutil.BarcodeImage(t, testutil.ReferenceCode, nil)

	res, err := p.ProcessImage(img)
	require.NoError(t, err)
	assert.Equal(t, testutil.ReferenceCode, res.Code)
	assert.Equal(t, "9 310232 954790", res.Formatted())
	assert.Equal(t, 9, res.CountryCode)
	assert.True(t, res.ChecksumOK)
	assert.True(t, res.Valid())
	assert.Zero(t, res.Undecoded)
	assert.False(t, res.Reversed)
	assert.False(t, res.Mirrored)
	assert.Equal(t, img.Bounds().Dx(), res.Width)
	assert.Equal(t, 61, res.Bars)
	assert.Equal(t, img.Bounds().Dx(), res.ScanlineLength)
	assert.InDelta(t, 0, res.Geometry.Angle, 1e-9)
	assert.Equal(t, uint8(0), res.Binarization.Threshold)
	assert.Positive(t, res.Binarization.InkRatio)

	assert.InDelta(t, 1, rec.Decodes(metrics.OutcomeOK), 0)
}

func TestProcessImage_ReadBackwards(t *testing.T) {
	p, _ := newTestPipeline(t, nil)
	img := testutil.BarcodeImage(t, testutil.ReferenceCode, nil)

	upside, err := p.ProcessImage(imaging.Rotate180(img))
	require.NoError(t, err)
	assert.Equal(t, testutil.ReferenceCode, upside.Code)
	assert.True(t, upside.Reversed)
	assert.False(t, upside.Mirrored)

	flipped, err := p.ProcessImage(imaging.FlipH(img))
	require.NoError(t, err)
	assert.Equal(t, testutil.ReferenceCode, flipped.Code)
	assert.True(t, flipped.Reversed)
}

func TestProcessImage_LightOnDark(t *testing.T) {
	img := testutil.BarcodeImage(t, testutil.ReferenceCode, func(o *synth.Options) {
		o.Background = color.Black
		o.Foreground = color.White
	})

	p, _ := newTestPipeline(t, NewBuilder().WithInvertInk(false))
	res, err := p.ProcessImage(img)
	require.NoError(t, err)
	assert.Equal(t, testutil.ReferenceCode, res.Code)
}

func TestProcessImage_Blank(t *testing.T) {
	p, rec := newTestPipeline(t, nil)
	_, err := p.ProcessImage(testutil.CreateTestImage(50, 20, color.White))
	require.ErrorIs(t, err, ean13.ErrEmptyMask)
	assert.InDelta(t, 1, rec.Decodes(metrics.OutcomeError), 0)
}

func TestProcessImage_InvalidInput(t *testing.T) {
	p, _ := newTestPipeline(t, nil)
	_, err := p.ProcessImage(nil)
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.ProcessImageContext(ctx, testutil.BarcodeImage(t, testutil.ReferenceCode, nil))
	require.ErrorIs(t, err, context.Canceled)

	var nilPipeline *Pipeline
	_, err = nilPipeline.ProcessImage(testutil.CreateTestImage(4, 4, color.White))
	require.ErrorIs(t, err, ErrNotInitialized)
}

// decoyBars puts a guard-shaped triple in front of a valid symbol so the
// forward guard search locks onto the decoy.
func decoyBars(t *testing.T) []ean13.Bar {
	t.Helper()
	symbol, err := ean13.Encode(testutil.ReferenceCode, ean13.DefaultEncodeOptions())
	require.NoError(t, err)

	bars := []ean13.Bar{
		{Width: 10, Polarity: ean13.Background},
		{Width: 2, Polarity: ean13.Ink},
		{Width: 2, Polarity: ean13.Background},
		{Width: 2, Polarity: ean13.Ink},
	}
	return append(bars, symbol...)
}

func TestProcessMask_MirroredRetry(t *testing.T) {
	bars := decoyBars(t)
	_, err := ean13.NewDecoder(ean13.DefaultOptions()).DecodeBars(bars)
	require.ErrorIs(t, err, ean13.ErrGuardMismatch)

	mask := ean13.RenderMask(bars, 30)

	p, _ := newTestPipeline(t, nil)
	res, err := p.ProcessMask(mask)
	require.NoError(t, err)
	assert.Equal(t, testutil.ReferenceCode, res.Code)
	assert.True(t, res.Mirrored)
	assert.False(t, res.Reversed)

	strict, rec := newTestPipeline(t, NewBuilder().WithTryMirrored(false))
	_, err = strict.ProcessMask(mask)
	require.ErrorIs(t, err, ean13.ErrGuardNotFound)
	assert.InDelta(t, 1, rec.Decodes(metrics.OutcomeError), 0)
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, metrics.OutcomeOK, outcomeOf(&ScanResult{ChecksumOK: true}))
	assert.Equal(t, metrics.OutcomeChecksumMismatch, outcomeOf(&ScanResult{}))
	assert.Equal(t, metrics.OutcomePartial, outcomeOf(&ScanResult{Undecoded: 2, ChecksumOK: true}))
}
