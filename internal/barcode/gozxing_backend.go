//go:build barcode_gozxing

package barcode

import (
	"context"
	"errors"
	"fmt"
	"image"

	gozxing "github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/common"
	"github.com/makiuchi-d/gozxing/oned"
)

func newDefaultBackend() (Backend, error) { return &gozxingBackend{}, nil }

type gozxingBackend struct{}

func (b *gozxingBackend) Decode(ctx context.Context, img image.Image, opts Options) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if roiImg, ok := subImage(img, opts.ROI); ok {
		img = roiImg
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_POSSIBLE_FORMATS: []gozxing.BarcodeFormat{gozxing.BarcodeFormat_EAN_13},
	}
	if opts.TryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}

	source := gozxing.NewLuminanceSourceFromImage(img)
	bitmap, err := gozxing.NewBinaryBitmap(common.NewHybridBinarizer(source))
	if err != nil {
		return Result{}, fmt.Errorf("barcode: %w", err)
	}

	r, err := oned.NewEAN13Reader().Decode(bitmap, hints)
	if err != nil {
		var nf gozxing.NotFoundException
		if errors.As(err, &nf) {
			return Result{}, ErrNotFound
		}
		return Result{}, fmt.Errorf("barcode: %w", err)
	}

	var points []image.Point
	for _, p := range r.GetResultPoints() {
		points = append(points, image.Pt(int(p.GetX()), int(p.GetY())))
	}
	return Result{
		Code:   r.GetText(),
		Points: points,
		BBox:   rectFromPoints(points),
	}, nil
}
