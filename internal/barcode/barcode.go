// Package barcode wraps an independent EAN-13 reader used to cross-check the
// scanline decoder.
//
// The default build links no reader. Enable the gozxing-backed one with the
// build tag `barcode_gozxing`:
//
//	go build -tags=barcode_gozxing ./cmd/eanscan
package barcode

import (
	"context"
	"errors"
	"image"
)

// ErrNoBackend is returned by the default build, which links no reader.
var ErrNoBackend = errors.New("barcode: no reference decoder linked; build with -tags=barcode_gozxing")

// ErrNotFound means the reader found no EAN-13 symbol.
var ErrNotFound = errors.New("barcode: no EAN-13 symbol found")

// Options controls the reference decoder.
type Options struct {
	// TryHarder enables the slower exhaustive search, including rotated rows.
	TryHarder bool

	// ROI optionally restricts decoding to a sub-rectangle of the image.
	// Zero-sized or out-of-bounds rectangles are ignored.
	ROI image.Rectangle
}

// Result is a symbol found by the reference decoder.
type Result struct {
	Code   string          `json:"code"`
	Points []image.Point   `json:"points,omitempty"`
	BBox   image.Rectangle `json:"-"`
}

// Backend decodes one EAN-13 symbol from an image.
type Backend interface {
	Decode(ctx context.Context, img image.Image, opts Options) (Result, error)
}

// NewBackend returns the reference decoder linked into this build.
func NewBackend() (Backend, error) { return newDefaultBackend() }

// Available reports whether a reference decoder is linked.
func Available() bool {
	b, err := NewBackend()
	if err != nil {
		return false
	}
	_, err = b.Decode(context.Background(), image.NewGray(image.Rect(0, 0, 1, 1)), Options{})
	return !errors.Is(err, ErrNoBackend)
}

func rectFromPoints(pts []image.Point) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	return r
}

func subImage(img image.Image, roi image.Rectangle) (image.Image, bool) {
	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}
	if roi.Empty() || !roi.In(img.Bounds()) {
		return img, false
	}
	si, ok := img.(subImager)
	if !ok {
		return img, false
	}
	return si.SubImage(roi), true
}
