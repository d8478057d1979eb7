// Package binarize turns captured images into the binary masks consumed by the
// ean13 decoder: grayscale conversion, optional blur and global thresholding.
package binarize

import (
	"errors"
	"fmt"
	"image"

	"github.com/MeKo-Tech/eanscan/internal/ean13"
	"github.com/disintegration/imaging"
)

const (
	// MethodOtsu selects the threshold from the image histogram.
	MethodOtsu = "otsu"
	// MethodFixed uses Config.Threshold as is.
	MethodFixed = "fixed"
)

var (
	ErrEmptyImage    = errors.New("binarize: image is empty")
	ErrUnknownMethod = errors.New("binarize: unknown threshold method")
)

// Config controls binarization.
type Config struct {
	Method    string  // otsu or fixed
	Threshold uint8   // used by the fixed method
	BlurSigma float64 // gaussian blur applied before thresholding, 0 disables
	InvertInk bool    // dark pixels become ink
}

// DefaultConfig returns Otsu thresholding without blur, dark bars as ink.
func DefaultConfig() Config {
	return Config{
		Method:    MethodOtsu,
		Threshold: 128,
		BlurSigma: 0,
		InvertInk: true,
	}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	switch c.Method {
	case MethodOtsu, MethodFixed:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMethod, c.Method)
	}
	if c.BlurSigma < 0 {
		return fmt.Errorf("binarize: blur sigma must be >= 0, got %.2f", c.BlurSigma)
	}
	return nil
}

// Stats describes one binarization.
type Stats struct {
	Threshold uint8
	InkRatio  float64
}

// ToMask converts img into an ean13.Mask.
func ToMask(img image.Image, cfg Config) (ean13.Mask, Stats, error) {
	if img == nil || img.Bounds().Empty() {
		return ean13.Mask{}, Stats{}, ErrEmptyImage
	}
	if err := cfg.Validate(); err != nil {
		return ean13.Mask{}, Stats{}, err
	}

	gray := Grayscale(img, cfg.BlurSigma)

	threshold := cfg.Threshold
	if cfg.Method == MethodOtsu {
		threshold = OtsuThreshold(Histogram(gray))
	}

	mask := Threshold(gray, threshold, cfg.InvertInk)
	stats := Stats{Threshold: threshold}
	if n := len(mask.Pix); n > 0 {
		stats.InkRatio = float64(mask.InkCount()) / float64(n)
	}
	return mask, stats, nil
}

// Grayscale returns an 8-bit luminance copy of img, blurred when sigma > 0.
func Grayscale(img image.Image, sigma float64) *image.Gray {
	src := imaging.Grayscale(img)
	if sigma > 0 {
		src = imaging.Blur(src, sigma)
	}
	b := src.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			// channels are equal after imaging.Grayscale
			out.Pix[y*out.Stride+x] = src.Pix[y*src.Stride+x*4]
		}
	}
	return out
}

// Threshold maps pixels above t to background and the rest to ink when
// invert is set; without invert the bright pixels are ink.
func Threshold(gray *image.Gray, t uint8, invert bool) ean13.Mask {
	b := gray.Bounds()
	m := ean13.NewMask(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()]
		for x, v := range row {
			bright := v > t
			m.Set(x, y, bright != invert)
		}
	}
	return m
}
