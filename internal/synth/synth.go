// Package synth renders synthetic EAN-13 images: clean bars, optional
// rotation, blur and salt-and-pepper noise.
package synth

import (
	"fmt"
	"image"
	"image/color"
	"math/rand/v2"

	"github.com/disintegration/imaging"

	"github.com/MeKo-Tech/eanscan/internal/ean13"
)

// Options controls rendering.
type Options struct {
	ModuleWidth  int     // pixels per module
	QuietModules int     // quiet zone on each side, in modules
	BarHeight    int     // pixels
	Margin       int     // background rows above and below the bars
	Rotation     float64 // degrees, counter-clockwise
	BlurSigma    float64 // 0 disables
	Noise        float64 // share of pixels replaced by black or white, 0..1
	Seed         uint64

	Background color.Color
	Foreground color.Color
}

// DefaultOptions returns a clean 2px-module symbol, 60px tall.
func DefaultOptions() Options {
	return Options{
		ModuleWidth:  2,
		QuietModules: 9,
		BarHeight:    60,
		Margin:       10,
		Seed:         1,
		Background:   color.White,
		Foreground:   color.Black,
	}
}

// Validate checks the option values.
func (o Options) Validate() error {
	switch {
	case o.ModuleWidth <= 0:
		return fmt.Errorf("synth: module width must be > 0, got %d", o.ModuleWidth)
	case o.BarHeight <= 0:
		return fmt.Errorf("synth: bar height must be > 0, got %d", o.BarHeight)
	case o.Margin < 0:
		return fmt.Errorf("synth: margin must be >= 0, got %d", o.Margin)
	case o.Noise < 0 || o.Noise > 1:
		return fmt.Errorf("synth: noise must be within [0,1], got %.3f", o.Noise)
	case o.BlurSigma < 0:
		return fmt.Errorf("synth: blur sigma must be >= 0, got %.2f", o.BlurSigma)
	}
	return nil
}

// Render encodes a 12 or 13 digit code and draws it.
func Render(code string, opts Options) (*image.NRGBA, error) {
	digits, err := ean13.ParseCode(code)
	if err != nil {
		return nil, err
	}
	return RenderDigits(digits, opts)
}

// RenderDigits draws thirteen digits without validating the check digit.
func RenderDigits(digits [13]int, opts Options) (*image.NRGBA, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	bars, err := ean13.EncodeDigits(digits, ean13.EncodeOptions{
		ModuleWidth:  opts.ModuleWidth,
		QuietModules: opts.QuietModules,
	})
	if err != nil {
		return nil, err
	}
	bg, fg := opts.colors()

	width := 0
	for _, b := range bars {
		width += b.Width
	}
	img := imaging.New(width, opts.BarHeight+2*opts.Margin, bg)
	x := 0
	for _, b := range bars {
		if b.Polarity == ean13.Ink {
			r := image.Rect(x, opts.Margin, x+b.Width, opts.Margin+opts.BarHeight)
			img = imaging.Paste(img, imaging.New(r.Dx(), r.Dy(), fg), r.Min)
		}
		x += b.Width
	}

	if opts.Rotation != 0 {
		img = imaging.Rotate(img, opts.Rotation, bg)
	}
	if opts.BlurSigma > 0 {
		img = imaging.Blur(img, opts.BlurSigma)
	}
	if opts.Noise > 0 {
		img = AddNoise(img, opts.Noise, opts.Seed)
	}
	return img, nil
}

func (o Options) colors() (color.Color, color.Color) {
	bg, fg := o.Background, o.Foreground
	if bg == nil {
		bg = color.White
	}
	if fg == nil {
		fg = color.Black
	}
	return bg, fg
}

// AddNoise returns a copy of img in which roughly level of the pixels are set
// to pure black or white. The same seed yields the same pattern.
func AddNoise(img *image.NRGBA, level float64, seed uint64) *image.NRGBA {
	out := imaging.Clone(img)
	if level <= 0 {
		return out
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if rng.Float64() >= level {
				continue
			}
			v := uint8(0)
			if rng.IntN(2) == 1 {
				v = 255
			}
			out.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}
