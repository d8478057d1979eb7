package pipeline

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/MeKo-Tech/eanscan/internal/ean13"
	"github.com/MeKo-Tech/eanscan/internal/utils"
)

// OverlayStyle selects colors for RenderOverlay.
type OverlayStyle struct {
	Line      color.Color
	Centroid  color.Color
	Label     color.Color
	LabelBack color.Color
	Thickness int
}

// DefaultOverlayStyle draws a red scan line and a label on a white strip.
func DefaultOverlayStyle() OverlayStyle {
	return OverlayStyle{
		Line:      color.RGBA{R: 255, A: 255},
		Centroid:  color.RGBA{G: 160, B: 255, A: 255},
		Label:     color.Black,
		LabelBack: color.White,
		Thickness: 1,
	}
}

// RenderOverlay returns an RGBA copy of img with the sampled scan line, the
// blob centroid and the decoded code drawn on top.
func RenderOverlay(img image.Image, res *ScanResult, style OverlayStyle) *image.RGBA {
	if img == nil {
		return nil
	}
	dst := utils.ToRGBA(img)
	if res == nil {
		return dst
	}

	if res.Decoded() {
		g := ean13.Geometry{
			Centroid: ean13.Point{X: res.Geometry.X, Y: res.Geometry.Y},
			Angle:    res.Geometry.Angle,
		}
		x0, y0, x1, y1 := ean13.ScanEndpoints(dst.Bounds().Dx(), g)
		utils.DrawLine(dst, image.Pt(x0, y0), image.Pt(x1, y1), style.Line, style.Thickness)

		cx, cy := int(res.Geometry.X+0.5), int(res.Geometry.Y+0.5)
		utils.DrawRect(dst, image.Rect(cx-3, cy-3, cx+4, cy+4), style.Centroid, 1)
	}

	drawLabel(dst, overlayLabel(res), style)
	return dst
}

func overlayLabel(res *ScanResult) string {
	switch {
	case !res.Decoded():
		return "no code: " + res.Error
	case res.ChecksumOK:
		return res.Formatted() + " OK"
	default:
		return res.Formatted() + " CHECKSUM"
	}
}

// drawLabel writes text in the top-left corner on a filled strip.
func drawLabel(dst *image.RGBA, text string, style OverlayStyle) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(style.Label),
		Face: face,
	}
	w := d.MeasureString(text).Ceil()
	h := face.Metrics().Height.Ceil()
	utils.FillRect(dst, image.Rect(0, 0, w+4, h+4), style.LabelBack)

	d.Dot = fixed.P(2, 2+face.Metrics().Ascent.Ceil())
	d.DrawString(text)
}
