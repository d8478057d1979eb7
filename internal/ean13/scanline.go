package ean13

import "math"

// Scanline is an ordered run of 0/1 samples taken along a line.
type Scanline []uint8

// SampleScanline walks the segment through g.Centroid spanning the mask width
// along g.Angle and returns every in-bounds pixel it crosses, one endpoint to
// the other, using 4-connected steps.
func SampleScanline(m Mask, g Geometry) Scanline {
	if m.Width == 0 || m.Height == 0 {
		return nil
	}
	x0, y0, x1, y1 := ScanEndpoints(m.Width, g)

	var out Scanline
	walk4(x0, y0, x1, y1, func(x, y int) {
		if m.In(x, y) {
			out = append(out, m.At(x, y))
		}
	})
	return out
}

// ScanEndpoints returns the pixel endpoints of the segment through g.Centroid
// that extends span pixels to each side along g.Angle.
func ScanEndpoints(span int, g Geometry) (x0, y0, x1, y1 int) {
	dx := float64(span) * math.Cos(g.Angle)
	// y-up angle, raster rows grow downwards
	dy := -float64(span) * math.Sin(g.Angle)

	x0 = int(math.Round(g.Centroid.X - dx))
	y0 = int(math.Round(g.Centroid.Y - dy))
	x1 = int(math.Round(g.Centroid.X + dx))
	y1 = int(math.Round(g.Centroid.Y + dy))
	return x0, y0, x1, y1
}

// Sample is SampleScanline with the empty result reported as ErrEmptyScanline.
func Sample(m Mask, g Geometry) (Scanline, error) {
	s := SampleScanline(m, g)
	if len(s) == 0 {
		return nil, ErrEmptyScanline
	}
	return s, nil
}

// walk4 visits the pixels of a 4-connected digital line from (x0,y0) to (x1,y1).
func walk4(x0, y0, x1, y1 int, visit func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	x, y := x0, y0
	for {
		visit(x, y)
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * e
		if e2-dy > dx-e2 {
			e += dy
			x += sx
		} else {
			e += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
