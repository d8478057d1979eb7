package ean13

import "math"

// Point is a position in pixel coordinates (x = column, y = row).
type Point struct {
	X float64
	Y float64
}

// Geometry describes the ink blob: its centroid and the angle of its principal axis.
// The angle is in radians in the y-up convention produced by the moment formula.
type Geometry struct {
	Centroid Point
	Angle    float64
}

// Moments holds the raw spatial moments of the ink pixels up to second order.
type Moments struct {
	M00, M10, M01 float64
	M11, M20, M02 float64
}

// ComputeMoments accumulates raw moments with unit mass per ink pixel.
func ComputeMoments(m Mask) Moments {
	var mo Moments
	for y := 0; y < m.Height; y++ {
		row := m.Pix[y*m.Width : (y+1)*m.Width]
		fy := float64(y)
		for x, v := range row {
			if v == 0 {
				continue
			}
			fx := float64(x)
			mo.M00++
			mo.M10 += fx
			mo.M01 += fy
			mo.M11 += fx * fy
			mo.M20 += fx * fx
			mo.M02 += fy * fy
		}
	}
	return mo
}

// Centroid returns the ink centroid. ok is false when there is no ink.
func (mo Moments) Centroid() (Point, bool) {
	if mo.M00 == 0 {
		return Point{}, false
	}
	return Point{X: mo.M10 / mo.M00, Y: mo.M01 / mo.M00}, true
}

// Orientation returns the principal-axis angle of the ink blob.
func (mo Moments) Orientation() float64 {
	num := 2 * (mo.M00*mo.M11 - mo.M10*mo.M01)
	den := (mo.M00*mo.M20 - mo.M10*mo.M10) - (mo.M00*mo.M02 - mo.M01*mo.M01)
	return -0.5 * math.Atan2(num, den)
}

// EstimateGeometry computes the centroid and orientation of the ink in m.
// The caller must supply a mask where ink is nonzero.
func EstimateGeometry(m Mask) (Geometry, error) {
	mo := ComputeMoments(m)
	c, ok := mo.Centroid()
	if !ok {
		return Geometry{}, ErrEmptyMask
	}
	return Geometry{Centroid: c, Angle: mo.Orientation()}, nil
}
