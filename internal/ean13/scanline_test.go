package ean13

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleScanline_Horizontal(t *testing.T) {
	m := NewMask(10, 3)
	row := []uint8{0, 255, 255, 0, 7, 0, 0, 1, 1, 0}
	copy(m.Pix[10:20], row)

	line := SampleScanline(m, Geometry{Centroid: Point{X: 4.5, Y: 1}, Angle: 0})
	assert.Equal(t, Scanline{0, 1, 1, 0, 1, 0, 0, 1, 1, 0}, line)
}

func TestSampleScanline_Vertical(t *testing.T) {
	m := NewMask(3, 5)
	for y, v := range []bool{true, false, true, true, false} {
		m.Set(1, y, v)
	}

	// +90 degrees points up the image, so the column is read bottom to top
	line := SampleScanline(m, Geometry{Centroid: Point{X: 1, Y: 2}, Angle: math.Pi / 2})
	assert.Equal(t, Scanline{0, 1, 1, 0, 1}, line)
}

func TestSampleScanline_OnlyBinaryValues(t *testing.T) {
	m := NewMask(16, 16)
	for i := range m.Pix {
		m.Pix[i] = uint8(i * 37)
	}
	line := SampleScanline(m, Geometry{Centroid: Point{X: 8, Y: 8}, Angle: 0.3})
	require.NotEmpty(t, line)
	for _, v := range line {
		assert.True(t, v == 0 || v == 1)
	}
}

func TestSample_Empty(t *testing.T) {
	_, err := Sample(Mask{}, Geometry{})
	require.ErrorIs(t, err, ErrEmptyScanline)

	// line entirely outside the raster
	_, err = Sample(NewMask(5, 5), Geometry{Centroid: Point{X: 100, Y: 100}})
	require.ErrorIs(t, err, ErrEmptyScanline)
}

func TestWalk4_IsFourConnected(t *testing.T) {
	var pts [][2]int
	walk4(0, 0, 7, 3, func(x, y int) { pts = append(pts, [2]int{x, y}) })

	require.Equal(t, [2]int{0, 0}, pts[0])
	require.Equal(t, [2]int{7, 3}, pts[len(pts)-1])
	// every step moves along exactly one axis
	assert.Len(t, pts, 7+3+1)
	for i := 1; i < len(pts); i++ {
		dx := abs(pts[i][0] - pts[i-1][0])
		dy := abs(pts[i][1] - pts[i-1][1])
		assert.Equal(t, 1, dx+dy)
	}
}

func TestScanEndpoints(t *testing.T) {
	x0, y0, x1, y1 := ScanEndpoints(10, Geometry{Centroid: Point{X: 20, Y: 5}})
	assert.Equal(t, []int{10, 5, 30, 5}, []int{x0, y0, x1, y1})

	// y-up: a positive quarter turn points towards row 0
	x0, y0, x1, y1 = ScanEndpoints(4, Geometry{Centroid: Point{X: 5, Y: 5}, Angle: math.Pi / 2})
	assert.Equal(t, []int{5, 9, 5, 1}, []int{x0, y0, x1, y1})
}
