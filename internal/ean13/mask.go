package ean13

// Mask is a row-major binary raster. Any nonzero value is ink.
type Mask struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewMask allocates an empty (all background) mask.
func NewMask(width, height int) Mask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Mask{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// In reports whether (x, y) lies inside the mask.
func (m Mask) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// At returns 1 for ink and 0 for background or out-of-bounds coordinates.
func (m Mask) At(x, y int) uint8 {
	if !m.In(x, y) {
		return 0
	}
	if m.Pix[y*m.Width+x] != 0 {
		return 1
	}
	return 0
}

// Set marks (x, y) as ink or background. Out-of-bounds writes are ignored.
func (m Mask) Set(x, y int, ink bool) {
	if !m.In(x, y) {
		return
	}
	var v uint8
	if ink {
		v = 1
	}
	m.Pix[y*m.Width+x] = v
}

// InkCount returns the number of ink pixels.
func (m Mask) InkCount() int {
	n := 0
	for _, v := range m.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}
