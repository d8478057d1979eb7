package ean13

// Polarity tells whether a bar is ink or background.
type Polarity uint8

const (
	Background Polarity = iota
	Ink
)

func (p Polarity) String() string {
	if p == Ink {
		return "ink"
	}
	return "background"
}

// Bar is a maximal run of equal samples.
type Bar struct {
	Width    int
	Polarity Polarity
}

// Segment run-length encodes a scanline into alternating bars.
func Segment(s Scanline) ([]Bar, error) {
	if len(s) == 0 {
		return nil, ErrEmptyScanline
	}
	bars := make([]Bar, 0, 64)
	cur := polarityOf(s[0])
	width := 0
	for _, v := range s {
		p := polarityOf(v)
		if p != cur {
			bars = append(bars, Bar{Width: width, Polarity: cur})
			cur = p
			width = 0
		}
		width++
	}
	// close the trailing run
	bars = append(bars, Bar{Width: width, Polarity: cur})
	return bars, nil
}

// ReverseBars returns the bars in reverse order, as seen by a scan in the opposite direction.
func ReverseBars(bars []Bar) []Bar {
	out := make([]Bar, len(bars))
	for i, b := range bars {
		out[len(bars)-1-i] = b
	}
	return out
}

// Widths returns the bar widths in order.
func Widths(bars []Bar) []int {
	out := make([]int, len(bars))
	for i, b := range bars {
		out[i] = b.Width
	}
	return out
}

func polarityOf(v uint8) Polarity {
	if v != 0 {
		return Ink
	}
	return Background
}
