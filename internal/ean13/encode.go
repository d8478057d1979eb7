package ean13

import "fmt"

// Module width patterns of the odd (L) set; the even (G) set is each pattern
// reversed and the right (R) set is the L set starting on ink.
var lPatterns = [10][4]int{
	{3, 2, 1, 1},
	{2, 2, 2, 1},
	{2, 1, 2, 2},
	{1, 4, 1, 1},
	{1, 1, 3, 2},
	{1, 2, 3, 1},
	{1, 1, 1, 4},
	{1, 3, 1, 2},
	{1, 2, 1, 3},
	{3, 1, 1, 2},
}

var (
	startEndPattern = []int{1, 1, 1}
	middlePattern   = []int{1, 1, 1, 1, 1}
)

// SymbolModules is the width of an EAN-13 symbol without quiet zones.
const SymbolModules = 3 + 6*7 + 5 + 6*7 + 3

// EncodeOptions controls bar rendering.
type EncodeOptions struct {
	ModuleWidth  int // pixels per module
	QuietModules int // quiet zone on each side, in modules
}

// DefaultEncodeOptions returns a 2px module with the standard 9-module quiet zone.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{ModuleWidth: 2, QuietModules: 9}
}

// ParseCode parses 12 or 13 ASCII digits. With 12 digits the check digit is
// appended; with 13 it must match.
func ParseCode(code string) ([13]int, error) {
	var d [13]int
	if len(code) != 12 && len(code) != 13 {
		return d, fmt.Errorf("%w: want 12 or 13 digits, got %d", ErrInvalidCode, len(code))
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if c < '0' || c > '9' {
			return d, fmt.Errorf("%w: non-digit %q at %d", ErrInvalidCode, c, i)
		}
		d[i] = int(c - '0')
	}
	check := ExpectedCheckDigit(d)
	if len(code) == 12 {
		d[12] = check
		return d, nil
	}
	if d[12] != check {
		return d, fmt.Errorf("%w: check digit %d, want %d", ErrInvalidCode, d[12], check)
	}
	return d, nil
}

// Encode renders a code to bars, including quiet zones.
func Encode(code string, opts EncodeOptions) ([]Bar, error) {
	digits, err := ParseCode(code)
	if err != nil {
		return nil, err
	}
	return EncodeDigits(digits, opts)
}

// EncodeDigits renders thirteen digits to bars without validating the check digit.
func EncodeDigits(digits [13]int, opts EncodeOptions) ([]Bar, error) {
	if opts.ModuleWidth <= 0 {
		return nil, fmt.Errorf("%w: module width %d", ErrInvalidCode, opts.ModuleWidth)
	}
	for i, v := range digits {
		if v < 0 || v > 9 {
			return nil, fmt.Errorf("%w: digit %d at %d", ErrInvalidCode, v, i)
		}
	}

	// module runs, alternating colour, first run is background
	runs := make([]int, 0, 64)
	runs = append(runs, max(opts.QuietModules, 1))
	runs = append(runs, startEndPattern...)

	parities := firstDigitPatterns[digits[0]]
	for i := 1; i <= 6; i++ {
		p := lPatterns[digits[i]]
		if (parities>>(6-i))&1 == 0 {
			p = [4]int{p[3], p[2], p[1], p[0]}
		}
		runs = append(runs, p[:]...)
	}
	runs = append(runs, middlePattern...)
	for i := 7; i <= 12; i++ {
		p := lPatterns[digits[i]]
		runs = append(runs, p[:]...)
	}
	runs = append(runs, startEndPattern...)
	runs = append(runs, max(opts.QuietModules, 1))

	bars := make([]Bar, len(runs))
	for i, r := range runs {
		pol := Background
		if i%2 == 1 {
			pol = Ink
		}
		bars[i] = Bar{Width: r * opts.ModuleWidth, Polarity: pol}
	}
	return bars, nil
}

// RenderMask lays bars out left to right as vertical stripes of the given height.
func RenderMask(bars []Bar, height int) Mask {
	width := 0
	for _, b := range bars {
		width += b.Width
	}
	m := NewMask(width, height)
	x := 0
	for _, b := range bars {
		if b.Polarity == Ink {
			for y := 0; y < height; y++ {
				for dx := 0; dx < b.Width; dx++ {
					m.Set(x+dx, y, true)
				}
			}
		}
		x += b.Width
	}
	return m
}
