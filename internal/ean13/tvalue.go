package ean13

import "math"

const (
	unitModules = 7
	minModule   = 1
	maxModule   = 5
)

// TVal holds the module widths of one 4-bar digit unit: T1..T3 are the widths of
// adjacent bar pairs, T4 the width of the last bar in reading order.
type TVal struct {
	T1, T2, T3, T4 int
}

// ModuleSeven converts a width to modules of a 7-module unit of the given total
// width, clamped to [1,5]. Out-of-range values are quantization noise.
func ModuleSeven(width, total int) int {
	if total <= 0 {
		return minModule
	}
	t := int(math.Round(unitModules * float64(width) / float64(total)))
	switch {
	case t < minModule:
		return minModule
	case t > maxModule:
		return maxModule
	default:
		return t
	}
}

// UnitTVal normalizes four bar widths read in the given order.
func UnitTVal(w0, w1, w2, w3 int) TVal {
	total := w0 + w1 + w2 + w3
	return TVal{
		T1: ModuleSeven(w0+w1, total),
		T2: ModuleSeven(w1+w2, total),
		T3: ModuleSeven(w2+w3, total),
		T4: ModuleSeven(w3, total),
	}
}

// NormalizeUnits extracts the twelve digit units anchored at guard.
// Left-half units are read right to left, right-half units left to right.
func NormalizeUnits(bars []Bar, guard int) ([digitsPerSymbol]TVal, error) {
	var out [digitsPerSymbol]TVal
	if guard < 0 || len(bars) < guard+symbolBars {
		return out, ErrGuardNotFound
	}
	left := bars[guard+leftDataOffset : guard+leftDataOffset+halfDataBars]
	right := bars[guard+rightDataOffset : guard+rightDataOffset+halfDataBars]
	for u := 0; u < unitsPerHalf; u++ {
		b := left[u*unitBars : (u+1)*unitBars]
		out[u] = UnitTVal(b[3].Width, b[2].Width, b[1].Width, b[0].Width)
	}
	for u := 0; u < unitsPerHalf; u++ {
		b := right[u*unitBars : (u+1)*unitBars]
		out[unitsPerHalf+u] = UnitTVal(b[0].Width, b[1].Width, b[2].Width, b[3].Width)
	}
	return out, nil
}
