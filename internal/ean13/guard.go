package ean13

import "math"

const (
	// guardWindow is the number of bars in a guard triple.
	guardWindow = 3

	// symbolBars counts the quiet-zone bar before the start guard, the three
	// guards, the 48 data bars and the trailing quiet-zone bar.
	symbolBars = 61

	leftDataOffset   = 4
	middleGuardInk   = 29
	rightDataOffset  = 33
	endGuardOffset   = 57
	unitBars         = 4
	unitsPerHalf     = 6
	halfDataBars     = unitBars * unitsPerHalf
	digitsPerSymbol  = 2 * unitsPerHalf
	guardModuleCount = 3
	guardModuleValue = 2
)

// LocateGuard returns the index of the quiet-zone bar that precedes the start guard.
// The first ink-led triple whose two modules-of-3 widths are both 2 is the guard.
func LocateGuard(bars []Bar) (int, error) {
	for i := 1; i+guardWindow <= len(bars); i++ {
		if bars[i].Polarity != Ink {
			continue
		}
		if !isGuardTriple(bars[i : i+guardWindow]) {
			continue
		}
		guard := i - 1
		if len(bars) < guard+symbolBars {
			return 0, ErrGuardNotFound
		}
		return guard, nil
	}
	return 0, ErrGuardNotFound
}

// VerifyGuards checks that the middle and end guards sit where the start guard implies.
func VerifyGuards(bars []Bar, guard int) error {
	if guard < 0 || len(bars) < guard+symbolBars {
		return ErrGuardNotFound
	}
	for _, off := range []int{middleGuardInk, endGuardOffset} {
		triple := bars[guard+off : guard+off+guardWindow]
		if triple[0].Polarity != Ink || !isGuardTriple(triple) {
			return ErrGuardMismatch
		}
	}
	return nil
}

func isGuardTriple(b []Bar) bool {
	t1, t2 := guardModules(b[0].Width, b[1].Width, b[2].Width)
	return t1 == guardModuleValue && t2 == guardModuleValue
}

// guardModules quantizes adjacent pairs of a triple to modules of 3.
func guardModules(w0, w1, w2 int) (int, int) {
	total := float64(w0 + w1 + w2)
	if total == 0 {
		return 0, 0
	}
	t1 := int(math.Round(guardModuleCount * float64(w0+w1) / total))
	t2 := int(math.Round(guardModuleCount * float64(w1+w2) / total))
	return t1, t2
}
