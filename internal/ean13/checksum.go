package ean13

// ExpectedCheckDigit computes the check digit for digits[0..11]. digits[12] is ignored.
func ExpectedCheckDigit(digits [13]int) int {
	odds, evens := 0, 0
	for i := 0; i < 12; i++ {
		if i%2 == 1 {
			odds += digits[i]
		} else {
			evens += digits[i]
		}
	}
	check := (3*odds + evens) % 10
	if check < 0 {
		check += 10
	}
	if check == 0 {
		return 0
	}
	return 10 - check
}

// Validate reports whether the stored check digit matches the computed one.
func Validate(d Decoding) bool {
	return d.Digits[12] == ExpectedCheckDigit(d.Digits)
}
