package ean13

import (
	"strconv"
	"strings"
)

// UnknownCountry is the country digit reported for an unrecognized parity pattern.
const UnknownCountry = -1

// firstDigitPatterns lists the parity pattern of the six left digits for each
// leading digit, most significant bit first, 1 = odd, 0 = even.
var firstDigitPatterns = [10]uint8{
	0b111111,
	0b110100,
	0b110010,
	0b110001,
	0b101100,
	0b100110,
	0b100011,
	0b101010,
	0b101001,
	0b100101,
}

// Decoding is a full 13-digit result. Digits[0] is the country digit; entries
// that could not be decoded hold -1.
type Decoding struct {
	CountryCode int
	Digits      [13]int
}

// Complete reports whether every position holds a real digit.
func (d Decoding) Complete() bool {
	for _, v := range d.Digits {
		if v < 0 || v > 9 {
			return false
		}
	}
	return true
}

// String renders the decoding as "C LLLLLL RRRRRR", using '?' for unknown digits.
func (d Decoding) String() string {
	var sb strings.Builder
	for i, v := range d.Digits {
		if i == 1 || i == 7 {
			sb.WriteByte(' ')
		}
		if v < 0 || v > 9 {
			sb.WriteByte('?')
			continue
		}
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}

// Code returns the thirteen digits without separators, '?' marking unknown digits.
func (d Decoding) Code() string {
	return strings.ReplaceAll(d.String(), " ", "")
}

// Orient returns the digits in left-to-right symbol order. The leftmost digit of
// an EAN-13 symbol is always odd, so an even first digit means the line was read
// backwards. The input is not modified.
func Orient(digits []Digit) ([]Digit, bool) {
	out := make([]Digit, len(digits))
	if len(digits) > 0 && digits[0].Parity == ParityEven {
		for i, d := range digits {
			out[len(digits)-1-i] = d
		}
		return out, true
	}
	copy(out, digits)
	return out, false
}

// ParityPattern packs the parities of the first six digits, MSB first, 1 = odd.
func ParityPattern(digits []Digit) uint8 {
	var p uint8
	for i := 0; i < unitsPerHalf && i < len(digits); i++ {
		p <<= 1
		if digits[i].Parity == ParityOdd {
			p |= 1
		}
	}
	return p
}

// CountryCode resolves the implicit leading digit from the left-half parities.
func CountryCode(digits []Digit) int {
	if len(digits) < unitsPerHalf {
		return UnknownCountry
	}
	p := ParityPattern(digits)
	for d, want := range firstDigitPatterns {
		if p == want {
			return d
		}
	}
	return UnknownCountry
}

// Assemble prefixes the oriented digits with their country digit.
func Assemble(digits []Digit) Decoding {
	dec := Decoding{CountryCode: CountryCode(digits)}
	dec.Digits[0] = dec.CountryCode
	for i := 1; i < len(dec.Digits); i++ {
		dec.Digits[i] = Undecodable
		if i-1 < len(digits) {
			dec.Digits[i] = digits[i-1].Value
		}
	}
	return dec
}
