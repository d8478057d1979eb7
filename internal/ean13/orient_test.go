package ean13

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func digitsOf(values []int, parities string) []Digit {
	out := make([]Digit, len(values))
	for i, v := range values {
		p := ParityEven
		if parities[i] == 'L' {
			p = ParityOdd
		}
		out[i] = Digit{Value: v, Parity: p}
	}
	return out
}

func TestOrient(t *testing.T) {
	forward := digitsOf([]int{3, 1, 0, 2, 3, 2, 9, 5, 4, 7, 9, 0}, "LGGLGLRRRRRR")

	got, reversed := Orient(forward)
	assert.False(t, reversed)
	assert.Equal(t, forward, got)

	backward := make([]Digit, len(forward))
	for i, d := range forward {
		backward[len(forward)-1-i] = d
	}
	snapshot := append([]Digit(nil), backward...)

	got, reversed = Orient(backward)
	assert.True(t, reversed)
	assert.Equal(t, forward, got)
	assert.Equal(t, snapshot, backward, "input must not be modified")
}

func TestOrient_Empty(t *testing.T) {
	got, reversed := Orient(nil)
	assert.False(t, reversed)
	assert.Empty(t, got)
}

func TestCountryCode(t *testing.T) {
	tests := []struct {
		parities string
		want     int
	}{
		{"LLLLLL", 0},
		// 1 is 110100. 101000 (LGLGGG) is not a first-digit pattern, see the last case.
		{"LLGLGG", 1},
		{"LLGGLG", 2},
		{"LLGGGL", 3},
		{"LGLLGG", 4},
		{"LGGLLG", 5},
		{"LGGGLL", 6},
		{"LGLGLG", 7},
		{"LGLGGL", 8},
		{"LGGLGL", 9},
		{"GGGGGG", UnknownCountry},
		{"LLLLLG", UnknownCountry},
		{"LGLGGG", UnknownCountry}, // 101000
	}
	for _, tt := range tests {
		t.Run(tt.parities, func(t *testing.T) {
			digits := digitsOf([]int{1, 2, 3, 4, 5, 6}, tt.parities)
			assert.Equal(t, tt.want, CountryCode(digits))
		})
	}

	assert.Equal(t, UnknownCountry, CountryCode(nil))
}

func TestCountryCode_UndecodedDigitCountsAsEven(t *testing.T) {
	digits := digitsOf([]int{3, 1, 0, 2, 3, 2}, "LGGLGL")
	digits[1] = Digit{Value: Undecodable}
	assert.Equal(t, 9, CountryCode(digits))
}

func TestAssemble(t *testing.T) {
	digits := digitsOf([]int{3, 1, 0, 2, 3, 2, 9, 5, 4, 7, 9, 0}, "LGGLGLRRRRRR")
	dec := Assemble(digits)

	assert.Equal(t, 9, dec.CountryCode)
	assert.Equal(t, [13]int{9, 3, 1, 0, 2, 3, 2, 9, 5, 4, 7, 9, 0}, dec.Digits)
	assert.True(t, dec.Complete())
	assert.Equal(t, "9 310232 954790", dec.String())
	assert.Equal(t, "9310232954790", dec.Code())
}

func TestAssemble_Sentinels(t *testing.T) {
	digits := digitsOf([]int{3, 1, 0, 2, 3, 2, 9, 5, 4, 7, 9, 0}, "GGGGGGRRRRRR")
	digits[8] = Digit{Value: Undecodable}
	dec := Assemble(digits)

	assert.Equal(t, UnknownCountry, dec.CountryCode)
	assert.Equal(t, UnknownCountry, dec.Digits[0])
	assert.Equal(t, Undecodable, dec.Digits[9])
	assert.False(t, dec.Complete())
	assert.Equal(t, "? 310232 95?790", dec.String())

	short := Assemble(digits[:3])
	assert.Equal(t, Undecodable, short.Digits[12])
}
