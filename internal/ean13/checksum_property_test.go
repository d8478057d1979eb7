package ean13

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func toDigits(values []int) [13]int {
	var d [13]int
	copy(d[:], values)
	return d
}

func TestValidate_Reference(t *testing.T) {
	ref := [13]int{9, 3, 1, 0, 2, 3, 2, 9, 5, 4, 7, 9, 0}
	assert.Equal(t, 0, ExpectedCheckDigit(ref))
	assert.True(t, Validate(Decoding{CountryCode: 9, Digits: ref}))

	ref[12] = 7
	assert.False(t, Validate(Decoding{CountryCode: 9, Digits: ref}))

	assert.Equal(t, 1, ExpectedCheckDigit([13]int{4, 0, 0, 6, 3, 8, 1, 3, 3, 3, 9, 3}))
}

func TestValidate_MatchesWeightedSum(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("validate agrees with the weighted mod-10 rule", prop.ForAll(
		func(values []int) bool {
			d := toDigits(values)
			odds, evens := 0, 0
			for i := 0; i < 12; i++ {
				if i%2 == 1 {
					odds += d[i]
				} else {
					evens += d[i]
				}
			}
			want := (10 - (3*odds+evens)%10) % 10
			return Validate(Decoding{Digits: d}) == (d[12] == want)
		},
		gen.SliceOfN(13, gen.IntRange(0, 9)),
	))

	properties.Property("exactly one check digit validates", prop.ForAll(
		func(values []int) bool {
			d := toDigits(values)
			matches := 0
			for c := 0; c <= 9; c++ {
				d[12] = c
				if Validate(Decoding{Digits: d}) {
					matches++
				}
			}
			return matches == 1
		},
		gen.SliceOfN(13, gen.IntRange(0, 9)),
	))

	properties.TestingRun(t)
}
