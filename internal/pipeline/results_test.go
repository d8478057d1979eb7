package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/eanscan/internal/ean13"
)

func TestNewFailedResult(t *testing.T) {
	res := NewFailedResult(10, 5, errors.New("no guard"))
	assert.False(t, res.Decoded())
	assert.False(t, res.Valid())
	assert.Equal(t, "?????????????", res.Code)
	assert.Equal(t, ean13.UnknownCountry, res.CountryCode)
	assert.Empty(t, res.Formatted())
	assert.Equal(t, "no guard", res.Error)
}

func TestScanResult_Nil(t *testing.T) {
	var res *ScanResult
	assert.False(t, res.Decoded())
	assert.False(t, res.Valid())
	assert.Empty(t, res.Formatted())
}

func TestScanResult_ChecksumWithUndecodedDigits(t *testing.T) {
	digits := [13]int{9, 3, 1, -1, 2, 3, 2, 9, 5, 4, 7, 9, 3}
	require.True(t, ean13.Validate(ean13.Decoding{Digits: digits}), "the weighted sum ignores completeness")

	res := &ScanResult{
		Digits:      digits,
		Code:        ean13.Decoding{Digits: digits}.Code(),
		CountryCode: 9,
		ChecksumOK:  true,
		Undecoded:   1,
	}
	assert.True(t, res.Decoded())
	assert.False(t, res.Valid())
	assert.Equal(t, "9 31?232 954793", res.Formatted())
}

func TestScanResult_Formatted(t *testing.T) {
	res := &ScanResult{
		Code:        "9310232954790",
		Digits:      [13]int{9, 3, 1, 0, 2, 3, 2, 9, 5, 4, 7, 9, 0},
		CountryCode: 9,
		ChecksumOK:  true,
	}
	assert.True(t, res.Valid())
	assert.Equal(t, "9 310232 954790", res.Formatted())
}
