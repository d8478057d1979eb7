package ean13

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleSeven(t *testing.T) {
	tests := []struct {
		name         string
		width, total int
		want         int
	}{
		{"raw zero clamps to one", 0, 10, 1},
		{"raw 0.47 clamps to one", 1, 15, 1},
		{"raw 0.5 rounds up", 1, 14, 1},
		{"exact three", 3, 7, 3},
		{"exact five", 5, 7, 5},
		{"raw 5.5 clamps to five", 11, 14, 5},
		{"raw six clamps to five", 6, 7, 5},
		{"raw seven clamps to five", 10, 10, 5},
		{"zero total", 3, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ModuleSeven(tt.width, tt.total))
		})
	}
}

func TestModuleSeven_AlwaysInRange(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("module widths stay within [1,5]", prop.ForAll(
		func(width, extra int) bool {
			v := ModuleSeven(width, width+extra)
			return v >= 1 && v <= 5
		},
		gen.IntRange(0, 500),
		gen.IntRange(0, 500),
	))

	properties.TestingRun(t)
}

func TestUnitTVal_ScaleInvariant(t *testing.T) {
	for scale := 1; scale <= 6; scale++ {
		tv := UnitTVal(3*scale, 2*scale, scale, scale)
		assert.Equal(t, TVal{T1: 5, T2: 3, T3: 2, T4: 1}, tv, "scale %d", scale)
	}
}

func TestNormalizeUnits(t *testing.T) {
	bars := mustEncode(t, "9310232954790", 3)

	units, err := NormalizeUnits(bars, 0)
	require.NoError(t, err)

	// first left digit 3 is L-coded (1,4,1,1) and read right to left
	assert.Equal(t, TVal{T1: 2, T2: 5, T3: 5, T4: 1}, units[0])
	// first right digit 9 is R-coded (3,1,1,2) and read left to right
	assert.Equal(t, TVal{T1: 4, T2: 2, T3: 3, T4: 2}, units[6])
}

func TestNormalizeUnits_OutOfRange(t *testing.T) {
	bars := mustEncode(t, "9310232954790", 1)

	_, err := NormalizeUnits(bars, 1)
	require.ErrorIs(t, err, ErrGuardNotFound)

	_, err = NormalizeUnits(bars, -1)
	require.ErrorIs(t, err, ErrGuardNotFound)
}
