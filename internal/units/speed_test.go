package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValid(t *testing.T) {
	for _, u := range ValidUnits {
		assert.True(t, IsValid(u), u)
	}
	assert.False(t, IsValid("knots"))
	assert.False(t, IsValid("MPH"))
}

func TestParse(t *testing.T) {
	u, err := Parse(" MPH ")
	require.NoError(t, err)
	assert.Equal(t, MPH, u)

	u, err = Parse("")
	require.NoError(t, err)
	assert.Equal(t, MPS, u)

	_, err = Parse("furlongs")
	assert.ErrorContains(t, err, "mps, mph, kmph, kph")
}

func TestConvertSpeed(t *testing.T) {
	tests := []struct {
		unit string
		want float64
	}{
		{MPS, 10},
		{MPH, 22.369362920544},
		{KMPH, 36},
		{KPH, 36},
		{"unknown", 10},
	}
	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			assert.InDelta(t, tt.want, ConvertSpeed(10, tt.unit), 1e-9)
		})
	}
}

func TestToMPS_InvertsConvertSpeed(t *testing.T) {
	for _, u := range append(ValidUnits, "unknown") {
		assert.InDelta(t, 7.5, ToMPS(ConvertSpeed(7.5, u), u), 1e-12, u)
	}
}
