package repparser

import (
	"math"
	"testing"
)

func TestRawBitsToFloatRoundTrip(t *testing.T) {
	cases := []float32{0, 1, -1, 3.14159, -273.15, 1e10, -1e-10}
	for _, want := range cases {
		bits := math.Float32bits(want)
		if got := rawBitsToFloat(bits); got != want {
			t.Errorf("rawBitsToFloat(%#x) = %v, want %v", bits, got, want)
		}
	}
}
