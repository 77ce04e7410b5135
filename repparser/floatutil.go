package repparser

import "math"

// rawBitsToFloat reinterprets a 32-bit wire value as an IEEE-754 float,
// the Go standard library's equivalent of the original's manual
// sign/exponent/mantissa decomposition (raw_bits_to_float).
func rawBitsToFloat(bits uint32) float32 {
	return math.Float32frombits(bits)
}
