package core

import "math"

// CheckedMultiply multiplies two non-negative ints and reports whether
// the product overflowed. Used by allocation-sizing code (framebuffer
// rows*cols, kd-tree index arrays) that must fail AllocationFailed
// rather than silently wrap.
func CheckedMultiply(a, b int) (product int, ok bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	product = a * b
	if product/a != b {
		return 0, false
	}
	return product, true
}

// CheckedAdd adds two ints and reports whether the sum overflowed.
func CheckedAdd(a, b int) (sum int, ok bool) {
	sum = a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

// FitsInBits reports whether v can be represented in the given number
// of unsigned bits, as required by the compressed kd-tree node payload
// (30-bit offsets/counts).
func FitsInBits(v int, bits uint) bool {
	if v < 0 {
		return false
	}
	limit := 1 << bits
	return v < limit
}

// IsPowerOfTwo reports whether v is a power of two (used to validate
// alignment arguments per the InvalidArgumentCombination contract).
func IsPowerOfTwo(v uint64) bool {
	return v != 0 && v&(v-1) == 0
}

// RoundUpToAlignment rounds size up to the next multiple of alignment,
// which must be a power of two.
func RoundUpToAlignment(size, alignment int) int {
	a := alignment - 1
	return (size + a) &^ a
}

// Finite reports whether f is neither NaN nor infinite.
func Finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// FiniteNonNegative reports whether f is finite and >= 0.
func FiniteNonNegative(f float64) bool {
	return Finite(f) && f >= 0
}
