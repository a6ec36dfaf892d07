package core

import "math/bits"

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Log2 returns log2(n) for a power of two n.
func Log2(n int) int {
	return bits.TrailingZeros(uint(n))
}

// Alias maps a grid index in [0, n) to its signed frequency in (-n/2, n/2].
func Alias(x, n int) int {
	if x > n/2 {
		return x - n
	}
	return x
}

// ValidateSize returns a ConfigError when n is not a usable grid size.
func ValidateSize(field string, n int) error {
	if !IsPowerOfTwo(n) {
		return &ConfigError{Field: field, Value: n, Reason: "must be a positive power of two"}
	}
	return nil
}
