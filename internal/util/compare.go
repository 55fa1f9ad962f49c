package util

import "crypto/subtle"

// ConstantTimeEqual reports whether a and b hold the same bytes, comparing
// in constant time regardless of where the first difference occurs. Used
// to compare password verifiers without leaking timing information about
// how many leading bytes matched.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
