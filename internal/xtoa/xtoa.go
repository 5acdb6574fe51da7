// Package xtoa converts signed integers into their ASCII decimal
// representation without going through fmt, for use in the pretty-printers
// where the formatted text is a determinism guarantee, not a convenience
// (spec.md §4 "Output": same input -> same output bytes).
package xtoa

// ItoA converts a signed integer to a byte stream of ASCII characters.
func ItoA(i int) string {
	res := make([]byte, 32) // Signed 64-bit signed int: (2^64) - 1 is ~ 1,8e19 = 20 characters at most.
	var sign bool

	// Check for negative value.
	if i < 0 {
		sign = true
		i = -i
	}

	// Set start index to last index of buffer.
	i1 := len(res) - 1

	if i == 0 {
		res[i1] = '0'
		i1--
	}

	// Insert digits back-to-front.
	for ; i1 >= 0 && i != 0; i1-- {
		res[i1] = byte((i % 10) + '0')
		i /= 10
	}

	if sign {
		res[i1] = '-'
		i1--
	}

	return string(res[i1+1:])
}
