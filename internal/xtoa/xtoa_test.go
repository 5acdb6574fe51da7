package xtoa

import "testing"

// TestItoA checks digit extraction for the zero, positive, and negative
// cases, following the teacher's table-driven style (backend/xtoa/xtoa_test.go).
func TestItoA(t *testing.T) {
	cases := []struct {
		in  int
		out string
	}{
		{0, "0"},
		{1, "1"},
		{9, "9"},
		{10, "10"},
		{42, "42"},
		{-1, "-1"},
		{-123, "-123"},
		{1234567890, "1234567890"},
	}
	for _, c := range cases {
		if got := ItoA(c.in); got != c.out {
			t.Errorf("ItoA(%d) = %q, want %q", c.in, got, c.out)
		}
	}
}
