package compat

import "testing"

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{name: "equal", a: "6.0", b: "6.0", expected: 0},
		{name: "equal_missing_trailing", a: "7", b: "7.0", expected: 0},
		{name: "equal_extra_zeros", a: "6.1", b: "6.1.0.0", expected: 0},
		{name: "minor_less", a: "6.0", b: "6.1", expected: -1},
		{name: "minor_greater", a: "6.2", b: "6.1", expected: 1},
		{name: "numeric_not_string_order", a: "10.0", b: "9.9", expected: 1},
		{name: "major_wins", a: "7.0", b: "6.99", expected: 1},
		{name: "malformed_component_is_zero", a: "6.x", b: "6.0", expected: 0},
		{name: "malformed_less_than_real", a: "6.x", b: "6.1", expected: -1},
		{name: "whitespace_tolerated", a: " 6.1", b: "6.1 ", expected: 0},
		{name: "empty_is_zero", a: "", b: "0", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompareVersions(tt.a, tt.b); got != tt.expected {
				t.Errorf("CompareVersions(%q, %q) = %d, expected %d", tt.a, tt.b, got, tt.expected)
			}

			// Antisymmetry: swapping arguments must invert the sign.
			if got := CompareVersions(tt.b, tt.a); got != -tt.expected {
				t.Errorf("CompareVersions(%q, %q) = %d, expected %d", tt.b, tt.a, got, -tt.expected)
			}
		})
	}
}

func TestAtLeast(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		min      string
		expected bool
	}{
		{name: "above", current: "6.9", min: "6.1", expected: true},
		{name: "boundary_equal", current: "6.1", min: "6.1", expected: true},
		{name: "below", current: "6.0", min: "6.1", expected: false},
		{name: "two_digit_components", current: "6.10", min: "6.9", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AtLeast(tt.current, tt.min); got != tt.expected {
				t.Errorf("AtLeast(%q, %q) = %v, expected %v", tt.current, tt.min, got, tt.expected)
			}
		})
	}
}
