package main

import "testing"

func TestMemsize(t *testing.T) {
	cases := []struct {
		bits float64
		unit string
	}{
		{8, "B"},
		{8 * kiB, "kiB"},
		{8 * miB, "MiB"},
		{8 * giB, "GiB"},
	}

	for _, tc := range cases {
		_, unit := memsize(tc.bits)
		if unit != tc.unit {
			t.Errorf("memsize(%v) unit = %q, want %q", tc.bits, unit, tc.unit)
		}
	}
}
