package telemetry

import "testing"

func TestKelvinToCelsius(t *testing.T) {
	cases := []struct {
		k, want float64
	}{
		{273.15, 0},
		{298.1, 24.95},
		{0, -273.15},
		{310.0, 36.85},
	}
	for _, tc := range cases {
		if got := KelvinToCelsius(tc.k); Round2(got) != tc.want {
			t.Fatalf("KelvinToCelsius(%v) = %v, want %v", tc.k, got, tc.want)
		}
	}
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{1.005, 1.0}, // float64 1.005 sits slightly below the midpoint
		{2.344, 2.34},
		{2.3456, 2.35},
		{-1.234, -1.23},
		{100, 100},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Fatalf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCelsiusPtrNil(t *testing.T) {
	if got := CelsiusPtr(nil); got != nil {
		t.Fatalf("expected nil, got %v", *got)
	}
	k := 298.1
	got := CelsiusPtr(&k)
	if got == nil || *got != 24.95 {
		t.Fatalf("CelsiusPtr(298.1) = %v, want 24.95", got)
	}
}
