package query

import (
	"testing"
	"time"
)

func TestParseWindow(t *testing.T) {
	cases := []struct {
		token string
		want  time.Duration
	}{
		{"24h", 24 * time.Hour},
		{"7d", 7 * 24 * time.Hour},
		{"30m", 30 * time.Minute},
		{"1H", time.Hour},   // case-insensitive
		{"2D", 48 * time.Hour},
		{"", DefaultWindow},
		{"weekly", DefaultWindow}, // unrecognized suffix falls back
		{"15", DefaultWindow},     // bare number has no unit
		{"xh", 0},                 // lenient: no leading digits parses as 0
		{"x3d", 0},
	}
	for _, tc := range cases {
		if got := ParseWindow(tc.token); got != tc.want {
			t.Fatalf("ParseWindow(%q) = %v, want %v", tc.token, got, tc.want)
		}
	}
}

func TestParseWindowMilliseconds(t *testing.T) {
	// The documented contract in milliseconds.
	cases := []struct {
		token  string
		wantMS int64
	}{
		{"24h", 86400000},
		{"7d", 604800000},
		{"30m", 1800000},
		{"", 86400000},
	}
	for _, tc := range cases {
		if got := ParseWindow(tc.token).Milliseconds(); got != tc.wantMS {
			t.Fatalf("ParseWindow(%q) = %dms, want %dms", tc.token, got, tc.wantMS)
		}
	}
}

func TestParseInterval(t *testing.T) {
	cases := []struct {
		token string
		want  int64
	}{
		{"1h", 3600},
		{"1d", 86400},
		{"5m", 300},
		{"90", 90}, // bare integer is seconds
		{"", DefaultIntervalSeconds},
		{"abc", DefaultIntervalSeconds},
		{"0", DefaultIntervalSeconds},  // zero width is unusable as a divisor
		{"0h", DefaultIntervalSeconds},
	}
	for _, tc := range cases {
		if got := ParseInterval(tc.token); got != tc.want {
			t.Fatalf("ParseInterval(%q) = %d, want %d", tc.token, got, tc.want)
		}
	}
}
