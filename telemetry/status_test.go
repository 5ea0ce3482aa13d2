package telemetry

import "testing"

func f(v float64) *float64 { return &v }

func TestClassifyRuleTable(t *testing.T) {
	th := Thresholds{WarningRUL: 50, CriticalRUL: 20}

	cases := []struct {
		name      string
		rul       *float64
		isFailure bool
		want      Status
	}{
		{"failure wins over healthy RUL", f(80), true, StatusCritical},
		{"failure with nil RUL", nil, true, StatusCritical},
		{"nil RUL without failure is warning", nil, false, StatusWarning},
		{"above warning threshold", f(80), false, StatusHealthy},
		{"exactly warning threshold", f(50), false, StatusWarning},
		{"between thresholds", f(45), false, StatusWarning},
		{"exactly critical threshold", f(20), false, StatusWarning},
		{"below critical threshold", f(10), false, StatusCritical},
		{"negative RUL", f(-3), false, StatusCritical},
	}

	for _, tc := range cases {
		if got := th.Classify(tc.rul, tc.isFailure); got != tc.want {
			t.Fatalf("%s: Classify(%v, %v) = %q, want %q", tc.name, tc.rul, tc.isFailure, got, tc.want)
		}
	}
}

func TestHealthPercent(t *testing.T) {
	th := DefaultThresholds()

	if got := th.HealthPercent(nil); got != nil {
		t.Fatalf("expected nil health percent for nil RUL, got %d", *got)
	}

	cases := []struct {
		rul  float64
		want int
	}{
		{50, 100},  // exactly at warning threshold
		{25, 50},   // half
		{80, 100},  // clamped above
		{-5, 0},    // clamped below
		{10, 20},   // critical range still yields a percentage
		{45.7, 91}, // rounded
	}
	for _, tc := range cases {
		got := th.HealthPercent(&tc.rul)
		if got == nil || *got != tc.want {
			t.Fatalf("HealthPercent(%v) = %v, want %d", tc.rul, got, tc.want)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{"healthy", "warning", "critical"} {
		if !ValidStatus(s) {
			t.Fatalf("expected %q to be a valid status", s)
		}
	}
	for _, s := range []string{"", "bogus", "Healthy", "ok"} {
		if ValidStatus(s) {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestMachineName(t *testing.T) {
	if got := MachineName("L47182", "U1"); got != "L47182-U1" {
		t.Fatalf("unexpected name: %q", got)
	}
	if got := MachineName("", "U1"); got != "U1" {
		t.Fatalf("unexpected name: %q", got)
	}
	if got := MachineName("L47182", ""); got != "L47182" {
		t.Fatalf("unexpected name: %q", got)
	}
}
