package recommend

import "testing"

func TestParseReason(t *testing.T) {
	p := ParseReason("Failure probability: 99.11%, RUL: 44.4h")
	if !p.ConfidenceFound || p.Confidence != 99.11 {
		t.Fatalf("confidence = %v (found=%v), want 99.11", p.Confidence, p.ConfidenceFound)
	}
	if !p.RULFound || p.RULHours != 44.4 {
		t.Fatalf("rul = %v (found=%v), want 44.4", p.RULHours, p.RULFound)
	}
}

func TestParseReasonPartial(t *testing.T) {
	p := ParseReason("Failure probability: 12%")
	if !p.ConfidenceFound || p.Confidence != 12 {
		t.Fatalf("confidence = %v (found=%v), want 12", p.Confidence, p.ConfidenceFound)
	}
	if p.RULFound {
		t.Fatalf("unexpected RUL parsed: %v", p.RULHours)
	}

	p = ParseReason("RUL: 7h")
	if p.ConfidenceFound {
		t.Fatalf("unexpected confidence parsed: %v", p.Confidence)
	}
	if !p.RULFound || p.RULHours != 7 {
		t.Fatalf("rul = %v (found=%v), want 7", p.RULHours, p.RULFound)
	}
}

func TestParseReasonUnparseable(t *testing.T) {
	for _, reason := range []string{"", "scheduled maintenance", "probability high, fail soon"} {
		p := ParseReason(reason)
		if p.ConfidenceFound || p.RULFound {
			t.Fatalf("ParseReason(%q) = %+v, expected nothing found", reason, p)
		}
	}
}
