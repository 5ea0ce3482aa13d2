package recommend

import (
	"testing"
	"time"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func baseSchedule() Schedule {
	return Schedule{
		ID:               7,
		ScheduleID:       "SCH-007",
		ProductID:        "L47182",
		UnitID:           "U1",
		RecommendedStart: now.Add(48 * time.Hour),
		RecommendedEnd:   now.Add(52 * time.Hour),
		Reason:           "Failure probability: 91.50%, RUL: 12.0h",
		RiskScore:        0.85,
		ModelVersion:     "rul-v3",
		Actions:          []string{"inspect bearings"},
		CreatedAt:        now,
		Status:           "Pending",
	}
}

func TestNormalizeFromReason(t *testing.T) {
	rec := Normalize(baseSchedule(), now)

	if rec.ID != "rec-7" {
		t.Fatalf("id = %q", rec.ID)
	}
	if rec.Confidence != 92 {
		t.Fatalf("confidence = %d, want 92 (91.50 rounded)", rec.Confidence)
	}
	// 12h of RUL is half a day.
	if rec.Timeframe != "< 1 day" {
		t.Fatalf("timeframe = %q, want \"< 1 day\"", rec.Timeframe)
	}
	if rec.Severity != SeverityCritical {
		t.Fatalf("severity = %q, want critical for risk 0.85", rec.Severity)
	}
	if rec.EstimatedDowntime != "4 hours" {
		t.Fatalf("downtime = %q, want \"4 hours\"", rec.EstimatedDowntime)
	}
	if rec.Status != "pending" {
		t.Fatalf("status = %q, want lowercased", rec.Status)
	}
	if rec.MachineID != "U1" || rec.MachineType != "L47182" {
		t.Fatalf("machine = %q/%q", rec.MachineID, rec.MachineType)
	}
}

func TestNormalizeRiskFallback(t *testing.T) {
	s := baseSchedule()
	s.Reason = "model flagged degradation"
	s.RiskScore = 0.42

	rec := Normalize(s, now)
	if rec.Confidence != 42 {
		t.Fatalf("confidence = %d, want 42 from risk score", rec.Confidence)
	}
	if rec.Severity != SeverityMedium {
		t.Fatalf("severity = %q, want medium for risk 0.42", rec.Severity)
	}
	// No RUL in the reason: fall back to the recommended start, 2 days out.
	if rec.Timeframe != "2 days" {
		t.Fatalf("timeframe = %q, want \"2 days\"", rec.Timeframe)
	}
}

func TestNormalizeOverdue(t *testing.T) {
	s := baseSchedule()
	s.Reason = "no structured fields"
	s.RecommendedStart = now.Add(-72 * time.Hour)
	s.RecommendedEnd = now.Add(-66 * time.Hour)

	rec := Normalize(s, now)
	if rec.Timeframe != "Overdue" {
		t.Fatalf("timeframe = %q, want Overdue", rec.Timeframe)
	}
	// Downtime is an absolute difference even for past windows.
	if rec.EstimatedDowntime != "6 hours" {
		t.Fatalf("downtime = %q, want \"6 hours\"", rec.EstimatedDowntime)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	s := baseSchedule()
	s.ProductID = ""
	s.ModelVersion = ""
	s.Status = ""
	s.Actions = nil

	rec := Normalize(s, now)
	if rec.MachineType != "Equipment" {
		t.Fatalf("machineType = %q", rec.MachineType)
	}
	if rec.AIModel != "AI-Model" {
		t.Fatalf("aiModel = %q", rec.AIModel)
	}
	if rec.Status != "new" {
		t.Fatalf("status = %q", rec.Status)
	}
	if rec.RecommendedActions == nil || len(rec.RecommendedActions) != 0 {
		t.Fatalf("actions = %#v, want empty non-nil slice", rec.RecommendedActions)
	}
}

func TestNormalizeFractionalDowntime(t *testing.T) {
	s := baseSchedule()
	s.RecommendedEnd = s.RecommendedStart.Add(90 * time.Minute)

	rec := Normalize(s, now)
	if rec.EstimatedDowntime != "1.5 hours" {
		t.Fatalf("downtime = %q, want \"1.5 hours\"", rec.EstimatedDowntime)
	}
}
