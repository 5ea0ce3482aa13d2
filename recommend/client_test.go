package recommend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientRecommendations(t *testing.T) {
	start := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/maintenance/schedule" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("status"); got != "pending" {
			t.Fatalf("expected status filter forwarded, got %q", got)
		}
		_ = json.NewEncoder(w).Encode(scheduleEnvelope{Data: []Schedule{{
			ID:               3,
			ScheduleID:       "SCH-003",
			UnitID:           "U9",
			ProductID:        "M1",
			Reason:           "Failure probability: 80%, RUL: 48h",
			RiskScore:        0.6,
			RecommendedStart: start,
			RecommendedEnd:   start.Add(2 * time.Hour),
			Status:           "pending",
		}}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	c.now = func() time.Time { return start.Add(-24 * time.Hour) }

	recs, err := c.Recommendations(context.Background(), map[string]string{"status": "pending"})
	if err != nil {
		t.Fatalf("Recommendations returned error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	if recs[0].MachineID != "U9" || recs[0].Confidence != 80 || recs[0].Timeframe != "2 days" {
		t.Fatalf("unexpected recommendation: %+v", recs[0])
	}
}

func TestClientPropagatesFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	if _, err := c.Recommendations(context.Background(), nil); err == nil {
		t.Fatal("expected error from upstream failure, got nil")
	}
}

func TestClientConnectionError(t *testing.T) {
	// Point at a server that is already closed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, time.Second)
	if _, err := c.Recommendations(context.Background(), nil); err == nil {
		t.Fatal("expected connection error, got nil")
	}
}
