package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/A25-CS046/back-end/query"
)

func TestMaintenanceSchedules(t *testing.T) {
	p, mock := newMockStore(t)
	start := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\)::int FROM maintenance_schedule WHERE status = \$1 AND \(schedule_id ILIKE \$2 OR reason ILIKE \$2\)`).
		WithArgs("pending", "%bearing%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	rows := sqlmock.NewRows([]string{
		"id", "schedule_id", "product_id", "unit_id",
		"recommended_start", "recommended_end", "reason", "risk_score",
		"model_version", "actions", "created_at", "status",
	}).AddRow(
		int64(1), "SCH-001", "L47182", "U1",
		start, start.Add(4*time.Hour), "Failure probability: 91.50%, RUL: 12.0h", 0.85,
		"rul-v3", []byte(`["inspect bearing","replace seal"]`), start.Add(-24*time.Hour), "pending",
	)
	mock.ExpectQuery(`FROM maintenance_schedule WHERE .*ORDER BY recommended_start ASC LIMIT \$3 OFFSET \$4`).
		WithArgs("pending", "%bearing%", 10, 0).
		WillReturnRows(rows)

	res, err := p.MaintenanceSchedules(context.Background(), query.ScheduleFilter{Status: "pending", Search: "bearing"})
	if err != nil {
		t.Fatalf("MaintenanceSchedules returned error: %v", err)
	}
	if res.Meta.Count != 3 || res.Meta.Limit != 10 {
		t.Fatalf("unexpected meta: %+v", res.Meta)
	}
	s := res.Data[0]
	if s.ScheduleID != "SCH-001" || len(s.Actions) != 2 || s.Actions[0] != "inspect bearing" {
		t.Fatalf("unexpected schedule: %+v", s)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestScheduleByIDNotFound(t *testing.T) {
	p, mock := newMockStore(t)

	mock.ExpectQuery(`FROM maintenance_schedule WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "schedule_id", "product_id", "unit_id",
			"recommended_start", "recommended_end", "reason", "risk_score",
			"model_version", "actions", "created_at", "status",
		}))

	_, err := p.ScheduleByID(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestActiveTaskCounts(t *testing.T) {
	p, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM maintenance_schedule`)).
		WillReturnRows(sqlmock.NewRows([]string{"in_progress", "pending", "completed", "cancelled"}).
			AddRow(2, 5, 11, 1))

	tc, err := p.ActiveTaskCounts(context.Background())
	if err != nil {
		t.Fatalf("ActiveTaskCounts returned error: %v", err)
	}
	if tc != (TaskCounts{InProgress: 2, Pending: 5, Completed: 11, Cancelled: 1}) {
		t.Fatalf("unexpected counts: %+v", tc)
	}
}

func TestWeeklyTeamPerf(t *testing.T) {
	p, mock := newMockStore(t)
	week1 := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"week_start", "completed", "total_scheduled", "efficiency"}).
		AddRow(week1, 23, 25, 92.0).
		AddRow(week1.AddDate(0, 0, 7), 28, 30, 93.3)
	mock.ExpectQuery(`WITH weekly_stats AS`).
		WithArgs(4, 4).
		WillReturnRows(rows)

	perf, err := p.WeeklyTeamPerf(context.Background(), 4)
	if err != nil {
		t.Fatalf("WeeklyTeamPerf returned error: %v", err)
	}
	if len(perf) != 2 {
		t.Fatalf("expected 2 weeks, got %d", len(perf))
	}
	if perf[0].Week != "Week 1" || perf[1].Week != "Week 2" {
		t.Fatalf("unexpected labels: %q, %q", perf[0].Week, perf[1].Week)
	}
	if perf[0].Efficiency != 92.0 || perf[1].TasksCompleted != 28 {
		t.Fatalf("unexpected perf: %+v", perf)
	}
}
