package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/A25-CS046/back-end/query"
	"github.com/A25-CS046/back-end/recommend"
)

// TaskCounts is the maintenance-task breakdown by schedule status.
type TaskCounts struct {
	InProgress int `json:"in_progress"`
	Pending    int `json:"pending"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`
}

// TeamStats summarizes maintenance staff availability.
type TeamStats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	OnTask    int `json:"onTask"`
}

// WeekPerf is one week of maintenance-completion performance.
type WeekPerf struct {
	Week           string     `json:"week"`
	WeekStart      *time.Time `json:"weekStart"`
	TasksCompleted int        `json:"tasksCompleted"`
	TotalScheduled int        `json:"totalScheduled"`
	Efficiency     float64    `json:"efficiency"`
}

const scheduleColumns = `
	id, schedule_id, product_id, unit_id,
	recommended_start, recommended_end, reason, risk_score,
	model_version, actions, created_at, status`

func scanSchedule(scan func(dest ...any) error) (recommend.Schedule, error) {
	var (
		s       recommend.Schedule
		actions []byte
	)
	if err := scan(
		&s.ID, &s.ScheduleID, &s.ProductID, &s.UnitID,
		&s.RecommendedStart, &s.RecommendedEnd, &s.Reason, &s.RiskScore,
		&s.ModelVersion, &actions, &s.CreatedAt, &s.Status,
	); err != nil {
		return recommend.Schedule{}, err
	}
	if len(actions) > 0 {
		if err := json.Unmarshal(actions, &s.Actions); err != nil {
			return recommend.Schedule{}, fmt.Errorf("decode actions: %w", err)
		}
	}
	return s, nil
}

// MaintenanceSchedules lists persisted maintenance-schedule rows, optionally
// filtered by status or by a substring of the schedule id or reason text.
func (p *Postgres) MaintenanceSchedules(ctx context.Context, f query.ScheduleFilter) (res query.Paged[recommend.Schedule], err error) {
	done := p.track("maintenance_schedules")
	defer func() { done(err) }()

	page := f.Page.Clamp(query.DefaultSchedulePageSize, query.MaxPageSize)

	where := ""
	args := []any{}
	argIdx := 1

	if f.Status != "" {
		where = fmt.Sprintf(" WHERE status = $%d", argIdx)
		args = append(args, f.Status)
		argIdx++
	}
	if f.Search != "" {
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf("(schedule_id ILIKE $%d OR reason ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+f.Search+"%")
		argIdx++
	}

	var count int
	if err = p.db.QueryRowContext(ctx, `SELECT COUNT(*)::int FROM maintenance_schedule`+where, args...).Scan(&count); err != nil {
		return res, fmt.Errorf("store: schedules count: %w", err)
	}

	dataQ := `SELECT` + scheduleColumns + ` FROM maintenance_schedule` + where +
		fmt.Sprintf(" ORDER BY recommended_start ASC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, page.Limit, page.Offset)

	rows, err := p.db.QueryContext(ctx, dataQ, args...)
	if err != nil {
		return res, fmt.Errorf("store: schedules: %w", err)
	}
	defer rows.Close()

	data := []recommend.Schedule{}
	for rows.Next() {
		s, serr := scanSchedule(rows.Scan)
		if serr != nil {
			err = fmt.Errorf("store: scan schedule: %w", serr)
			return res, err
		}
		data = append(data, s)
	}
	if err = rows.Err(); err != nil {
		return res, fmt.Errorf("store: schedules rows: %w", err)
	}

	return query.Paged[recommend.Schedule]{
		Meta: query.Meta{
			Count:  count,
			Limit:  page.Limit,
			Offset: page.Offset,
			Search: f.Search,
			Status: f.Status,
		},
		Data: data,
	}, nil
}

// ScheduleByID fetches a single maintenance-schedule row.
func (p *Postgres) ScheduleByID(ctx context.Context, id int64) (s recommend.Schedule, err error) {
	done := p.track("schedule_by_id")
	defer func() { done(err) }()

	q := `SELECT` + scheduleColumns + ` FROM maintenance_schedule WHERE id = $1`
	s, err = scanSchedule(p.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return recommend.Schedule{}, ErrNotFound
		}
		return recommend.Schedule{}, fmt.Errorf("store: schedule by id: %w", err)
	}
	return s, nil
}

// ActiveTaskCounts counts maintenance tasks grouped by status.
func (p *Postgres) ActiveTaskCounts(ctx context.Context) (tc TaskCounts, err error) {
	done := p.track("active_task_counts")
	defer func() { done(err) }()

	const q = `
SELECT
	COALESCE(SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END), 0)::int AS in_progress,
	COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0)::int AS pending,
	COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0)::int AS completed,
	COALESCE(SUM(CASE WHEN status = 'cancelled' THEN 1 ELSE 0 END), 0)::int AS cancelled
FROM maintenance_schedule
`
	if err = p.db.QueryRowContext(ctx, q).Scan(&tc.InProgress, &tc.Pending, &tc.Completed, &tc.Cancelled); err != nil {
		return TaskCounts{}, fmt.Errorf("store: active task counts: %w", err)
	}
	return tc, nil
}

// UserCount counts registered users; the dashboard derives team stats from
// it.
func (p *Postgres) UserCount(ctx context.Context) (n int, err error) {
	done := p.track("user_count")
	defer func() { done(err) }()

	if err = p.db.QueryRowContext(ctx, `SELECT COUNT(*)::int FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: user count: %w", err)
	}
	return n, nil
}

// WeeklyTeamPerf returns completion statistics per calendar week for the
// last n weeks, oldest first.
func (p *Postgres) WeeklyTeamPerf(ctx context.Context, weeks int) (perf []WeekPerf, err error) {
	done := p.track("weekly_team_perf")
	defer func() { done(err) }()

	const q = `
WITH weekly_stats AS (
	SELECT
		date_trunc('week', created_at) AS week_start,
		COUNT(*) FILTER (WHERE status = 'completed') AS completed,
		COUNT(*) AS total_scheduled
	FROM maintenance_schedule
	WHERE created_at >= NOW() - ($1::int * INTERVAL '1 week')
	GROUP BY 1
	ORDER BY week_start DESC
	LIMIT $2
)
SELECT
	week_start,
	completed::int,
	total_scheduled::int,
	CASE
		WHEN total_scheduled > 0 THEN ROUND((completed::numeric / total_scheduled::numeric) * 100, 1)
		ELSE 0
	END::float AS efficiency
FROM weekly_stats
ORDER BY week_start ASC
`
	rows, err := p.db.QueryContext(ctx, q, weeks, weeks)
	if err != nil {
		return nil, fmt.Errorf("store: weekly team perf: %w", err)
	}
	defer rows.Close()

	perf = []WeekPerf{}
	for rows.Next() {
		var (
			w     WeekPerf
			start sql.NullTime
		)
		if err = rows.Scan(&start, &w.TasksCompleted, &w.TotalScheduled, &w.Efficiency); err != nil {
			return nil, fmt.Errorf("store: scan week perf: %w", err)
		}
		if start.Valid {
			t := start.Time
			w.WeekStart = &t
		}
		w.Week = fmt.Sprintf("Week %d", len(perf)+1)
		perf = append(perf, w)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: weekly team perf rows: %w", err)
	}
	return perf, nil
}
