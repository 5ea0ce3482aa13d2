package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/A25-CS046/back-end/query"
	"github.com/A25-CS046/back-end/telemetry"
)

// machinesCTE derives one row per unit from its latest telemetry reading and
// attaches the computed status. $1 is the warning RUL cut-off, $2 the
// critical one; the CASE mirrors telemetry.Thresholds.Classify so that
// status filters and Go-side classification can never disagree.
const machinesCTE = `
WITH latest_telemetry AS (
	SELECT DISTINCT ON (unit_id)
		unit_id,
		product_id,
		engine_type,
		"synthetic_RUL",
		is_failure,
		timestamp AS last_seen
	FROM telemetry
	ORDER BY unit_id, timestamp DESC
),
machines_with_status AS (
	SELECT *,
		CASE
			WHEN is_failure = 1 THEN 'critical'
			WHEN "synthetic_RUL" IS NULL THEN 'warning'
			WHEN "synthetic_RUL" > $1 THEN 'healthy'
			WHEN "synthetic_RUL" >= $2 THEN 'warning'
			ELSE 'critical'
		END AS computed_status
	FROM latest_telemetry
)
`

// DashboardSummary rolls up the latest reading per unit as of the given
// reference time: machine count, average RUL, status breakdown, and the
// number of units currently flagged as failed.
func (p *Postgres) DashboardSummary(ctx context.Context, asOf time.Time) (s telemetry.Summary, err error) {
	done := p.track("dashboard_summary")
	defer func() { done(err) }()

	const q = `
SELECT
	COUNT(*)::int AS total_machines,
	COALESCE(AVG(latest."synthetic_RUL"), 0)::float AS avg_rul,
	COALESCE(SUM(CASE WHEN latest.is_failure = 0 AND latest."synthetic_RUL" > $1 THEN 1 ELSE 0 END), 0)::int AS healthy,
	COALESCE(SUM(CASE WHEN latest.is_failure = 0 AND (latest."synthetic_RUL" IS NULL OR latest."synthetic_RUL" BETWEEN $2 AND $1) THEN 1 ELSE 0 END), 0)::int AS warning,
	COALESCE(SUM(CASE WHEN latest.is_failure = 1 OR (latest.is_failure = 0 AND latest."synthetic_RUL" < $2) THEN 1 ELSE 0 END), 0)::int AS critical,
	COALESCE(SUM(latest.is_failure), 0)::int AS active_failures
FROM (
	SELECT DISTINCT ON (unit_id) *
	FROM telemetry
	WHERE timestamp <= $3
	ORDER BY unit_id, timestamp DESC
) latest
`
	var avgRUL float64
	row := p.db.QueryRowContext(ctx, q, p.thresholds.WarningRUL, p.thresholds.CriticalRUL, asOf)
	if err = row.Scan(
		&s.TotalMachines,
		&avgRUL,
		&s.StatusCounts.Healthy,
		&s.StatusCounts.Warning,
		&s.StatusCounts.Critical,
		&s.ActiveFailures,
	); err != nil {
		return telemetry.Summary{}, fmt.Errorf("store: dashboard summary: %w", err)
	}

	s.Stats = telemetry.SummaryStats{
		Total:     s.TotalMachines,
		AvgHealth: avgRUL,
		AvgRUL:    avgRUL,
	}
	return s, nil
}

// LatestSnapshots returns the most recent reading per unit as of the given
// reference time, annotated with status and health percentage. Units with no
// reading at or before asOf do not appear. The count is the number of
// distinct units in range, independent of pagination.
func (p *Postgres) LatestSnapshots(ctx context.Context, asOf time.Time, page query.Page) (res query.Paged[telemetry.Snapshot], err error) {
	done := p.track("latest_snapshots")
	defer func() { done(err) }()

	page = page.Clamp(query.DefaultLatestPageSize, query.MaxPageSize)

	var count int
	const countQ = `SELECT COUNT(DISTINCT unit_id)::int FROM telemetry WHERE timestamp <= $1`
	if err = p.db.QueryRowContext(ctx, countQ, asOf).Scan(&count); err != nil {
		return res, fmt.Errorf("store: latest snapshots count: %w", err)
	}

	const dataQ = `
SELECT DISTINCT ON (unit_id)
	unit_id, product_id, timestamp,
	"synthetic_RUL", tool_wear_min, "process_temperature_K", rotational_speed_rpm, is_failure
FROM telemetry
WHERE timestamp <= $1
ORDER BY unit_id, timestamp DESC
LIMIT $2 OFFSET $3
`
	rows, err := p.db.QueryContext(ctx, dataQ, asOf, page.Limit, page.Offset)
	if err != nil {
		return res, fmt.Errorf("store: latest snapshots: %w", err)
	}
	defer rows.Close()

	data := []telemetry.Snapshot{}
	for rows.Next() {
		var (
			snap      telemetry.Snapshot
			rul       sql.NullFloat64
			wear      sql.NullFloat64
			procTemp  sql.NullFloat64
			speed     sql.NullFloat64
			isFailure int
		)
		if err = rows.Scan(&snap.UnitID, &snap.ProductID, &snap.LastSeen, &rul, &wear, &procTemp, &speed, &isFailure); err != nil {
			return res, fmt.Errorf("store: scan snapshot: %w", err)
		}
		snap.SyntheticRUL = nullFloat(rul)
		snap.ToolWearMin = nullFloat(wear)
		snap.ProcessTemperatureK = nullFloat(procTemp)
		snap.RotationalSpeedRPM = nullFloat(speed)
		snap.IsFailure = isFailure == 1
		snap.Status = p.thresholds.Classify(snap.SyntheticRUL, snap.IsFailure)
		snap.HealthPercent = p.thresholds.HealthPercent(snap.SyntheticRUL)
		data = append(data, snap)
	}
	if err = rows.Err(); err != nil {
		return res, fmt.Errorf("store: latest snapshots rows: %w", err)
	}

	return query.Paged[telemetry.Snapshot]{
		Meta: query.Meta{Count: count, Limit: page.Limit, Offset: page.Offset},
		Data: data,
	}, nil
}

// ListMachines returns the filterable machine list. Search matches unit or
// product id as a case-insensitive substring; status filters on the computed
// classification. Count and data run against the identical predicate.
func (p *Postgres) ListMachines(ctx context.Context, f query.MachineFilter) (res query.Paged[telemetry.Machine], err error) {
	if err = f.Validate(); err != nil {
		return res, err
	}

	done := p.track("list_machines")
	defer func() { done(err) }()

	page := f.Page.Clamp(query.DefaultPageSize, query.MaxPageSize)

	where := ""
	args := []any{p.thresholds.WarningRUL, p.thresholds.CriticalRUL}
	argIdx := 3

	if f.Search != "" {
		where = fmt.Sprintf(" WHERE (unit_id ILIKE $%d OR product_id ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+f.Search+"%")
		argIdx++
	}
	if f.Status != "" {
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf("computed_status = $%d", argIdx)
		args = append(args, f.Status)
		argIdx++
	}

	var count int
	countQ := machinesCTE + "SELECT COUNT(*)::int FROM machines_with_status" + where
	if err = p.db.QueryRowContext(ctx, countQ, args...).Scan(&count); err != nil {
		return res, fmt.Errorf("store: list machines count: %w", err)
	}

	dataQ := machinesCTE +
		`SELECT unit_id, product_id, engine_type, "synthetic_RUL", is_failure, last_seen, computed_status FROM machines_with_status` +
		where +
		fmt.Sprintf(" ORDER BY unit_id LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, page.Limit, page.Offset)

	rows, err := p.db.QueryContext(ctx, dataQ, args...)
	if err != nil {
		return res, fmt.Errorf("store: list machines: %w", err)
	}
	defer rows.Close()

	data := []telemetry.Machine{}
	for rows.Next() {
		var (
			m          telemetry.Machine
			engineType sql.NullString
			rul        sql.NullFloat64
			isFailure  int
			status     string
		)
		if err = rows.Scan(&m.UnitID, &m.ProductID, &engineType, &rul, &isFailure, &m.LastSeen, &status); err != nil {
			return res, fmt.Errorf("store: scan machine: %w", err)
		}
		m.Type = nullString(engineType)
		m.Status = telemetry.Status(status)
		m.HealthPercent = p.thresholds.HealthPercent(nullFloat(rul))
		if rul.Valid {
			rounded := int(math.Round(rul.Float64))
			m.SyntheticRUL = &rounded
		}
		m.Name = telemetry.MachineName(m.ProductID, m.UnitID)
		data = append(data, m)
	}
	if err = rows.Err(); err != nil {
		return res, fmt.Errorf("store: list machines rows: %w", err)
	}

	return query.Paged[telemetry.Machine]{
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

// MachineByID returns the machine view for a single unit, derived from its
// latest reading. Returns ErrNotFound when the unit has no readings at all.
func (p *Postgres) MachineByID(ctx context.Context, unitID string) (m telemetry.Machine, err error) {
	done := p.track("machine_by_id")
	defer func() { done(err) }()

	const q = `
SELECT DISTINCT ON (unit_id)
	unit_id, product_id, engine_type, "synthetic_RUL", is_failure, timestamp AS last_seen
FROM telemetry
WHERE unit_id = $1
ORDER BY unit_id, timestamp DESC
LIMIT 1
`
	var (
		engineType sql.NullString
		rul        sql.NullFloat64
		isFailure  int
	)
	row := p.db.QueryRowContext(ctx, q, unitID)
	if err = row.Scan(&m.UnitID, &m.ProductID, &engineType, &rul, &isFailure, &m.LastSeen); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return telemetry.Machine{}, ErrNotFound
		}
		return telemetry.Machine{}, fmt.Errorf("store: machine by id: %w", err)
	}

	rulPtr := nullFloat(rul)
	m.Type = nullString(engineType)
	m.Status = p.thresholds.Classify(rulPtr, isFailure == 1)
	m.HealthPercent = p.thresholds.HealthPercent(rulPtr)
	if rulPtr != nil {
		rounded := int(math.Round(*rulPtr))
		m.SyntheticRUL = &rounded
	}
	m.Name = telemetry.MachineName(m.ProductID, m.UnitID)
	return m, nil
}

// MachineExists reports whether a unit has any readings.
func (p *Postgres) MachineExists(ctx context.Context, unitID string) (ok bool, err error) {
	done := p.track("machine_exists")
	defer func() { done(err) }()

	const q = `SELECT EXISTS(SELECT 1 FROM telemetry WHERE unit_id = $1)`
	if err = p.db.QueryRowContext(ctx, q, unitID).Scan(&ok); err != nil {
		return false, fmt.Errorf("store: machine exists: %w", err)
	}
	return ok, nil
}

// MachineSensors returns the sensor series for one unit, raw or averaged
// into calendar buckets. The time bound applies only when both ends are
// given. For bucketed intervals the count is the number of distinct buckets
// in the full range.
func (p *Postgres) MachineSensors(ctx context.Context, unitID string, sq query.SensorQuery) (res query.Paged[telemetry.SensorRow], err error) {
	if err = sq.Validate(); err != nil {
		return res, err
	}

	done := p.track("machine_sensors")
	defer func() { done(err) }()

	page := sq.Page.Clamp(query.DefaultSensorPageSize, query.MaxSensorPageSize)
	interval := sq.EffectiveInterval()

	where := " WHERE unit_id = $1"
	args := []any{unitID}
	argIdx := 2

	meta := query.Meta{Limit: page.Limit, Offset: page.Offset, Interval: interval}
	if sq.Start != nil && sq.End != nil {
		where += fmt.Sprintf(" AND timestamp BETWEEN $%d AND $%d", argIdx, argIdx+1)
		args = append(args, *sq.Start, *sq.End)
		argIdx += 2
		meta.Start = sq.Start.UTC().Format(time.RFC3339)
		meta.End = sq.End.UTC().Format(time.RFC3339)
	}

	var countQ, dataQ string
	if interval == query.IntervalRaw {
		countQ = `SELECT COUNT(*)::int FROM telemetry` + where
		dataQ = `
SELECT
	timestamp,
	rotational_speed_rpm,
	"process_temperature_K",
	"air_temperature_K",
	"torque_Nm",
	tool_wear_min,
	"synthetic_RUL"
FROM telemetry` + where +
			fmt.Sprintf(" ORDER BY timestamp ASC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	} else {
		trunc := "hour"
		if interval == query.IntervalDaily {
			trunc = "day"
		}
		// trunc comes from the validated interval enum, never from input.
		countQ = fmt.Sprintf(`SELECT COUNT(DISTINCT date_trunc('%s', timestamp))::int FROM telemetry`, trunc) + where
		dataQ = fmt.Sprintf(`
SELECT
	date_trunc('%s', timestamp) AS ts,
	AVG(rotational_speed_rpm) AS rotational_speed_rpm,
	AVG("process_temperature_K") AS process_temperature_k,
	AVG("air_temperature_K") AS air_temperature_k,
	AVG("torque_Nm") AS torque_nm,
	AVG(tool_wear_min) AS tool_wear_min,
	AVG("synthetic_RUL") AS synthetic_rul
FROM telemetry`, trunc) + where +
			fmt.Sprintf(" GROUP BY 1 ORDER BY 1 ASC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	}

	if err = p.db.QueryRowContext(ctx, countQ, args...).Scan(&meta.Count); err != nil {
		return res, fmt.Errorf("store: machine sensors count: %w", err)
	}

	args = append(args, page.Limit, page.Offset)
	rows, err := p.db.QueryContext(ctx, dataQ, args...)
	if err != nil {
		return res, fmt.Errorf("store: machine sensors: %w", err)
	}
	defer rows.Close()

	data := []telemetry.SensorRow{}
	for rows.Next() {
		var (
			ts                               time.Time
			speed, procT, airT, torque, wear sql.NullFloat64
			rul                              sql.NullFloat64
		)
		if err = rows.Scan(&ts, &speed, &procT, &airT, &torque, &wear, &rul); err != nil {
			return res, fmt.Errorf("store: scan sensor row: %w", err)
		}
		procPtr := nullFloat(procT)
		data = append(data, telemetry.SensorRow{
			Timestamp:           ts,
			TemperatureC:        telemetry.CelsiusPtr(procPtr),
			RotationalSpeedRPM:  telemetry.Round2Ptr(nullFloat(speed)),
			ProcessTemperatureK: telemetry.Round2Ptr(procPtr),
			AirTemperatureK:     telemetry.Round2Ptr(nullFloat(airT)),
			TorqueNm:            telemetry.Round2Ptr(nullFloat(torque)),
			ToolWearMin:         telemetry.Round2Ptr(nullFloat(wear)),
			SyntheticRUL:        telemetry.Round2Ptr(nullFloat(rul)),
		})
	}
	if err = rows.Err(); err != nil {
		return res, fmt.Errorf("store: machine sensors rows: %w", err)
	}

	return query.Paged[telemetry.SensorRow]{Meta: meta, Data: data}, nil
}

// MachineTimeseries averages one unit's channels into fixed-width epoch
// buckets of the given width in seconds. Bounds default to the last 24
// hours. Buckets with no readings are absent; output is ascending.
func (p *Postgres) MachineTimeseries(ctx context.Context, unitID string, start, end *time.Time, intervalSeconds int64) (buckets []telemetry.TimeBucket, err error) {
	done := p.track("machine_timeseries")
	defer func() { done(err) }()

	e := p.now().UTC()
	if end != nil {
		e = *end
	}
	s := e.Add(-query.DefaultWindow)
	if start != nil {
		s = *start
	}

	const q = `
SELECT
	to_timestamp(floor(extract(epoch FROM timestamp) / $2) * $2) AT TIME ZONE 'UTC' AS bucket,
	AVG("air_temperature_K")::float AS avg_air_temperature_k,
	AVG("process_temperature_K")::float AS avg_process_temperature_k,
	AVG(rotational_speed_rpm)::float AS avg_rotational_speed_rpm,
	AVG("torque_Nm")::float AS avg_torque_nm,
	AVG(tool_wear_min)::float AS avg_tool_wear_min,
	AVG("synthetic_RUL")::float AS avg_synthetic_rul
FROM telemetry
WHERE unit_id = $1 AND timestamp BETWEEN $3 AND $4
GROUP BY bucket
ORDER BY bucket ASC
`
	rows, err := p.db.QueryContext(ctx, q, unitID, intervalSeconds, s, e)
	if err != nil {
		return nil, fmt.Errorf("store: machine timeseries: %w", err)
	}
	defer rows.Close()

	buckets = []telemetry.TimeBucket{}
	for rows.Next() {
		var (
			b                                     telemetry.TimeBucket
			airT, procT, speed, torque, wear, rul sql.NullFloat64
		)
		if err = rows.Scan(&b.BucketStart, &airT, &procT, &speed, &torque, &wear, &rul); err != nil {
			return nil, fmt.Errorf("store: scan timeseries bucket: %w", err)
		}
		b.AvgAirTemperatureK = nullFloat(airT)
		b.AvgProcessTemperatureK = nullFloat(procT)
		b.AvgRotationalSpeedRPM = nullFloat(speed)
		b.AvgTorqueNm = nullFloat(torque)
		b.AvgToolWearMin = nullFloat(wear)
		b.AvgSyntheticRUL = nullFloat(rul)
		buckets = append(buckets, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: machine timeseries rows: %w", err)
	}
	return buckets, nil
}
