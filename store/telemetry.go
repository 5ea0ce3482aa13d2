package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/A25-CS046/back-end/query"
	"github.com/A25-CS046/back-end/telemetry"
)

// telemetryWhere assembles the shared predicate for the telemetry queries:
// a mandatory time range plus optional unit and product equality filters.
// Count and data queries both consume the returned clause and args, so they
// can never drift apart.
func telemetryWhere(f query.TelemetryFilter, start, end time.Time) (where string, args []any, argIdx int) {
	where = " WHERE timestamp BETWEEN $1 AND $2"
	args = []any{start, end}
	argIdx = 3

	if f.UnitID != "" {
		where += fmt.Sprintf(" AND unit_id = $%d", argIdx)
		args = append(args, f.UnitID)
		argIdx++
	}
	if f.ProductID != "" {
		where += fmt.Sprintf(" AND product_id = $%d", argIdx)
		args = append(args, f.ProductID)
		argIdx++
	}
	return where, args, argIdx
}

// TelemetryRaw returns raw readings in the filter's time range, ascending by
// timestamp.
func (p *Postgres) TelemetryRaw(ctx context.Context, f query.TelemetryFilter) (res query.Paged[telemetry.Reading], err error) {
	if err = f.Validate(); err != nil {
		return res, err
	}

	done := p.track("telemetry_raw")
	defer func() { done(err) }()

	page := f.Page.Clamp(query.DefaultTelemetryPageSize, query.MaxPageSize)
	start, end := f.Bounds(p.now().UTC())
	where, args, argIdx := telemetryWhere(f, start, end)

	var count int
	if err = p.db.QueryRowContext(ctx, `SELECT COUNT(*)::int FROM telemetry`+where, args...).Scan(&count); err != nil {
		return res, fmt.Errorf("store: telemetry count: %w", err)
	}

	dataQ := `
SELECT
	product_id, unit_id, timestamp, step_index, engine_type,
	"air_temperature_K", "process_temperature_K", rotational_speed_rpm,
	"torque_Nm", tool_wear_min, is_failure, failure_type, "synthetic_RUL"
FROM telemetry` + where +
		fmt.Sprintf(" ORDER BY timestamp ASC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, page.Limit, page.Offset)

	rows, err := p.db.QueryContext(ctx, dataQ, args...)
	if err != nil {
		return res, fmt.Errorf("store: telemetry: %w", err)
	}
	defer rows.Close()

	data := []telemetry.Reading{}
	for rows.Next() {
		var (
			r                                telemetry.Reading
			step                             sql.NullInt64
			engineType, failureType          sql.NullString
			airT, procT, speed, torque, wear sql.NullFloat64
			rul                              sql.NullFloat64
			isFailure                        int
		)
		if err = rows.Scan(
			&r.ProductID, &r.UnitID, &r.Timestamp, &step, &engineType,
			&airT, &procT, &speed, &torque, &wear, &isFailure, &failureType, &rul,
		); err != nil {
			return res, fmt.Errorf("store: scan reading: %w", err)
		}
		r.StepIndex = nullInt(step)
		r.EngineType = nullString(engineType)
		r.AirTemperatureK = nullFloat(airT)
		r.ProcessTemperatureK = nullFloat(procT)
		r.RotationalSpeedRPM = nullFloat(speed)
		r.TorqueNm = nullFloat(torque)
		r.ToolWearMin = nullFloat(wear)
		r.IsFailure = isFailure == 1
		r.FailureType = nullString(failureType)
		r.SyntheticRUL = nullFloat(rul)
		data = append(data, r)
	}
	if err = rows.Err(); err != nil {
		return res, fmt.Errorf("store: telemetry rows: %w", err)
	}

	return query.Paged[telemetry.Reading]{
		Meta: query.Meta{Count: count, Limit: page.Limit, Offset: page.Offset},
		Data: data,
	}, nil
}

// TelemetryBuckets returns per-channel averages grouped into hourly or daily
// calendar buckets over the filter's time range. The count is the number of
// distinct non-empty buckets under the same predicate, independent of
// pagination.
func (p *Postgres) TelemetryBuckets(ctx context.Context, f query.TelemetryFilter) (res query.Paged[telemetry.TimeBucket], err error) {
	if err = f.Validate(); err != nil {
		return res, err
	}

	done := p.track("telemetry_buckets")
	defer func() { done(err) }()

	page := f.Page.Clamp(query.DefaultTelemetryPageSize, query.MaxPageSize)
	start, end := f.Bounds(p.now().UTC())
	where, args, argIdx := telemetryWhere(f, start, end)

	trunc := "hour"
	if f.Aggregate == query.AggregateDaily {
		trunc = "day"
	}

	// trunc comes from the validated aggregate enum, never from input.
	countQ := fmt.Sprintf(
		`SELECT COUNT(*)::int FROM (SELECT date_trunc('%s', timestamp) AS b FROM telemetry%s GROUP BY 1) t`,
		trunc, where,
	)
	var count int
	if err = p.db.QueryRowContext(ctx, countQ, args...).Scan(&count); err != nil {
		return res, fmt.Errorf("store: telemetry buckets count: %w", err)
	}

	dataQ := fmt.Sprintf(`
SELECT
	date_trunc('%s', timestamp) AT TIME ZONE 'UTC' AS bucket,
	AVG("air_temperature_K") AS avg_air_temperature_k,
	AVG("process_temperature_K") AS avg_process_temperature_k,
	AVG(rotational_speed_rpm) AS avg_rotational_speed_rpm,
	AVG("torque_Nm") AS avg_torque_nm,
	AVG(tool_wear_min) AS avg_tool_wear_min,
	AVG("synthetic_RUL") AS avg_synthetic_rul
FROM telemetry%s
GROUP BY 1
ORDER BY 1 ASC`, trunc, where) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, page.Limit, page.Offset)

	rows, err := p.db.QueryContext(ctx, dataQ, args...)
	if err != nil {
		return res, fmt.Errorf("store: telemetry buckets: %w", err)
	}
	defer rows.Close()

	data := []telemetry.TimeBucket{}
	for rows.Next() {
		var (
			b                                     telemetry.TimeBucket
			airT, procT, speed, torque, wear, rul sql.NullFloat64
		)
		if err = rows.Scan(&b.BucketStart, &airT, &procT, &speed, &torque, &wear, &rul); err != nil {
			return res, fmt.Errorf("store: scan bucket: %w", err)
		}
		b.AvgAirTemperatureK = nullFloat(airT)
		b.AvgProcessTemperatureK = nullFloat(procT)
		b.AvgRotationalSpeedRPM = nullFloat(speed)
		b.AvgTorqueNm = nullFloat(torque)
		b.AvgToolWearMin = nullFloat(wear)
		b.AvgSyntheticRUL = nullFloat(rul)
		data = append(data, b)
	}
	if err = rows.Err(); err != nil {
		return res, fmt.Errorf("store: telemetry buckets rows: %w", err)
	}

	return query.Paged[telemetry.TimeBucket]{
		Meta: query.Meta{Count: count, Limit: page.Limit, Offset: page.Offset},
		Data: data,
	}, nil
}
