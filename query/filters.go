package query

import (
	"fmt"
	"time"

	"github.com/A25-CS046/back-end/telemetry"
)

// ValidationError marks a request that failed filter validation. No store
// access happens for a request carrying an invalid filter.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func invalidf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Interval names accepted by the sensors query.
const (
	IntervalRaw    = "raw"
	IntervalHourly = "hourly"
	IntervalDaily  = "daily"
)

// Aggregate modes accepted by the telemetry query.
const (
	AggregateRaw    = "raw"
	AggregateHourly = "hourly"
	AggregateDaily  = "daily"
)

// MachineFilter selects machines for the list endpoint. Empty fields impose
// no constraint.
type MachineFilter struct {
	Search string // matches unit_id or product_id, case-insensitive substring
	Status string // one of healthy|warning|critical when set
	Page
}

// Validate rejects out-of-domain enumerated filters before any store access.
func (f MachineFilter) Validate() error {
	if f.Status != "" && !telemetry.ValidStatus(f.Status) {
		return invalidf("invalid status %q, must be one of: healthy, warning, critical", f.Status)
	}
	return nil
}

// TelemetryFilter selects raw or aggregated telemetry rows. Absent time
// bounds default to the last 24 hours at query time.
type TelemetryFilter struct {
	Start     *time.Time
	End       *time.Time
	UnitID    string
	ProductID string
	Aggregate string // raw|hourly|daily; empty means raw
	Page
}

// Validate rejects an out-of-domain aggregate mode.
func (f TelemetryFilter) Validate() error {
	switch f.Aggregate {
	case "", AggregateRaw, AggregateHourly, AggregateDaily:
		return nil
	}
	return invalidf("invalid aggregate %q, must be one of: raw, hourly, daily", f.Aggregate)
}

// Bounds resolves the effective time range, defaulting to [now-24h, now].
func (f TelemetryFilter) Bounds(now time.Time) (start, end time.Time) {
	end = now
	if f.End != nil {
		end = *f.End
	}
	start = end.Add(-DefaultWindow)
	if f.Start != nil {
		start = *f.Start
	}
	return start, end
}

// SensorQuery selects the sensor time series for a single machine. The time
// bound applies only when both Start and End are present; a half-open bound
// is ignored.
type SensorQuery struct {
	Start    *time.Time
	End      *time.Time
	Interval string // raw|hourly|daily; empty means hourly
	Page
}

// Validate rejects an out-of-domain interval name.
func (q SensorQuery) Validate() error {
	switch q.Interval {
	case "", IntervalRaw, IntervalHourly, IntervalDaily:
		return nil
	}
	return invalidf("invalid interval %q, must be one of: raw, hourly, daily", q.Interval)
}

// EffectiveInterval returns the interval with the default applied.
func (q SensorQuery) EffectiveInterval() string {
	if q.Interval == "" {
		return IntervalHourly
	}
	return q.Interval
}

// ScheduleFilter selects maintenance-schedule rows. Status is a pass-through
// match against the upstream scheduler's status vocabulary; Search matches
// schedule_id or reason.
type ScheduleFilter struct {
	Status string
	Search string
	Page
}
