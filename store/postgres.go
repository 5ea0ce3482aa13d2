package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/A25-CS046/back-end/telemetry"
)

// ErrNotFound is returned when a lookup by identifier matches nothing. A
// filtered list with zero rows is not an error; only direct lookups miss.
var ErrNotFound = errors.New("store: not found")

// Observer receives per-query timing. The Prometheus adapter in the metrics
// package implements it; a nil observer disables instrumentation.
type Observer interface {
	ObserveQuery(op string, d time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveQuery(string, time.Duration, error) {}

// Postgres is the read-only query layer over the telemetry and maintenance
// tables. All methods run independent single reads against the shared pool
// and are safe for concurrent use.
type Postgres struct {
	db         *sql.DB
	thresholds telemetry.Thresholds
	obs        Observer
	now        func() time.Time
}

// NewPostgres wraps an existing *sql.DB. Classification cut-offs come from
// th; obs may be nil.
func NewPostgres(db *sql.DB, th telemetry.Thresholds, obs Observer) *Postgres {
	if obs == nil {
		obs = nopObserver{}
	}
	return &Postgres{
		db:         db,
		thresholds: th,
		obs:        obs,
		now:        time.Now,
	}
}

// track starts a query timer; call the returned func with the final error.
func (p *Postgres) track(op string) func(error) {
	start := time.Now()
	return func(err error) {
		p.obs.ObserveQuery(op, time.Since(start), err)
	}
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
