package telemetry

import "math"

// Status is the qualitative health of a machine.
type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// ValidStatus reports whether s is one of the recognised status values.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusHealthy, StatusWarning, StatusCritical:
		return true
	}
	return false
}

// Thresholds maps a remaining-useful-life value to a qualitative status.
// CriticalRUL must be below WarningRUL. All classification goes through this
// type; the cut-offs are never read from anywhere else.
type Thresholds struct {
	WarningRUL  float64
	CriticalRUL float64
}

// DefaultThresholds returns the stock RUL cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{WarningRUL: 50, CriticalRUL: 20}
}

// Classify maps a unit's latest RUL and failure flag to a status. The rules
// apply in priority order:
//
//  1. an active failure is critical, regardless of RUL
//  2. an unknown RUL is warning (unknown health is caution, not healthy)
//  3. RUL above WarningRUL is healthy
//  4. RUL at or above CriticalRUL is warning
//  5. anything below is critical
func (t Thresholds) Classify(rul *float64, isFailure bool) Status {
	switch {
	case isFailure:
		return StatusCritical
	case rul == nil:
		return StatusWarning
	case *rul > t.WarningRUL:
		return StatusHealthy
	case *rul >= t.CriticalRUL:
		return StatusWarning
	default:
		return StatusCritical
	}
}

// HealthPercent converts an RUL value into a 0-100 percentage relative to
// the warning threshold: round(rul/WarningRUL*100), clamped to [0,100].
// A nil RUL yields nil.
func (t Thresholds) HealthPercent(rul *float64) *int {
	if rul == nil {
		return nil
	}
	pct := int(math.Round(*rul / t.WarningRUL * 100))
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return &pct
}
