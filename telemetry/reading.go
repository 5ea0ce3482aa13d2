package telemetry

import "time"

// Reading represents one raw sensor sample from the telemetry table. Rows are
// appended by an external ingestion process and are never mutated here; the
// composite key (product_id, unit_id, timestamp) is unique. Nullable columns
// are modelled as pointers so that "absent" survives the round trip instead
// of collapsing to zero.
type Reading struct {
	ProductID           string    `json:"product_id"`
	UnitID              string    `json:"unit_id"`
	Timestamp           time.Time `json:"timestamp"`
	StepIndex           *int64    `json:"step_index"`
	EngineType          *string   `json:"engine_type,omitempty"`
	AirTemperatureK     *float64  `json:"air_temperature_K"`
	ProcessTemperatureK *float64  `json:"process_temperature_K"`
	RotationalSpeedRPM  *float64  `json:"rotational_speed_rpm"`
	TorqueNm            *float64  `json:"torque_Nm"`
	ToolWearMin         *float64  `json:"tool_wear_min"`
	IsFailure           bool      `json:"is_failure"`
	FailureType         *string   `json:"failure_type"`
	SyntheticRUL        *float64  `json:"synthetic_RUL"`
}

// Snapshot is the latest reading for a unit, annotated with derived health.
// Status and HealthPercent are computed from (SyntheticRUL, IsFailure) via
// Thresholds and are never stored.
type Snapshot struct {
	UnitID              string    `json:"unit_id"`
	ProductID           string    `json:"product_id"`
	LastSeen            time.Time `json:"lastSeen"`
	HealthPercent       *int      `json:"healthPercent"`
	SyntheticRUL        *float64  `json:"synthetic_RUL"`
	Status              Status    `json:"status"`
	ProcessTemperatureK *float64  `json:"process_temperature_K"`
	RotationalSpeedRPM  *float64  `json:"rotational_speed_rpm"`
	ToolWearMin         *float64  `json:"tool_wear_min"`
	IsFailure           bool      `json:"is_failure"`
}

// Machine is the richer, filterable machine view served by the machines list
// and detail endpoints. Name is derived as "<productID>-<unitID>" when both
// parts are present.
type Machine struct {
	UnitID        string    `json:"unitId"`
	ProductID     string    `json:"productId"`
	Name          string    `json:"name"`
	Type          *string   `json:"type"`
	HealthPercent *int      `json:"healthPercent"`
	SyntheticRUL  *int      `json:"syntheticRUL"`
	Status        Status    `json:"status"`
	LastSeen      time.Time `json:"lastSeen"`
}

// MachineName derives the display name for a machine.
func MachineName(productID, unitID string) string {
	if productID != "" && unitID != "" {
		return productID + "-" + unitID
	}
	if productID != "" {
		return productID
	}
	return unitID
}

// TimeBucket is one fixed-width aggregation bucket: the truncated bucket
// start plus the arithmetic mean of each sensor channel over the readings
// that fell into the bucket. NULL channel values are excluded from their
// channel's average; a bucket with no readings at all is never emitted.
type TimeBucket struct {
	BucketStart            time.Time `json:"timestamp"`
	AvgAirTemperatureK     *float64  `json:"avg_air_temperature_K"`
	AvgProcessTemperatureK *float64  `json:"avg_process_temperature_K"`
	AvgRotationalSpeedRPM  *float64  `json:"avg_rotational_speed_rpm"`
	AvgTorqueNm            *float64  `json:"avg_torque_Nm"`
	AvgToolWearMin         *float64  `json:"avg_tool_wear_min"`
	AvgSyntheticRUL        *float64  `json:"avg_synthetic_RUL"`
}

// SensorRow is the presentation shape for the per-machine sensors query.
// Values are rounded to two decimals and the process temperature is also
// exposed converted to Celsius. Rounding happens only here, never during
// aggregation.
type SensorRow struct {
	Timestamp           time.Time `json:"timestamp"`
	TemperatureC        *float64  `json:"temperatureC"`
	RotationalSpeedRPM  *float64  `json:"rotationalSpeedRpm"`
	ProcessTemperatureK *float64  `json:"processTemperatureK"`
	AirTemperatureK     *float64  `json:"airTemperatureK"`
	TorqueNm            *float64  `json:"torqueNm"`
	ToolWearMin         *float64  `json:"toolWearMin"`
	SyntheticRUL        *float64  `json:"syntheticRUL"`
}

// Summary is the dashboard roll-up over the latest reading per unit.
type Summary struct {
	TotalMachines  int          `json:"totalMachines"`
	Stats          SummaryStats `json:"stats"`
	StatusCounts   StatusCounts `json:"statusCounts"`
	ActiveFailures int          `json:"activeFailures"`
}

// SummaryStats carries aggregate statistics for the dashboard summary tile.
type SummaryStats struct {
	Total     int     `json:"total"`
	AvgHealth float64 `json:"avgHealth"`
	AvgRUL    float64 `json:"avgRUL"`
}

// StatusCounts is the per-status breakdown of machines.
type StatusCounts struct {
	Healthy  int `json:"healthy"`
	Warning  int `json:"warning"`
	Critical int `json:"critical"`
}
