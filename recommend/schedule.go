package recommend

import "time"

// Schedule is one maintenance-schedule record as emitted by the upstream ML
// scheduler and as persisted in the maintenance_schedule table. The reason
// field is free text; everything derived from it goes through ParseReason.
type Schedule struct {
	ID               int64     `json:"id"`
	ScheduleID       string    `json:"schedule_id"`
	ProductID        string    `json:"product_id"`
	UnitID           string    `json:"unit_id"`
	RecommendedStart time.Time `json:"recommended_start"`
	RecommendedEnd   time.Time `json:"recommended_end"`
	Reason           string    `json:"reason"`
	RiskScore        float64   `json:"risk_score"`
	ModelVersion     string    `json:"model_version"`
	Actions          []string  `json:"actions"`
	CreatedAt        time.Time `json:"created_at"`
	Status           string    `json:"status"`
}

// Recommendation is the normalized, frontend-facing view of a Schedule.
type Recommendation struct {
	ID                 string    `json:"id"`
	ScheduleID         string    `json:"scheduleId"`
	MachineID          string    `json:"machineId"`
	MachineType        string    `json:"machineType"`
	Severity           string    `json:"severity"`
	Category           string    `json:"category"`
	Prediction         string    `json:"prediction"`
	Timeframe          string    `json:"timeframe"`
	Confidence         int       `json:"confidence"`
	Details            string    `json:"details"`
	RecommendedActions []string  `json:"recommendedActions"`
	EstimatedDowntime  string    `json:"estimatedDowntime"`
	RecommendedStart   time.Time `json:"recommendedStart"`
	RecommendedEnd     time.Time `json:"recommendedEnd"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
	AIModel            string    `json:"aiModel"`
}

// Severity tiers derived from the continuous risk score.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// SeverityFromRisk maps a [0,1] risk score onto a coarse tier.
func SeverityFromRisk(risk float64) string {
	switch {
	case risk >= 0.8:
		return SeverityCritical
	case risk >= 0.5:
		return SeverityHigh
	case risk >= 0.2:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
