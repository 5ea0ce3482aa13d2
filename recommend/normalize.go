package recommend

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Normalize converts an upstream schedule record into a Recommendation.
// Confidence prefers the probability embedded in the reason text and falls
// back to the risk score; the countdown to failure prefers the embedded RUL
// and falls back to the recommended start date. now anchors the countdown.
func Normalize(s Schedule, now time.Time) Recommendation {
	parsed := ParseReason(s.Reason)

	confidence := parsed.Confidence
	if !parsed.ConfidenceFound {
		confidence = math.Round(s.RiskScore * 100)
	}

	var days float64
	if parsed.RULFound && parsed.RULHours > 0 {
		days = math.Round(parsed.RULHours/24*10) / 10
	} else {
		days = math.Ceil(s.RecommendedStart.Sub(now).Hours() / 24)
	}

	var timeframe string
	switch {
	case days < 0:
		timeframe = "Overdue"
	case days < 1:
		timeframe = "< 1 day"
	default:
		timeframe = fmt.Sprintf("%d days", int(math.Ceil(days)))
	}

	downtime := math.Abs(s.RecommendedEnd.Sub(s.RecommendedStart).Hours())
	downtime = math.Round(downtime*10) / 10

	status := strings.ToLower(s.Status)
	if status == "" {
		status = "new"
	}

	machineType := s.ProductID
	if machineType == "" {
		machineType = "Equipment"
	}

	model := s.ModelVersion
	if model == "" {
		model = "AI-Model"
	}

	actions := s.Actions
	if actions == nil {
		actions = []string{}
	}

	return Recommendation{
		ID:                 fmt.Sprintf("rec-%d", s.ID),
		ScheduleID:         s.ScheduleID,
		MachineID:          s.UnitID,
		MachineType:        machineType,
		Severity:           SeverityFromRisk(s.RiskScore),
		Category:           "predictive",
		Prediction:         fmt.Sprintf("Unit %s is likely to fail within %s days (%s hours)", s.UnitID, formatFloat(days), formatFloat(parsed.RULHours)),
		Timeframe:          timeframe,
		Confidence:         int(math.Round(confidence)),
		Details:            s.Reason,
		RecommendedActions: actions,
		EstimatedDowntime:  formatFloat(downtime) + " hours",
		RecommendedStart:   s.RecommendedStart,
		RecommendedEnd:     s.RecommendedEnd,
		Status:             status,
		CreatedAt:          s.CreatedAt,
		AIModel:            model,
	}
}

// formatFloat renders a float without trailing zeros ("12", "1.5").
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
