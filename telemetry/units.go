package telemetry

import "math"

// KelvinToCelsius converts a temperature reading from Kelvin to Celsius.
func KelvinToCelsius(k float64) float64 {
	return k - 273.15
}

// Round2 rounds v to two decimal places. Used at presentation time only.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round2Ptr rounds a nullable value to two decimals, preserving nil.
func Round2Ptr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := Round2(*v)
	return &r
}

// CelsiusPtr converts a nullable Kelvin reading to Celsius rounded to two
// decimals, preserving nil.
func CelsiusPtr(k *float64) *float64 {
	if k == nil {
		return nil
	}
	c := Round2(KelvinToCelsius(*k))
	return &c
}
