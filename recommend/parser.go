package recommend

import (
	"regexp"
	"strconv"
)

// The upstream scheduler encodes its model output in the reason text, e.g.
// "Failure probability: 99.11%, RUL: 44.4h". These patterns recover the two
// numbers when present.
var (
	probabilityRe = regexp.MustCompile(`Failure probability:\s*([\d.]+)%`)
	rulRe         = regexp.MustCompile(`RUL:\s*([\d.]+)h`)
)

// ParsedReason is the structured result of parsing a reason string. The
// found flags distinguish "parsed as zero" from "not present"; callers decide
// what to substitute when a field is missing.
type ParsedReason struct {
	Confidence      float64 // failure probability in percent
	ConfidenceFound bool
	RULHours        float64
	RULFound        bool
}

// ParseReason extracts the failure probability and RUL hours from a reason
// string. A field that does not match leaves its found flag false; the
// parser itself never substitutes defaults.
func ParseReason(reason string) ParsedReason {
	var p ParsedReason
	if m := probabilityRe.FindStringSubmatch(reason); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			p.Confidence = v
			p.ConfidenceFound = true
		}
	}
	if m := rulRe.FindStringSubmatch(reason); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			p.RULHours = v
			p.RULFound = true
		}
	}
	return p
}
