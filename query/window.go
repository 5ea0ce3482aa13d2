package query

import (
	"strings"
	"time"
)

// Defaults applied when a window or interval token is absent or unrecognized.
const (
	DefaultWindow          = 24 * time.Hour
	DefaultIntervalSeconds = int64(60)
)

// ParseWindow resolves a human-readable window token of the form
// "<integer><unit>" with unit h (hours), d (days) or m (minutes),
// case-insensitive. Empty or unrecognized tokens fall back to 24 hours.
//
// Parsing is deliberately lenient: a token with a recognised suffix but no
// leading digits ("xh") resolves to a zero duration rather than an error.
// Callers that need strict validation must check the token themselves.
func ParseWindow(token string) time.Duration {
	if token == "" {
		return DefaultWindow
	}
	v := strings.ToLower(token)
	switch {
	case strings.HasSuffix(v, "h"):
		return time.Duration(leadingInt(v)) * time.Hour
	case strings.HasSuffix(v, "d"):
		return time.Duration(leadingInt(v)) * 24 * time.Hour
	case strings.HasSuffix(v, "m"):
		return time.Duration(leadingInt(v)) * time.Minute
	}
	return DefaultWindow
}

// ParseInterval resolves a bucket-width token into seconds. It accepts the
// same grammar as ParseWindow plus a bare integer, which is taken as a
// second count. Empty or unusable tokens fall back to 60 seconds; the result
// is never zero or negative, so it is always safe as a divisor.
func ParseInterval(token string) int64 {
	secs := DefaultIntervalSeconds
	if token != "" {
		v := strings.ToLower(token)
		switch {
		case strings.HasSuffix(v, "h"):
			secs = leadingInt(v) * 3600
		case strings.HasSuffix(v, "d"):
			secs = leadingInt(v) * 86400
		case strings.HasSuffix(v, "m"):
			secs = leadingInt(v) * 60
		default:
			secs = leadingInt(v)
		}
	}
	if secs <= 0 {
		return DefaultIntervalSeconds
	}
	return secs
}

// leadingInt parses the run of decimal digits at the start of s, returning 0
// when there is none.
func leadingInt(s string) int64 {
	var n int64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int64(c-'0')
	}
	return n
}
