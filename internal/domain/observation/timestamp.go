package observation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Seconds converts fractional seconds into a Duration, rounded to the nanosecond.
func Seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// FormatTimestamp renders d as hh:mm:ss, appending .fff when d carries
// milliseconds. Hours are not wrapped at 24.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Round(time.Millisecond).Milliseconds()
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	s := ms / 1000 % 60
	frac := ms % 1000
	if frac == 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, frac)
}

// ParseTimestamp parses hh:mm:ss with optional fractional seconds.
func ParseTimestamp(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrTimestampParse, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0, fmt.Errorf("%w: %q", ErrTimestampParse, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrTimestampParse, s)
	}
	sec, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || sec < 0 || sec >= 60 || strings.ContainsAny(parts[2], "eE+-") {
		return 0, fmt.Errorf("%w: %q", ErrTimestampParse, s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + Seconds(sec), nil
}

// ParsePeople reads a free-form people count, defaulting to 1.
func ParsePeople(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1
	}
	return v
}

// ParseRating reads a performance rating percentage, defaulting to 100.
func ParseRating(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 100
	}
	return v
}

// StandardTime adjusts an observed duration by people count and rating.
func StandardTime(duration, people, rating float64) float64 {
	return duration * people * rating / 100
}

// RoundSeconds rounds to two decimal places.
func RoundSeconds(v float64) float64 {
	return math.Round(v*100) / 100
}
