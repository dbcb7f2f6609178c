package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the persisted calendar date form
const DateLayout = "2006-01-02"

const legacyDateLayout = "02-01-2006"

// maxDurationSeconds is the longest duration time.Duration can hold
const maxDurationSeconds = math.MaxInt64 / int64(time.Second)

// FormatDuration renders d as HH:MM:SS with unbounded hours. Sub-second
// precision is dropped and negative durations render as zero.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}

// ParseDuration reads the HH:MM:SS form written by FormatDuration. Fractional
// seconds are accepted and truncated. An empty string is a zero duration.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	hours, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || hours < 0 || hours > math.MaxInt64/int64(time.Hour) {
		return 0, fmt.Errorf("invalid duration hours %q", s)
	}
	minutes, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid duration minutes %q", s)
	}
	secondsPart, _, _ := strings.Cut(parts[2], ".")
	seconds, err := strconv.ParseInt(secondsPart, 10, 64)
	if err != nil || seconds < 0 || seconds > 59 {
		return 0, fmt.Errorf("invalid duration seconds %q", s)
	}
	total := hours*3600 + minutes*60 + seconds
	if total > maxDurationSeconds {
		return 0, fmt.Errorf("duration out of range %q", s)
	}
	return time.Duration(total) * time.Second, nil
}

// FormatDate renders t as YYYY-MM-DD, or an empty string for the zero time
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// ParseDate reads a persisted calendar date. Values longer than ten
// characters use the legacy "DD-MM-YYYY HH:MM:SS" form and only their date
// part is kept; anything else is ISO-8601. An empty string is the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if len(s) > 10 {
		return time.ParseInLocation(legacyDateLayout, strings.Fields(s)[0], time.Local)
	}
	return time.ParseInLocation(DateLayout, s, time.Local)
}
