package utils

import (
	"fmt"
	"math"
	"time"
)

// ISOFormat is the timestamp layout used throughout the journal:
// ISO-8601 local time, truncated to seconds.
const ISOFormat = "2006-01-02T15:04:05"

// timestampLayouts are tried in order when normalizing broker-supplied values.
var timestampLayouts = []string{
	ISOFormat,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"2006-01-02",
}

// ParseTimestamp parses a broker timestamp string, trying the known layouts
// in order. The second return value reports whether parsing succeeded.
func ParseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ToISO normalizes a broker timestamp to ISOFormat. Empty input stays empty,
// and values that cannot be parsed are returned unchanged so the original
// data is still visible to the user.
func ToISO(value string) string {
	if value == "" {
		return ""
	}
	t, ok := ParseTimestamp(value)
	if !ok {
		return value
	}
	return t.Format(ISOFormat)
}

// ComputeDurationSeconds returns the trade duration in whole seconds, or nil
// when either endpoint is missing/unparsable or the duration is not positive.
func ComputeDurationSeconds(entryDate, exitDate string) *int64 {
	entry, okEntry := ParseTimestamp(entryDate)
	exit, okExit := ParseTimestamp(exitDate)
	if !okEntry || !okExit {
		return nil
	}
	d := exit.Sub(entry)
	if d <= 0 {
		return nil
	}
	seconds := int64(math.Round(d.Seconds()))
	return &seconds
}

// FormatDuration renders a duration in seconds as a short human string,
// e.g. "2d 4h", "1h 30m", "5m 12s", "45s".
func FormatDuration(seconds *int64) string {
	if seconds == nil || *seconds <= 0 {
		return "—"
	}
	s := *seconds
	d := s / 86400
	h := (s % 86400) / 3600
	m := (s % 3600) / 60
	sec := s % 60

	switch {
	case d > 0:
		return fmt.Sprintf("%dd %dh", d, h)
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, sec)
	default:
		return fmt.Sprintf("%ds", sec)
	}
}
