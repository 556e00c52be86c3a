package timeutil

import (
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var dateLayouts = []string{
	DateLayout,
	"2006-1-2",
	"2006/1/2",
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

var timeLayouts = []string{
	TimeLayout,
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
}

const (
	minSerialDay = 20000
	maxSerialDay = 2958466
)

func serialEpoch() time.Time {
	return time.Date(1899, 12, 30, 0, 0, 0, 0, time.Local)
}

func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ParseLooseDate accepts ISO and day-first dates as typed in sheets, and
// spreadsheet serial day numbers.
func ParseLooseDate(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed, true
		}
	}
	// Serial day numbers leak through when a date cell is read unformatted.
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial >= minSerialDay && serial < maxSerialDay {
		return serialEpoch().AddDate(0, 0, int(serial)), true
	}
	return time.Time{}, false
}

// NormalizeDate rewrites recognizable dates as YYYY-MM-DD and keeps anything
// else as trimmed text.
func NormalizeDate(raw string) string {
	if parsed, ok := ParseLooseDate(raw); ok {
		return parsed.Format(DateLayout)
	}
	return strings.TrimSpace(raw)
}

// NormalizeTime rewrites recognizable times as HH:MM and keeps anything else
// as trimmed text.
func NormalizeTime(raw string) string {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return ""
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format(TimeLayout)
		}
	}
	return strings.TrimSpace(raw)
}
