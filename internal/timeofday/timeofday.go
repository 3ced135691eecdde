// Package timeofday converts between "HH:MM" clock strings, minutes since
// midnight and calendar dates. Every range comparison in pricing, conflict
// detection and schedule projection goes through these helpers.
package timeofday

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinutesPerDay = 24 * 60
	DateLayout    = "2006-01-02"
)

// ValidationError names the field that held a malformed time or date.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid time value %q", e.Value)
	}
	return fmt.Sprintf("%s: invalid value %q", e.Field, e.Value)
}

// ToMinutes parses "HH:MM" or "HH:MM:SS" and returns hour*60+minute.
// Seconds are ignored. "24:00" is accepted so a window can end at midnight.
func ToMinutes(value string) (int, error) {
	return FieldMinutes("", value)
}

// FieldMinutes is ToMinutes with the offending field named in the error.
func FieldMinutes(field, value string) (int, error) {
	invalid := &ValidationError{Field: field, Value: value}

	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, invalid
	}
	hour, ok := digits(parts[0], 1, 2)
	if !ok {
		return 0, invalid
	}
	minute, ok := digits(parts[1], 2, 2)
	if !ok {
		return 0, invalid
	}
	if len(parts) == 3 {
		second, ok := digits(parts[2], 2, 2)
		if !ok || second > 59 {
			return 0, invalid
		}
	}
	if minute > 59 {
		return 0, invalid
	}
	total := hour*60 + minute
	if total > MinutesPerDay {
		return 0, invalid
	}
	return total, nil
}

// digits parses an unsigned decimal field of minLen to maxLen digits.
// strconv.Atoi alone would also take a sign.
func digits(field string, minLen, maxLen int) (int, bool) {
	if len(field) < minLen || len(field) > maxLen {
		return 0, false
	}
	for _, c := range field {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(field)
	return n, err == nil
}

// FromMinutes formats minutes as "H:MM" without padding the hour.
func FromMinutes(minutes int) string {
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

// Clock formats minutes as "HH:MM:SS", the layout the store keeps times in.
func Clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d:00", minutes/60, minutes%60)
}

// Short formats minutes as "HH:MM". Values past midnight wrap into the next
// day, except 1440 itself which stays "24:00".
func Short(minutes int) string {
	if minutes > MinutesPerDay {
		minutes -= MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Normalize re-formats a clock string into the "HH:MM:SS" store layout.
func Normalize(field, value string) (string, error) {
	minutes, err := FieldMinutes(field, value)
	if err != nil {
		return "", err
	}
	return Clock(minutes), nil
}

// Span returns the start and end of a window in minutes. An end earlier than
// the start means the window crosses midnight, so the end is moved into the
// next day (end + 1440).
func Span(startField, start, endField, end string) (int, int, error) {
	startMinutes, err := FieldMinutes(startField, start)
	if err != nil {
		return 0, 0, err
	}
	endMinutes, err := FieldMinutes(endField, end)
	if err != nil {
		return 0, 0, err
	}
	if endMinutes < startMinutes {
		endMinutes += MinutesPerDay
	}
	return startMinutes, endMinutes, nil
}

// ParseDate parses "YYYY-MM-DD" at local noon. Noon keeps day arithmetic clear
// of daylight-saving transitions.
func ParseDate(field, value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, &ValidationError{Field: field, Value: value}
	}
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 12, 0, 0, 0, time.Local), nil
}

// FormatDate formats t as "YYYY-MM-DD".
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Weekday returns the weekday of a "YYYY-MM-DD" date (0=Sunday).
func Weekday(field, value string) (time.Weekday, error) {
	date, err := ParseDate(field, value)
	if err != nil {
		return 0, err
	}
	return date.Weekday(), nil
}

// AddDays shifts a "YYYY-MM-DD" date by n calendar days.
func AddDays(value string, n int) (string, error) {
	date, err := ParseDate("date", value)
	if err != nil {
		return "", err
	}
	return FormatDate(date.AddDate(0, 0, n)), nil
}
