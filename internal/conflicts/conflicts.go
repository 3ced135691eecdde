// Package conflicts detects overlapping court bookings and validates slot
// selections before a reservation is priced or stored.
package conflicts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/codr1/Courtside/internal/timeofday"
)

// Booking is the part of a stored reservation conflict detection looks at.
type Booking struct {
	ID        int64  `json:"id"`
	CourtID   string `json:"courtId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status"`
	GroupID   string `json:"groupId,omitempty"`
}

// Blocks reports whether the booking still occupies its window. Rejected and
// canceled bookings free the court.
func (b Booking) Blocks() bool {
	switch b.Status {
	case "rejected", "canceled", "cancelled":
		return false
	default:
		return true
	}
}

// ConflictError carries every booking a candidate collided with.
type ConflictError struct {
	Conflicts []Booking
}

func (e *ConflictError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, b := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("#%d %s %s %s-%s", b.ID, b.CourtID, b.Date, b.StartTime, b.EndTime))
	}
	return fmt.Sprintf("%d conflicting reservation(s): %s", len(e.Conflicts), strings.Join(parts, ", "))
}

// FindConflicts returns the existing bookings on courtID that overlap
// [start, end) on any of dates. Overlap is strict: a booking ending exactly
// when the candidate starts does not conflict. Bookings in excludeGroupID or
// with id excludeID are skipped so a reservation can be edited in place.
//
// An end earlier than the start runs past midnight, so the tail is also
// checked against the next day's bookings, and bookings that ran past
// midnight the day before are checked against the candidate's head.
func FindConflicts(dates []string, courtID, start, end string, existing []Booking, excludeGroupID string, excludeID int64) ([]Booking, error) {
	candStart, candEnd, err := timeofday.Span("start_time", start, "end_time", end)
	if err != nil {
		return nil, err
	}
	onDate := make(map[string]bool, len(dates))
	for _, date := range dates {
		onDate[date] = true
	}

	var found []Booking
	for _, booking := range existing {
		if booking.CourtID != courtID || !booking.Blocks() {
			continue
		}
		if excludeID != 0 && booking.ID == excludeID {
			continue
		}
		if excludeGroupID != "" && booking.GroupID == excludeGroupID {
			continue
		}

		hit, err := collides(booking, onDate, candStart, candEnd)
		if err != nil {
			return nil, err
		}
		if hit {
			found = append(found, booking)
		}
	}
	return found, nil
}

func collides(booking Booking, onDate map[string]bool, candStart, candEnd int) (bool, error) {
	bookStart, bookEnd, err := timeofday.Span("booking.start_time", booking.StartTime, "booking.end_time", booking.EndTime)
	if err != nil {
		return false, fmt.Errorf("reservation %d: %w", booking.ID, err)
	}

	if onDate[booking.Date] && overlaps(candStart, candEnd, bookStart, bookEnd) {
		return true, nil
	}
	if candEnd > timeofday.MinutesPerDay {
		previous, err := timeofday.AddDays(booking.Date, -1)
		if err != nil {
			return false, fmt.Errorf("reservation %d: %w", booking.ID, err)
		}
		shift := timeofday.MinutesPerDay
		if onDate[previous] && overlaps(candStart-shift, candEnd-shift, bookStart, bookEnd) {
			return true, nil
		}
	}
	if bookEnd > timeofday.MinutesPerDay {
		next, err := timeofday.AddDays(booking.Date, 1)
		if err != nil {
			return false, fmt.Errorf("reservation %d: %w", booking.ID, err)
		}
		shift := timeofday.MinutesPerDay
		if onDate[next] && overlaps(candStart, candEnd, bookStart-shift, bookEnd-shift) {
			return true, nil
		}
	}
	return false, nil
}

func overlaps(start1, end1, start2, end2 int) bool {
	return start1 < end2 && end1 > start2
}

// SelectionError rejects a slot selection before pricing or conflict checks.
type SelectionError struct {
	Reason string
}

func (e *SelectionError) Error() string {
	return "invalid selection: " + e.Reason
}

// ValidateContiguous checks that the selected slot start times form one
// unbroken run of step-minute slots and returns the window they cover.
func ValidateContiguous(slots []string, step int) (start, end string, err error) {
	if len(slots) == 0 {
		return "", "", &SelectionError{Reason: "no slots selected"}
	}
	if step <= 0 {
		return "", "", &SelectionError{Reason: fmt.Sprintf("slot length %d", step)}
	}

	minutes := make([]int, 0, len(slots))
	for i, slot := range slots {
		m, err := timeofday.FieldMinutes(fmt.Sprintf("slots[%d]", i), slot)
		if err != nil {
			return "", "", err
		}
		minutes = append(minutes, m)
	}
	sort.Ints(minutes)

	for i := 1; i < len(minutes); i++ {
		if gap := minutes[i] - minutes[i-1]; gap != step {
			return "", "", &SelectionError{Reason: fmt.Sprintf(
				"slots %s and %s are not consecutive",
				timeofday.Short(minutes[i-1]), timeofday.Short(minutes[i]),
			)}
		}
	}

	last := minutes[len(minutes)-1] + step
	if last > timeofday.MinutesPerDay {
		return "", "", &SelectionError{Reason: "selection runs past midnight"}
	}
	return timeofday.Short(minutes[0]), timeofday.Short(last), nil
}
