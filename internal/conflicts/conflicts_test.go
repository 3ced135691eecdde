package conflicts

import (
	"errors"
	"testing"

	"github.com/codr1/Courtside/internal/timeofday"
)

func booking(id int64, date, start, end string) Booking {
	return Booking{ID: id, CourtID: "pink", Date: date, StartTime: start, EndTime: end, Status: "confirmed"}
}

func TestFindConflictsAdjacentWindowsDoNotConflict(t *testing.T) {
	existing := []Booking{booking(1, "2025-01-06", "10:00", "12:00")}
	got, err := FindConflicts([]string{"2025-01-06"}, "pink", "12:00", "14:00", existing, "", 0)
	if err != nil {
		t.Fatalf("FindConflicts: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("adjacent windows conflicted: %v", got)
	}

	got, err = FindConflicts([]string{"2025-01-06"}, "pink", "08:00", "10:00", existing, "", 0)
	if err != nil {
		t.Fatalf("FindConflicts: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("window ending at booking start conflicted: %v", got)
	}
}

func TestFindConflictsOverlap(t *testing.T) {
	existing := []Booking{
		booking(1, "2025-01-06", "10:00", "12:00"),
		booking(2, "2025-01-08", "10:00", "12:00"),
		booking(3, "2025-01-06", "12:30", "13:30"),
	}
	got, err := FindConflicts([]string{"2025-01-06"}, "pink", "11:00", "13:00", existing, "", 0)
	if err != nil {
		t.Fatalf("FindConflicts: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("conflicts = %v, want ids 1 and 3", got)
	}
}

func TestFindConflictsIgnoresOtherCourtsAndInactiveBookings(t *testing.T) {
	other := booking(1, "2025-01-06", "10:00", "12:00")
	other.CourtID = "mint"
	rejected := booking(2, "2025-01-06", "10:00", "12:00")
	rejected.Status = "rejected"
	canceled := booking(3, "2025-01-06", "10:00", "12:00")
	canceled.Status = "canceled"
	pending := booking(4, "2025-01-06", "10:00", "12:00")
	pending.Status = "pending"

	got, err := FindConflicts([]string{"2025-01-06"}, "pink", "10:00", "12:00", []Booking{other, rejected, canceled, pending}, "", 0)
	if err != nil {
		t.Fatalf("FindConflicts: %v", err)
	}
	if len(got) != 1 || got[0].ID != 4 {
		t.Fatalf("conflicts = %v, want only the pending booking", got)
	}
}

func TestFindConflictsExcludesOwnGroupAndID(t *testing.T) {
	mine := booking(1, "2025-01-06", "10:00", "12:00")
	mine.GroupID = "series-a"
	single := booking(2, "2025-01-08", "10:00", "12:00")

	got, err := FindConflicts([]string{"2025-01-06"}, "pink", "10:00", "12:00", []Booking{mine}, "series-a", 0)
	if err != nil {
		t.Fatalf("FindConflicts: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("editing a series conflicted with itself: %v", got)
	}

	got, err = FindConflicts([]string{"2025-01-08"}, "pink", "10:00", "12:00", []Booking{single}, "", 2)
	if err != nil {
		t.Fatalf("FindConflicts: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("editing a booking conflicted with itself: %v", got)
	}
}

func TestFindConflictsAcrossMidnight(t *testing.T) {
	early := booking(1, "2025-01-07", "00:30", "02:00")
	got, err := FindConflicts([]string{"2025-01-06"}, "pink", "23:00", "01:00", []Booking{early}, "", 0)
	if err != nil {
		t.Fatalf("FindConflicts: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("tail past midnight missed next-day booking: %v", got)
	}

	late := booking(2, "2025-01-06", "23:00", "01:00")
	got, err = FindConflicts([]string{"2025-01-07"}, "pink", "00:00", "00:30", []Booking{late}, "", 0)
	if err != nil {
		t.Fatalf("FindConflicts: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("previous-night booking missed: %v", got)
	}

	got, err = FindConflicts([]string{"2025-01-07"}, "pink", "01:00", "02:00", []Booking{late}, "", 0)
	if err != nil {
		t.Fatalf("FindConflicts: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("window after previous-night tail conflicted: %v", got)
	}
}

func TestFindConflictsRejectsMalformedTime(t *testing.T) {
	_, err := FindConflicts([]string{"2025-01-06"}, "pink", "10:xx", "12:00", nil, "", 0)
	var verr *timeofday.ValidationError
	if !errors.As(err, &verr) || verr.Field != "start_time" {
		t.Fatalf("err = %v, want ValidationError on start_time", err)
	}
}

func TestValidateContiguous(t *testing.T) {
	start, end, err := ValidateContiguous([]string{"10:30", "10:00", "11:00"}, 30)
	if err != nil {
		t.Fatalf("ValidateContiguous: %v", err)
	}
	if start != "10:00" || end != "11:30" {
		t.Fatalf("window = %s-%s, want 10:00-11:30", start, end)
	}

	tests := []struct {
		name  string
		slots []string
	}{
		{"empty", nil},
		{"gap", []string{"10:00", "11:00"}},
		{"duplicate", []string{"10:00", "10:00"}},
		{"past midnight", []string{"23:30", "24:00"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ValidateContiguous(tc.slots, 30)
			var serr *SelectionError
			if !errors.As(err, &serr) {
				t.Fatalf("err = %v, want SelectionError", err)
			}
		})
	}
}
