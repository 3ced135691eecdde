package email

import (
	"fmt"
	"strings"

	"github.com/codr1/Courtside/internal/models"
	"github.com/codr1/Courtside/internal/timeofday"
)

// Message is a rendered plain-text email.
type Message struct {
	Subject string
	Body    string
}

type BookingDetails struct {
	FacilityName string
	CourtName    string
	Date         string
	TimeRange    string
	TeamName     string
}

// FormatDate renders a "YYYY-MM-DD" date for people; unparseable input is
// returned unchanged.
func FormatDate(date string) string {
	parsed, err := timeofday.ParseDate("date", date)
	if err != nil {
		return date
	}
	return parsed.Format("Monday, Jan 2, 2006")
}

func FormatTimeRange(start, end string) string {
	return fmt.Sprintf("%s - %s", start, end)
}

// BuildStatusEmail renders the notice for a status change. It reports false
// for changes the booker is not told about.
func BuildStatusEmail(next, previous models.Status, details BookingDetails) (Message, bool) {
	switch {
	case next == models.StatusConfirmed:
		return buildBookingEmail("Booking Approved", "Your court booking has been approved.", details), true
	case next == models.StatusRejected:
		return buildBookingEmail("Booking Declined", "Unfortunately your court booking request was declined.", details), true
	case next == models.StatusCanceled && previous.Active():
		return buildBookingEmail("Booking Cancelled", "Your court booking has been cancelled.", details), true
	default:
		return Message{}, false
	}
}

func BuildReminderEmail(details BookingDetails) Message {
	return buildBookingEmail("Booking Reminder", "Reminder: your court booking is coming up.", details)
}

func buildBookingEmail(subjectPrefix, headline string, details BookingDetails) Message {
	facilityName := strings.TrimSpace(details.FacilityName)
	if facilityName == "" {
		facilityName = "your gym"
	}
	courtName := strings.TrimSpace(details.CourtName)
	if courtName == "" {
		courtName = "TBD"
	}

	lines := []string{
		headline,
		"",
		fmt.Sprintf("Facility: %s", facilityName),
		fmt.Sprintf("Court: %s", courtName),
		fmt.Sprintf("Date: %s", FormatDate(strings.TrimSpace(details.Date))),
		fmt.Sprintf("Time: %s", strings.TrimSpace(details.TimeRange)),
	}
	if team := strings.TrimSpace(details.TeamName); team != "" {
		lines = append(lines, fmt.Sprintf("Team: %s", team))
	}

	return Message{
		Subject: fmt.Sprintf("%s - %s", subjectPrefix, facilityName),
		Body:    strings.Join(lines, "\n"),
	}
}
