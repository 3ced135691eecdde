package reservations

import (
	"context"
	"fmt"
	"time"

	dbgen "github.com/codr1/Courtside/internal/db/generated"
	"github.com/codr1/Courtside/internal/models"
	"github.com/codr1/Courtside/internal/pricing"
	"github.com/codr1/Courtside/internal/schedule"
	"github.com/codr1/Courtside/internal/timeofday"
)

// WeekStartFor returns the Monday on or before date.
func WeekStartFor(date time.Time) string {
	offset := (int(date.Weekday()) + 6) % 7
	return timeofday.FormatDate(date.AddDate(0, 0, -offset))
}

// Week projects the seven days from weekStart onto the board. An empty
// weekStart means the current week; slotMinutes 0 uses the configured rows.
func (e *Engine) Week(ctx context.Context, weekStart string, slotMinutes int) (schedule.Board, error) {
	if weekStart == "" {
		weekStart = WeekStartFor(e.opts.Now())
	}
	if slotMinutes == 0 {
		slotMinutes = e.opts.SlotMinutes
	}
	start, err := timeofday.ParseDate("week", weekStart)
	if err != nil {
		return schedule.Board{}, err
	}
	end := timeofday.FormatDate(start.AddDate(0, 0, 6))

	q := e.db.Queries
	courtRows, err := q.ListCourts(ctx)
	if err != nil {
		return schedule.Board{}, fmt.Errorf("list courts: %w", err)
	}
	courts := make([]schedule.Court, 0, len(courtRows))
	for _, court := range courtRows {
		courts = append(courts, schedule.Court{ID: court.ID, Name: court.Name, Color: court.Color})
	}

	rows, err := q.ListReservationsByDateRange(ctx, dbgen.ListReservationsByDateRangeParams{
		StartDate: weekStart,
		EndDate:   end,
	})
	if err != nil {
		return schedule.Board{}, fmt.Errorf("list reservations: %w", err)
	}

	names := make(map[int64]string)
	bookings := make([]schedule.Booking, 0, len(rows))
	for _, row := range rows {
		res := models.ReservationFromDB(row)
		booking := schedule.Booking{
			ID:        res.ID,
			CourtID:   res.CourtID,
			Date:      res.Date,
			StartTime: res.StartTime,
			EndTime:   res.EndTime,
			Status:    string(res.Status),
			TeamName:  res.TeamName,
			GuestName: res.GuestName,
			Color:     res.Color,
		}
		if res.UserID != nil && res.TeamName == "" && res.Status.Active() {
			name, ok := names[*res.UserID]
			if !ok {
				user, err := q.GetUser(ctx, *res.UserID)
				if err != nil {
					return schedule.Board{}, fmt.Errorf("load user %d: %w", *res.UserID, err)
				}
				name = user.Name
				names[*res.UserID] = name
			}
			booking.UserName = name
		}
		bookings = append(bookings, booking)
	}

	grid := schedule.Grid{
		WeekStart:   weekStart,
		StartHour:   e.opts.StartHour,
		EndHour:     e.opts.EndHour,
		SlotMinutes: slotMinutes,
		Courts:      courts,
	}
	board, err := schedule.Project(bookings, grid)
	if err != nil || len(board.Overlaps) == 0 || slotMinutes <= pricing.SlotMinutes {
		return board, err
	}
	// Stored bookings never overlap, so anything hidden here was rounded into
	// a shared row. Booking-sized rows show every one of them.
	grid.SlotMinutes = pricing.SlotMinutes
	return schedule.Project(bookings, grid)
}
