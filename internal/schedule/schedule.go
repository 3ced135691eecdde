// Package schedule projects reservations onto the weekly court board.
package schedule

import (
	"fmt"
	"sort"

	"github.com/codr1/Courtside/internal/timeofday"
)

// DefaultColor paints bookings when neither the booking nor its court has one.
const DefaultColor = "#e5e7eb"

const placeholderText = "Reserved"

// Booking is a reservation as the board needs it.
type Booking struct {
	ID        int64
	CourtID   string
	Date      string
	StartTime string
	EndTime   string
	Status    string
	TeamName  string
	UserName  string
	GuestName string
	Color     string
}

func (b Booking) visible() bool {
	switch b.Status {
	case "rejected", "canceled", "cancelled":
		return false
	default:
		return true
	}
}

func (b Booking) text() string {
	switch {
	case b.TeamName != "":
		return b.TeamName
	case b.UserName != "":
		return b.UserName
	case b.GuestName != "":
		return b.GuestName
	default:
		return placeholderText
	}
}

type Court struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Grid describes the board: seven days from WeekStart, rows of SlotMinutes
// between StartHour and EndHour, one column per court per day.
type Grid struct {
	WeekStart   string
	StartHour   int
	EndHour     int
	SlotMinutes int
	Courts      []Court
}

func (g Grid) validate() error {
	if g.SlotMinutes <= 0 || 60%g.SlotMinutes != 0 {
		return &timeofday.ValidationError{Field: "slot_minutes", Value: fmt.Sprint(g.SlotMinutes)}
	}
	if g.StartHour < 0 || g.EndHour > 24 || g.StartHour >= g.EndHour {
		return &timeofday.ValidationError{Field: "hours", Value: fmt.Sprintf("%d-%d", g.StartHour, g.EndHour)}
	}
	return nil
}

// Cell is one court column of one row. RowSpan 0 means the cell is merged into
// the booking that starts above it and is not rendered on its own.
type Cell struct {
	Text          string `json:"text"`
	RowSpan       int    `json:"rowSpan"`
	Color         string `json:"color,omitempty"`
	ReservationID int64  `json:"reservationId,omitempty"`
}

func (c Cell) occupied() bool {
	return c.ReservationID != 0 || c.RowSpan == 0
}

// TimeSlot is one board row. Cells is indexed by day (0 = WeekStart) and then
// by court in Grid.Courts order.
type TimeSlot struct {
	Time  string   `json:"time"`
	Cells [][]Cell `json:"cells"`
}

type Board struct {
	WeekStart   string     `json:"weekStart"`
	SlotMinutes int        `json:"slotMinutes"`
	Days        []string   `json:"days"`
	Courts      []Court    `json:"courts"`
	Slots       []TimeSlot `json:"slots"`
	// Overlaps lists bookings that were not drawn because their cells were
	// already taken. On rows longer than a booking's granularity two adjacent
	// bookings can round into the same row, and the later one lands here.
	Overlaps []int64 `json:"overlaps,omitempty"`
}

// Project draws every active booking of the week onto an empty grid. Bookings
// outside the week or starting outside the grid hours are dropped. Bookings are
// drawn in (date, start, id) order, so the result does not depend on the order
// of the input.
func Project(bookings []Booking, grid Grid) (Board, error) {
	if err := grid.validate(); err != nil {
		return Board{}, err
	}
	weekStart, err := timeofday.ParseDate("week_start", grid.WeekStart)
	if err != nil {
		return Board{}, err
	}

	board := Board{
		WeekStart:   timeofday.FormatDate(weekStart),
		SlotMinutes: grid.SlotMinutes,
		Days:        make([]string, 7),
		Courts:      grid.Courts,
	}
	dayIndex := make(map[string]int, 7)
	for i := range board.Days {
		board.Days[i] = timeofday.FormatDate(weekStart.AddDate(0, 0, i))
		dayIndex[board.Days[i]] = i
	}
	courtIndex := make(map[string]int, len(grid.Courts))
	for i, court := range grid.Courts {
		courtIndex[court.ID] = i
	}

	gridStart := grid.StartHour * 60
	gridEnd := grid.EndHour * 60
	rows := (gridEnd - gridStart) / grid.SlotMinutes
	board.Slots = make([]TimeSlot, rows)
	for r := range board.Slots {
		cells := make([][]Cell, 7)
		for d := range cells {
			cells[d] = make([]Cell, len(grid.Courts))
			for c := range cells[d] {
				cells[d][c] = Cell{RowSpan: 1}
			}
		}
		board.Slots[r] = TimeSlot{Time: timeofday.FromMinutes(gridStart + r*grid.SlotMinutes), Cells: cells}
	}

	ordered := make([]placed, 0, len(bookings))
	for _, booking := range bookings {
		if !booking.visible() {
			continue
		}
		day, ok := dayIndex[booking.Date]
		if !ok {
			continue
		}
		court, ok := courtIndex[booking.CourtID]
		if !ok {
			continue
		}
		start, end, err := timeofday.Span("start_time", booking.StartTime, "end_time", booking.EndTime)
		if err != nil {
			return Board{}, fmt.Errorf("reservation %d: %w", booking.ID, err)
		}
		if start < gridStart || start >= gridEnd || end == start {
			continue
		}
		ordered = append(ordered, placed{booking: booking, day: day, court: court, start: start, end: min(end, gridEnd)})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].day != ordered[j].day {
			return ordered[i].day < ordered[j].day
		}
		if ordered[i].start != ordered[j].start {
			return ordered[i].start < ordered[j].start
		}
		return ordered[i].booking.ID < ordered[j].booking.ID
	})

	for _, p := range ordered {
		first := (p.start - gridStart) / grid.SlotMinutes
		last := (p.end - gridStart + grid.SlotMinutes - 1) / grid.SlotMinutes
		if !board.free(first, last, p.day, p.court) {
			board.Overlaps = append(board.Overlaps, p.booking.ID)
			continue
		}

		color := p.booking.Color
		if color == "" {
			color = grid.Courts[p.court].Color
		}
		if color == "" {
			color = DefaultColor
		}
		board.Slots[first].Cells[p.day][p.court] = Cell{
			Text:          p.booking.text(),
			RowSpan:       last - first,
			Color:         color,
			ReservationID: p.booking.ID,
		}
		for r := first + 1; r < last; r++ {
			board.Slots[r].Cells[p.day][p.court] = Cell{RowSpan: 0, Color: color, ReservationID: p.booking.ID}
		}
	}
	return board, nil
}

type placed struct {
	booking    Booking
	day, court int
	start, end int
}

func (b *Board) free(first, last, day, court int) bool {
	for r := first; r < last; r++ {
		if b.Slots[r].Cells[day][court].occupied() {
			return false
		}
	}
	return true
}

// ReservationAt returns the booking covering a cell, 0 when the cell is empty.
func (b Board) ReservationAt(row, day, court int) int64 {
	if row < 0 || row >= len(b.Slots) || day < 0 || day >= len(b.Days) || court < 0 || court >= len(b.Courts) {
		return 0
	}
	return b.Slots[row].Cells[day][court].ReservationID
}
