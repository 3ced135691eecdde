package schedule

import (
	"github.com/codr1/Courtside/internal/models"
	"github.com/codr1/Courtside/internal/schedule"
	"github.com/codr1/Courtside/internal/timeofday"
)

// WeekBoardData is everything the week page needs besides the board itself.
type WeekBoardData struct {
	Board       schedule.Board
	SlotMinutes int
	PrevWeek    string
	NextWeek    string
}

func NewWeekBoardData(board schedule.Board, slotMinutes int) WeekBoardData {
	data := WeekBoardData{Board: board, SlotMinutes: slotMinutes}
	if prev, err := timeofday.AddDays(board.WeekStart, -7); err == nil {
		data.PrevWeek = prev
	}
	if next, err := timeofday.AddDays(board.WeekStart, 7); err == nil {
		data.NextWeek = next
	}
	return data
}

// cellStyle paints a booked cell. Colours that are not plain hex fall back to
// the board default so stored values never reach the style attribute raw.
func cellStyle(color string) string {
	if !models.IsHexColor(color) {
		color = schedule.DefaultColor
	}
	return "background:" + color + ";color:" + models.TextColorFor(color)
}

func dayLabel(date string) string {
	day, err := timeofday.ParseDate("day", date)
	if err != nil {
		return date
	}
	return day.Format("Mon 2 Jan")
}
