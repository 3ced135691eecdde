package schedule

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// WeekBoard renders the read-only week grid: one column per court per day,
// bookings spanning the rows they occupy.
func WeekBoard(data WeekBoardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		board := data.Board
		courts := len(board.Courts)

		fmt.Fprintf(&b, `<div id="schedule" hx-get="/schedule?week=%s&slot=%d" hx-trigger="refreshSchedule from:body" hx-select="#schedule" hx-swap="outerHTML">`,
			templ.EscapeString(board.WeekStart), data.SlotMinutes)
		b.WriteString(`<nav class="week">`)
		if data.PrevWeek != "" {
			fmt.Fprintf(&b, `<a href="/schedule?week=%s&slot=%d">&larr; Previous</a>`, templ.EscapeString(data.PrevWeek), data.SlotMinutes)
		}
		fmt.Fprintf(&b, `<strong>Week of %s</strong>`, templ.EscapeString(dayLabel(board.WeekStart)))
		if data.NextWeek != "" {
			fmt.Fprintf(&b, `<a href="/schedule?week=%s&slot=%d">Next &rarr;</a>`, templ.EscapeString(data.NextWeek), data.SlotMinutes)
		}
		b.WriteString(`</nav>`)

		b.WriteString(`<table class="board"><thead><tr><th rowspan="2">Time</th>`)
		for _, day := range board.Days {
			fmt.Fprintf(&b, `<th colspan="%d">%s</th>`, max(courts, 1), templ.EscapeString(dayLabel(day)))
		}
		b.WriteString(`</tr><tr>`)
		for range board.Days {
			for _, court := range board.Courts {
				fmt.Fprintf(&b, `<th style="%s">%s</th>`, templ.EscapeString(cellStyle(court.Color)), templ.EscapeString(court.Name))
			}
		}
		b.WriteString(`</tr></thead><tbody>`)

		for _, slot := range board.Slots {
			fmt.Fprintf(&b, `<tr><th>%s</th>`, templ.EscapeString(slot.Time))
			for day := range slot.Cells {
				for court := range slot.Cells[day] {
					cell := slot.Cells[day][court]
					switch {
					case cell.RowSpan == 0:
						// Covered by the booking cell above.
					case cell.ReservationID != 0:
						fmt.Fprintf(&b, `<td class="booked" rowspan="%d" style="%s" data-reservation-id="%d">%s</td>`,
							cell.RowSpan, templ.EscapeString(cellStyle(cell.Color)), cell.ReservationID, templ.EscapeString(cell.Text))
					default:
						b.WriteString(`<td></td>`)
					}
				}
			}
			b.WriteString(`</tr>`)
		}
		b.WriteString(`</tbody></table></div>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}
