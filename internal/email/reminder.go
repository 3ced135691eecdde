package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	dbgen "github.com/codr1/Courtside/internal/db/generated"
	"github.com/codr1/Courtside/internal/timeofday"
)

// SendReminders emails every registered user holding a confirmed booking on
// date. It returns how many reminders were delivered.
func SendReminders(ctx context.Context, q *dbgen.Queries, client Sender, facilityName, date string) (int, error) {
	if q == nil || client == nil {
		return 0, nil
	}
	logger := log.Ctx(ctx).With().Str("date", date).Logger()

	rows, err := q.ListReminderRecipients(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("list reminder recipients: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	courts, err := q.ListCourts(ctx)
	if err != nil {
		return 0, fmt.Errorf("list courts: %w", err)
	}
	courtNames := make(map[string]string, len(courts))
	for _, court := range courts {
		courtNames[court.ID] = court.Name
	}

	sent := 0
	for _, row := range rows {
		recipient := strings.TrimSpace(row.Email.String)
		if !row.Email.Valid || recipient == "" {
			continue
		}
		start, end, err := timeofday.Span("start_time", row.StartTime, "end_time", row.EndTime)
		if err != nil {
			logger.Error().Err(err).Int64("reservation_id", row.ID).Msg("Skipping reminder with malformed time")
			continue
		}
		message := BuildReminderEmail(BookingDetails{
			FacilityName: facilityName,
			CourtName:    courtNames[row.CourtID],
			Date:         row.Date,
			TimeRange:    FormatTimeRange(timeofday.Short(start), timeofday.Short(end)),
		})

		sendCtx, cancel := detached(ctx, sendTimeout)
		err = client.Send(sendCtx, recipient, message)
		cancel()
		if err != nil {
			logger.Error().Err(err).Int64("reservation_id", row.ID).Msg("Failed to send reminder email")
			continue
		}
		sent++
	}

	logger.Info().Int("sent", sent).Int("candidates", len(rows)).Msg("Booking reminders sent")
	return sent, nil
}
