package reservations

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtside/internal/conflicts"
	"github.com/codr1/Courtside/internal/db"
	dbgen "github.com/codr1/Courtside/internal/db/generated"
	"github.com/codr1/Courtside/internal/models"
	"github.com/codr1/Courtside/internal/recurrence"
	"github.com/codr1/Courtside/internal/timeofday"
)

// EditSeriesRequest redefines a recurring series. Owner fields are kept from
// the existing rows.
type EditSeriesRequest struct {
	CourtID          string          `json:"courtId"`
	StartTime        string          `json:"startTime"`
	EndTime          string          `json:"endTime"`
	PeopleCount      int             `json:"peopleCount"`
	SubscriptionType string          `json:"subscriptionType"`
	TeamName         string          `json:"teamName"`
	Purpose          string          `json:"purpose"`
	Color            string          `json:"color"`
	Recurrence       recurrence.Rule `json:"recurrence"`
}

type EditSeriesResult struct {
	GroupID      string               `json:"groupId"`
	Kept         int                  `json:"kept"`
	Added        int                  `json:"added"`
	Removed      int                  `json:"removed"`
	Reservations []models.Reservation `json:"reservations"`
}

// EditSeries applies a new definition to every row of groupID in one
// transaction: rows on dates that survive are updated in place, rows on
// dropped dates are deleted and new dates are inserted. Either all of it is
// visible afterwards or none of it.
func (e *Engine) EditSeries(ctx context.Context, groupID string, req EditSeriesRequest) (EditSeriesResult, error) {
	det, err := parseDetails(req.PeopleCount, req.SubscriptionType, req.TeamName, req.Purpose, req.Color)
	if err != nil {
		return EditSeriesResult{}, err
	}
	win, err := e.window(req.CourtID, "", req.StartTime, req.EndTime, nil, 0)
	if err != nil {
		return EditSeriesResult{}, err
	}
	dates, err := seriesDates(req.Recurrence)
	if err != nil {
		return EditSeriesResult{}, err
	}

	logger := log.Ctx(ctx).With().Str("group_id", groupID).Str("court_id", win.CourtID).Logger()

	result := EditSeriesResult{GroupID: groupID}
	err = e.db.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries
		rows, err := q.ListReservationsByGroup(ctx, nullString(groupID))
		if err != nil {
			return fmt.Errorf("list series %s: %w", groupID, err)
		}
		if len(rows) == 0 {
			return ErrNotFound
		}
		template := rows[0]
		own := owner{
			userID:     template.UserID.Int64,
			guestName:  template.GuestName.String,
			guestPhone: template.GuestPhone.String,
		}
		status := seriesStatus(rows)

		occurrences := make([]recurrence.Occurrence, 0, len(rows))
		for _, row := range rows {
			occurrences = append(occurrences, recurrence.Occurrence{ID: row.ID, Date: row.Date})
		}
		plan := recurrence.PlanSeriesEdit(occurrences, dates)

		cat, err := loadCatalog(ctx, q, win.CourtID)
		if err != nil {
			return err
		}
		quotes := make(map[string]QuoteResult, len(dates))
		for _, date := range dates {
			dated := win
			dated.Date = date
			quote, err := e.price(cat, dated, det.peopleCount, det.subscription, 0)
			if err != nil {
				logPricingFailure(ctx, err, dated)
				return err
			}
			quotes[date] = quote
		}

		existing, err := existingAround(ctx, q, dates)
		if err != nil {
			return err
		}
		found, err := conflicts.FindConflicts(dates, win.CourtID, win.StartTime, win.EndTime, existing, groupID, 0)
		if err != nil {
			return err
		}
		if len(found) > 0 {
			return &conflicts.ConflictError{Conflicts: found}
		}

		for _, occurrence := range plan.Remove {
			if _, err := q.DeleteReservation(ctx, occurrence.ID); err != nil {
				return fmt.Errorf("delete reservation %d: %w", occurrence.ID, err)
			}
		}

		start, end, err := timeofday.Span("start_time", win.StartTime, "end_time", win.EndTime)
		if err != nil {
			return err
		}
		rule := req.Recurrence
		for _, occurrence := range plan.Keep {
			quote := quotes[occurrence.Date]
			row, err := q.UpdateReservationSlot(ctx, dbgen.UpdateReservationSlotParams{
				CourtID:          win.CourtID,
				StartTime:        timeofday.Clock(start),
				EndTime:          storedEnd(end),
				StartMinute:      int64(start),
				EndMinute:        int64(end),
				PeopleCount:      int64(det.peopleCount),
				TotalPrice:       quote.Quote.Rounded,
				TeamName:         det.teamName,
				Purpose:          det.purpose,
				Color:            det.color,
				SubscriptionType: string(det.subscription),
				RecurrenceDays:   nullString(models.EncodeDays(rule.DaysOfWeek)),
				RecurrenceStart:  nullString(rule.StartDate),
				RecurrenceEnd:    nullString(rule.EndDate),
				ID:               occurrence.ID,
			})
			if err != nil {
				return storeError(err, fmt.Sprintf("update reservation %d", occurrence.ID))
			}
			result.Reservations = append(result.Reservations, models.ReservationFromDB(row))
		}

		for _, date := range plan.Add {
			params, err := e.insertParams(quotes[date], det, own, groupID, &rule)
			if err != nil {
				return err
			}
			params.Status = string(status)
			row, err := q.CreateReservation(ctx, params)
			if err != nil {
				return storeError(err, "create reservation")
			}
			result.Reservations = append(result.Reservations, models.ReservationFromDB(row))
		}

		result.Kept = len(plan.Keep)
		result.Added = len(plan.Add)
		result.Removed = len(plan.Remove)
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Series edit not applied")
		return EditSeriesResult{}, err
	}

	logger.Info().
		Int("kept", result.Kept).
		Int("added", result.Added).
		Int("removed", result.Removed).
		Msg("Series edited")
	return result, nil
}

// seriesStatus is the status new dates of an edited series start in: that of
// the series' live rows, or pending when none is live.
func seriesStatus(rows []dbgen.Reservation) models.Status {
	for _, row := range rows {
		if status := models.Status(row.Status); status.Active() {
			return status
		}
	}
	return models.StatusPending
}

func storedEnd(end int) string {
	if end == timeofday.MinutesPerDay {
		return timeofday.Clock(end)
	}
	return timeofday.Clock(end % timeofday.MinutesPerDay)
}
