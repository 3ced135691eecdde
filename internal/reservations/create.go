package reservations

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtside/internal/conflicts"
	"github.com/codr1/Courtside/internal/db"
	dbgen "github.com/codr1/Courtside/internal/db/generated"
	"github.com/codr1/Courtside/internal/models"
	"github.com/codr1/Courtside/internal/pricing"
	"github.com/codr1/Courtside/internal/recurrence"
	"github.com/codr1/Courtside/internal/timeofday"
)

const maxPeopleCount = 1000

type CreateRequest struct {
	CourtID          string           `json:"courtId"`
	Date             string           `json:"date"`
	StartTime        string           `json:"startTime"`
	EndTime          string           `json:"endTime"`
	Slots            []string         `json:"slots,omitempty"`
	SlotMinutes      int              `json:"slotMinutes,omitempty"`
	PeopleCount      int              `json:"peopleCount"`
	SubscriptionType string           `json:"subscriptionType"`
	PackageID        int64            `json:"packageId,omitempty"`
	TeamName         string           `json:"teamName"`
	Purpose          string           `json:"purpose"`
	Color            string           `json:"color"`
	GuestName        string           `json:"guestName"`
	GuestPhone       string           `json:"guestPhone"`
	Recurrence       *recurrence.Rule `json:"recurrence,omitempty"`

	// UserID is the signed-in owner; zero books as a guest.
	UserID int64 `json:"-"`
}

type CreateResult struct {
	GroupID      string               `json:"groupId,omitempty"`
	Reservations []models.Reservation `json:"reservations"`
	Total        int64                `json:"total"`
}

type owner struct {
	userID     int64
	guestName  string
	guestPhone string
}

func (e *Engine) owner(req CreateRequest) (owner, error) {
	guestName := strings.TrimSpace(req.GuestName)
	guestPhone := strings.TrimSpace(req.GuestPhone)
	if req.UserID > 0 {
		if guestName != "" || guestPhone != "" {
			return owner{}, &ValidationError{Field: "guest_name", Message: "must be empty when booking as a signed-in user"}
		}
		return owner{userID: req.UserID}, nil
	}
	if guestName == "" {
		return owner{}, &ValidationError{Field: "guest_name", Message: "is required for guest bookings"}
	}
	phone, err := models.NormalizePhone(guestPhone, e.opts.PhoneRegion)
	if err != nil {
		return owner{}, &ValidationError{Field: "guest_phone", Message: "must be a valid phone number"}
	}
	return owner{guestName: guestName, guestPhone: phone}, nil
}

// GuestPhoneKey returns a guest phone the way bookings store it, so every
// spelling of one number throttles together. A number that does not parse
// comes back trimmed; Create rejects it anyway.
func (e *Engine) GuestPhoneKey(raw string) string {
	if phone, err := models.NormalizePhone(raw, e.opts.PhoneRegion); err == nil {
		return phone
	}
	return strings.TrimSpace(raw)
}

type details struct {
	peopleCount  int
	subscription pricing.Subscription
	teamName     string
	purpose      string
	color        string
}

func parseDetails(peopleCount int, subscriptionType, teamName, purpose, color string) (details, error) {
	if peopleCount == 0 {
		peopleCount = 1
	}
	if peopleCount < 0 || peopleCount > maxPeopleCount {
		return details{}, &ValidationError{Field: "people_count", Message: fmt.Sprintf("must be between 1 and %d", maxPeopleCount)}
	}
	subscription, err := pricing.ParseSubscription(subscriptionType)
	if err != nil {
		return details{}, err
	}
	color = strings.TrimSpace(color)
	if color != "" && !models.IsHexColor(color) {
		return details{}, &ValidationError{Field: "color", Message: "must be a #rrggbb color"}
	}
	return details{
		peopleCount:  peopleCount,
		subscription: subscription,
		teamName:     strings.TrimSpace(teamName),
		purpose:      strings.TrimSpace(purpose),
		color:        color,
	}, nil
}

// seriesDates expands a recurrence, refusing spans the generator would cut.
func seriesDates(rule recurrence.Rule) ([]string, error) {
	if len(rule.DaysOfWeek) == 0 {
		return nil, &ValidationError{Field: "recurrence.days_of_week", Message: "at least one weekday is required"}
	}
	span, err := rule.SpanDays()
	if err != nil {
		return nil, err
	}
	if span < 1 {
		return nil, &ValidationError{Field: "recurrence.end_date", Message: "must not be before start_date"}
	}
	if span > recurrence.MaxSpanDays {
		return nil, &ValidationError{
			Field:   "recurrence.end_date",
			Message: fmt.Sprintf("series may span at most %d days", recurrence.MaxSpanDays),
		}
	}
	dates, err := rule.Dates()
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, &ValidationError{Field: "recurrence.days_of_week", Message: "no date in range falls on the selected weekdays"}
	}
	return dates, nil
}

// Create books one date, or every date of a recurring series under a new
// group id. The conflict check and the inserts share one transaction.
func (e *Engine) Create(ctx context.Context, req CreateRequest) (CreateResult, error) {
	own, err := e.owner(req)
	if err != nil {
		return CreateResult{}, err
	}
	det, err := parseDetails(req.PeopleCount, req.SubscriptionType, req.TeamName, req.Purpose, req.Color)
	if err != nil {
		return CreateResult{}, err
	}
	win, err := e.window(req.CourtID, req.Date, req.StartTime, req.EndTime, req.Slots, req.SlotMinutes)
	if err != nil {
		return CreateResult{}, err
	}

	var (
		dates   []string
		groupID string
		rule    *recurrence.Rule
	)
	if req.Recurrence != nil {
		dates, err = seriesDates(*req.Recurrence)
		if err != nil {
			return CreateResult{}, err
		}
		groupID = uuid.NewString()
		rule = req.Recurrence
	} else {
		if win.Date == "" {
			return CreateResult{}, &ValidationError{Field: "date", Message: "is required"}
		}
		dates = []string{win.Date}
	}

	logger := log.Ctx(ctx).With().
		Str("court_id", win.CourtID).
		Str("start_time", win.StartTime).
		Str("end_time", win.EndTime).
		Int("date_count", len(dates)).
		Logger()

	var result CreateResult
	err = e.db.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries
		cat, err := loadCatalog(ctx, q, win.CourtID)
		if err != nil {
			return err
		}

		// Price before touching the store so a catalog gap fails the whole series.
		priced := make([]QuoteResult, 0, len(dates))
		for _, date := range dates {
			dated := win
			dated.Date = date
			quote, err := e.price(cat, dated, det.peopleCount, det.subscription, req.PackageID)
			if err != nil {
				logPricingFailure(ctx, err, dated)
				return err
			}
			priced = append(priced, quote)
		}

		// A package moves the window, so conflicts are checked on the final one.
		final := priced[0]
		existing, err := existingAround(ctx, q, dates)
		if err != nil {
			return err
		}
		found, err := conflicts.FindConflicts(dates, final.CourtID, final.StartTime, final.EndTime, existing, "", 0)
		if err != nil {
			return err
		}
		if len(found) > 0 {
			return &conflicts.ConflictError{Conflicts: found}
		}

		for _, quote := range priced {
			params, err := e.insertParams(quote, det, own, groupID, rule)
			if err != nil {
				return err
			}
			row, err := q.CreateReservation(ctx, params)
			if err != nil {
				return storeError(err, "create reservation")
			}
			result.Reservations = append(result.Reservations, models.ReservationFromDB(row))
			result.Total += row.TotalPrice
		}
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Reservation not created")
		return CreateResult{}, err
	}

	result.GroupID = groupID
	logger.Info().
		Str("group_id", groupID).
		Int64("total", result.Total).
		Msg("Reservation created")
	return result, nil
}

func (e *Engine) insertParams(quote QuoteResult, det details, own owner, groupID string, rule *recurrence.Rule) (dbgen.CreateReservationParams, error) {
	start, end, err := timeofday.Span("start_time", quote.StartTime, "end_time", quote.EndTime)
	if err != nil {
		return dbgen.CreateReservationParams{}, err
	}
	params := dbgen.CreateReservationParams{
		CourtID:          quote.CourtID,
		Date:             quote.Date,
		StartTime:        timeofday.Clock(start),
		EndTime:          storedEnd(end),
		StartMinute:      int64(start),
		EndMinute:        int64(end),
		Status:           string(models.StatusPending),
		PeopleCount:      int64(det.peopleCount),
		TotalPrice:       quote.Quote.Rounded,
		TeamName:         det.teamName,
		Purpose:          det.purpose,
		UserID:           nullInt64(own.userID),
		GuestName:        nullString(own.guestName),
		GuestPhone:       nullString(own.guestPhone),
		GroupID:          nullString(groupID),
		Color:            det.color,
		SubscriptionType: string(det.subscription),
		PackageID:        nullInt64(quote.PackageID),
	}
	if rule != nil {
		params.RecurrenceDays = nullString(models.EncodeDays(rule.DaysOfWeek))
		params.RecurrenceStart = nullString(rule.StartDate)
		params.RecurrenceEnd = nullString(rule.EndDate)
	}
	return params, nil
}
