// Package reservations runs the booking flow against the store: quoting,
// conflict checks, recurring series and the status lifecycle.
package reservations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/codr1/Courtside/internal/conflicts"
	"github.com/codr1/Courtside/internal/db"
	dbgen "github.com/codr1/Courtside/internal/db/generated"
	"github.com/codr1/Courtside/internal/models"
	"github.com/codr1/Courtside/internal/pricing"
	"github.com/codr1/Courtside/internal/timeofday"
)

var (
	ErrNotFound          = errors.New("reservation not found")
	ErrUnknownCourt      = errors.New("unknown court")
	ErrOverlap           = errors.New("reservation overlaps an active booking")
	ErrInvalidTransition = models.ErrInvalidTransition
)

// ValidationError rejects a request field that is not a time or date.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Notifier hears about status changes after they are committed.
type Notifier interface {
	ReservationStatusChanged(ctx context.Context, res models.Reservation, previous models.Status)
}

type Options struct {
	Resolver    pricing.Resolver
	PhoneRegion string
	// SlotMinutes is the board row length and the selection step used when a
	// request names slots instead of a start and end time.
	SlotMinutes int
	StartHour   int
	EndHour     int
	Notifier    Notifier
	Now         func() time.Time
}

type Engine struct {
	db   *db.DB
	opts Options
}

func NewEngine(database *db.DB, opts Options) (*Engine, error) {
	if database == nil {
		return nil, errors.New("reservations engine requires a database")
	}
	if opts.SlotMinutes <= 0 {
		opts.SlotMinutes = pricing.SlotMinutes
	}
	if opts.EndHour <= opts.StartHour {
		opts.StartHour, opts.EndHour = 6, 24
	}
	if opts.Resolver.RoundingUnit <= 0 {
		opts.Resolver.RoundingUnit = pricing.DefaultRoundingUnit
	}
	if opts.PhoneRegion == "" {
		opts.PhoneRegion = "TH"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{db: database, opts: opts}, nil
}

// catalog is the pricing snapshot for one court.
type catalog struct {
	court    dbgen.Court
	rules    []pricing.Rule
	packages []pricing.Package
}

func loadCatalog(ctx context.Context, q *dbgen.Queries, courtID string) (catalog, error) {
	court, err := q.GetCourt(ctx, courtID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog{}, fmt.Errorf("%w: %q", ErrUnknownCourt, courtID)
		}
		return catalog{}, fmt.Errorf("load court %s: %w", courtID, err)
	}
	ruleRows, err := q.ListActivePriceRules(ctx)
	if err != nil {
		return catalog{}, fmt.Errorf("list price rules: %w", err)
	}
	rules, err := models.RulesFromDB(ruleRows)
	if err != nil {
		return catalog{}, err
	}
	packageRows, err := q.ListActivePackages(ctx)
	if err != nil {
		return catalog{}, fmt.Errorf("list packages: %w", err)
	}
	packages, err := models.PackagesFromDB(packageRows)
	if err != nil {
		return catalog{}, err
	}
	return catalog{court: court, rules: rules, packages: packages}, nil
}

// window validates and normalizes the requested time range. Slots, when
// given, take precedence over start and end.
func (e *Engine) window(courtID, date, start, end string, slots []string, slotMinutes int) (pricing.Request, error) {
	if strings.TrimSpace(courtID) == "" {
		return pricing.Request{}, &ValidationError{Field: "court_id", Message: "is required"}
	}
	if len(slots) > 0 {
		if slotMinutes <= 0 {
			slotMinutes = e.opts.SlotMinutes
		}
		var err error
		start, end, err = conflicts.ValidateContiguous(slots, slotMinutes)
		if err != nil {
			return pricing.Request{}, err
		}
	}
	startMinutes, endMinutes, err := timeofday.Span("start_time", start, "end_time", end)
	if err != nil {
		return pricing.Request{}, err
	}
	if startMinutes == endMinutes {
		return pricing.Request{}, &ValidationError{Field: "end_time", Message: "must differ from start_time"}
	}
	if date != "" {
		if _, err := timeofday.ParseDate("date", date); err != nil {
			return pricing.Request{}, err
		}
	}
	return pricing.Request{
		CourtID:   courtID,
		Date:      date,
		StartTime: timeofday.Short(startMinutes),
		EndTime:   timeofday.Short(endMinutes),
	}, nil
}

func loadReservation(ctx context.Context, q *dbgen.Queries, id int64) (dbgen.Reservation, error) {
	row, err := q.GetReservation(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbgen.Reservation{}, ErrNotFound
		}
		return dbgen.Reservation{}, fmt.Errorf("load reservation %d: %w", id, err)
	}
	return row, nil
}

// existingAround returns stored reservations from the day before the first
// date to the day after the last, enough for midnight spillover checks.
func existingAround(ctx context.Context, q *dbgen.Queries, dates []string) ([]conflicts.Booking, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	first, last := dates[0], dates[0]
	for _, date := range dates {
		if date < first {
			first = date
		}
		if date > last {
			last = date
		}
	}
	from, err := timeofday.AddDays(first, -1)
	if err != nil {
		return nil, err
	}
	to, err := timeofday.AddDays(last, 1)
	if err != nil {
		return nil, err
	}
	rows, err := q.ListReservationsByDateRange(ctx, dbgen.ListReservationsByDateRangeParams{StartDate: from, EndDate: to})
	if err != nil {
		return nil, fmt.Errorf("list reservations %s..%s: %w", from, to, err)
	}
	bookings := make([]conflicts.Booking, 0, len(rows))
	for _, row := range rows {
		bookings = append(bookings, toBooking(models.ReservationFromDB(row)))
	}
	return bookings, nil
}

func toBooking(res models.Reservation) conflicts.Booking {
	return conflicts.Booking{
		ID:        res.ID,
		CourtID:   res.CourtID,
		Date:      res.Date,
		StartTime: res.StartTime,
		EndTime:   res.EndTime,
		Status:    string(res.Status),
		GroupID:   res.GroupID,
	}
}

func storeError(err error, action string) error {
	if db.IsOverlapViolation(err) {
		return ErrOverlap
	}
	return fmt.Errorf("%s: %w", action, err)
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func nullInt64(value int64) sql.NullInt64 {
	return sql.NullInt64{Int64: value, Valid: value != 0}
}
