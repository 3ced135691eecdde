package reservations

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtside/internal/db"
	dbgen "github.com/codr1/Courtside/internal/db/generated"
	"github.com/codr1/Courtside/internal/models"
	"github.com/codr1/Courtside/internal/timeofday"
)

func (e *Engine) Get(ctx context.Context, id int64) (models.Reservation, error) {
	row, err := loadReservation(ctx, e.db.Queries, id)
	if err != nil {
		return models.Reservation{}, err
	}
	return models.ReservationFromDB(row), nil
}

type ListFilter struct {
	From    string
	To      string
	CourtID string
	Status  models.Status
	UserID  int64
}

// List returns reservations between From and To inclusive, narrowed by the
// optional court, status and owner.
func (e *Engine) List(ctx context.Context, filter ListFilter) ([]models.Reservation, error) {
	if _, err := timeofday.ParseDate("from", filter.From); err != nil {
		return nil, err
	}
	if _, err := timeofday.ParseDate("to", filter.To); err != nil {
		return nil, err
	}
	rows, err := e.db.Queries.ListReservationsByDateRange(ctx, dbgen.ListReservationsByDateRangeParams{
		StartDate: filter.From,
		EndDate:   filter.To,
	})
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	reservations := make([]models.Reservation, 0, len(rows))
	for _, row := range rows {
		res := models.ReservationFromDB(row)
		if filter.CourtID != "" && res.CourtID != filter.CourtID {
			continue
		}
		if filter.Status != "" && res.Status != filter.Status {
			continue
		}
		if filter.UserID != 0 && !res.OwnedBy(filter.UserID) {
			continue
		}
		reservations = append(reservations, res)
	}
	return reservations, nil
}

// SetStatus moves a reservation through its lifecycle. Moving a booking back
// to an active status re-checks it against the store's overlap guard.
func (e *Engine) SetStatus(ctx context.Context, id int64, next models.Status) (models.Reservation, error) {
	var (
		updated  models.Reservation
		previous models.Status
	)
	err := e.db.RunInTx(ctx, func(txdb *db.DB) error {
		row, err := loadReservation(ctx, txdb.Queries, id)
		if err != nil {
			return err
		}
		previous = models.Status(row.Status)
		if !previous.CanTransition(next) {
			return fmt.Errorf("%s to %s: %w", previous, next, ErrInvalidTransition)
		}
		row, err = txdb.Queries.UpdateReservationStatus(ctx, dbgen.UpdateReservationStatusParams{
			Status: string(next),
			ID:     id,
		})
		if err != nil {
			return storeError(err, "update reservation status")
		}
		updated = models.ReservationFromDB(row)
		return nil
	})
	if err != nil {
		return models.Reservation{}, err
	}

	log.Ctx(ctx).Info().
		Int64("reservation_id", id).
		Str("from", string(previous)).
		Str("to", string(next)).
		Msg("Reservation status changed")
	if e.opts.Notifier != nil {
		e.opts.Notifier.ReservationStatusChanged(ctx, updated, previous)
	}
	return updated, nil
}

type BillingUpdate struct {
	// FinalFee overrides the quoted total; nil keeps the current override.
	FinalFee      *int64 `json:"finalFee"`
	PaymentStatus string `json:"paymentStatus"`
}

func (e *Engine) UpdateBilling(ctx context.Context, id int64, update BillingUpdate) (models.Reservation, error) {
	if update.FinalFee != nil && *update.FinalFee < 0 {
		return models.Reservation{}, &ValidationError{Field: "final_fee", Message: "must not be negative"}
	}

	var updated models.Reservation
	err := e.db.RunInTx(ctx, func(txdb *db.DB) error {
		row, err := loadReservation(ctx, txdb.Queries, id)
		if err != nil {
			return err
		}
		paymentStatus := models.PaymentStatus(row.PaymentStatus)
		if strings.TrimSpace(update.PaymentStatus) != "" {
			paymentStatus, err = models.ParsePaymentStatus(update.PaymentStatus)
			if err != nil {
				return &ValidationError{Field: "payment_status", Message: err.Error()}
			}
		}
		finalFee := row.FinalFee
		if update.FinalFee != nil {
			finalFee.Int64 = *update.FinalFee
			finalFee.Valid = true
		}
		row, err = txdb.Queries.UpdateReservationBilling(ctx, dbgen.UpdateReservationBillingParams{
			FinalFee:      finalFee,
			PaymentStatus: string(paymentStatus),
			ID:            id,
		})
		if err != nil {
			return fmt.Errorf("update reservation billing: %w", err)
		}
		updated = models.ReservationFromDB(row)
		return nil
	})
	if err != nil {
		return models.Reservation{}, err
	}
	return updated, nil
}

type DeleteScope string

const (
	ScopeInstance  DeleteScope = "instance"
	ScopeFollowing DeleteScope = "following"
	ScopeSeries    DeleteScope = "series"
)

func ParseDeleteScope(value string) (DeleteScope, error) {
	switch scope := DeleteScope(strings.ToLower(strings.TrimSpace(value))); scope {
	case "":
		return ScopeInstance, nil
	case ScopeInstance, ScopeFollowing, ScopeSeries:
		return scope, nil
	default:
		return "", &ValidationError{Field: "scope", Message: fmt.Sprintf("unknown scope %q", value)}
	}
}

// Delete removes the reservation, the reservation and every later date of its
// series, or the whole series. A reservation outside any series is removed
// alone whatever the scope.
func (e *Engine) Delete(ctx context.Context, id int64, scope DeleteScope) (int64, error) {
	var deleted int64
	err := e.db.RunInTx(ctx, func(txdb *db.DB) error {
		row, err := loadReservation(ctx, txdb.Queries, id)
		if err != nil {
			return err
		}
		if !row.GroupID.Valid {
			scope = ScopeInstance
		}
		switch scope {
		case ScopeFollowing:
			deleted, err = txdb.Queries.DeleteReservationsByGroupFromDate(ctx, dbgen.DeleteReservationsByGroupFromDateParams{
				GroupID:  row.GroupID,
				FromDate: row.Date,
			})
		case ScopeSeries:
			deleted, err = txdb.Queries.DeleteReservationsByGroup(ctx, row.GroupID)
		default:
			deleted, err = txdb.Queries.DeleteReservation(ctx, id)
		}
		if err != nil {
			return fmt.Errorf("delete reservation %d (%s): %w", id, scope, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Ctx(ctx).Info().
		Int64("reservation_id", id).
		Str("scope", string(scope)).
		Int64("deleted", deleted).
		Msg("Reservations deleted")
	return deleted, nil
}
