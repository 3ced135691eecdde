// internal/models/reservation.go
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	dbgen "github.com/codr1/Courtside/internal/db/generated"
	"github.com/codr1/Courtside/internal/recurrence"
	"github.com/codr1/Courtside/internal/timeofday"
)

var ErrInvalidTransition = errors.New("invalid status transition")

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCanceled  Status = "canceled"
	StatusRejected  Status = "rejected"
)

func ParseStatus(value string) (Status, error) {
	switch status := Status(strings.ToLower(strings.TrimSpace(value))); status {
	case StatusPending, StatusConfirmed, StatusCanceled, StatusRejected:
		return status, nil
	case "cancelled":
		return StatusCanceled, nil
	default:
		return "", fmt.Errorf("unknown status %q", value)
	}
}

// Active reservations occupy their court window.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CanTransition reports whether an admin or owner may move a reservation from
// s to next. Rejected and canceled are terminal except that any live booking
// can still be canceled.
func (s Status) CanTransition(next Status) bool {
	switch {
	case next == StatusCanceled:
		return s != StatusCanceled
	case s == StatusPending:
		return next == StatusConfirmed || next == StatusRejected
	case s == StatusConfirmed:
		return next == StatusPending
	default:
		return false
	}
}

type PaymentStatus string

const (
	PaymentUnpaid              PaymentStatus = "unpaid"
	PaymentPaid                PaymentStatus = "paid"
	PaymentAdjustmentRequested PaymentStatus = "adjustment_requested"
)

func ParsePaymentStatus(value string) (PaymentStatus, error) {
	switch status := PaymentStatus(strings.ToLower(strings.TrimSpace(value))); status {
	case PaymentUnpaid, PaymentPaid, PaymentAdjustmentRequested:
		return status, nil
	default:
		return "", fmt.Errorf("unknown payment status %q", value)
	}
}

// Reservation is a booking of one court on one date. Exactly one of UserID and
// GuestName/GuestPhone identifies the owner.
type Reservation struct {
	ID               int64            `json:"id"`
	CourtID          string           `json:"courtId"`
	Date             string           `json:"date"`
	StartTime        string           `json:"startTime"`
	EndTime          string           `json:"endTime"`
	Status           Status           `json:"status"`
	PeopleCount      int              `json:"peopleCount"`
	TotalPrice       int64            `json:"totalPrice"`
	FinalFee         *int64           `json:"finalFee,omitempty"`
	PaymentStatus    PaymentStatus    `json:"paymentStatus"`
	TeamName         string           `json:"teamName,omitempty"`
	Purpose          string           `json:"purpose,omitempty"`
	UserID           *int64           `json:"userId,omitempty"`
	GuestName        string           `json:"guestName,omitempty"`
	GuestPhone       string           `json:"guestPhone,omitempty"`
	GroupID          string           `json:"groupId,omitempty"`
	Recurrence       *recurrence.Rule `json:"recurrence,omitempty"`
	Color            string           `json:"color,omitempty"`
	SubscriptionType string           `json:"subscriptionType"`
	PackageID        *int64           `json:"packageId,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

func (r Reservation) IsGuest() bool {
	return r.UserID == nil
}

// OwnedBy reports whether userID booked r.
func (r Reservation) OwnedBy(userID int64) bool {
	return r.UserID != nil && *r.UserID == userID
}

func ReservationFromDB(row dbgen.Reservation) Reservation {
	res := Reservation{
		ID:               row.ID,
		CourtID:          row.CourtID,
		Date:             row.Date,
		StartTime:        timeofday.Short(int(row.StartMinute)),
		EndTime:          timeofday.Short(int(row.EndMinute)),
		Status:           Status(row.Status),
		PeopleCount:      int(row.PeopleCount),
		TotalPrice:       row.TotalPrice,
		PaymentStatus:    PaymentStatus(row.PaymentStatus),
		TeamName:         row.TeamName,
		Purpose:          row.Purpose,
		GuestName:        row.GuestName.String,
		GuestPhone:       row.GuestPhone.String,
		GroupID:          row.GroupID.String,
		Color:            row.Color,
		SubscriptionType: row.SubscriptionType,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
	if row.FinalFee.Valid {
		fee := row.FinalFee.Int64
		res.FinalFee = &fee
	}
	if row.UserID.Valid {
		userID := row.UserID.Int64
		res.UserID = &userID
	}
	if row.PackageID.Valid {
		packageID := row.PackageID.Int64
		res.PackageID = &packageID
	}
	if row.RecurrenceDays.Valid {
		// Malformed series metadata is dropped; the booking itself stays listed.
		if days, err := DecodeDays(row.RecurrenceDays.String); err == nil {
			res.Recurrence = &recurrence.Rule{
				DaysOfWeek: days,
				StartDate:  row.RecurrenceStart.String,
				EndDate:    row.RecurrenceEnd.String,
			}
		}
	}
	return res
}

func ReservationsFromDB(rows []dbgen.Reservation) []Reservation {
	reservations := make([]Reservation, 0, len(rows))
	for _, row := range rows {
		reservations = append(reservations, ReservationFromDB(row))
	}
	return reservations
}
