package email

import (
	"context"

	"github.com/rs/zerolog/log"

	dbgen "github.com/codr1/Courtside/internal/db/generated"
	"github.com/codr1/Courtside/internal/models"
)

// Notifier emails registered users when an admin approves, rejects or cancels
// their booking. Guests leave only a phone number and are not notified.
type Notifier struct {
	queries      *dbgen.Queries
	client       Sender
	facilityName string
}

func NewNotifier(q *dbgen.Queries, client Sender, facilityName string) *Notifier {
	return &Notifier{queries: q, client: client, facilityName: facilityName}
}

func (n *Notifier) ReservationStatusChanged(ctx context.Context, res models.Reservation, previous models.Status) {
	if n == nil || res.UserID == nil {
		return
	}
	logger := log.Ctx(ctx).With().
		Int64("reservation_id", res.ID).
		Str("status", string(res.Status)).
		Logger()

	courtName := res.CourtID
	if court, err := n.queries.GetCourt(ctx, res.CourtID); err == nil {
		courtName = court.Name
	}

	message, ok := BuildStatusEmail(res.Status, previous, BookingDetails{
		FacilityName: n.facilityName,
		CourtName:    courtName,
		Date:         res.Date,
		TimeRange:    FormatTimeRange(res.StartTime, res.EndTime),
		TeamName:     res.TeamName,
	})
	if !ok {
		return
	}
	SendToUser(ctx, n.queries, n.client, *res.UserID, message, &logger)
}
