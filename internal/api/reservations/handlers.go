// internal/api/reservations/handlers.go
package reservations

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtside/internal/api/apiutil"
	"github.com/codr1/Courtside/internal/api/authz"
	"github.com/codr1/Courtside/internal/api/htmx"
	"github.com/codr1/Courtside/internal/models"
	"github.com/codr1/Courtside/internal/ratelimit"
	"github.com/codr1/Courtside/internal/reservations"
	"github.com/codr1/Courtside/internal/timeofday"
)

var (
	engine      *reservations.Engine
	guestLimits *ratelimit.Limiter
	trustProxy  bool
	initOnce    sync.Once
)

const (
	reservationQueryTimeout = 5 * time.Second
	// Series writes touch many rows in one transaction.
	seriesWriteTimeout = 15 * time.Second
	defaultListDays    = 7
)

// InitHandlers must be called during server startup before handling requests.
// A nil limiter leaves guest bookings unthrottled.
func InitHandlers(e *reservations.Engine, limiter *ratelimit.Limiter, trustProxyHeaders bool) {
	if e == nil {
		return
	}
	initOnce.Do(func() {
		engine = e
		guestLimits = limiter
		trustProxy = trustProxyHeaders
	})
}

func loadEngine(w http.ResponseWriter, r *http.Request) *reservations.Engine {
	if engine == nil {
		log.Ctx(r.Context()).Error().Msg("Reservations engine not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
	return engine
}

// POST /api/v1/pricing/quote
func HandleQuote(w http.ResponseWriter, r *http.Request) {
	e := loadEngine(w, r)
	if e == nil {
		return
	}

	var req reservations.QuoteRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	quote, err := e.Quote(ctx, req)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, quote); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("court_id", req.CourtID).Msg("Failed to write quote response")
	}
}

// POST /api/v1/reservations
//
// A signed-in caller books as themselves. Anyone else books as a guest and is
// throttled per phone number and client IP.
func HandleReservationCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	e := loadEngine(w, r)
	if e == nil {
		return
	}

	var req reservations.CreateRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	var clientIP, phoneKey string
	guest := true
	if user := authz.UserFromContext(r.Context()); user != nil {
		req.UserID = user.ID
		guest = false
	}
	if guest && guestLimits != nil {
		clientIP = ratelimit.GetClientIP(r, trustProxy)
		phoneKey = e.GuestPhoneKey(req.GuestPhone)
		result := guestLimits.CheckGuestBooking(phoneKey, clientIP)
		if !result.Allowed {
			ratelimit.LogRateLimitExceeded("guest_booking", phoneKey, clientIP, result.Reason)
			w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Round(time.Second).Seconds())))
			apiutil.WriteError(w, r, apiutil.HandlerError{
				Status:  http.StatusTooManyRequests,
				Message: "Too many bookings, please try again later",
			})
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), seriesWriteTimeout)
	defer cancel()

	created, err := e.Create(ctx, req)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if guest && guestLimits != nil {
		guestLimits.RecordGuestBooking(phoneKey, clientIP)
	}

	logEvent := logger.Info().Str("court_id", req.CourtID).Int("count", len(created.Reservations)).Int64("total", created.Total)
	if created.GroupID != "" {
		logEvent = logEvent.Str("group_id", created.GroupID)
	}
	logEvent.Bool("guest", guest).Msg("Reservation created")

	htmx.Trigger(w, htmx.EventScheduleChanged)
	if err := apiutil.WriteJSON(w, http.StatusCreated, created); err != nil {
		logger.Error().Err(err).Msg("Failed to write reservation response")
	}
}

// GET /api/v1/reservations?from=...&to=...&court_id=...&status=...
func HandleReservationsList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	e := loadEngine(w, r)
	if e == nil {
		return
	}

	filter, err := listFilterFromQuery(r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	list, err := e.List(ctx, filter)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, list); err != nil {
		logger.Error().Err(err).Msg("Failed to write reservation list response")
	}
}

// listFilterFromQuery defaults to the week starting today.
func listFilterFromQuery(r *http.Request) (reservations.ListFilter, error) {
	query := r.URL.Query()
	filter := reservations.ListFilter{
		From:    strings.TrimSpace(query.Get("from")),
		To:      strings.TrimSpace(query.Get("to")),
		CourtID: strings.TrimSpace(query.Get("court_id")),
	}
	if filter.From == "" {
		filter.From = timeofday.FormatDate(time.Now())
	}
	if filter.To == "" {
		to, err := timeofday.AddDays(filter.From, defaultListDays-1)
		if err != nil {
			return reservations.ListFilter{}, err
		}
		filter.To = to
	}
	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			return reservations.ListFilter{}, apiutil.FieldError{Field: "status", Reason: "is not a known status"}
		}
		filter.Status = status
	}
	if raw := strings.TrimSpace(query.Get("user_id")); raw != "" {
		userID, err := apiutil.ParsePositiveInt64Field(raw, "user_id")
		if err != nil {
			return reservations.ListFilter{}, err
		}
		filter.UserID = userID
	}
	return filter, nil
}

type statusRequest struct {
	Status string `json:"status"`
}

// PATCH /api/v1/reservations/{id}/status
func HandleReservationStatus(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	e := loadEngine(w, r)
	if e == nil {
		return
	}

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var req statusRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	status, err := models.ParseStatus(req.Status)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "status", Reason: "is not a known status"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	updated, err := e.SetStatus(ctx, id, status)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	htmx.Trigger(w, htmx.EventScheduleChanged)
	if err := apiutil.WriteJSON(w, http.StatusOK, updated); err != nil {
		logger.Error().Err(err).Int64("reservation_id", id).Msg("Failed to write reservation response")
	}
}

// PATCH /api/v1/reservations/{id}/billing
func HandleReservationBilling(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	e := loadEngine(w, r)
	if e == nil {
		return
	}

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var req reservations.BillingUpdate
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	updated, err := e.UpdateBilling(ctx, id, req)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().Int64("reservation_id", id).Str("payment_status", string(updated.PaymentStatus)).Msg("Reservation billing updated")
	if err := apiutil.WriteJSON(w, http.StatusOK, updated); err != nil {
		logger.Error().Err(err).Int64("reservation_id", id).Msg("Failed to write reservation response")
	}
}

type deleteResponse struct {
	Deleted int64  `json:"deleted"`
	Scope   string `json:"scope"`
}

// DELETE /api/v1/reservations/{id}?scope=instance|following|series
func HandleReservationDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	e := loadEngine(w, r)
	if e == nil {
		return
	}

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	scope, err := reservations.ParseDeleteScope(r.URL.Query().Get("scope"))
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), seriesWriteTimeout)
	defer cancel()

	deleted, err := e.Delete(ctx, id, scope)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().Int64("reservation_id", id).Str("scope", string(scope)).Int64("deleted", deleted).Msg("Reservations deleted")
	htmx.Trigger(w, htmx.EventScheduleChanged)
	if err := apiutil.WriteJSON(w, http.StatusOK, deleteResponse{Deleted: deleted, Scope: string(scope)}); err != nil {
		logger.Error().Err(err).Int64("reservation_id", id).Msg("Failed to write delete response")
	}
}

// PUT /api/v1/reservations/series/{groupId}
func HandleSeriesUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	e := loadEngine(w, r)
	if e == nil {
		return
	}

	groupID := strings.TrimSpace(r.PathValue("groupId"))
	if groupID == "" {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "groupId", Reason: "is required"})
		return
	}

	var req reservations.EditSeriesRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), seriesWriteTimeout)
	defer cancel()

	result, err := e.EditSeries(ctx, groupID, req)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	htmx.Trigger(w, htmx.EventScheduleChanged)
	if err := apiutil.WriteJSON(w, http.StatusOK, result); err != nil {
		logger.Error().Err(err).Str("group_id", groupID).Msg("Failed to write series response")
	}
}

// GET /api/v1/me/reservations?from=...&to=...
func HandleMyReservations(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	e := loadEngine(w, r)
	if e == nil {
		return
	}

	user, err := authz.RequireUser(r.Context())
	if err != nil {
		http.Error(w, "Sign in required", http.StatusUnauthorized)
		return
	}

	filter, err := listFilterFromQuery(r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	filter.UserID = user.ID

	ctx, cancel := context.WithTimeout(r.Context(), reservationQueryTimeout)
	defer cancel()

	list, err := e.List(ctx, filter)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, list); err != nil {
		logger.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to write reservation list response")
	}
}
