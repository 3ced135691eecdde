package reservations

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/codr1/Courtside/internal/api/apiutil"
	"github.com/codr1/Courtside/internal/api/authz"
	"github.com/codr1/Courtside/internal/models"
	"github.com/codr1/Courtside/internal/ratelimit"
	"github.com/codr1/Courtside/internal/reservations"
	"github.com/codr1/Courtside/internal/testutil"
)

var adminUser = &authz.AuthUser{ID: 1, Name: "Admin", Role: authz.RoleAdmin}

func setupHandlers(t *testing.T, limiter *ratelimit.Limiter) {
	t.Helper()

	database := testutil.NewTestDB(t)
	e, err := reservations.NewEngine(database, reservations.Options{
		Now: func() time.Time { return time.Date(2025, 1, 8, 9, 0, 0, 0, time.Local) },
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	prevEngine, prevLimits := engine, guestLimits
	engine, guestLimits = e, limiter
	t.Cleanup(func() {
		engine, guestLimits = prevEngine, prevLimits
		if limiter != nil {
			limiter.Close()
		}
	})
}

func jsonRequest(t *testing.T, method, target string, body any, user *authz.AuthUser) *http.Request {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req = req.WithContext(authz.ContextWithUser(req.Context(), user))
	}
	return req
}

func guestBooking(date, start, end string) reservations.CreateRequest {
	return reservations.CreateRequest{
		CourtID:    "pink",
		Date:       date,
		StartTime:  start,
		EndTime:    end,
		GuestName:  "Ann",
		GuestPhone: "081 234 5678",
	}
}

func createBooking(t *testing.T, req reservations.CreateRequest) reservations.CreateResult {
	t.Helper()
	rec := httptest.NewRecorder()
	HandleReservationCreate(rec, jsonRequest(t, http.MethodPost, "/api/v1/reservations", req, nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var result reservations.CreateResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return result
}

func TestHandleQuote(t *testing.T) {
	setupHandlers(t, nil)

	rec := httptest.NewRecorder()
	HandleQuote(rec, jsonRequest(t, http.MethodPost, "/api/v1/pricing/quote", reservations.QuoteRequest{
		CourtID: "pink", Date: "2025-01-06", StartTime: "10:00", EndTime: "12:00",
	}, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result reservations.QuoteResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Quote.Rounded != 160000 {
		t.Fatalf("rounded = %d, want 160000", result.Quote.Rounded)
	}
}

func TestHandleQuoteRejectsBadInput(t *testing.T) {
	setupHandlers(t, nil)

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"unknown field", map[string]any{"courtId": "pink", "bogus": true}, http.StatusBadRequest},
		{"unknown court", reservations.QuoteRequest{CourtID: "gold", Date: "2025-01-06", StartTime: "10:00", EndTime: "11:00"}, http.StatusBadRequest},
		{"bad time", reservations.QuoteRequest{CourtID: "pink", Date: "2025-01-06", StartTime: "25:00", EndTime: "26:00"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleQuote(rec, jsonRequest(t, http.MethodPost, "/api/v1/pricing/quote", tt.body, nil))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestHandleReservationCreateConflict(t *testing.T) {
	setupHandlers(t, nil)

	created := createBooking(t, guestBooking("2025-01-10", "10:00", "11:00"))
	if len(created.Reservations) != 1 {
		t.Fatalf("expected one reservation, got %d", len(created.Reservations))
	}

	rec := httptest.NewRecorder()
	HandleReservationCreate(rec, jsonRequest(t, http.MethodPost, "/api/v1/reservations", guestBooking("2025-01-10", "10:30", "11:30"), nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", rec.Code, rec.Body.String())
	}
	var body apiutil.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Conflicts) != 1 || body.Conflicts[0].ID != created.Reservations[0].ID {
		t.Fatalf("unexpected conflicts %+v", body.Conflicts)
	}
}

func TestHandleReservationCreateThrottlesGuests(t *testing.T) {
	setupHandlers(t, ratelimit.New(&ratelimit.Config{MaxPerHour: 1, MaxIPPerHour: 10}))

	createBooking(t, guestBooking("2025-01-10", "08:00", "09:00"))

	rec := httptest.NewRecorder()
	HandleReservationCreate(rec, jsonRequest(t, http.MethodPost, "/api/v1/reservations", guestBooking("2025-01-10", "12:00", "13:00"), nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}

	// Signed-in callers are not throttled.
	member := &authz.AuthUser{ID: 99, Role: authz.RoleUser}
	req := guestBooking("2025-01-10", "14:00", "15:00")
	req.GuestName, req.GuestPhone = "", ""
	rec = httptest.NewRecorder()
	HandleReservationCreate(rec, jsonRequest(t, http.MethodPost, "/api/v1/reservations", req, member))
	if rec.Code == http.StatusTooManyRequests {
		t.Fatal("expected signed-in booking to skip the guest limiter")
	}
}

func TestHandleReservationCreateThrottlesEveryPhoneSpelling(t *testing.T) {
	setupHandlers(t, ratelimit.New(&ratelimit.Config{MaxPerHour: 1, MaxIPPerHour: 10}))

	createBooking(t, guestBooking("2025-01-10", "08:00", "09:00"))

	req := guestBooking("2025-01-10", "12:00", "13:00")
	req.GuestPhone = "+66812345678"
	rec := httptest.NewRecorder()
	HandleReservationCreate(rec, jsonRequest(t, http.MethodPost, "/api/v1/reservations", req, nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("international spelling of the same phone: status %d, want 429: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleReservationStatus(t *testing.T) {
	setupHandlers(t, nil)
	created := createBooking(t, guestBooking("2025-01-10", "10:00", "11:00"))
	id := strconv.FormatInt(created.Reservations[0].ID, 10)

	req := jsonRequest(t, http.MethodPatch, "/api/v1/reservations/"+id+"/status", statusRequest{Status: "confirmed"}, adminUser)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	HandleReservationStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("HX-Trigger") != "refreshSchedule" {
		t.Fatal("expected refreshSchedule trigger")
	}
	var updated models.Reservation
	if err := json.NewDecoder(rec.Body).Decode(&updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Status != models.StatusConfirmed {
		t.Fatalf("status = %s, want confirmed", updated.Status)
	}

	req = jsonRequest(t, http.MethodPatch, "/api/v1/reservations/"+id+"/status", statusRequest{Status: "archived"}, adminUser)
	req.SetPathValue("id", id)
	rec = httptest.NewRecorder()
	HandleReservationStatus(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown status, got %d", rec.Code)
	}

	req = jsonRequest(t, http.MethodPatch, "/api/v1/reservations/999/status", statusRequest{Status: "confirmed"}, adminUser)
	req.SetPathValue("id", "999")
	rec = httptest.NewRecorder()
	HandleReservationStatus(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestHandleReservationDelete(t *testing.T) {
	setupHandlers(t, nil)
	created := createBooking(t, guestBooking("2025-01-10", "10:00", "11:00"))
	id := strconv.FormatInt(created.Reservations[0].ID, 10)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/reservations/"+id+"?scope=bogus", nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	HandleReservationDelete(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for bad scope, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/reservations/"+id, nil)
	req.SetPathValue("id", id)
	rec = httptest.NewRecorder()
	HandleReservationDelete(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body deleteResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Deleted != 1 {
		t.Fatalf("deleted = %d, want 1", body.Deleted)
	}
}

func TestHandleReservationsList(t *testing.T) {
	setupHandlers(t, nil)
	createBooking(t, guestBooking("2025-01-10", "10:00", "11:00"))
	createBooking(t, guestBooking("2025-01-20", "10:00", "11:00"))

	rec := httptest.NewRecorder()
	HandleReservationsList(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reservations?from=2025-01-06&to=2025-01-12", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var list []models.Reservation
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].Date != "2025-01-10" {
		t.Fatalf("unexpected list %+v", list)
	}

	rec = httptest.NewRecorder()
	HandleReservationsList(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reservations?from=2025-01-06&status=archived", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestHandleMyReservationsRequiresUser(t *testing.T) {
	setupHandlers(t, nil)

	rec := httptest.NewRecorder()
	HandleMyReservations(rec, httptest.NewRequest(http.MethodGet, "/api/v1/me/reservations", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestListFilterDefaults(t *testing.T) {
	filter, err := listFilterFromQuery(httptest.NewRequest(http.MethodGet, "/api/v1/reservations?from=2025-01-06", nil))
	if err != nil {
		t.Fatalf("listFilterFromQuery: %v", err)
	}
	if filter.To != "2025-01-12" {
		t.Fatalf("to = %s, want 2025-01-12", filter.To)
	}
}
