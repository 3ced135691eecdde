package schedule

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/codr1/Courtside/internal/reservations"
	sched "github.com/codr1/Courtside/internal/schedule"
	"github.com/codr1/Courtside/internal/testutil"
)

func setupSchedule(t *testing.T) *reservations.Engine {
	t.Helper()

	database := testutil.NewTestDB(t)
	e, err := reservations.NewEngine(database, reservations.Options{
		Now: func() time.Time { return time.Date(2025, 1, 8, 9, 0, 0, 0, time.Local) },
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	prevEngine, prevQueries, prevTitle, prevSlot := engine, queries, pageTitle, defaultSlot
	engine, queries, pageTitle, defaultSlot = e, database.Queries, "Courtside", 30
	t.Cleanup(func() {
		engine, queries, pageTitle, defaultSlot = prevEngine, prevQueries, prevTitle, prevSlot
	})
	return e
}

func TestHandleScheduleJSON(t *testing.T) {
	e := setupSchedule(t)
	if _, err := e.Create(context.Background(), reservations.CreateRequest{
		CourtID: "mint", Date: "2025-01-09", StartTime: "10:00", EndTime: "11:30",
		GuestName: "Ann", GuestPhone: "081 234 5678",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rec := httptest.NewRecorder()
	HandleScheduleJSON(rec, httptest.NewRequest(http.MethodGet, "/api/v1/schedule?week=2025-01-09", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var board sched.Board
	if err := json.NewDecoder(rec.Body).Decode(&board); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if board.WeekStart != "2025-01-06" || len(board.Days) != 7 {
		t.Fatalf("unexpected week %s with %d days", board.WeekStart, len(board.Days))
	}

	heads, continued := 0, 0
	for _, slot := range board.Slots {
		for _, cell := range slot.Cells[3] {
			switch {
			case cell.ReservationID == 0:
			case cell.RowSpan != 0:
				heads++
				if cell.RowSpan != 3 || cell.Text != "Ann" {
					t.Fatalf("unexpected head cell %+v", cell)
				}
			default:
				continued++
				if cell.Text != "" {
					t.Fatalf("merged cell carries text: %+v", cell)
				}
			}
		}
	}
	if heads != 1 || continued != 2 {
		t.Fatalf("Thursday booking drawn as %d head and %d merged cells, want 1 and 2", heads, continued)
	}
}

func TestHandleScheduleJSONRejectsBadParams(t *testing.T) {
	setupSchedule(t)

	for _, target := range []string{"/api/v1/schedule?slot=45", "/api/v1/schedule?week=2025-13-01"} {
		rec := httptest.NewRecorder()
		HandleScheduleJSON(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", target, rec.Code)
		}
	}
}

func TestHandleSchedulePage(t *testing.T) {
	e := setupSchedule(t)
	if _, err := e.Create(context.Background(), reservations.CreateRequest{
		CourtID: "pink", Date: "2025-01-07", StartTime: "18:00", EndTime: "19:00",
		TeamName: "<b>Smash</b>", GuestName: "Ann", GuestPhone: "081 234 5678",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rec := httptest.NewRecorder()
	HandleSchedulePage(rec, httptest.NewRequest(http.MethodGet, "/schedule?week=2025-01-07", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<!DOCTYPE html>") || !strings.Contains(body, "--court-pink:#f9a8d4;") {
		t.Fatal("expected full page with court colours")
	}
	if strings.Contains(body, "<b>Smash</b>") || !strings.Contains(body, "&lt;b&gt;Smash&lt;/b&gt;") {
		t.Fatal("expected team name to be escaped")
	}

	req := httptest.NewRequest(http.MethodGet, "/schedule?week=2025-01-07", nil)
	req.Header.Set("HX-Request", "true")
	rec = httptest.NewRecorder()
	HandleSchedulePage(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("fragment status = %d", rec.Code)
	}
	fragment := rec.Body.String()
	if strings.Contains(fragment, "<html") || !strings.HasPrefix(fragment, `<div id="schedule"`) {
		t.Fatalf("expected bare board fragment, got %.80s", fragment)
	}
}

func TestHandleCourtsList(t *testing.T) {
	setupSchedule(t)

	rec := httptest.NewRecorder()
	HandleCourtsList(rec, httptest.NewRequest(http.MethodGet, "/api/v1/courts", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var courts []struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&courts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(courts) != 2 || courts[0].ID != "pink" || courts[1].ID != "mint" {
		t.Fatalf("unexpected courts %+v", courts)
	}
}
