// internal/api/schedule/handlers.go
package schedule

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtside/internal/api/apiutil"
	"github.com/codr1/Courtside/internal/api/htmx"
	dbgen "github.com/codr1/Courtside/internal/db/generated"
	"github.com/codr1/Courtside/internal/models"
	"github.com/codr1/Courtside/internal/reservations"
	scheduletempl "github.com/codr1/Courtside/internal/templates/components/schedule"
	"github.com/codr1/Courtside/internal/templates/layouts"
	"github.com/codr1/Courtside/internal/timeofday"
)

var (
	engine      *reservations.Engine
	queries     *dbgen.Queries
	pageTitle   string
	defaultSlot int
	initOnce    sync.Once
)

const scheduleQueryTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(e *reservations.Engine, q *dbgen.Queries, title string, slotMinutes int) {
	if e == nil || q == nil {
		return
	}
	initOnce.Do(func() {
		engine = e
		queries = q
		pageTitle = title
		defaultSlot = slotMinutes
	})
}

// weekParams reads ?week= (any date inside the week) and ?slot=30|60.
func weekParams(r *http.Request) (string, int, error) {
	query := r.URL.Query()

	week := ""
	if raw := strings.TrimSpace(query.Get("week")); raw != "" {
		day, err := timeofday.ParseDate("week", raw)
		if err != nil {
			return "", 0, err
		}
		week = reservations.WeekStartFor(day)
	}

	slot := defaultSlot
	if raw := strings.TrimSpace(query.Get("slot")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || (value != 30 && value != 60) {
			return "", 0, apiutil.FieldError{Field: "slot", Reason: "must be 30 or 60"}
		}
		slot = value
	}
	return week, slot, nil
}

// GET /api/v1/schedule?week=YYYY-MM-DD&slot=30|60
func HandleScheduleJSON(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if engine == nil {
		logger.Error().Msg("Reservations engine not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	week, slot, err := weekParams(r)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), scheduleQueryTimeout)
	defer cancel()

	board, err := engine.Week(ctx, week, slot)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if len(board.Overlaps) > 0 {
		logger.Warn().Str("week", board.WeekStart).Ints64("reservation_ids", board.Overlaps).Msg("Overlapping reservations left off the board")
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, board); err != nil {
		logger.Error().Err(err).Msg("Failed to write schedule response")
	}
}

// GET /schedule?week=YYYY-MM-DD&slot=30|60
//
// htmx requests get the board fragment without the page shell.
func HandleSchedulePage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if engine == nil {
		logger.Error().Msg("Reservations engine not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	week, slot, err := weekParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), scheduleQueryTimeout)
	defer cancel()

	board, err := engine.Week(ctx, week, slot)
	if err != nil {
		logger.Error().Err(err).Str("week", week).Msg("Failed to build schedule")
		http.Error(w, "Failed to load schedule", http.StatusInternalServerError)
		return
	}

	component := scheduletempl.WeekBoard(scheduletempl.NewWeekBoardData(board, slot))
	if !htmx.IsRequest(r) {
		component = layouts.Base(pageTitle, board.Courts, component)
	}
	apiutil.RenderHTMLComponent(r.Context(), w, component, "Failed to render schedule page", "Failed to render page")
}

// GET /api/v1/courts
func HandleCourtsList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), scheduleQueryTimeout)
	defer cancel()

	rows, err := queries.ListCourts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list courts")
		http.Error(w, "Failed to list courts", http.StatusInternalServerError)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, models.CourtsFromDB(rows)); err != nil {
		logger.Error().Err(err).Msg("Failed to write courts response")
	}
}
