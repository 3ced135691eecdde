package auth

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtside/internal/api/apiutil"
	"github.com/codr1/Courtside/internal/api/authz"
	"github.com/codr1/Courtside/internal/config"
	dbgen "github.com/codr1/Courtside/internal/db/generated"
)

const devEnvironment = "development"

var (
	appConfig *config.Config
	queries   *dbgen.Queries
)

func InitHandlers(q *dbgen.Queries, cfg *config.Config) {
	queries = q
	appConfig = cfg
}

func isDevMode() bool {
	return appConfig != nil && appConfig.App.Environment == devEnvironment
}

type meResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Admin bool   `json:"admin"`
}

// GET /api/v1/me
func HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := authz.RequireUser(r.Context())
	if err != nil {
		http.Error(w, "Sign in required", http.StatusUnauthorized)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, meResponse{
		ID:    user.ID,
		Name:  user.Name,
		Role:  user.Role,
		Admin: authz.IsAdmin(user),
	}); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write me response")
	}
}

// POST /auth/logout
func HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ClearSession(w, r)
	if user := authz.UserFromContext(r.Context()); user != nil {
		log.Ctx(r.Context()).Info().Int64("user_id", user.ID).Msg("User signed out")
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /auth/dev-login
//
// Starts a session for an existing user without Clerk. Only served in
// development.
func HandleDevLogin(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if !isDevMode() {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	userID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("user_id")), 10, 64)
	if err != nil || userID <= 0 {
		http.Error(w, "Invalid user_id", http.StatusBadRequest)
		return
	}

	user, err := queries.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to load user")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := CreateSession(w, user.ID); err != nil {
		logger.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to create session")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	logger.Warn().Int64("user_id", user.ID).Msg("Development login used")
	w.WriteHeader(http.StatusNoContent)
}
