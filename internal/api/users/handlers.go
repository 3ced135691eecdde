// internal/api/users/handlers.go
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtside/internal/api/apiutil"
	"github.com/codr1/Courtside/internal/api/authz"
	dbgen "github.com/codr1/Courtside/internal/db/generated"
	"github.com/codr1/Courtside/internal/models"
)

const userQueryTimeout = 5 * time.Second

var (
	queries     userQueries
	queriesOnce sync.Once
)

type userQueries interface {
	ListUsers(ctx context.Context) ([]dbgen.User, error)
	UpdateUserRole(ctx context.Context, arg dbgen.UpdateUserRoleParams) (dbgen.User, error)
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(q *dbgen.Queries) {
	if q == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = q
	})
}

// GET /api/v1/admin/users
func HandleUsersList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), userQueryTimeout)
	defer cancel()

	rows, err := queries.ListUsers(ctx)
	if err != nil {
		apiutil.WriteError(w, r, fmt.Errorf("list users: %w", err))
		return
	}
	list := make([]models.User, 0, len(rows))
	for _, row := range rows {
		list = append(list, models.UserFromDB(row))
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, list); err != nil {
		logger.Error().Err(err).Msg("Failed to write users response")
	}
}

type roleRequest struct {
	Role string `json:"role"`
}

// PATCH /api/v1/admin/users/{id}/role
//
// Admins cannot change their own role, so the last admin cannot lock
// everyone out.
func HandleUserRole(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var req roleRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "role", Reason: "must be user or admin"})
		return
	}

	if caller := authz.UserFromContext(r.Context()); caller != nil && caller.ID == id {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusConflict, Message: "You cannot change your own role"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), userQueryTimeout)
	defer cancel()

	row, err := queries.UpdateUserRole(ctx, dbgen.UpdateUserRoleParams{Role: string(role), ID: id})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		apiutil.WriteError(w, r, fmt.Errorf("update user role %d: %w", id, err))
		return
	}

	logger.Info().Int64("user_id", id).Str("role", row.Role).Msg("User role changed")
	if err := apiutil.WriteJSON(w, http.StatusOK, models.UserFromDB(row)); err != nil {
		logger.Error().Err(err).Int64("user_id", id).Msg("Failed to write user response")
	}
}
