package apiutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtside/internal/api/authz"
	"github.com/codr1/Courtside/internal/conflicts"
	"github.com/codr1/Courtside/internal/pricing"
	"github.com/codr1/Courtside/internal/reservations"
	"github.com/codr1/Courtside/internal/timeofday"
)

type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

type HandlerError struct {
	Status  int
	Message string
	Err     error
}

func (e HandlerError) Error() string {
	return e.Message
}

func (e HandlerError) Unwrap() error {
	return e.Err
}

func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// RequireAdmin writes 401 or 403 and returns false unless the caller is an
// admin.
func RequireAdmin(w http.ResponseWriter, r *http.Request) bool {
	logger := log.Ctx(r.Context())
	user := authz.UserFromContext(r.Context())
	if err := authz.RequireRole(r.Context(), authz.RoleAdmin); err != nil {
		switch {
		case errors.Is(err, authz.ErrUnauthenticated):
			logger.Warn().Str("path", r.URL.Path).Msg("Admin access denied: unauthenticated")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		case errors.Is(err, authz.ErrForbidden):
			logEvent := logger.Warn().Str("path", r.URL.Path)
			if user != nil {
				logEvent = logEvent.Int64("user_id", user.ID)
			}
			logEvent.Msg("Admin access denied: forbidden")
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			logger.Error().Err(err).Msg("Admin access denied: error")
			http.Error(w, "Failed to authorize request", http.StatusInternalServerError)
		}
		return false
	}
	return true
}

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error     string              `json:"error"`
	Field     string              `json:"field,omitempty"`
	Conflicts []conflicts.Booking `json:"conflicts,omitempty"`
	Gaps      []pricing.Gap       `json:"gaps,omitempty"`
}

// WriteError maps err onto a status code and a JSON body. Store failures and
// anything unrecognised become an opaque 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.Ctx(r.Context())
	status, body := classifyError(err)

	switch {
	case status >= http.StatusInternalServerError:
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	case status == http.StatusUnprocessableEntity:
		logger.Error().Err(err).Int("gaps", len(body.Gaps)).Msg("Pricing catalog does not cover request")
	default:
		logger.Debug().Err(err).Int("status", status).Msg("Request rejected")
	}

	if writeErr := WriteJSON(w, status, body); writeErr != nil {
		logger.Error().Err(writeErr).Msg("Failed to write error response")
	}
}

func classifyError(err error) (int, ErrorResponse) {
	var (
		handlerErr    HandlerError
		fieldErr      FieldError
		validationErr *reservations.ValidationError
		timeErr       *timeofday.ValidationError
		selectionErr  *conflicts.SelectionError
		conflictErr   *conflicts.ConflictError
		configErr     *pricing.ConfigurationError
	)

	switch {
	case errors.As(err, &handlerErr):
		return handlerErr.Status, ErrorResponse{Error: handlerErr.Message}
	case errors.As(err, &fieldErr):
		return http.StatusBadRequest, ErrorResponse{Error: fieldErr.Error(), Field: fieldErr.Field}
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, ErrorResponse{Error: validationErr.Error(), Field: validationErr.Field}
	case errors.As(err, &timeErr):
		return http.StatusBadRequest, ErrorResponse{Error: timeErr.Error(), Field: timeErr.Field}
	case errors.As(err, &selectionErr):
		return http.StatusBadRequest, ErrorResponse{Error: selectionErr.Error(), Field: "slots"}
	case errors.As(err, &conflictErr):
		return http.StatusConflict, ErrorResponse{Error: "reservation conflicts with existing bookings", Conflicts: conflictErr.Conflicts}
	case errors.Is(err, reservations.ErrOverlap):
		return http.StatusConflict, ErrorResponse{Error: err.Error()}
	case errors.Is(err, reservations.ErrInvalidTransition):
		return http.StatusConflict, ErrorResponse{Error: err.Error()}
	case errors.As(err, &configErr):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: "no price is configured for part of this time range", Gaps: configErr.Gaps}
	case errors.Is(err, reservations.ErrUnknownCourt):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Field: "court_id"}
	case errors.Is(err, reservations.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal server error"}
	}
}
