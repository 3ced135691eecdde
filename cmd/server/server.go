// cmd/server/server.go
package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtside/internal/api"
	"github.com/codr1/Courtside/internal/api/auth"
	"github.com/codr1/Courtside/internal/api/catalog"
	apireservations "github.com/codr1/Courtside/internal/api/reservations"
	apischedule "github.com/codr1/Courtside/internal/api/schedule"
	"github.com/codr1/Courtside/internal/api/users"
)

func newServer(a *app) *http.Server {
	router := http.NewServeMux()

	// The last middleware listed runs first.
	handler := api.ChainMiddleware(
		router,
		api.WithAuth,
		auth.WithClerkSession,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
		api.WithContentType,
	)

	initHandlers(a)
	registerRoutes(router)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(a.config.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func initHandlers(a *app) {
	q := a.database.Queries
	auth.InitHandlers(q, a.config)
	auth.InitClerk(a.config.Clerk.SecretKey)
	apireservations.InitHandlers(a.engine, a.limiter, a.config.GuestLimits.TrustProxy)
	apischedule.InitHandlers(a.engine, q, a.config.App.Name, a.config.Schedule.SlotMinutes)
	catalog.InitHandlers(q, a.engine)
	users.InitHandlers(q)
}

func admin(h http.HandlerFunc) http.Handler {
	return api.WithAdminAuth(h)
}

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", apischedule.HandleSchedulePage)
	mux.HandleFunc("GET /schedule", apischedule.HandleSchedulePage)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write health response")
		}
	})

	// Auth
	mux.HandleFunc("GET /auth/callback", auth.HandleClerkCallback)
	mux.HandleFunc("POST /auth/logout", auth.HandleLogout)
	mux.HandleFunc("POST /auth/dev-login", auth.HandleDevLogin)
	mux.HandleFunc("GET /api/v1/me", auth.HandleMe)
	mux.HandleFunc("GET /api/v1/me/reservations", apireservations.HandleMyReservations)

	// Public booking
	mux.HandleFunc("GET /api/v1/courts", apischedule.HandleCourtsList)
	mux.HandleFunc("GET /api/v1/schedule", apischedule.HandleScheduleJSON)
	mux.HandleFunc("POST /api/v1/pricing/quote", apireservations.HandleQuote)
	mux.HandleFunc("POST /api/v1/reservations", apireservations.HandleReservationCreate)

	// Reservation management
	mux.Handle("GET /api/v1/reservations", admin(apireservations.HandleReservationsList))
	mux.Handle("PATCH /api/v1/reservations/{id}/status", admin(apireservations.HandleReservationStatus))
	mux.Handle("PATCH /api/v1/reservations/{id}/billing", admin(apireservations.HandleReservationBilling))
	mux.Handle("DELETE /api/v1/reservations/{id}", admin(apireservations.HandleReservationDelete))
	mux.Handle("PUT /api/v1/reservations/series/{groupId}", admin(apireservations.HandleSeriesUpdate))

	// Pricing catalog
	mux.Handle("GET /api/v1/admin/price-rules", admin(catalog.HandlePriceRulesList))
	mux.Handle("POST /api/v1/admin/price-rules", admin(catalog.HandlePriceRuleCreate))
	mux.Handle("GET /api/v1/admin/price-rules/coverage", admin(catalog.HandleCoverage))
	mux.Handle("PUT /api/v1/admin/price-rules/{id}", admin(catalog.HandlePriceRuleUpdate))
	mux.Handle("DELETE /api/v1/admin/price-rules/{id}", admin(catalog.HandlePriceRuleDelete))
	mux.Handle("GET /api/v1/admin/packages", admin(catalog.HandlePackagesList))
	mux.Handle("POST /api/v1/admin/packages", admin(catalog.HandlePackageCreate))
	mux.Handle("DELETE /api/v1/admin/packages/{id}", admin(catalog.HandlePackageDelete))

	// Users
	mux.Handle("GET /api/v1/admin/users", admin(users.HandleUsersList))
	mux.Handle("PATCH /api/v1/admin/users/{id}/role", admin(users.HandleUserRole))
}
