package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtside/internal/api/authz"
)

func TestWithRequestID(t *testing.T) {
	var seen string
	handler := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		if log.Ctx(r.Context()) == nil {
			t.Error("expected a request logger in context")
		}
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("expected request id in context")
	}
	if got := rec.Header().Get("X-Request-ID"); got != seen {
		t.Fatalf("header %q does not match context id %q", got, seen)
	}
}

func TestWithAdminAuth(t *testing.T) {
	reached := false
	handler := WithAdminAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		user   *authz.AuthUser
		status int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"member", &authz.AuthUser{ID: 2, Role: authz.RoleUser}, http.StatusForbidden},
		{"admin", &authz.AuthUser{ID: 1, Role: authz.RoleAdmin}, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached = false
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
			if tt.user != nil {
				req = req.WithContext(authz.ContextWithUser(req.Context(), tt.user))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if reached != (tt.status == http.StatusNoContent) {
				t.Fatalf("handler reached = %v", reached)
			}
		})
	}
}

func TestWithRecovery(t *testing.T) {
	handler := WithRecovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestResponseWriterStatus(t *testing.T) {
	wrapped := wrapResponseWriter(httptest.NewRecorder())
	if wrapped.Status() != http.StatusOK {
		t.Fatalf("default status = %d", wrapped.Status())
	}
	wrapped.WriteHeader(http.StatusTeapot)
	if wrapped.Status() != http.StatusTeapot {
		t.Fatalf("status = %d", wrapped.Status())
	}
}

func TestWithRequestIDKeepsUpstreamID(t *testing.T) {
	const upstream = "0b9f1a52-2a39-4d39-9c57-0e4f1f6b0c11"
	var seen string
	handler := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", upstream)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seen != upstream {
		t.Fatalf("request id = %q, want upstream %q", seen, upstream)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "not a uuid")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seen == "not a uuid" || seen == "" {
		t.Fatalf("expected a fresh id for a malformed header, got %q", seen)
	}
}

func TestWithRecoveryAPIReturnsJSON(t *testing.T) {
	handler := WithRecovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/schedule", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type = %q", got)
	}
}

func TestResponseWriterCountsBytes(t *testing.T) {
	wrapped := wrapResponseWriter(httptest.NewRecorder())
	if _, err := wrapped.Write([]byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}
	wrapped.WriteHeader(http.StatusTeapot)
	if wrapped.written != 5 || wrapped.Status() != http.StatusOK {
		t.Fatalf("written = %d status = %d", wrapped.written, wrapped.Status())
	}
}
