package auth

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/codr1/Courtside/internal/api/authz"
	"github.com/codr1/Courtside/internal/config"
	"github.com/codr1/Courtside/internal/db"
	dbgen "github.com/codr1/Courtside/internal/db/generated"
	"github.com/codr1/Courtside/internal/testutil"
)

func withSecret(t *testing.T) {
	t.Helper()
	prevConfig := appConfig
	appConfig = &config.Config{}
	appConfig.App.SecretKey = "test-secret"
	t.Cleanup(func() {
		appConfig = prevConfig
	})
}

func TestParseAuthCookieRole(t *testing.T) {
	withSecret(t)

	payloadBytes, err := json.Marshal(authSession{
		UserID:    42,
		Role:      authz.RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	session, err := parseAuthCookie(makeAuthRequest(t, payloadBytes))
	if err != nil {
		t.Fatalf("parse auth cookie: %v", err)
	}
	if session == nil {
		t.Fatal("expected session, got nil")
	}
	if session.UserID != 42 || session.Role != authz.RoleAdmin {
		t.Fatalf("unexpected session %+v", session)
	}
}

func TestParseAuthCookieUnknownRoleDowngraded(t *testing.T) {
	withSecret(t)

	payloadBytes, _ := json.Marshal(authSession{
		UserID:    7,
		Role:      "superuser",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})

	session, err := parseAuthCookie(makeAuthRequest(t, payloadBytes))
	if err != nil {
		t.Fatalf("parse auth cookie: %v", err)
	}
	if session.Role != authz.RoleUser {
		t.Fatalf("expected role %q, got %q", authz.RoleUser, session.Role)
	}
}

func TestParseAuthCookieExpired(t *testing.T) {
	withSecret(t)

	payloadBytes, _ := json.Marshal(authSession{
		UserID:    42,
		Role:      authz.RoleUser,
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	})

	if _, err := parseAuthCookie(makeAuthRequest(t, payloadBytes)); err == nil {
		t.Fatal("expected expired cookie to be rejected")
	}
}

func TestParseAuthCookieTampered(t *testing.T) {
	withSecret(t)

	payloadBytes, _ := json.Marshal(authSession{
		UserID:    42,
		Role:      authz.RoleUser,
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	req := makeAuthRequest(t, payloadBytes)
	cookie, _ := req.Cookie(authCookieName)

	forged, _ := json.Marshal(authSession{
		UserID:    42,
		Role:      authz.RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	_, signature, _ := strings.Cut(cookie.Value, ".")

	tampered := httptest.NewRequest(http.MethodGet, "/", nil)
	tampered.AddCookie(&http.Cookie{
		Name:  authCookieName,
		Value: base64.RawURLEncoding.EncodeToString(forged) + "." + signature,
	})

	if _, err := parseAuthCookie(tampered); err == nil {
		t.Fatal("expected tampered cookie to be rejected")
	}
}

func TestSetAuthCookieRequiresSecret(t *testing.T) {
	prevConfig := appConfig
	appConfig = &config.Config{}
	t.Cleanup(func() {
		appConfig = prevConfig
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	err := SetAuthCookie(rec, req, &authz.AuthUser{ID: 1, Role: authz.RoleUser})
	if err != errAuthConfigMissing {
		t.Fatalf("expected errAuthConfigMissing, got %v", err)
	}
}

func withAuthDB(t *testing.T) *db.DB {
	t.Helper()
	withSecret(t)
	database := testutil.NewTestDB(t)
	prevQueries := queries
	queries = dbgen.New(database.DB)
	t.Cleanup(func() {
		queries = prevQueries
	})
	return database
}

func authCookieRequest(t *testing.T, user *authz.AuthUser) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := SetAuthCookie(rec, httptest.NewRequest(http.MethodGet, "/", nil), user); err != nil {
		t.Fatalf("set auth cookie: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range rec.Result().Cookies() {
		req.AddCookie(cookie)
	}
	return req
}

func TestAuthCookieRoundTrip(t *testing.T) {
	database := withAuthDB(t)
	ploy := testutil.CreateUser(t, database, "Ploy", "ploy@example.com", authz.RoleAdmin)

	user, err := UserFromRequest(httptest.NewRecorder(), authCookieRequest(t, &authz.AuthUser{ID: ploy.ID, Name: ploy.Name, Role: authz.RoleAdmin}))
	if err != nil {
		t.Fatalf("user from request: %v", err)
	}
	if user == nil || user.ID != ploy.ID || user.Name != "Ploy" || user.Role != authz.RoleAdmin {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestAuthCookieUsesStoredRole(t *testing.T) {
	database := withAuthDB(t)
	ann := testutil.CreateUser(t, database, "Ann", "ann@example.com", authz.RoleAdmin)
	req := authCookieRequest(t, &authz.AuthUser{ID: ann.ID, Name: ann.Name, Role: authz.RoleAdmin})

	testutil.CreateUser(t, database, "Ann", "ann@example.com", authz.RoleUser)

	user, err := UserFromRequest(httptest.NewRecorder(), req)
	if err != nil {
		t.Fatalf("user from request: %v", err)
	}
	if user == nil || user.Role != authz.RoleUser {
		t.Fatalf("expected demoted role from the store, got %+v", user)
	}
}

func TestAuthCookieForDeletedUser(t *testing.T) {
	withAuthDB(t)
	req := authCookieRequest(t, &authz.AuthUser{ID: 4242, Role: authz.RoleAdmin})

	rec := httptest.NewRecorder()
	user, err := UserFromRequest(rec, req)
	if err != nil || user != nil {
		t.Fatalf("expected anonymous caller, got %+v, %v", user, err)
	}
	cleared := false
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == authCookieName && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected the stale auth cookie to be cleared")
	}
}

func TestSessionReadsRoleFromDatabase(t *testing.T) {
	database := testutil.NewTestDB(t)
	prevQueries := queries
	queries = dbgen.New(database.DB)
	t.Cleanup(func() {
		queries = prevQueries
	})

	member := testutil.CreateUser(t, database, "Nok", "nok@example.com", authz.RoleUser)

	rec := httptest.NewRecorder()
	if err := CreateSession(rec, member.ID); err != nil {
		t.Fatalf("create session: %v", err)
	}
	cookies := rec.Result().Cookies()

	request := func() *authz.AuthUser {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, cookie := range cookies {
			req.AddCookie(cookie)
		}
		user, err := UserFromRequest(httptest.NewRecorder(), req)
		if err != nil {
			t.Fatalf("user from request: %v", err)
		}
		return user
	}

	if user := request(); user == nil || user.Role != authz.RoleUser {
		t.Fatalf("expected plain user, got %+v", user)
	}

	testutil.CreateUser(t, database, "Nok", "nok@example.com", authz.RoleAdmin)
	if user := request(); user == nil || user.Role != authz.RoleAdmin {
		t.Fatalf("expected promotion to apply to the live session, got %+v", user)
	}
}

func TestCreateSessionReplacesPrevious(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := CreateSession(rec, 77); err != nil {
		t.Fatalf("create session: %v", err)
	}
	first := rec.Result().Cookies()[0].Value

	if err := CreateSession(httptest.NewRecorder(), 77); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, ok := getSession(first); ok {
		t.Fatal("expected the earlier session to be dropped")
	}
}

func TestNormalizeRole(t *testing.T) {
	tests := map[string]string{
		authz.RoleAdmin: authz.RoleAdmin,
		authz.RoleUser:  authz.RoleUser,
		"":              authz.RoleUser,
		"staff":         authz.RoleUser,
	}
	for in, want := range tests {
		if got := normalizeRole(in); got != want {
			t.Errorf("normalizeRole(%q) = %q, want %q", in, got, want)
		}
	}
}

func makeAuthRequest(t *testing.T, payload []byte) *http.Request {
	t.Helper()

	encodedPayload := base64.RawURLEncoding.EncodeToString(payload)
	signature, err := signPayload(encodedPayload)
	if err != nil {
		t.Fatalf("sign payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{
		Name:  authCookieName,
		Value: encodedPayload + "." + signature,
	})

	return req
}

func TestSessionTablePrunesExpired(t *testing.T) {
	table := &sessionTable{byToken: make(map[string]sessionRecord)}
	now := time.Now()
	table.byToken["stale"] = sessionRecord{UserID: 1, ExpiresAt: now.Add(-time.Minute)}
	table.byToken["live"] = sessionRecord{UserID: 2, ExpiresAt: now.Add(time.Hour)}

	if pruned := table.prune(now); pruned != 1 {
		t.Fatalf("pruned = %d, want 1", pruned)
	}
	if _, ok := table.lookup("live", now); !ok {
		t.Fatal("expected live session to survive")
	}
	if _, ok := table.lookup("stale", now); ok {
		t.Fatal("expected stale session to be gone")
	}
}

func TestParseAuthCookieMalformed(t *testing.T) {
	withSecret(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: authCookieName, Value: "no-signature"})
	if _, err := parseAuthCookie(req); err != errInvalidAuthCookie {
		t.Fatalf("err = %v, want errInvalidAuthCookie", err)
	}
}
