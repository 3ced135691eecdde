package auth

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/codr1/Courtside/internal/api/authz"
)

const (
	authCookieName         = "courtside_auth"
	sessionCookieName      = "courtside_session"
	authSessionTTL         = 8 * time.Hour
	sessionTokenBytes      = 32
	sessionCleanupInterval = 15 * time.Minute
)

var (
	errAuthConfigMissing = errors.New("auth configuration missing")
	errInvalidAuthCookie = errors.New("invalid auth cookie")
	errAuthCookieExpired = errors.New("auth session expired")
)

// authSession is the payload of the signed auth cookie.
type authSession struct {
	UserID    int64  `json:"user_id"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"exp"`
}

type sessionRecord struct {
	UserID    int64
	ExpiresAt time.Time
}

// sessionTable maps opaque tokens to signed-in users. It lives in process
// memory, so a restart signs everyone out.
type sessionTable struct {
	mu          sync.RWMutex
	byToken     map[string]sessionRecord
	janitorOnce sync.Once
}

var sessions = &sessionTable{byToken: make(map[string]sessionRecord)}

// issue stores a fresh token for userID. A user holds at most one session.
func (t *sessionTable) issue(userID int64, expiresAt time.Time) (string, error) {
	t.startJanitor()

	token, err := newSessionToken()
	if err != nil {
		return "", err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for existing, record := range t.byToken {
		if record.UserID == userID {
			delete(t.byToken, existing)
		}
	}
	t.byToken[token] = sessionRecord{UserID: userID, ExpiresAt: expiresAt}
	return token, nil
}

func (t *sessionTable) lookup(token string, now time.Time) (sessionRecord, bool) {
	t.mu.RLock()
	record, ok := t.byToken[token]
	t.mu.RUnlock()
	if !ok {
		return sessionRecord{}, false
	}
	if record.ExpiresAt.Before(now) {
		t.revoke(token)
		return sessionRecord{}, false
	}
	return record, true
}

func (t *sessionTable) revoke(token string) {
	t.mu.Lock()
	delete(t.byToken, token)
	t.mu.Unlock()
}

func (t *sessionTable) prune(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	pruned := 0
	for token, record := range t.byToken {
		if record.ExpiresAt.Before(now) {
			delete(t.byToken, token)
			pruned++
		}
	}
	return pruned
}

func (t *sessionTable) startJanitor() {
	t.janitorOnce.Do(func() {
		go func() {
			ticker := time.NewTicker(sessionCleanupInterval)
			defer ticker.Stop()
			for now := range ticker.C {
				t.prune(now)
			}
		}()
	})
}

func getSession(token string) (sessionRecord, bool) {
	return sessions.lookup(token, time.Now())
}

func isSecureCookie() bool {
	return appConfig == nil || !appConfig.IsDevelopment()
}

func writeCookie(w http.ResponseWriter, name, value string, expiresAt time.Time) {
	if w == nil {
		return
	}
	maxAge := int(time.Until(expiresAt).Seconds())
	if value == "" {
		maxAge = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureCookie(),
		SameSite: http.SameSiteLaxMode,
		Expires:  expiresAt,
		MaxAge:   maxAge,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	writeCookie(w, name, "", time.Unix(0, 0))
}

// CreateSession starts a server-side session for userID, replacing any
// session the user already had.
func CreateSession(w http.ResponseWriter, userID int64) error {
	if w == nil {
		return errors.New("session requires response writer")
	}

	expiresAt := time.Now().Add(authSessionTTL)
	token, err := sessions.issue(userID, expiresAt)
	if err != nil {
		return err
	}
	writeCookie(w, sessionCookieName, token, expiresAt)
	return nil
}

// ClearSession revokes the caller's session and expires both cookies.
func ClearSession(w http.ResponseWriter, r *http.Request) {
	if r != nil {
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			sessions.revoke(cookie.Value)
		}
	}
	clearCookie(w, sessionCookieName)
	clearCookie(w, authCookieName)
}

// SetAuthCookie issues a signed, stateless cookie naming the user. It survives
// restarts, unlike CreateSession. The role it carries is informational; each
// request re-reads the role from the store.
func SetAuthCookie(w http.ResponseWriter, r *http.Request, user *authz.AuthUser) error {
	if w == nil || r == nil || user == nil {
		return errors.New("auth session requires request, response, and user")
	}

	expiresAt := time.Now().Add(authSessionTTL)
	payload, err := json.Marshal(authSession{
		UserID:    user.ID,
		Name:      user.Name,
		Role:      normalizeRole(user.Role),
		ExpiresAt: expiresAt.Unix(),
	})
	if err != nil {
		return err
	}

	encoded := base64.RawURLEncoding.EncodeToString(payload)
	signature, err := signPayload(encoded)
	if err != nil {
		return err
	}
	writeCookie(w, authCookieName, encoded+"."+signature, expiresAt)
	return nil
}

// UserFromRequest resolves the caller from the session cookie, falling back
// to the signed auth cookie. A request with neither yields a nil user and no
// error.
func UserFromRequest(w http.ResponseWriter, r *http.Request) (*authz.AuthUser, error) {
	if r == nil {
		return nil, nil
	}

	user, err := userFromSessionToken(w, r)
	if err != nil || user != nil {
		return user, err
	}

	session, err := parseAuthCookie(r)
	if err != nil || session == nil {
		return nil, err
	}
	// The cookie proves who the caller is; what they may do comes from the
	// store, so a demotion applies even without a server-side session.
	user, err = storedUser(r.Context(), session.UserID)
	if err != nil || user == nil {
		clearCookie(w, authCookieName)
	}
	return user, err
}

// storedUser loads the current name and role for id. A deleted user yields
// nil and no error.
func storedUser(ctx context.Context, id int64) (*authz.AuthUser, error) {
	if queries == nil {
		return nil, errors.New("auth queries not initialized")
	}
	row, err := queries.GetUser(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &authz.AuthUser{ID: row.ID, Name: row.Name, Role: normalizeRole(row.Role)}, nil
}

func userFromSessionToken(w http.ResponseWriter, r *http.Request) (*authz.AuthUser, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	record, ok := getSession(cookie.Value)
	if !ok {
		clearCookie(w, sessionCookieName)
		return nil, nil
	}
	// Roles come from the database on every request, so a demotion bites at once.
	user, err := storedUser(r.Context(), record.UserID)
	if err != nil || user == nil {
		sessions.revoke(cookie.Value)
		clearCookie(w, sessionCookieName)
	}
	return user, err
}

func parseAuthCookie(r *http.Request) (*authSession, error) {
	cookie, err := r.Cookie(authCookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	payload, err := verifySigned(cookie.Value)
	if err != nil {
		return nil, err
	}

	var session authSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, errInvalidAuthCookie
	}
	if session.ExpiresAt <= time.Now().Unix() {
		return nil, errAuthCookieExpired
	}
	session.Role = normalizeRole(session.Role)
	return &session, nil
}

// verifySigned checks a "payload.signature" value and returns the decoded
// payload.
func verifySigned(value string) ([]byte, error) {
	encoded, signature, ok := strings.Cut(value, ".")
	if !ok {
		return nil, errInvalidAuthCookie
	}
	expected, err := signPayload(encoded)
	if err != nil {
		return nil, err
	}
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return nil, errInvalidAuthCookie
	}
	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errInvalidAuthCookie
	}
	return payload, nil
}

// normalizeRole maps anything unrecognised to the least privileged role.
func normalizeRole(role string) string {
	if role == authz.RoleAdmin {
		return authz.RoleAdmin
	}
	return authz.RoleUser
}

func signPayload(payload string) (string, error) {
	if appConfig == nil || appConfig.App.SecretKey == "" {
		return "", errAuthConfigMissing
	}
	mac := hmac.New(sha256.New, []byte(appConfig.App.SecretKey))
	_, _ = mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}

func newSessionToken() (string, error) {
	token := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(token); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(token), nil
}
