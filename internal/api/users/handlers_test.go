package users

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/codr1/Courtside/internal/api/authz"
	"github.com/codr1/Courtside/internal/db"
	"github.com/codr1/Courtside/internal/models"
	"github.com/codr1/Courtside/internal/testutil"
)

func setupUsers(t *testing.T) *db.DB {
	t.Helper()

	database := testutil.NewTestDB(t)
	prevQueries := queries
	queries = database.Queries
	t.Cleanup(func() {
		queries = prevQueries
	})
	return database
}

func roleRequestFor(t *testing.T, caller *authz.AuthUser, id int64, role string) *http.Request {
	t.Helper()
	payload, _ := json.Marshal(roleRequest{Role: role})
	target := "/api/v1/admin/users/" + strconv.FormatInt(id, 10) + "/role"
	req := httptest.NewRequest(http.MethodPatch, target, bytes.NewReader(payload))
	req.SetPathValue("id", strconv.FormatInt(id, 10))
	return req.WithContext(authz.ContextWithUser(req.Context(), caller))
}

func TestHandleUsersList(t *testing.T) {
	database := setupUsers(t)
	testutil.CreateUser(t, database, "Bee", "bee@example.com", authz.RoleUser)
	testutil.CreateUser(t, database, "Ann", "ann@example.com", authz.RoleAdmin)

	rec := httptest.NewRecorder()
	HandleUsersList(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var list []models.User
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Ann" || !list[0].IsAdmin() || list[1].IsAdmin() {
		t.Fatalf("unexpected users %+v", list)
	}
}

func TestHandleUserRole(t *testing.T) {
	database := setupUsers(t)
	admin := testutil.CreateUser(t, database, "Ann", "ann@example.com", authz.RoleAdmin)
	member := testutil.CreateUser(t, database, "Bee", "bee@example.com", authz.RoleUser)
	caller := &authz.AuthUser{ID: admin.ID, Name: admin.Name, Role: authz.RoleAdmin}

	rec := httptest.NewRecorder()
	HandleUserRole(rec, roleRequestFor(t, caller, member.ID, "admin"))
	if rec.Code != http.StatusOK {
		t.Fatalf("promote status = %d: %s", rec.Code, rec.Body.String())
	}
	var updated models.User
	if err := json.NewDecoder(rec.Body).Decode(&updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Role != models.RoleAdmin {
		t.Fatalf("role = %s, want admin", updated.Role)
	}

	tests := []struct {
		name   string
		id     int64
		role   string
		status int
	}{
		{"own role", admin.ID, "user", http.StatusConflict},
		{"unknown role", member.ID, "owner", http.StatusBadRequest},
		{"missing user", 9999, "user", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleUserRole(rec, roleRequestFor(t, caller, tt.id, tt.role))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
		})
	}

	stored, err := database.Queries.GetUser(t.Context(), admin.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if stored.Role != authz.RoleAdmin {
		t.Fatalf("caller role changed to %s", stored.Role)
	}
}
