package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/codr1/Courtside/internal/db"
	dbgen "github.com/codr1/Courtside/internal/db/generated"
)

// NewTestDB creates a temporary SQLite database with migrations applied. The
// seed migration provides the pink and mint courts and the default catalog.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// CreateUser inserts a registered user with the given role.
func CreateUser(t *testing.T, database *db.DB, name, email, role string) dbgen.User {
	t.Helper()

	ctx := context.Background()
	user, err := database.Queries.UpsertClerkUser(ctx, dbgen.UpsertClerkUserParams{
		ClerkUserID: sql.NullString{String: "user_" + name, Valid: true},
		Name:        name,
		Email:       sql.NullString{String: email, Valid: email != ""},
	})
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	if role != "" && role != user.Role {
		user, err = database.Queries.UpdateUserRole(ctx, dbgen.UpdateUserRoleParams{Role: role, ID: user.ID})
		if err != nil {
			t.Fatalf("set role for %s: %v", name, err)
		}
	}
	return user
}
