// cmd/dbtools/migrate/main.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/codr1/Courtside/internal/api/authz"
	"github.com/codr1/Courtside/internal/config"
	"github.com/codr1/Courtside/internal/db"
	dbgen "github.com/codr1/Courtside/internal/db/generated"
)

func main() {
	var (
		configPath     = flag.String("config", "config/app.yaml", "Path to app config, used when -db is empty")
		dbPath         = flag.String("db", "", "Path to SQLite database")
		migrationsPath = flag.String("migrations", "internal/db/migrations", "Path to migrations directory")
		command        = flag.String("command", "", "Command to run (up, down, version, promote)")
		email          = flag.String("email", "", "Email of the user to promote to admin")
	)
	flag.Parse()

	if *command == "" {
		flag.Usage()
		os.Exit(1)
	}
	if *dbPath == "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		*dbPath = cfg.Database.Filename
	}

	if *command == "promote" {
		if err := promote(*dbPath, *email); err != nil {
			log.Fatalf("Promote failed: %v", err)
		}
		fmt.Printf("%s is now an admin\n", *email)
		return
	}

	m, err := migrate.New(
		fmt.Sprintf("file://%s", *migrationsPath),
		fmt.Sprintf("sqlite3://%s", *dbPath),
	)
	if err != nil {
		log.Fatalf("Migration init failed: %v", err)
	}
	defer m.Close()

	switch *command {
	case "up":
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("Migration up failed: %v", err)
		}
	case "down":
		if err := m.Down(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("Migration down failed: %v", err)
		}
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("Get version failed: %v", err)
		}
		fmt.Printf("Version: %d, Dirty: %v\n", version, dirty)
	default:
		log.Fatalf("Unknown command: %s", *command)
	}
}

// promote grants the admin role to the registered user with the given email.
// The first admin has to come from here since roles are only changed by admins.
func promote(dbPath, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("-email is required")
	}

	database, err := db.New(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := context.Background()
	users, err := database.Queries.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	for _, user := range users {
		if !user.Email.Valid || !strings.EqualFold(user.Email.String, email) {
			continue
		}
		_, err := database.Queries.UpdateUserRole(ctx, dbgen.UpdateUserRoleParams{Role: authz.RoleAdmin, ID: user.ID})
		return err
	}
	return fmt.Errorf("no user with email %s: %w", email, sql.ErrNoRows)
}
