package db_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/codr1/Courtside/internal/db"
	dbgen "github.com/codr1/Courtside/internal/db/generated"
	"github.com/codr1/Courtside/internal/testutil"
)

func reservationParams(date, start, end string, startMinute, endMinute int64) dbgen.CreateReservationParams {
	return dbgen.CreateReservationParams{
		CourtID:          "pink",
		Date:             date,
		StartTime:        start,
		EndTime:          end,
		StartMinute:      startMinute,
		EndMinute:        endMinute,
		Status:           "pending",
		PeopleCount:      1,
		TotalPrice:       80000,
		GuestName:        sql.NullString{String: "Ann", Valid: true},
		GuestPhone:       sql.NullString{String: "+66812345678", Valid: true},
		SubscriptionType: "daily",
	}
}

func TestMigrationsSeedCatalog(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	courts, err := database.Queries.ListCourts(ctx)
	if err != nil {
		t.Fatalf("ListCourts: %v", err)
	}
	if len(courts) != 2 || courts[0].ID != "pink" || courts[1].ID != "mint" {
		t.Fatalf("courts = %+v", courts)
	}

	rules, err := database.Queries.ListActivePriceRules(ctx)
	if err != nil {
		t.Fatalf("ListActivePriceRules: %v", err)
	}
	if len(rules) != 7 {
		t.Fatalf("rules = %d, want 7", len(rules))
	}
}

func TestOverlapTriggerRejectsActiveOverlap(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	first, err := database.Queries.CreateReservation(ctx, reservationParams("2025-01-06", "10:00:00", "12:00:00", 600, 720))
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	_, err = database.Queries.CreateReservation(ctx, reservationParams("2025-01-06", "11:00:00", "13:00:00", 660, 780))
	if !db.IsOverlapViolation(err) {
		t.Fatalf("err = %v, want overlap violation", err)
	}

	if _, err := database.Queries.CreateReservation(ctx, reservationParams("2025-01-06", "12:00:00", "13:00:00", 720, 780)); err != nil {
		t.Fatalf("adjacent insert: %v", err)
	}

	if _, err := database.Queries.UpdateReservationStatus(ctx, dbgen.UpdateReservationStatusParams{Status: "canceled", ID: first.ID}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := database.Queries.CreateReservation(ctx, reservationParams("2025-01-06", "11:00:00", "12:00:00", 660, 720)); err != nil {
		t.Fatalf("insert over canceled booking: %v", err)
	}

	_, err = database.Queries.UpdateReservationStatus(ctx, dbgen.UpdateReservationStatusParams{Status: "pending", ID: first.ID})
	if !db.IsOverlapViolation(err) {
		t.Fatalf("reactivate err = %v, want overlap violation", err)
	}
}

func TestOverlapTriggerSpansMidnight(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	// 23:00 on the 6th to 01:00 on the 7th.
	late, err := database.Queries.CreateReservation(ctx, reservationParams("2025-01-06", "23:00:00", "01:00:00", 1380, 1500))
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	_, err = database.Queries.CreateReservation(ctx, reservationParams("2025-01-07", "00:00:00", "01:00:00", 0, 60))
	if !db.IsOverlapViolation(err) {
		t.Fatalf("next-day err = %v, want overlap violation", err)
	}
	if _, err := database.Queries.CreateReservation(ctx, reservationParams("2025-01-07", "01:00:00", "02:00:00", 60, 120)); err != nil {
		t.Fatalf("insert after the tail: %v", err)
	}

	// A booking on the 7th blocks a late one on the 6th that would run into it.
	if _, err := database.Queries.UpdateReservationStatus(ctx, dbgen.UpdateReservationStatusParams{Status: "canceled", ID: late.ID}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	_, err = database.Queries.CreateReservation(ctx, reservationParams("2025-01-06", "23:30:00", "01:30:00", 1410, 1530))
	if !db.IsOverlapViolation(err) {
		t.Fatalf("previous-day err = %v, want overlap violation", err)
	}
	if _, err := database.Queries.CreateReservation(ctx, reservationParams("2025-01-06", "23:00:00", "01:00:00", 1380, 1500)); err != nil {
		t.Fatalf("insert ending where the next day starts: %v", err)
	}
}

func TestRunInTxRollsBack(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	err := database.RunInTx(ctx, func(txdb *db.DB) error {
		if _, err := txdb.Queries.CreateReservation(ctx, reservationParams("2025-01-07", "10:00:00", "11:00:00", 600, 660)); err != nil {
			return err
		}
		_, err := txdb.Queries.CreateReservation(ctx, reservationParams("2025-01-07", "10:30:00", "11:30:00", 630, 690))
		return err
	})
	if !db.IsOverlapViolation(err) {
		t.Fatalf("err = %v, want overlap violation", err)
	}

	rows, err := database.Queries.ListReservationsByDateRange(ctx, dbgen.ListReservationsByDateRangeParams{StartDate: "2025-01-07", EndDate: "2025-01-07"})
	if err != nil {
		t.Fatalf("ListReservationsByDateRange: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows after rollback = %d", len(rows))
	}
}

func TestOwnerCheckConstraint(t *testing.T) {
	database := testutil.NewTestDB(t)
	params := reservationParams("2025-01-08", "10:00:00", "11:00:00", 600, 660)
	params.GuestName = sql.NullString{}
	params.GuestPhone = sql.NullString{}

	_, err := database.Queries.CreateReservation(context.Background(), params)
	if !db.IsConstraintViolation(err) {
		t.Fatalf("err = %v, want constraint violation", err)
	}
}
