package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/codr1/Courtside/internal/db"
	"github.com/codr1/Courtside/internal/email"
	"github.com/codr1/Courtside/internal/timeofday"
)

const reminderJob = "booking_reminders"

// RegisterReminderJob registers the day-before reminder run. Each run emails
// the holders of tomorrow's confirmed bookings.
func RegisterReminderJob(database *db.DB, emailClient email.Sender, facilityName, cronExpr string) error {
	if database == nil {
		return fmt.Errorf("reminder job requires database")
	}
	if emailClient == nil {
		return fmt.Errorf("reminder job requires an email client")
	}
	return Register(Job{
		Name:    reminderJob,
		Cron:    cronExpr,
		Timeout: 2 * time.Minute,
		Overlap: gocron.LimitModeWait,
		Run: func(ctx context.Context) error {
			tomorrow := timeofday.FormatDate(time.Now().AddDate(0, 0, 1))
			if _, err := email.SendReminders(ctx, database.Queries, emailClient, facilityName, tomorrow); err != nil {
				return fmt.Errorf("send reminders for %s: %w", tomorrow, err)
			}
			return nil
		},
	})
}
