package email

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	dbgen "github.com/codr1/Courtside/internal/db/generated"
)

const sendTimeout = 5 * time.Second

// SendToUser looks up the user's address and sends message asynchronously.
// Users without an email address are skipped.
func SendToUser(ctx context.Context, q *dbgen.Queries, client Sender, userID int64, message Message, logger *zerolog.Logger) {
	if client == nil || q == nil {
		return
	}
	if userID <= 0 {
		if logger != nil {
			logger.Warn().Int64("user_id", userID).Msg("Skipping email with invalid user ID")
		}
		return
	}
	if message.Subject == "" || message.Body == "" {
		return
	}

	user, err := q.GetUser(ctx, userID)
	if err != nil {
		if logger != nil {
			logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to load user for email")
		}
		return
	}
	recipient := strings.TrimSpace(user.Email.String)
	if !user.Email.Valid || recipient == "" {
		return
	}

	go func() {
		sendCtx, cancel := detached(ctx, sendTimeout)
		defer cancel()
		if err := client.Send(sendCtx, recipient, message); err != nil {
			if logger != nil {
				logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to send email")
			}
			return
		}
		if logger != nil {
			logger.Info().Int64("user_id", userID).Str("subject", message.Subject).Msg("Email sent")
		}
	}()
}
