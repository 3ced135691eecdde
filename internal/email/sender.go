package email

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sender delivers one message to one address.
type Sender interface {
	Send(ctx context.Context, recipient string, msg Message) error
}

// LogSender writes messages to the log instead of delivering them. It stands
// in for SES during local development.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, recipient string, msg Message) error {
	log.Ctx(ctx).Info().
		Str("recipient", recipient).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("Email not sent; no mail transport configured")
	return nil
}

// detached returns a context that outlives the request that triggered the
// send but still gives up after timeout.
func detached(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}
