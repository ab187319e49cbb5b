// Package mail abstracts delivery of password-reset codes. Production
// wires an actual provider behind Sender; dev and tests use LogSender,
// which writes the code to the structured log instead.
package mail

import (
	"context"
	"log/slog"
)

// Sender delivers a password-reset code to an email address. The reset
// flow treats delivery as best-effort: a failed send is logged but never
// reported to the caller, so the response stays identical whether or not
// the account exists.
type Sender interface {
	SendResetCode(ctx context.Context, email, code string) error
}

// LogSender logs the code instead of sending it. Never use outside dev.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) SendResetCode(_ context.Context, email, code string) error {
	s.Logger.Info("password reset code issued",
		"email", email,
		"code", code,
	)
	return nil
}
