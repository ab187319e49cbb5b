package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/daykeephq/daykeep/internal/auth/domain"
	"github.com/daykeephq/daykeep/internal/auth/mail"
	"github.com/daykeephq/daykeep/internal/auth/store"
	"github.com/daykeephq/daykeep/pkg/authsdk"
	"github.com/daykeephq/daykeep/pkg/cryptox"
	"github.com/daykeephq/daykeep/pkg/idx"
	"github.com/daykeephq/daykeep/pkg/jwtx"
	"github.com/daykeephq/daykeep/pkg/slogx"
)

// ErrInvalidResetCode covers every reset-code failure: unknown code,
// wrong email, expired, already used. Callers never learn which.
var ErrInvalidResetCode = errors.New("invalid or expired reset code")

// DefaultResetCodeTTL is how long a reset code stays redeemable.
const DefaultResetCodeTTL = 15 * time.Minute

// ResetRequestMessage is returned for every reset request, account or no
// account, so the endpoint cannot be used to probe registered emails.
const ResetRequestMessage = "If an account exists for this email, a reset code has been sent"

// PasswordResetService implements the three-step reset flow: request a
// code, verify it, redeem it for a new password.
type PasswordResetService struct {
	Store  store.Store
	Tokens *jwtx.Issuer
	Sender mail.Sender

	// CodeTTL defaults to DefaultResetCodeTTL when zero.
	CodeTTL time.Duration
}

func (s *PasswordResetService) ttl() time.Duration {
	if s.CodeTTL > 0 {
		return s.CodeTTL
	}
	return DefaultResetCodeTTL
}

// Request issues a fresh reset code for the email, superseding any
// unused codes for it, and hands the code to the mail sender. The code
// is issued whether or not an account exists; redeeming it for an
// unknown email later succeeds without touching any row. The returned
// code is for the dev-only debug_code field, never for production
// responses.
func (s *PasswordResetService) Request(ctx context.Context, email string) (string, error) {
	log := slogx.FromContext(ctx)
	email = authsdk.NormalizeEmail(email)

	code, err := cryptox.GenerateResetCode()
	if err != nil {
		log.Error("failed to generate reset code", slog.Any("error", err))
		return "", err
	}

	req := domain.PasswordResetRequest{
		ID:        idx.New(idx.PrefixReset),
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().UTC().Add(s.ttl()),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Store.PasswordResets().Issue(ctx, req); err != nil {
		log.Error("failed to store reset request", slog.Any("error", err))
		return "", err
	}

	// Delivery is best effort. The code is already live, and failing the
	// request here would leak whether the address is deliverable.
	if err := s.Sender.SendResetCode(ctx, email, code); err != nil {
		log.Error("failed to send reset code", slog.Any("error", err))
	}

	log.Info("reset code issued", slog.String("reset_id", req.ID))
	return code, nil
}

// VerifyCode reports whether a code is currently redeemable for the
// email. It does not consume the code; the app calls this to gate the
// new-password screen before the actual reset.
func (s *PasswordResetService) VerifyCode(ctx context.Context, email, code string) error {
	_, err := s.lookupUsable(ctx, email, code)
	return err
}

// Reset redeems a code and installs the new password. The code is marked
// used even when no account matches the email, so a code never survives
// its redemption. The returned user and token are best effort; a nil
// user with empty token still means the reset itself succeeded.
func (s *PasswordResetService) Reset(ctx context.Context, email, code, newPassword string) (*domain.User, string, error) {
	log := slogx.FromContext(ctx)
	email = authsdk.NormalizeEmail(email)

	req, err := s.lookupUsable(ctx, email, code)
	if err != nil {
		return nil, "", err
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return nil, "", err
	}

	if err := s.Store.Users().UpdatePasswordHash(ctx, email, hash); err != nil {
		log.Error("failed to update password hash", slog.Any("error", err))
		return nil, "", err
	}

	if err := s.Store.PasswordResets().MarkUsed(ctx, req.ID); err != nil {
		// The password already changed; surfacing an error now would make
		// the client retry with a code that must not work twice.
		log.Error("failed to mark reset code used",
			slog.String("reset_id", req.ID),
			slog.Any("error", err),
		)
	}

	log.Info("password reset completed", slog.String("reset_id", req.ID))

	user, err := s.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		log.Warn("post-reset user lookup failed", slog.Any("error", err))
		return nil, "", nil
	}
	token, err := s.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		log.Warn("post-reset token issue failed", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, "", nil
	}
	return &user, token, nil
}

func (s *PasswordResetService) lookupUsable(ctx context.Context, email, code string) (domain.PasswordResetRequest, error) {
	log := slogx.FromContext(ctx)
	email = authsdk.NormalizeEmail(email)

	req, err := s.Store.PasswordResets().GetValid(ctx, email, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.PasswordResetRequest{}, ErrInvalidResetCode
		}
		log.Error("reset code lookup failed", slog.Any("error", err))
		return domain.PasswordResetRequest{}, err
	}
	if !req.Usable(time.Now().UTC()) {
		return domain.PasswordResetRequest{}, ErrInvalidResetCode
	}
	return req, nil
}

// PurgeExpired deletes reset rows past their expiry. The housekeeping
// loop calls it on an interval; expiry itself is enforced at lookup time,
// this only keeps the table small.
func (s *PasswordResetService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.Store.PasswordResets().DeleteExpired(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to purge expired reset codes", slog.Any("error", err))
		return 0, err
	}
	if n > 0 {
		slogx.FromContext(ctx).Info("purged expired reset codes", slog.Int64("count", n))
	}
	return n, nil
}
