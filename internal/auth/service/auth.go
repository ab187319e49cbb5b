package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/daykeephq/daykeep/internal/auth/domain"
	"github.com/daykeephq/daykeep/internal/auth/store"
	"github.com/daykeephq/daykeep/pkg/authsdk"
	"github.com/daykeephq/daykeep/pkg/cryptox"
	"github.com/daykeephq/daykeep/pkg/idx"
	"github.com/daykeephq/daykeep/pkg/jwtx"
	"github.com/daykeephq/daykeep/pkg/slogx"
)

var (
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password;
	// callers must not distinguish the two.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthService implements signup, login, token verification and account
// deletion.
type AuthService struct {
	Store  store.Store
	Tokens *jwtx.Issuer

	// LegacySalt enables verification of first-generation fixed-salt
	// SHA-256 hashes. Empty disables the legacy path entirely.
	LegacySalt string
}

// TokenStatus is the non-throwing result of VerifyToken. Callers branch
// on Valid; an invalid token carries no further detail.
type TokenStatus struct {
	Valid  bool
	UserID string
	Email  string
}

// Signup registers a new account and returns the user with a fresh
// session token.
func (s *AuthService) Signup(ctx context.Context, email, password string) (domain.User, string, error) {
	log := slogx.FromContext(ctx)
	email = authsdk.NormalizeEmail(email)

	// Friendly pre-check; the unique index is what actually guarantees
	// uniqueness under concurrent signups.
	if _, err := s.Store.Users().GetByEmail(ctx, email); err == nil {
		return domain.User{}, "", ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error("signup email lookup failed", slog.Any("error", err))
		return domain.User{}, "", err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, "", err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New(idx.PrefixUser),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, "", ErrEmailTaken
		}
		log.Error("failed to create user", slog.Any("error", err))
		return domain.User{}, "", err
	}

	token, err := s.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		log.Error("failed to issue token", slog.String("user_id", user.ID), slog.Any("error", err))
		return domain.User{}, "", err
	}

	log.Info("user signed up", slog.String("user_id", user.ID))
	return user, token, nil
}

// Login authenticates an email/password pair and returns a fresh session
// token. Unknown email and wrong password are indistinguishable to the
// caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	log := slogx.FromContext(ctx)
	email = authsdk.NormalizeEmail(email)

	user, err := s.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		log.Error("login email lookup failed", slog.Any("error", err))
		return domain.User{}, "", err
	}

	if err := s.verifyPassword(ctx, user, password); err != nil {
		log.Info("login rejected", slog.String("user_id", user.ID))
		return domain.User{}, "", ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		log.Error("failed to issue token", slog.String("user_id", user.ID), slog.Any("error", err))
		return domain.User{}, "", err
	}

	return user, token, nil
}

// verifyPassword checks the password against the stored hash, handling
// the legacy fixed-salt rows. A legacy row that verifies is upgraded to
// Argon2id in place; upgrade failures are logged and ignored since the
// login itself succeeded.
func (s *AuthService) verifyPassword(ctx context.Context, user domain.User, password string) error {
	if s.LegacySalt != "" && cryptox.IsLegacyHash(user.PasswordHash) {
		if err := cryptox.VerifyLegacy(password, s.LegacySalt, user.PasswordHash); err != nil {
			return err
		}
		s.upgradeLegacyHash(ctx, user, password)
		return nil
	}
	return cryptox.VerifyPassword(password, user.PasswordHash)
}

func (s *AuthService) upgradeLegacyHash(ctx context.Context, user domain.User, password string) {
	log := slogx.FromContext(ctx)

	newHash, err := cryptox.HashPassword(password)
	if err == nil {
		err = s.Store.Users().UpdatePasswordHash(ctx, user.Email, newHash)
	}
	if err != nil {
		log.Warn("failed to upgrade legacy password hash",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
		return
	}
	log.Info("legacy password hash upgraded", slog.String("user_id", user.ID))
}

// VerifyToken reports whether a session token is valid and still maps to
// an existing user. Every verification failure (expired, malformed, bad
// signature, deleted user) yields Valid=false; only unexpected storage
// failures surface as errors.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (TokenStatus, error) {
	claims, err := s.Tokens.Verify(token)
	if err != nil {
		return TokenStatus{}, nil
	}

	user, err := s.Store.Users().GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return TokenStatus{}, nil
		}
		return TokenStatus{}, err
	}

	return TokenStatus{Valid: true, UserID: user.ID, Email: user.Email}, nil
}

// DeleteAccount removes the user row. Password-reset rows for the email
// are left behind deliberately; they expire within minutes and the
// housekeeping loop sweeps them.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	log := slogx.FromContext(ctx)

	if err := s.Store.Users().Delete(ctx, userID); err != nil {
		log.Error("failed to delete user", slog.String("user_id", userID), slog.Any("error", err))
		return err
	}

	log.Info("account deleted", slog.String("user_id", userID))
	return nil
}
