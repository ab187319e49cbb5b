package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daykeephq/daykeep/internal/auth/domain"
	"github.com/daykeephq/daykeep/internal/auth/service"
	"github.com/daykeephq/daykeep/pkg/cryptox"
	"github.com/daykeephq/daykeep/pkg/idx"
)

func TestSignupAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, token, err := env.Auth.Signup(ctx, "  Alice@Example.COM ", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEmpty(t, user.ID)
	require.NotEmpty(t, token)

	claims, err := env.Tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, user.Email, claims.Email)

	// Login with different casing and surrounding whitespace hits the
	// same account.
	loggedIn, token2, err := env.Auth.Login(ctx, "ALICE@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token2)
}

func TestSignupDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.Auth.Signup(ctx, "bob@example.com", "password-one")
	require.NoError(t, err)

	_, _, err = env.Auth.Signup(ctx, "BOB@example.com", "password-two")
	require.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.Auth.Signup(ctx, "carol@example.com", "the real password")
	require.NoError(t, err)

	_, _, unknownErr := env.Auth.Login(ctx, "nobody@example.com", "whatever")
	_, _, wrongErr := env.Auth.Login(ctx, "carol@example.com", "not the password")

	require.ErrorIs(t, unknownErr, service.ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, service.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestVerifyToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, token, err := env.Auth.Signup(ctx, "dave@example.com", "a fine password")
	require.NoError(t, err)

	status, err := env.Auth.VerifyToken(ctx, token)
	require.NoError(t, err)
	assert.True(t, status.Valid)
	assert.Equal(t, user.ID, status.UserID)
	assert.Equal(t, user.Email, status.Email)

	t.Run("tampered token", func(t *testing.T) {
		status, err := env.Auth.VerifyToken(ctx, token+"x")
		require.NoError(t, err)
		assert.False(t, status.Valid)
		assert.Empty(t, status.UserID)
	})

	t.Run("garbage token", func(t *testing.T) {
		status, err := env.Auth.VerifyToken(ctx, "not-a-jwt")
		require.NoError(t, err)
		assert.False(t, status.Valid)
	})

	t.Run("deleted user", func(t *testing.T) {
		require.NoError(t, env.Auth.DeleteAccount(ctx, user.ID))

		status, err := env.Auth.VerifyToken(ctx, token)
		require.NoError(t, err)
		assert.False(t, status.Valid)
	})
}

func TestDeleteAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, _, err := env.Auth.Signup(ctx, "erin@example.com", "soon to be gone")
	require.NoError(t, err)

	require.NoError(t, env.Auth.DeleteAccount(ctx, user.ID))

	_, _, err = env.Auth.Login(ctx, "erin@example.com", "soon to be gone")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	// Deleting again is a no-op, not an error.
	require.NoError(t, env.Auth.DeleteAccount(ctx, user.ID))
}

func TestLoginUpgradesLegacyHash(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	const (
		salt     = "daykeep-legacy-salt"
		password = "pre-migration password"
	)
	env.Auth.LegacySalt = salt

	now := time.Now().UTC()
	legacy := domain.User{
		ID:           idx.New(idx.PrefixUser),
		Email:        "frank@example.com",
		PasswordHash: cryptox.LegacyHash(password, salt),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, env.Store.Users().Create(ctx, legacy))

	_, token, err := env.Auth.Login(ctx, legacy.Email, password)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// The stored hash is now Argon2id and still verifies the password.
	stored, err := env.Store.Users().GetByEmail(ctx, legacy.Email)
	require.NoError(t, err)
	assert.False(t, cryptox.IsLegacyHash(stored.PasswordHash))
	require.NoError(t, cryptox.VerifyPassword(password, stored.PasswordHash))

	// And the wrong password still fails after the upgrade.
	_, _, err = env.Auth.Login(ctx, legacy.Email, "wrong")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}
