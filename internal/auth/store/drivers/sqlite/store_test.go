package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daykeephq/daykeep/internal/auth/domain"
	"github.com/daykeephq/daykeep/internal/auth/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.EnsureSchema(context.Background()))
	return st
}

func testUser(id, email string) domain.User {
	now := time.Now().UTC()
	return domain.User{
		ID:           id,
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdHNhbHQ$aGFzaGhhc2g",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	// A second run on the same database is a no-op, not an error.
	require.NoError(t, st.EnsureSchema(context.Background()))
}

func TestUsersCRUD(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	u := testUser("user_1", "ann@example.com")
	require.NoError(t, st.Users().Create(ctx, u))

	byEmail, err := st.Users().GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byID, err := st.Users().GetByID(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, u.Email, byID.Email)

	t.Run("duplicate email violates unique index", func(t *testing.T) {
		err := st.Users().Create(ctx, testUser("user_2", "ann@example.com"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("update password hash bumps updated_at", func(t *testing.T) {
		require.NoError(t, st.Users().UpdatePasswordHash(ctx, "ann@example.com", "newhash"))

		got, err := st.Users().GetByEmail(ctx, "ann@example.com")
		require.NoError(t, err)
		assert.Equal(t, "newhash", got.PasswordHash)
		assert.True(t, got.UpdatedAt.After(u.UpdatedAt) || got.UpdatedAt.Equal(u.UpdatedAt))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, st.Users().Delete(ctx, "user_1"))
		_, err := st.Users().GetByID(ctx, "user_1")
		require.ErrorIs(t, err, store.ErrNotFound)

		// Unknown id is a no-op.
		require.NoError(t, st.Users().Delete(ctx, "user_1"))
	})
}

func TestResetIssueSupersedes(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	first := domain.PasswordResetRequest{
		ID: "reset_1", Email: "ann@example.com", Code: "111111",
		ExpiresAt: time.Now().UTC().Add(15 * time.Minute),
		CreatedAt: time.Now().UTC(),
	}
	second := first
	second.ID, second.Code = "reset_2", "222222"

	require.NoError(t, st.PasswordResets().Issue(ctx, first))
	require.NoError(t, st.PasswordResets().Issue(ctx, second))

	// The first unused code was deleted by the second issue.
	_, err := st.PasswordResets().GetValid(ctx, "ann@example.com", "111111")
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err := st.PasswordResets().GetValid(ctx, "ann@example.com", "222222")
	require.NoError(t, err)
	assert.Equal(t, "reset_2", got.ID)
	assert.False(t, got.Used)
}

func TestResetMarkUsedAndDeleteExpired(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	live := domain.PasswordResetRequest{
		ID: "reset_live", Email: "a@example.com", Code: "111111",
		ExpiresAt: time.Now().UTC().Add(15 * time.Minute),
		CreatedAt: time.Now().UTC(),
	}
	expired := domain.PasswordResetRequest{
		ID: "reset_old", Email: "b@example.com", Code: "222222",
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	}
	require.NoError(t, st.PasswordResets().Issue(ctx, live))
	require.NoError(t, st.PasswordResets().Issue(ctx, expired))

	require.NoError(t, st.PasswordResets().MarkUsed(ctx, "reset_live"))
	_, err := st.PasswordResets().GetValid(ctx, "a@example.com", "111111")
	require.ErrorIs(t, err, store.ErrNotFound)

	n, err := st.PasswordResets().DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
