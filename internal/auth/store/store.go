package store

import (
	"context"
	"errors"

	"github.com/daykeephq/daykeep/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (surreal over
// HTTP in production, sqlite for dev and tests) implement this. Multi-step
// operations that must be atomic are modelled as single repository methods
// (see PasswordResets.Issue) rather than an exposed transaction handle,
// because the HTTP driver can only express atomicity as one round trip.
type Store interface {
	Users() Users
	PasswordResets() PasswordResets

	// EnsureSchema creates tables, indexes and constraints. Idempotent;
	// called once at startup.
	EnsureSchema(ctx context.Context) error

	// Ping verifies the backing database is reachable.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

type Users interface {
	// GetByEmail returns the user with the exact (already normalized) email.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// GetByID returns a user by id.
	GetByID(ctx context.Context, id string) (domain.User, error)

	// Create inserts a new user. A duplicate email violates the unique
	// index and is reported as ErrAlreadyExists, which is what makes
	// signup safe against concurrent check-then-create races.
	Create(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password hash for the user with the
	// given email and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, email, newHash string) error

	// Delete removes the user row. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
}

type PasswordResets interface {
	// Issue atomically deletes any unused requests for the email and
	// inserts the new one, so at most one live code exists per email even
	// under concurrent requests.
	Issue(ctx context.Context, r domain.PasswordResetRequest) error

	// GetValid returns the unused request matching email and code. Expiry
	// is checked by the caller, not the query.
	GetValid(ctx context.Context, email, code string) (domain.PasswordResetRequest, error)

	// MarkUsed flips used=true on the request.
	MarkUsed(ctx context.Context, id string) error

	// DeleteExpired removes requests past their expiry (housekeeping) and
	// reports how many rows went away.
	DeleteExpired(ctx context.Context) (int64, error)
}
