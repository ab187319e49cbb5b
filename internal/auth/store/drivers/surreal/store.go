package surreal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/daykeephq/daykeep/internal/auth/store"
)

// Store implements store.Store over the SurrealDB HTTP API.
type Store struct {
	c *client
}

// NewStore validates the connection config and returns a Store. Missing
// endpoint, namespace or token is a configuration error and fails
// construction; the service refuses to start half-wired.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("surreal: endpoint is required")
	}
	if cfg.Namespace == "" {
		return nil, errors.New("surreal: namespace is required")
	}
	if cfg.Token == "" {
		return nil, errors.New("surreal: token is required")
	}
	if cfg.Database == "" {
		cfg.Database = "main"
	}
	return &Store{c: newClient(cfg)}, nil
}

func (s *Store) Users() store.Users                   { return &usersRepo{c: s.c} }
func (s *Store) PasswordResets() store.PasswordResets { return &resetsRepo{c: s.c} }

// Close is a no-op; the driver holds no persistent connections beyond the
// HTTP client's idle pool.
func (s *Store) Close() error { return nil }

// Ping runs a trivial statement to verify the endpoint, credentials and
// namespace are all accepted.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.c.query(ctx, "ping", "RETURN 1;", nil)
	return err
}

// schema statements are idempotent (OVERWRITE) so EnsureSchema can run on
// every boot. The unique index on user.email is what backs the signup
// conflict contract.
var schema = []string{
	`DEFINE TABLE OVERWRITE user SCHEMAFULL;`,
	`DEFINE FIELD OVERWRITE email ON user TYPE string;`,
	`DEFINE FIELD OVERWRITE password_hash ON user TYPE string;`,
	`DEFINE FIELD OVERWRITE created_at ON user TYPE datetime;`,
	`DEFINE FIELD OVERWRITE updated_at ON user TYPE datetime;`,
	`DEFINE INDEX OVERWRITE user_email ON user COLUMNS email UNIQUE;`,

	`DEFINE TABLE OVERWRITE password_reset SCHEMAFULL;`,
	`DEFINE FIELD OVERWRITE email ON password_reset TYPE string;`,
	`DEFINE FIELD OVERWRITE code ON password_reset TYPE string;`,
	`DEFINE FIELD OVERWRITE expires_at ON password_reset TYPE datetime;`,
	`DEFINE FIELD OVERWRITE used ON password_reset TYPE bool;`,
	`DEFINE FIELD OVERWRITE created_at ON password_reset TYPE datetime;`,
	`DEFINE INDEX OVERWRITE password_reset_email ON password_reset COLUMNS email;`,
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.c.query(ctx, "ensure schema", strings.Join(schema, "\n"), nil)
	if err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// mapAlreadyExists converts a unique index violation into the store-level
// sentinel. SurrealDB reports these as "Database index ... already
// contains ..." in the statement detail.
func mapAlreadyExists(err error) error {
	var dbErr *DatabaseError
	if errors.As(err, &dbErr) && strings.Contains(dbErr.Detail, "already contains") {
		return store.ErrAlreadyExists
	}
	return err
}

// tsVar renders a timestamp for a bound datetime var. SCHEMAFULL tables
// coerce RFC 3339 strings into datetimes on write.
func tsVar(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
