package surreal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/daykeephq/daykeep/internal/auth/domain"
	"github.com/daykeephq/daykeep/internal/auth/store"
)

type usersRepo struct {
	c *client
}

// userRow mirrors the SELECT shape; meta::id strips the table prefix from
// the record id so the application sees the bare "user_..." identifier.
type userRow struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const userFields = `meta::id(id) AS id, email, password_hash, created_at, updated_at`

func (r userRow) toDomain() domain.User {
	return domain.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	results, err := r.c.query(ctx, "get user by email",
		`SELECT `+userFields+` FROM user WHERE email = $email;`,
		map[string]any{"email": email},
	)
	if err != nil {
		return domain.User{}, err
	}
	return firstUser(results)
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	results, err := r.c.query(ctx, "get user by id",
		`SELECT `+userFields+` FROM type::thing('user', $id);`,
		map[string]any{"id": id},
	)
	if err != nil {
		return domain.User{}, err
	}
	return firstUser(results)
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	_, err := r.c.query(ctx, "create user",
		`CREATE type::thing('user', $id) SET
			email = $email,
			password_hash = $password_hash,
			created_at = type::datetime($created_at),
			updated_at = type::datetime($updated_at);`,
		map[string]any{
			"id":            u.ID,
			"email":         u.Email,
			"password_hash": u.PasswordHash,
			"created_at":    tsVar(u.CreatedAt),
			"updated_at":    tsVar(u.UpdatedAt),
		},
	)
	return mapAlreadyExists(err)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, email, newHash string) error {
	_, err := r.c.query(ctx, "update password hash",
		`UPDATE user SET password_hash = $password_hash, updated_at = time::now()
			WHERE email = $email;`,
		map[string]any{"email": email, "password_hash": newHash},
	)
	return err
}

func (r *usersRepo) Delete(ctx context.Context, id string) error {
	_, err := r.c.query(ctx, "delete user",
		`DELETE type::thing('user', $id);`,
		map[string]any{"id": id},
	)
	return err
}

func firstUser(results []json.RawMessage) (domain.User, error) {
	rs, err := rows[userRow](results)
	if err != nil {
		return domain.User{}, err
	}
	if len(rs) == 0 {
		return domain.User{}, store.ErrNotFound
	}
	return rs[0].toDomain(), nil
}
