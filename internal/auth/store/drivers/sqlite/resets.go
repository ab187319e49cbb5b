package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/daykeephq/daykeep/internal/auth/domain"
	"github.com/daykeephq/daykeep/internal/auth/store"
)

type resetsRepo struct {
	db *sql.DB
}

// Issue deletes any unused requests for the email and inserts the new one
// inside a single transaction.
func (r *resetsRepo) Issue(ctx context.Context, req domain.PasswordResetRequest) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM password_resets WHERE email = ? AND used = 0`, req.Email); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO password_resets (id, email, code, expires_at, used, created_at)
			VALUES (?, ?, ?, ?, 0, ?)`,
		req.ID, req.Email, req.Code, req.ExpiresAt.UTC(), req.CreatedAt.UTC()); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *resetsRepo) GetValid(ctx context.Context, email, code string) (domain.PasswordResetRequest, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, code, expires_at, used, created_at
			FROM password_resets WHERE email = ? AND code = ? AND used = 0`,
		email, code)

	var (
		req  domain.PasswordResetRequest
		used int
	)
	err := row.Scan(&req.ID, &req.Email, &req.Code, &req.ExpiresAt, &used, &req.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.PasswordResetRequest{}, store.ErrNotFound
		}
		return domain.PasswordResetRequest{}, err
	}
	req.Used = used != 0
	return req, nil
}

func (r *resetsRepo) MarkUsed(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE password_resets SET used = 1 WHERE id = ?`, id)
	return err
}

func (r *resetsRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM password_resets WHERE expires_at < ?`, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
