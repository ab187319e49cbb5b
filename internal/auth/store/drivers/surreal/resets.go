package surreal

import (
	"context"
	"time"

	"github.com/daykeephq/daykeep/internal/auth/domain"
	"github.com/daykeephq/daykeep/internal/auth/store"
)

type resetsRepo struct {
	c *client
}

type resetRow struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

const resetFields = `meta::id(id) AS id, email, code, expires_at, used, created_at`

func (r resetRow) toDomain() domain.PasswordResetRequest {
	return domain.PasswordResetRequest{
		ID:        r.ID,
		Email:     r.Email,
		Code:      r.Code,
		ExpiresAt: r.ExpiresAt,
		Used:      r.Used,
		CreatedAt: r.CreatedAt,
	}
}

// Issue runs the delete-then-create pair inside one database transaction,
// so two concurrent requests for the same email cannot leave two live
// codes behind.
func (r *resetsRepo) Issue(ctx context.Context, req domain.PasswordResetRequest) error {
	_, err := r.c.query(ctx, "issue password reset",
		`BEGIN TRANSACTION;
		DELETE password_reset WHERE email = $email AND used = false;
		CREATE type::thing('password_reset', $id) SET
			email = $email,
			code = $code,
			expires_at = type::datetime($expires_at),
			used = false,
			created_at = type::datetime($created_at);
		COMMIT TRANSACTION;`,
		map[string]any{
			"id":         req.ID,
			"email":      req.Email,
			"code":       req.Code,
			"expires_at": tsVar(req.ExpiresAt),
			"created_at": tsVar(req.CreatedAt),
		},
	)
	return err
}

func (r *resetsRepo) GetValid(ctx context.Context, email, code string) (domain.PasswordResetRequest, error) {
	results, err := r.c.query(ctx, "get valid password reset",
		`SELECT `+resetFields+` FROM password_reset
			WHERE email = $email AND code = $code AND used = false;`,
		map[string]any{"email": email, "code": code},
	)
	if err != nil {
		return domain.PasswordResetRequest{}, err
	}
	rs, err := rows[resetRow](results)
	if err != nil {
		return domain.PasswordResetRequest{}, err
	}
	if len(rs) == 0 {
		return domain.PasswordResetRequest{}, store.ErrNotFound
	}
	return rs[0].toDomain(), nil
}

func (r *resetsRepo) MarkUsed(ctx context.Context, id string) error {
	_, err := r.c.query(ctx, "mark password reset used",
		`UPDATE type::thing('password_reset', $id) SET used = true;`,
		map[string]any{"id": id},
	)
	return err
}

// DeleteExpired uses RETURN BEFORE so the response carries the deleted
// rows and we can report a count without a second query.
func (r *resetsRepo) DeleteExpired(ctx context.Context) (int64, error) {
	results, err := r.c.query(ctx, "delete expired password resets",
		`DELETE password_reset WHERE expires_at < time::now() RETURN BEFORE;`, nil)
	if err != nil {
		return 0, err
	}
	rs, err := rows[resetRow](results)
	if err != nil {
		return 0, err
	}
	return int64(len(rs)), nil
}
