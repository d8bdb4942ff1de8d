// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/salescrm/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByLogin(ctx context.Context, login string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	IncrementTokenVersion(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `id, username, email, password_hash, token_version, created_at, updated_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING token_version, created_at, updated_at`

	err := core.Conn(ctx, r.db).QueryRowxContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
	).Scan(&user.TokenVersion, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user User
	if err := core.Conn(ctx, r.db).GetContext(ctx, &user, query, id); err != nil {
		return nil, core.NotFoundOr("get user", err)
	}

	return &user, nil
}

// GetByLogin matches either the username or the email address.
func (r *repository) GetByLogin(ctx context.Context, login string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1 OR email = LOWER($1)
		LIMIT 1`

	var user User
	if err := core.Conn(ctx, r.db).GetContext(ctx, &user, query, login); err != nil {
		return nil, core.NotFoundOr("get user by login", err)
	}

	return &user, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET username = $2, email = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := core.Conn(ctx, r.db).GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.Username,
		user.Email,
	)
	if core.IsDuplicateKeyError(err) {
		return fmt.Errorf("update user: %w", core.ErrDuplicateKey)
	}
	if err != nil {
		return core.NotFoundOr("update user", err)
	}

	return nil
}

func (r *repository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`

	return core.ExecOne(ctx, core.Conn(ctx, r.db), "update password", query, id, passwordHash)
}

func (r *repository) IncrementTokenVersion(ctx context.Context, id string) error {
	query := `
		UPDATE users
		SET token_version = token_version + 1, updated_at = NOW()
		WHERE id = $1`

	return core.ExecOne(ctx, core.Conn(ctx, r.db), "increment token version", query, id)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return core.ExecOne(ctx, core.Conn(ctx, r.db), "delete user", `DELETE FROM users WHERE id = $1`, id)
}
