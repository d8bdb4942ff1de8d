// AngelaMos | 2026
// repository.go

package pipeline

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/salescrm/internal/core"
)

type Repository interface {
	Create(ctx context.Context, s *Stage) error
	GetByID(ctx context.Context, id string) (*Stage, error)
	GetByName(ctx context.Context, userID, name string) (*Stage, error)
	ListByUser(ctx context.Context, userID string) ([]Stage, error)
	Update(ctx context.Context, s *Stage) error
	SetPosition(ctx context.Context, id string, position int) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const stageColumns = `id, user_id, name, position, created_at, updated_at`

// Create appends the stage after the user's last column. Two concurrent
// creates can compute the same position; the loser gets ErrDuplicateKey
// from the unique (user_id, position) constraint.
func (r *repository) Create(ctx context.Context, s *Stage) error {
	query := `
		INSERT INTO pipeline_stages (id, user_id, name, position)
		SELECT $1, $2, $3, COALESCE(MAX(position), 0) + 1
		FROM pipeline_stages
		WHERE user_id = $2
		RETURNING position, created_at, updated_at`

	err := core.Conn(ctx, r.db).QueryRowxContext(ctx, query, s.ID, s.UserID, s.Name).
		Scan(&s.Position, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create stage: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create stage: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM pipeline_stages WHERE id = $1`

	var s Stage
	if err := core.Conn(ctx, r.db).GetContext(ctx, &s, query, id); err != nil {
		return nil, core.NotFoundOr("get stage", err)
	}
	return &s, nil
}

func (r *repository) GetByName(ctx context.Context, userID, name string) (*Stage, error) {
	query := `
		SELECT ` + stageColumns + `
		FROM pipeline_stages
		WHERE user_id = $1 AND name = $2
		ORDER BY position
		LIMIT 1`

	var s Stage
	if err := core.Conn(ctx, r.db).GetContext(ctx, &s, query, userID, name); err != nil {
		return nil, core.NotFoundOr("get stage by name", err)
	}
	return &s, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Stage, error) {
	query := `
		SELECT ` + stageColumns + `
		FROM pipeline_stages
		WHERE user_id = $1
		ORDER BY position`

	stages := []Stage{}
	if err := core.Conn(ctx, r.db).SelectContext(ctx, &stages, query, userID); err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	return stages, nil
}

func (r *repository) Update(ctx context.Context, s *Stage) error {
	query := `
		UPDATE pipeline_stages
		SET name = $2, position = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	if err := core.Conn(ctx, r.db).GetContext(ctx, &s.UpdatedAt, query, s.ID, s.Name, s.Position); err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("update stage: %w", core.ErrDuplicateKey)
		}
		return core.NotFoundOr("update stage", err)
	}
	return nil
}

// SetPosition moves one stage. The position constraint is deferred, so a
// transaction may pass through duplicate positions as long as none remain at
// commit.
func (r *repository) SetPosition(ctx context.Context, id string, position int) error {
	query := `UPDATE pipeline_stages SET position = $2, updated_at = NOW() WHERE id = $1`
	return core.ExecOne(ctx, core.Conn(ctx, r.db), "set stage position", query, id, position)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return core.ExecOne(ctx, core.Conn(ctx, r.db), "delete stage", `DELETE FROM pipeline_stages WHERE id = $1`, id)
}
