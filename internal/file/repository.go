// AngelaMos | 2026
// repository.go

package file

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/salescrm/internal/core"
)

type Repository interface {
	Create(ctx context.Context, f *File) error
	GetByID(ctx context.Context, id string) (*File, error)
	ListByOrganization(ctx context.Context, orgID string) ([]File, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const fileColumns = `id, user_id, organization_id, filename, storage_key, content_type, size_bytes, uploaded_at`

func (r *repository) Create(ctx context.Context, f *File) error {
	query := `
		INSERT INTO files (id, user_id, organization_id, filename, storage_key, content_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING uploaded_at`

	if err := core.Conn(ctx, r.db).GetContext(ctx, &f.UploadedAt, query,
		f.ID, f.UserID, f.OrganizationID, f.Filename, f.StorageKey, f.ContentType, f.SizeBytes,
	); err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1`

	var f File
	if err := core.Conn(ctx, r.db).GetContext(ctx, &f, query, id); err != nil {
		return nil, core.NotFoundOr("get file", err)
	}
	return &f, nil
}

func (r *repository) ListByOrganization(ctx context.Context, orgID string) ([]File, error) {
	query := `
		SELECT ` + fileColumns + `
		FROM files
		WHERE organization_id = $1
		ORDER BY uploaded_at DESC, id`

	files := []File{}
	if err := core.Conn(ctx, r.db).SelectContext(ctx, &files, query, orgID); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return core.ExecOne(ctx, core.Conn(ctx, r.db), "delete file", `DELETE FROM files WHERE id = $1`, id)
}
