// AngelaMos | 2026
// service.go

package file

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/salescrm/internal/core"
)

type OrgAuthorizer interface {
	Authorize(ctx context.Context, userID, orgID string) error
}

type Service struct {
	repo  Repository
	store BlobStore
	orgs  OrgAuthorizer
}

func NewService(repo Repository, store BlobStore, orgs OrgAuthorizer) *Service {
	return &Service{repo: repo, store: store, orgs: orgs}
}

type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Upload writes the blob before the metadata row. If the row cannot be
// written the blob is removed again.
func (s *Service) Upload(ctx context.Context, userID, orgID string, up Upload) (*File, error) {
	if err := s.orgs.Authorize(ctx, userID, orgID); err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}

	name := SanitizeFilename(up.Filename)
	id := uuid.New().String()
	key := orgID + "/" + id + "_" + name

	contentType := strings.TrimSpace(up.ContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	size, err := s.store.Put(ctx, key, up.Body)
	if err != nil {
		return nil, err
	}

	f := &File{
		ID:             id,
		UserID:         userID,
		OrganizationID: orgID,
		Filename:       name,
		StorageKey:     key,
		ContentType:    contentType,
		SizeBytes:      size,
	}

	if err := s.repo.Create(ctx, f); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			slog.WarnContext(ctx, "orphaned blob after failed upload", "key", key, "error", delErr)
		}
		return nil, err
	}

	slog.InfoContext(ctx, "file uploaded",
		"file_id", f.ID,
		"organization_id", orgID,
		"size_bytes", size,
	)
	return f, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (*File, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := core.RequireOwner("get file", f.UserID, userID); err != nil {
		return nil, err
	}
	return f, nil
}

// Open returns the metadata and a reader over the stored bytes. The caller
// closes the reader.
func (s *Service) Open(ctx context.Context, userID, id string) (*File, io.ReadCloser, error) {
	f, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.store.Open(ctx, f.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return f, rc, nil
}

func (s *Service) ListByOrganization(ctx context.Context, userID, orgID string) ([]File, error) {
	if err := s.orgs.Authorize(ctx, userID, orgID); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return s.repo.ListByOrganization(ctx, orgID)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	f, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, f.StorageKey); err != nil {
		slog.WarnContext(ctx, "blob delete failed", "key", f.StorageKey, "error", err)
	}
	return nil
}

// PurgeOrganization removes every blob stored for an organization. It runs
// after the organization row, and with it the file rows, is gone.
func (s *Service) PurgeOrganization(ctx context.Context, orgID string) error {
	return s.store.DeletePrefix(ctx, orgID+"/")
}
