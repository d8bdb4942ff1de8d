// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/salescrm/internal/auth"
	"github.com/carterperez-dev/salescrm/internal/core"
	"github.com/carterperez-dev/salescrm/internal/organization"
)

// OrganizationLister names the organizations an account owns. The
// organization repository satisfies it.
type OrganizationLister interface {
	ListByUser(ctx context.Context, userID string) ([]organization.Organization, error)
}

// BlobPurger removes uploaded file bytes kept outside the database.
type BlobPurger interface {
	PurgeOrganization(ctx context.Context, orgID string) error
}

type Service struct {
	repo  Repository
	orgs  OrganizationLister
	blobs BlobPurger
}

// NewService builds the account service. With a nil purger, deleting an
// account leaves uploaded bytes on the blob store.
func NewService(repo Repository, orgs OrganizationLister, blobs BlobPurger) *Service {
	return &Service{repo: repo, orgs: orgs, blobs: blobs}
}

func (s *Service) GetByID(ctx context.Context, id string) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserInfo(user), nil
}

func (s *Service) GetByLogin(ctx context.Context, login string) (*auth.UserInfo, error) {
	user, err := s.repo.GetByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		return nil, err
	}
	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	username, email, passwordHash string,
) (*auth.UserInfo, error) {
	user := &User{
		ID:           uuid.New().String(),
		Username:     strings.TrimSpace(username),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) IncrementTokenVersion(ctx context.Context, userID string) error {
	return s.repo.IncrementTokenVersion(ctx, userID)
}

func (s *Service) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateMe(
	ctx context.Context,
	userID string,
	req UpdateUserRequest,
) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("update me: %w", core.ErrUnauthorized)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = strings.TrimSpace(*req.Username)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteMe removes the account and, through cascades, every row it owns.
// File bytes of the account's organizations are purged afterwards; a failed
// purge is logged and leaves orphaned blobs.
func (s *Service) DeleteMe(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("delete me: %w", core.ErrUnauthorized)
	}

	var owned []organization.Organization
	if s.blobs != nil && s.orgs != nil {
		var err error
		if owned, err = s.orgs.ListByUser(ctx, userID); err != nil {
			return fmt.Errorf("delete me: %w", err)
		}
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}

	for _, o := range owned {
		if err := s.blobs.PurgeOrganization(ctx, o.ID); err != nil {
			slog.WarnContext(ctx, "organization blobs not purged",
				"user_id", userID,
				"organization_id", o.ID,
				"error", err,
			)
		}
	}

	slog.InfoContext(ctx, "account deleted",
		"user_id", userID,
		"organizations", len(owned),
	)
	return nil
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		TokenVersion: u.TokenVersion,
		CreatedAt:    u.CreatedAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)
