// AngelaMos | 2026
// service.go

package organization

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/salescrm/internal/contact"
	"github.com/carterperez-dev/salescrm/internal/core"
	"github.com/carterperez-dev/salescrm/internal/deal"
	"github.com/carterperez-dev/salescrm/internal/event"
	"github.com/carterperez-dev/salescrm/internal/file"
)

// Authorizer checks organization ownership for the packages that attach
// rows to an organization. It only needs the repository, so it can be
// built before the services that feed the detail view.
type Authorizer struct {
	repo Repository
}

func NewAuthorizer(repo Repository) *Authorizer {
	return &Authorizer{repo: repo}
}

// Load returns the organization when userID owns it.
func (a *Authorizer) Load(ctx context.Context, userID, orgID string) (*Organization, error) {
	o, err := a.repo.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if err := core.RequireOwner("get organization", o.UserID, userID); err != nil {
		return nil, err
	}
	return o, nil
}

func (a *Authorizer) Authorize(ctx context.Context, userID, orgID string) error {
	_, err := a.Load(ctx, userID, orgID)
	return err
}

type ContactSource interface {
	ListByOrganization(ctx context.Context, orgID string) ([]contact.Contact, error)
}

type DealSource interface {
	ListByOrganization(ctx context.Context, orgID string) ([]deal.Deal, error)
}

type FileSource interface {
	ListByOrganization(ctx context.Context, orgID string) ([]file.File, error)
}

type AttendanceSource interface {
	ListByOrganization(ctx context.Context, orgID string) ([]event.Attendee, error)
}

// BlobPurger drops stored file bytes once their rows are gone.
type BlobPurger interface {
	PurgeOrganization(ctx context.Context, orgID string) error
}

type Sources struct {
	Contacts    ContactSource
	Deals       DealSource
	Files       FileSource
	Attendances AttendanceSource
	Blobs       BlobPurger
}

type Service struct {
	*Authorizer
	repo Repository
	src  Sources
}

func NewService(repo Repository, src Sources) *Service {
	return &Service{
		Authorizer: NewAuthorizer(repo),
		repo:       repo,
		src:        src,
	}
}

func (s *Service) Create(ctx context.Context, userID string, req CreateOrganizationRequest) (*Organization, error) {
	name, err := core.RequireText("name", req.Name)
	if err != nil {
		return nil, err
	}

	o := &Organization{
		ID:                   uuid.New().String(),
		UserID:               userID,
		Name:                 name,
		Country:              strings.TrimSpace(req.Country),
		SponsorshipPotential: strings.TrimSpace(req.SponsorshipPotential),
		StrategicNotes:       req.StrategicNotes,
	}
	if o.SponsorshipPotential == "" {
		o.SponsorshipPotential = DefaultSponsorshipPotential
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Organization, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Detail gathers everything attached to the organization.
func (s *Service) Detail(ctx context.Context, userID, id string) (*Detail, error) {
	o, err := s.Load(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	d := &Detail{Organization: o}

	if d.Contacts, err = s.src.Contacts.ListByOrganization(ctx, id); err != nil {
		return nil, err
	}
	if d.Deals, err = s.src.Deals.ListByOrganization(ctx, id); err != nil {
		return nil, err
	}
	if d.Files, err = s.src.Files.ListByOrganization(ctx, id); err != nil {
		return nil, err
	}
	if d.CustomFields, err = s.repo.ListFields(ctx, id); err != nil {
		return nil, err
	}
	if d.Attendances, err = s.src.Attendances.ListByOrganization(ctx, id); err != nil {
		return nil, err
	}

	return d, nil
}

func (s *Service) Update(
	ctx context.Context,
	userID, id string,
	req UpdateOrganizationRequest,
) (*Organization, error) {
	o, err := s.Load(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if o.Name, err = core.RequireText("name", *req.Name); err != nil {
			return nil, err
		}
	}
	if req.Country != nil {
		o.Country = strings.TrimSpace(*req.Country)
	}
	if req.SponsorshipPotential != nil {
		o.SponsorshipPotential = strings.TrimSpace(*req.SponsorshipPotential)
	}
	if req.StrategicNotes != nil {
		o.StrategicNotes = *req.StrategicNotes
	}

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Delete removes the organization and every row it owns in one statement,
// then purges the uploaded file bytes. A failed purge leaves orphaned blobs
// but does not fail the request.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Load(ctx, userID, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.src.Blobs.PurgeOrganization(ctx, id); err != nil {
		slog.WarnContext(ctx, "organization blobs not purged",
			"organization_id", id,
			"error", err,
		)
	}

	slog.InfoContext(ctx, "organization deleted", "organization_id", id)
	return nil
}

func (s *Service) CreateField(
	ctx context.Context,
	userID, orgID string,
	req CreateFieldRequest,
) (*CustomField, error) {
	if err := s.Authorize(ctx, userID, orgID); err != nil {
		return nil, err
	}

	f := &CustomField{
		ID:             uuid.New().String(),
		UserID:         userID,
		OrganizationID: orgID,
		FieldName:      strings.TrimSpace(req.FieldName),
		FieldValue:     strings.TrimSpace(req.FieldValue),
	}
	if err := s.repo.CreateField(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Service) ListFields(ctx context.Context, userID, orgID string) ([]CustomField, error) {
	if err := s.Authorize(ctx, userID, orgID); err != nil {
		return nil, err
	}
	return s.repo.ListFields(ctx, orgID)
}

func (s *Service) getField(ctx context.Context, userID, id string) (*CustomField, error) {
	f, err := s.repo.GetField(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := core.RequireOwner("get custom field", f.UserID, userID); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Service) UpdateField(
	ctx context.Context,
	userID, id string,
	req UpdateFieldRequest,
) (*CustomField, error) {
	f, err := s.getField(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.FieldName != nil {
		f.FieldName = strings.TrimSpace(*req.FieldName)
	}
	if req.FieldValue != nil {
		f.FieldValue = strings.TrimSpace(*req.FieldValue)
	}

	if err := s.repo.UpdateField(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Service) DeleteField(ctx context.Context, userID, id string) error {
	if _, err := s.getField(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.DeleteField(ctx, id)
}
