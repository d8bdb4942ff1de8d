// AngelaMos | 2026
// service.go

package event

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/salescrm/internal/core"
)

type OrgAuthorizer interface {
	Authorize(ctx context.Context, userID, orgID string) error
}

type Service struct {
	repo Repository
	orgs OrgAuthorizer
}

func NewService(repo Repository, orgs OrgAuthorizer) *Service {
	return &Service{repo: repo, orgs: orgs}
}

func (s *Service) Create(ctx context.Context, userID string, req CreateEventRequest) (*Event, error) {
	name, err := core.RequireText("name", req.Name)
	if err != nil {
		return nil, err
	}

	date, err := core.ParseDate("event_date", req.EventDate)
	if err != nil {
		return nil, err
	}

	e := &Event{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		EventDate: date,
		Location:  strings.TrimSpace(req.Location),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (*Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := core.RequireOwner("get event", e.UserID, userID); err != nil {
		return nil, err
	}
	return e, nil
}

// Detail returns the event with its attendees, the revenue they bring and
// the user's organizations that are not attending yet.
func (s *Service) Detail(ctx context.Context, userID, id string) (*Detail, error) {
	e, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	attendees, err := s.repo.ListAttendees(ctx, id)
	if err != nil {
		return nil, err
	}
	prospects, err := s.repo.ListProspects(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	return &Detail{
		Event:        e,
		Attendees:    attendees,
		TotalRevenue: TotalRevenue(attendees),
		Prospects:    prospects,
	}, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Event, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Update(ctx context.Context, userID, id string, req UpdateEventRequest) (*Event, error) {
	e, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if e.Name, err = core.RequireText("name", *req.Name); err != nil {
			return nil, err
		}
	}
	if req.EventDate != nil {
		date, err := core.ParseDate("event_date", *req.EventDate)
		if err != nil {
			return nil, err
		}
		e.EventDate = date
	}
	if req.Location != nil {
		e.Location = strings.TrimSpace(*req.Location)
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// AddAttendee registers one of the user's organizations at one of the
// user's events. An organization attends an event at most once.
func (s *Service) AddAttendee(
	ctx context.Context,
	userID, eventID string,
	req CreateAttendeeRequest,
) (*Attendee, error) {
	e, err := s.Get(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.orgs.Authorize(ctx, userID, req.OrganizationID); err != nil {
		return nil, fmt.Errorf("add attendee: %w", err)
	}

	a := &Attendee{
		ID:               uuid.New().String(),
		UserID:           userID,
		EventID:          e.ID,
		OrganizationID:   req.OrganizationID,
		RegistrationType: strings.TrimSpace(req.RegistrationType),
		Value:            req.Value,
		EventName:        e.Name,
		EventDate:        e.EventDate,
	}
	if err := s.repo.CreateAttendee(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) getAttendee(ctx context.Context, userID, id string) (*Attendee, error) {
	a, err := s.repo.GetAttendee(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := core.RequireOwner("get attendee", a.UserID, userID); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) UpdateAttendee(
	ctx context.Context,
	userID, id string,
	req UpdateAttendeeRequest,
) (*Attendee, error) {
	a, err := s.getAttendee(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.RegistrationType != nil {
		a.RegistrationType = strings.TrimSpace(*req.RegistrationType)
	}
	if req.Value != nil {
		a.Value = *req.Value
	}

	if err := s.repo.UpdateAttendee(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) RemoveAttendee(ctx context.Context, userID, id string) error {
	if _, err := s.getAttendee(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.DeleteAttendee(ctx, id)
}

// ListByOrganization returns the events an organization attends, for the
// organization detail view. The caller has already authorized orgID.
func (s *Service) ListByOrganization(ctx context.Context, orgID string) ([]Attendee, error) {
	return s.repo.ListAttendancesByOrganization(ctx, orgID)
}
