// AngelaMos | 2026
// service.go

package deal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/salescrm/internal/contact"
	"github.com/carterperez-dev/salescrm/internal/core"
)

type OrgAuthorizer interface {
	Authorize(ctx context.Context, userID, orgID string) error
}

// ContactLookup loads a contact the user owns.
type ContactLookup interface {
	Get(ctx context.Context, userID, id string) (*contact.Contact, error)
}

// StageResolver finds one of the user's own pipeline stages by name. It
// returns core.ErrNotFound when the user has no stage with that name.
type StageResolver interface {
	StageIDByName(ctx context.Context, userID, name string) (string, error)
}

type Service struct {
	repo     Repository
	tx       core.Transactor
	orgs     OrgAuthorizer
	contacts ContactLookup
	stages   StageResolver
	followUp FollowUpScheduler
	now      func() time.Time
}

type Deps struct {
	Repo     Repository
	Tx       core.Transactor
	Orgs     OrgAuthorizer
	Contacts ContactLookup
	Stages   StageResolver
	FollowUp FollowUpScheduler
}

func NewService(deps Deps) *Service {
	return &Service{
		repo:     deps.Repo,
		tx:       deps.Tx,
		orgs:     deps.Orgs,
		contacts: deps.Contacts,
		stages:   deps.Stages,
		followUp: deps.FollowUp,
		now:      time.Now,
	}
}

// StageChange is the result of moving a deal. Task is set when a stage rule
// created one.
type StageChange struct {
	Deal *Deal
	Task *contact.Task
}

func (s *Service) Create(
	ctx context.Context,
	userID, orgID string,
	req CreateDealRequest,
) (*Deal, error) {
	if err := s.orgs.Authorize(ctx, userID, orgID); err != nil {
		return nil, fmt.Errorf("create deal: %w", err)
	}

	name, err := core.RequireText("name", req.Name)
	if err != nil {
		return nil, err
	}

	d := &Deal{
		ID:             uuid.New().String(),
		UserID:         userID,
		OrganizationID: orgID,
		Name:           name,
		Value:          req.Value,
		Stage:          StageLead,
	}

	if stage := strings.TrimSpace(req.Stage); stage != "" {
		label, stageID, err := s.resolveStage(ctx, userID, stage)
		if err != nil {
			return nil, err
		}
		d.Stage, d.StageID = label, stageID
	}

	if req.ClosingDate != "" {
		closing, err := core.ParseDate("closing_date", req.ClosingDate)
		if err != nil {
			return nil, err
		}
		d.ClosingDate = &closing
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (*Deal, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := core.RequireOwner("get deal", d.UserID, userID); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Detail(ctx context.Context, userID, id string) (*Detail, error) {
	d, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	participants, err := s.repo.ListParticipants(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Detail{Deal: d, Participants: participants}, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Deal, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListByOrganization(ctx context.Context, userID, orgID string) ([]Deal, error) {
	if err := s.orgs.Authorize(ctx, userID, orgID); err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	return s.repo.ListByOrganization(ctx, orgID)
}

func (s *Service) Update(
	ctx context.Context,
	userID, id string,
	req UpdateDealRequest,
) (*Deal, error) {
	d, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if d.Name, err = core.RequireText("name", *req.Name); err != nil {
			return nil, err
		}
	}
	if req.Value != nil {
		d.Value = *req.Value
	}
	if req.ClosingDate != nil {
		if *req.ClosingDate == "" {
			d.ClosingDate = nil
		} else {
			closing, err := core.ParseDate("closing_date", *req.ClosingDate)
			if err != nil {
				return nil, err
			}
			d.ClosingDate = &closing
		}
	}

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// UpdateStage moves a deal to newStage and runs the rule registered for
// that stage. The stage write and the rule's task commit together.
func (s *Service) UpdateStage(
	ctx context.Context,
	userID, dealID, newStage string,
) (result *StageChange, err error) {
	ctx, span := core.StartSpan(ctx, "deal.update_stage",
		attribute.String("deal.id", dealID),
		attribute.String("deal.stage", newStage),
	)
	defer func() { core.EndSpan(span, err) }()

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		d, err := s.Get(ctx, userID, dealID)
		if err != nil {
			return err
		}

		name, err := core.RequireText("new_stage", newStage)
		if err != nil {
			return err
		}

		label, stageID, err := s.resolveStage(ctx, userID, name)
		if err != nil {
			return err
		}

		result = &StageChange{Deal: d}

		if rule := ruleFor(label); rule != nil {
			task, err := rule(ctx, RuleEnv{UserID: userID, Now: s.now(), FollowUp: s.followUp}, d)
			if err != nil {
				return fmt.Errorf("stage rule %q: %w", label, err)
			}
			result.Task = task
		}

		d.Stage, d.StageID = label, stageID
		return s.repo.Update(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	core.RecordStageTransition(result.Deal.Stage)
	if result.Task != nil {
		core.RecordAutomatedTask()
		slog.InfoContext(ctx, "automated task created",
			"deal_id", dealID,
			"task_id", result.Task.ID,
			"title", result.Task.Title,
		)
	}
	return result, nil
}

// resolveStage accepts one of the user's pipeline stage names, which also
// pins the deal to that stage, or a default stage label, which unpins it.
func (s *Service) resolveStage(ctx context.Context, userID, name string) (string, *string, error) {
	if name == "" {
		return "", nil, fmt.Errorf("new_stage is required: %w", core.ErrInvalidInput)
	}

	id, err := s.stages.StageIDByName(ctx, userID, name)
	switch {
	case err == nil:
		return name, &id, nil
	case !errors.Is(err, core.ErrNotFound):
		return "", nil, err
	}

	if IsDefaultStage(name) {
		return name, nil, nil
	}
	return "", nil, fmt.Errorf("invalid stage %q: %w", name, core.ErrInvalidInput)
}

func (s *Service) AddParticipant(
	ctx context.Context,
	userID, dealID string,
	req AddParticipantRequest,
) (*Participant, error) {
	if _, err := s.Get(ctx, userID, dealID); err != nil {
		return nil, err
	}

	c, err := s.contacts.Get(ctx, userID, req.ContactID)
	if err != nil {
		return nil, fmt.Errorf("link contact: %w", err)
	}

	p := &Participant{
		DealID:    dealID,
		ContactID: c.ID,
		Role:      strings.TrimSpace(req.Role),
		Name:      c.Name,
		Email:     c.Email,
	}
	if err := s.repo.UpsertParticipant(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) RemoveParticipant(ctx context.Context, userID, dealID, contactID string) error {
	if _, err := s.Get(ctx, userID, dealID); err != nil {
		return err
	}
	return s.repo.DeleteParticipant(ctx, dealID, contactID)
}
