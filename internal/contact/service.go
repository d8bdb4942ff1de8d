// AngelaMos | 2026
// service.go

package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/salescrm/internal/core"
)

// OrgAuthorizer confirms the user owns an organization before a child row
// is attached to it.
type OrgAuthorizer interface {
	Authorize(ctx context.Context, userID, orgID string) error
}

type Service struct {
	repo Repository
	orgs OrgAuthorizer
	now  func() time.Time
}

func NewService(repo Repository, orgs OrgAuthorizer) *Service {
	return &Service{
		repo: repo,
		orgs: orgs,
		now:  time.Now,
	}
}

func (s *Service) Create(
	ctx context.Context,
	userID, orgID string,
	req CreateContactRequest,
) (*Contact, error) {
	if err := s.orgs.Authorize(ctx, userID, orgID); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}

	name, err := core.RequireText("name", req.Name)
	if err != nil {
		return nil, err
	}

	c := &Contact{
		ID:             uuid.New().String(),
		UserID:         userID,
		OrganizationID: orgID,
		Name:           name,
		Title:          strings.TrimSpace(req.Title),
		Email:          strings.TrimSpace(req.Email),
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get loads a contact the user owns.
func (s *Service) Get(ctx context.Context, userID, id string) (*Contact, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := core.RequireOwner("get contact", c.UserID, userID); err != nil {
		return nil, err
	}
	return c, nil
}

// Authorize satisfies the ownership checks other packages make against
// contacts.
func (s *Service) Authorize(ctx context.Context, userID, contactID string) error {
	_, err := s.Get(ctx, userID, contactID)
	return err
}

func (s *Service) Detail(ctx context.Context, userID, id string) (*Detail, error) {
	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	interactions, err := s.repo.ListInteractions(ctx, id)
	if err != nil {
		return nil, err
	}
	tasks, err := s.repo.ListTasks(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Detail{Contact: c, Timeline: BuildTimeline(interactions, tasks)}, nil
}

// BuildTimeline merges interactions and tasks newest first. Interactions
// are placed at their occurrence time and tasks at their due date.
func BuildTimeline(interactions []Interaction, tasks []Task) []TimelineEntry {
	entries := make([]TimelineEntry, 0, len(interactions)+len(tasks))

	for _, i := range interactions {
		entries = append(entries, TimelineEntry{
			Kind:  "interaction",
			ID:    i.ID,
			Label: i.InteractionType,
			Notes: i.Notes,
			At:    i.OccurredAt,
		})
	}
	for _, t := range tasks {
		entries = append(entries, TimelineEntry{
			Kind:   "task",
			ID:     t.ID,
			Label:  t.Title,
			Status: t.Status,
			At:     t.DueDate,
		})
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].At.After(entries[b].At)
	})
	return entries
}

func (s *Service) ListByOrganization(ctx context.Context, userID, orgID string) ([]Contact, error) {
	if err := s.orgs.Authorize(ctx, userID, orgID); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return s.repo.ListByOrganization(ctx, orgID)
}

func (s *Service) Update(
	ctx context.Context,
	userID, id string,
	req UpdateContactRequest,
) (*Contact, error) {
	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if c.Name, err = core.RequireText("name", *req.Name); err != nil {
			return nil, err
		}
	}
	if req.Title != nil {
		c.Title = strings.TrimSpace(*req.Title)
	}
	if req.Email != nil {
		c.Email = strings.TrimSpace(*req.Email)
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) LogInteraction(
	ctx context.Context,
	userID, contactID string,
	req CreateInteractionRequest,
) (*Interaction, error) {
	if _, err := s.Get(ctx, userID, contactID); err != nil {
		return nil, err
	}

	occurredAt, err := s.parseOccurredAt(req.OccurredAt)
	if err != nil {
		return nil, err
	}

	i := &Interaction{
		ID:              uuid.New().String(),
		UserID:          userID,
		ContactID:       contactID,
		InteractionType: strings.TrimSpace(req.InteractionType),
		OccurredAt:      occurredAt,
		Notes:           req.Notes,
	}

	if err := s.repo.CreateInteraction(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *Service) parseOccurredAt(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return s.now().UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return core.ParseDate("occurred_at", value)
}

// LogEmailSent records an outbound email against the contact, with the
// subject and body kept in the notes.
func (s *Service) LogEmailSent(
	ctx context.Context,
	userID, contactID, subject, body string,
) (*Interaction, error) {
	i := &Interaction{
		ID:              uuid.New().String(),
		UserID:          userID,
		ContactID:       contactID,
		InteractionType: InteractionEmailSent,
		OccurredAt:      s.now().UTC(),
		Notes:           fmt.Sprintf("Subject: %s\n\n%s", subject, body),
	}

	if err := s.repo.CreateInteraction(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *Service) DeleteInteraction(ctx context.Context, userID, id string) error {
	i, err := s.repo.GetInteraction(ctx, id)
	if err != nil {
		return err
	}
	if err := core.RequireOwner("delete interaction", i.UserID, userID); err != nil {
		return err
	}
	return s.repo.DeleteInteraction(ctx, id)
}

func (s *Service) CreateTask(
	ctx context.Context,
	userID, contactID string,
	req CreateTaskRequest,
) (*Task, error) {
	if _, err := s.Get(ctx, userID, contactID); err != nil {
		return nil, err
	}

	due, err := core.ParseDate("due_date", req.DueDate)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = TaskStatusPending
	}

	t := &Task{
		ID:        uuid.New().String(),
		UserID:    userID,
		ContactID: contactID,
		Title:     strings.TrimSpace(req.Title),
		DueDate:   due,
		Status:    status,
	}

	if err := s.repo.CreateTask(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// CreateFollowUpTask attaches a pending task to the organization's oldest
// contact. It returns nil without error when the organization has none.
func (s *Service) CreateFollowUpTask(
	ctx context.Context,
	userID, orgID, title string,
	due time.Time,
) (*Task, error) {
	first, err := s.repo.FirstByOrganization(ctx, orgID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	t := &Task{
		ID:        uuid.New().String(),
		UserID:    userID,
		ContactID: first.ID,
		Title:     title,
		DueDate:   due,
		Status:    TaskStatusPending,
	}

	if err := s.repo.CreateTask(ctx, t); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "follow-up task created",
		"task_id", t.ID,
		"contact_id", first.ID,
		"organization_id", orgID,
	)
	return t, nil
}

func (s *Service) getTask(ctx context.Context, userID, id string) (*Task, error) {
	t, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := core.RequireOwner("get task", t.UserID, userID); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) UpdateTask(
	ctx context.Context,
	userID, id string,
	req UpdateTaskRequest,
) (*Task, error) {
	t, err := s.getTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		t.Title = strings.TrimSpace(*req.Title)
	}
	if req.DueDate != nil {
		due, err := core.ParseDate("due_date", *req.DueDate)
		if err != nil {
			return nil, err
		}
		t.DueDate = due
	}
	if req.Status != nil {
		t.Status = *req.Status
	}

	if err := s.repo.UpdateTask(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) DeleteTask(ctx context.Context, userID, id string) error {
	if _, err := s.getTask(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.DeleteTask(ctx, id)
}

func (s *Service) ListOpenTasks(ctx context.Context, userID string) ([]Task, error) {
	return s.repo.ListOpenTasks(ctx, userID)
}
