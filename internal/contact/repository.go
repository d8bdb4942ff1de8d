// AngelaMos | 2026
// repository.go

package contact

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/salescrm/internal/core"
)

type Repository interface {
	Create(ctx context.Context, c *Contact) error
	GetByID(ctx context.Context, id string) (*Contact, error)
	ListByOrganization(ctx context.Context, orgID string) ([]Contact, error)
	FirstByOrganization(ctx context.Context, orgID string) (*Contact, error)
	Update(ctx context.Context, c *Contact) error
	Delete(ctx context.Context, id string) error

	CreateInteraction(ctx context.Context, i *Interaction) error
	GetInteraction(ctx context.Context, id string) (*Interaction, error)
	ListInteractions(ctx context.Context, contactID string) ([]Interaction, error)
	DeleteInteraction(ctx context.Context, id string) error

	CreateTask(ctx context.Context, t *Task) error
	GetTask(ctx context.Context, id string) (*Task, error)
	ListTasks(ctx context.Context, contactID string) ([]Task, error)
	ListOpenTasks(ctx context.Context, userID string) ([]Task, error)
	UpdateTask(ctx context.Context, t *Task) error
	DeleteTask(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const contactColumns = `id, user_id, organization_id, name, title, email, created_at, updated_at`

func (r *repository) Create(ctx context.Context, c *Contact) error {
	query := `
		INSERT INTO contacts (id, user_id, organization_id, name, title, email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := core.Conn(ctx, r.db).QueryRowxContext(ctx, query,
		c.ID, c.UserID, c.OrganizationID, c.Name, c.Title, c.Email,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`

	var c Contact
	if err := core.Conn(ctx, r.db).GetContext(ctx, &c, query, id); err != nil {
		return nil, core.NotFoundOr("get contact", err)
	}
	return &c, nil
}

func (r *repository) ListByOrganization(ctx context.Context, orgID string) ([]Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE organization_id = $1
		ORDER BY created_at, id`

	contacts := []Contact{}
	if err := core.Conn(ctx, r.db).SelectContext(ctx, &contacts, query, orgID); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

// FirstByOrganization returns the oldest contact of the organization.
func (r *repository) FirstByOrganization(ctx context.Context, orgID string) (*Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE organization_id = $1
		ORDER BY created_at, id
		LIMIT 1`

	var c Contact
	if err := core.Conn(ctx, r.db).GetContext(ctx, &c, query, orgID); err != nil {
		return nil, core.NotFoundOr("first contact", err)
	}
	return &c, nil
}

func (r *repository) Update(ctx context.Context, c *Contact) error {
	query := `
		UPDATE contacts
		SET name = $2, title = $3, email = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	if err := core.Conn(ctx, r.db).GetContext(ctx, &c.UpdatedAt, query,
		c.ID, c.Name, c.Title, c.Email,
	); err != nil {
		return core.NotFoundOr("update contact", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return core.ExecOne(ctx, core.Conn(ctx, r.db), "delete contact", `DELETE FROM contacts WHERE id = $1`, id)
}

const interactionColumns = `id, user_id, contact_id, interaction_type, occurred_at, notes, created_at`

func (r *repository) CreateInteraction(ctx context.Context, i *Interaction) error {
	query := `
		INSERT INTO interactions (id, user_id, contact_id, interaction_type, occurred_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	if err := core.Conn(ctx, r.db).GetContext(ctx, &i.CreatedAt, query,
		i.ID, i.UserID, i.ContactID, i.InteractionType, i.OccurredAt, i.Notes,
	); err != nil {
		return fmt.Errorf("create interaction: %w", err)
	}
	return nil
}

func (r *repository) GetInteraction(ctx context.Context, id string) (*Interaction, error) {
	query := `SELECT ` + interactionColumns + ` FROM interactions WHERE id = $1`

	var i Interaction
	if err := core.Conn(ctx, r.db).GetContext(ctx, &i, query, id); err != nil {
		return nil, core.NotFoundOr("get interaction", err)
	}
	return &i, nil
}

func (r *repository) ListInteractions(ctx context.Context, contactID string) ([]Interaction, error) {
	query := `
		SELECT ` + interactionColumns + `
		FROM interactions
		WHERE contact_id = $1
		ORDER BY occurred_at DESC, id`

	interactions := []Interaction{}
	if err := core.Conn(ctx, r.db).SelectContext(ctx, &interactions, query, contactID); err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	return interactions, nil
}

func (r *repository) DeleteInteraction(ctx context.Context, id string) error {
	return core.ExecOne(ctx, core.Conn(ctx, r.db), "delete interaction", `DELETE FROM interactions WHERE id = $1`, id)
}

const taskColumns = `t.id, t.user_id, t.contact_id, t.title, t.due_date, t.status, t.created_at, t.updated_at`

func (r *repository) CreateTask(ctx context.Context, t *Task) error {
	query := `
		INSERT INTO tasks (id, user_id, contact_id, title, due_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := core.Conn(ctx, r.db).QueryRowxContext(ctx, query,
		t.ID, t.UserID, t.ContactID, t.Title, t.DueDate, t.Status,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *repository) GetTask(ctx context.Context, id string) (*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = $1`

	var t Task
	if err := core.Conn(ctx, r.db).GetContext(ctx, &t, query, id); err != nil {
		return nil, core.NotFoundOr("get task", err)
	}
	return &t, nil
}

func (r *repository) ListTasks(ctx context.Context, contactID string) ([]Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		WHERE t.contact_id = $1
		ORDER BY t.due_date DESC, t.id`

	tasks := []Task{}
	if err := core.Conn(ctx, r.db).SelectContext(ctx, &tasks, query, contactID); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *repository) ListOpenTasks(ctx context.Context, userID string) ([]Task, error) {
	query := `
		SELECT ` + taskColumns + `, c.name AS contact_name
		FROM tasks t
		JOIN contacts c ON c.id = t.contact_id
		WHERE t.user_id = $1 AND t.status <> $2
		ORDER BY t.due_date, t.id`

	tasks := []Task{}
	if err := core.Conn(ctx, r.db).SelectContext(ctx, &tasks, query, userID, TaskStatusCompleted); err != nil {
		return nil, fmt.Errorf("list open tasks: %w", err)
	}
	return tasks, nil
}

func (r *repository) UpdateTask(ctx context.Context, t *Task) error {
	query := `
		UPDATE tasks
		SET title = $2, due_date = $3, status = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	if err := core.Conn(ctx, r.db).GetContext(ctx, &t.UpdatedAt, query,
		t.ID, t.Title, t.DueDate, t.Status,
	); err != nil {
		return core.NotFoundOr("update task", err)
	}
	return nil
}

func (r *repository) DeleteTask(ctx context.Context, id string) error {
	return core.ExecOne(ctx, core.Conn(ctx, r.db), "delete task", `DELETE FROM tasks WHERE id = $1`, id)
}
