// AngelaMos | 2026
// repository.go

package event

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/salescrm/internal/core"
)

type Repository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListByUser(ctx context.Context, userID string) ([]Event, error)
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id string) error

	CreateAttendee(ctx context.Context, a *Attendee) error
	GetAttendee(ctx context.Context, id string) (*Attendee, error)
	ListAttendees(ctx context.Context, eventID string) ([]Attendee, error)
	ListAttendancesByOrganization(ctx context.Context, orgID string) ([]Attendee, error)
	UpdateAttendee(ctx context.Context, a *Attendee) error
	DeleteAttendee(ctx context.Context, id string) error

	ListProspects(ctx context.Context, userID, eventID string) ([]Prospect, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const eventColumns = `id, user_id, name, event_date, location, created_at, updated_at`

func (r *repository) Create(ctx context.Context, e *Event) error {
	query := `
		INSERT INTO events (id, user_id, name, event_date, location)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	if err := core.Conn(ctx, r.db).QueryRowxContext(ctx, query,
		e.ID, e.UserID, e.Name, e.EventDate, e.Location,
	).Scan(&e.CreatedAt, &e.UpdatedAt); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var e Event
	if err := core.Conn(ctx, r.db).GetContext(ctx, &e, query, id); err != nil {
		return nil, core.NotFoundOr("get event", err)
	}
	return &e, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE user_id = $1
		ORDER BY event_date DESC, id`

	events := []Event{}
	if err := core.Conn(ctx, r.db).SelectContext(ctx, &events, query, userID); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (r *repository) Update(ctx context.Context, e *Event) error {
	query := `
		UPDATE events
		SET name = $2, event_date = $3, location = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	if err := core.Conn(ctx, r.db).GetContext(ctx, &e.UpdatedAt, query,
		e.ID, e.Name, e.EventDate, e.Location,
	); err != nil {
		return core.NotFoundOr("update event", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return core.ExecOne(ctx, core.Conn(ctx, r.db), "delete event", `DELETE FROM events WHERE id = $1`, id)
}

const attendeeSelect = `
	SELECT a.id, a.user_id, a.event_id, a.organization_id, a.registration_type, a.value,
		o.name AS organization_name, e.name AS event_name, e.event_date,
		a.created_at, a.updated_at
	FROM attendees a
	JOIN organizations o ON o.id = a.organization_id
	JOIN events e ON e.id = a.event_id`

func (r *repository) CreateAttendee(ctx context.Context, a *Attendee) error {
	query := `
		INSERT INTO attendees (id, user_id, event_id, organization_id, registration_type, value)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := core.Conn(ctx, r.db).QueryRowxContext(ctx, query,
		a.ID, a.UserID, a.EventID, a.OrganizationID, a.RegistrationType, a.Value,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("organization already attends this event: %w", core.ErrDuplicateKey)
		}
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("create attendee: %w", core.ErrNotFound)
		}
		return fmt.Errorf("create attendee: %w", err)
	}
	return nil
}

func (r *repository) GetAttendee(ctx context.Context, id string) (*Attendee, error) {
	query := attendeeSelect + ` WHERE a.id = $1`

	var a Attendee
	if err := core.Conn(ctx, r.db).GetContext(ctx, &a, query, id); err != nil {
		return nil, core.NotFoundOr("get attendee", err)
	}
	return &a, nil
}

func (r *repository) ListAttendees(ctx context.Context, eventID string) ([]Attendee, error) {
	query := attendeeSelect + ` WHERE a.event_id = $1 ORDER BY o.name, a.id`

	attendees := []Attendee{}
	if err := core.Conn(ctx, r.db).SelectContext(ctx, &attendees, query, eventID); err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	return attendees, nil
}

func (r *repository) ListAttendancesByOrganization(ctx context.Context, orgID string) ([]Attendee, error) {
	query := attendeeSelect + ` WHERE a.organization_id = $1 ORDER BY e.event_date DESC, a.id`

	attendees := []Attendee{}
	if err := core.Conn(ctx, r.db).SelectContext(ctx, &attendees, query, orgID); err != nil {
		return nil, fmt.Errorf("list attendances: %w", err)
	}
	return attendees, nil
}

func (r *repository) UpdateAttendee(ctx context.Context, a *Attendee) error {
	query := `
		UPDATE attendees
		SET registration_type = $2, value = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	if err := core.Conn(ctx, r.db).GetContext(ctx, &a.UpdatedAt, query,
		a.ID, a.RegistrationType, a.Value,
	); err != nil {
		return core.NotFoundOr("update attendee", err)
	}
	return nil
}

func (r *repository) DeleteAttendee(ctx context.Context, id string) error {
	return core.ExecOne(ctx, core.Conn(ctx, r.db), "delete attendee", `DELETE FROM attendees WHERE id = $1`, id)
}

func (r *repository) ListProspects(ctx context.Context, userID, eventID string) ([]Prospect, error) {
	query := `
		SELECT o.id, o.name
		FROM organizations o
		WHERE o.user_id = $1
			AND NOT EXISTS (
				SELECT 1 FROM attendees a
				WHERE a.event_id = $2 AND a.organization_id = o.id
			)
		ORDER BY o.name, o.id`

	prospects := []Prospect{}
	if err := core.Conn(ctx, r.db).SelectContext(ctx, &prospects, query, userID, eventID); err != nil {
		return nil, fmt.Errorf("list prospects: %w", err)
	}
	return prospects, nil
}
