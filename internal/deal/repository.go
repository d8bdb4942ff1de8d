// AngelaMos | 2026
// repository.go

package deal

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/salescrm/internal/core"
)

type Repository interface {
	Create(ctx context.Context, d *Deal) error
	GetByID(ctx context.Context, id string) (*Deal, error)
	ListByUser(ctx context.Context, userID string) ([]Deal, error)
	ListByOrganization(ctx context.Context, orgID string) ([]Deal, error)
	Update(ctx context.Context, d *Deal) error
	Delete(ctx context.Context, id string) error

	UpsertParticipant(ctx context.Context, p *Participant) error
	DeleteParticipant(ctx context.Context, dealID, contactID string) error
	ListParticipants(ctx context.Context, dealID string) ([]Participant, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const dealColumns = `id, user_id, organization_id, stage_id, name, value, stage, closing_date, created_at, updated_at`

func (r *repository) Create(ctx context.Context, d *Deal) error {
	query := `
		INSERT INTO deals (id, user_id, organization_id, stage_id, name, value, stage, closing_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	if err := core.Conn(ctx, r.db).QueryRowxContext(ctx, query,
		d.ID, d.UserID, d.OrganizationID, d.StageID, d.Name, d.Value, d.Stage, d.ClosingDate,
	).Scan(&d.CreatedAt, &d.UpdatedAt); err != nil {
		return fmt.Errorf("create deal: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE id = $1`

	var d Deal
	if err := core.Conn(ctx, r.db).GetContext(ctx, &d, query, id); err != nil {
		return nil, core.NotFoundOr("get deal", err)
	}
	return &d, nil
}

// ListByUser returns deals in creation order, which the pipeline board
// relies on for the order inside each column.
func (r *repository) ListByUser(ctx context.Context, userID string) ([]Deal, error) {
	query := `
		SELECT ` + dealColumns + `
		FROM deals
		WHERE user_id = $1
		ORDER BY created_at, id`

	deals := []Deal{}
	if err := core.Conn(ctx, r.db).SelectContext(ctx, &deals, query, userID); err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	return deals, nil
}

func (r *repository) ListByOrganization(ctx context.Context, orgID string) ([]Deal, error) {
	query := `
		SELECT ` + dealColumns + `
		FROM deals
		WHERE organization_id = $1
		ORDER BY created_at, id`

	deals := []Deal{}
	if err := core.Conn(ctx, r.db).SelectContext(ctx, &deals, query, orgID); err != nil {
		return nil, fmt.Errorf("list organization deals: %w", err)
	}
	return deals, nil
}

func (r *repository) Update(ctx context.Context, d *Deal) error {
	query := `
		UPDATE deals
		SET name = $2, value = $3, stage = $4, stage_id = $5, closing_date = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	if err := core.Conn(ctx, r.db).GetContext(ctx, &d.UpdatedAt, query,
		d.ID, d.Name, d.Value, d.Stage, d.StageID, d.ClosingDate,
	); err != nil {
		return core.NotFoundOr("update deal", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return core.ExecOne(ctx, core.Conn(ctx, r.db), "delete deal", `DELETE FROM deals WHERE id = $1`, id)
}

func (r *repository) UpsertParticipant(ctx context.Context, p *Participant) error {
	query := `
		INSERT INTO deal_contacts (deal_id, contact_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (deal_id, contact_id) DO UPDATE SET role = EXCLUDED.role`

	if _, err := core.Conn(ctx, r.db).ExecContext(ctx, query, p.DealID, p.ContactID, p.Role); err != nil {
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("link deal contact: %w", core.ErrNotFound)
		}
		return fmt.Errorf("link deal contact: %w", err)
	}
	return nil
}

func (r *repository) DeleteParticipant(ctx context.Context, dealID, contactID string) error {
	return core.ExecOne(ctx, core.Conn(ctx, r.db), "unlink deal contact",
		`DELETE FROM deal_contacts WHERE deal_id = $1 AND contact_id = $2`, dealID, contactID)
}

func (r *repository) ListParticipants(ctx context.Context, dealID string) ([]Participant, error) {
	query := `
		SELECT dc.deal_id, dc.contact_id, dc.role, c.name, c.email
		FROM deal_contacts dc
		JOIN contacts c ON c.id = dc.contact_id
		WHERE dc.deal_id = $1
		ORDER BY c.name, c.id`

	participants := []Participant{}
	if err := core.Conn(ctx, r.db).SelectContext(ctx, &participants, query, dealID); err != nil {
		return nil, fmt.Errorf("list deal contacts: %w", err)
	}
	return participants, nil
}
