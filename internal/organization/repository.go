// AngelaMos | 2026
// repository.go

package organization

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/salescrm/internal/core"
)

type Repository interface {
	Create(ctx context.Context, o *Organization) error
	GetByID(ctx context.Context, id string) (*Organization, error)
	ListByUser(ctx context.Context, userID string) ([]Organization, error)
	ExistsByName(ctx context.Context, userID, name string) (bool, error)
	Update(ctx context.Context, o *Organization) error
	Delete(ctx context.Context, id string) error

	CreateField(ctx context.Context, f *CustomField) error
	GetField(ctx context.Context, id string) (*CustomField, error)
	ListFields(ctx context.Context, orgID string) ([]CustomField, error)
	UpdateField(ctx context.Context, f *CustomField) error
	DeleteField(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const orgColumns = `id, user_id, name, country, sponsorship_potential, strategic_notes, created_at, updated_at`

func (r *repository) Create(ctx context.Context, o *Organization) error {
	query := `
		INSERT INTO organizations (id, user_id, name, country, sponsorship_potential, strategic_notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	if err := core.Conn(ctx, r.db).QueryRowxContext(ctx, query,
		o.ID, o.UserID, o.Name, o.Country, o.SponsorshipPotential, o.StrategicNotes,
	).Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
		return fmt.Errorf("create organization: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE id = $1`

	var o Organization
	if err := core.Conn(ctx, r.db).GetContext(ctx, &o, query, id); err != nil {
		return nil, core.NotFoundOr("get organization", err)
	}
	return &o, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Organization, error) {
	query := `
		SELECT ` + orgColumns + `
		FROM organizations
		WHERE user_id = $1
		ORDER BY name, id`

	orgs := []Organization{}
	if err := core.Conn(ctx, r.db).SelectContext(ctx, &orgs, query, userID); err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	return orgs, nil
}

// ExistsByName matches the name exactly, case and whitespace included.
func (r *repository) ExistsByName(ctx context.Context, userID, name string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM organizations WHERE user_id = $1 AND name = $2)`

	var exists bool
	if err := core.Conn(ctx, r.db).GetContext(ctx, &exists, query, userID, name); err != nil {
		return false, fmt.Errorf("check organization name: %w", err)
	}
	return exists, nil
}

func (r *repository) Update(ctx context.Context, o *Organization) error {
	query := `
		UPDATE organizations
		SET name = $2, country = $3, sponsorship_potential = $4, strategic_notes = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	if err := core.Conn(ctx, r.db).GetContext(ctx, &o.UpdatedAt, query,
		o.ID, o.Name, o.Country, o.SponsorshipPotential, o.StrategicNotes,
	); err != nil {
		return core.NotFoundOr("update organization", err)
	}
	return nil
}

// Delete removes the organization. Contacts, deals, files, custom fields
// and attendances go with it through ON DELETE CASCADE.
func (r *repository) Delete(ctx context.Context, id string) error {
	return core.ExecOne(ctx, core.Conn(ctx, r.db), "delete organization",
		`DELETE FROM organizations WHERE id = $1`, id)
}

const fieldColumns = `id, user_id, organization_id, field_name, field_value, created_at, updated_at`

func (r *repository) CreateField(ctx context.Context, f *CustomField) error {
	query := `
		INSERT INTO custom_fields (id, user_id, organization_id, field_name, field_value)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	if err := core.Conn(ctx, r.db).QueryRowxContext(ctx, query,
		f.ID, f.UserID, f.OrganizationID, f.FieldName, f.FieldValue,
	).Scan(&f.CreatedAt, &f.UpdatedAt); err != nil {
		return fmt.Errorf("create custom field: %w", err)
	}
	return nil
}

func (r *repository) GetField(ctx context.Context, id string) (*CustomField, error) {
	query := `SELECT ` + fieldColumns + ` FROM custom_fields WHERE id = $1`

	var f CustomField
	if err := core.Conn(ctx, r.db).GetContext(ctx, &f, query, id); err != nil {
		return nil, core.NotFoundOr("get custom field", err)
	}
	return &f, nil
}

func (r *repository) ListFields(ctx context.Context, orgID string) ([]CustomField, error) {
	query := `
		SELECT ` + fieldColumns + `
		FROM custom_fields
		WHERE organization_id = $1
		ORDER BY created_at, id`

	fields := []CustomField{}
	if err := core.Conn(ctx, r.db).SelectContext(ctx, &fields, query, orgID); err != nil {
		return nil, fmt.Errorf("list custom fields: %w", err)
	}
	return fields, nil
}

func (r *repository) UpdateField(ctx context.Context, f *CustomField) error {
	query := `
		UPDATE custom_fields
		SET field_name = $2, field_value = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	if err := core.Conn(ctx, r.db).GetContext(ctx, &f.UpdatedAt, query, f.ID, f.FieldName, f.FieldValue); err != nil {
		return core.NotFoundOr("update custom field", err)
	}
	return nil
}

func (r *repository) DeleteField(ctx context.Context, id string) error {
	return core.ExecOne(ctx, core.Conn(ctx, r.db), "delete custom field",
		`DELETE FROM custom_fields WHERE id = $1`, id)
}
