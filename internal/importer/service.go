// AngelaMos | 2026
// service.go

package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/salescrm/internal/core"
	"github.com/carterperez-dev/salescrm/internal/organization"
)

// OrgStore is the part of the organization repository an import writes
// through. It must honor the transaction carried by ctx.
type OrgStore interface {
	ExistsByName(ctx context.Context, userID, name string) (bool, error)
	Create(ctx context.Context, o *organization.Organization) error
}

type Result struct {
	Imported int
	Skipped  int
}

type Service struct {
	orgs OrgStore
	tx   core.Transactor
}

func NewService(orgs OrgStore, tx core.Transactor) *Service {
	return &Service{orgs: orgs, tx: tx}
}

// Import creates an organization for every row whose Org is not blank and
// not already taken by the user, including by an earlier row of the same
// file. All inserts commit together; any failure rolls back the whole file.
func (s *Service) Import(ctx context.Context, userID string, r io.Reader) (result Result, err error) {
	ctx, span := core.StartSpan(ctx, "importer.import")
	defer func() {
		span.SetAttributes(
			attribute.Int("import.imported", result.Imported),
			attribute.Int("import.skipped", result.Skipped),
		)
		core.EndSpan(span, err)
	}()

	rows, err := ParseCSV(r)
	if err != nil {
		return Result{}, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		result = Result{}
		for _, row := range rows {
			created, err := s.importRow(ctx, userID, row)
			if err != nil {
				return fmt.Errorf("import line %d: %w", row.Line, err)
			}
			if created {
				result.Imported++
			} else {
				result.Skipped++
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	core.RecordImport(result.Imported, result.Skipped)
	slog.InfoContext(ctx, "organizations imported",
		"user_id", userID,
		"imported", result.Imported,
		"skipped", result.Skipped,
	)
	return result, nil
}

func (s *Service) importRow(ctx context.Context, userID string, row Row) (bool, error) {
	if row.Org == "" {
		return false, nil
	}

	exists, err := s.orgs.ExistsByName(ctx, userID, row.Org)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	sponsorship := row.Sponsorship
	if sponsorship == "" {
		sponsorship = organization.DefaultSponsorshipPotential
	}

	o := &organization.Organization{
		ID:                   uuid.New().String(),
		UserID:               userID,
		Name:                 row.Org,
		Country:              row.Country,
		SponsorshipPotential: sponsorship,
	}
	if err := s.orgs.Create(ctx, o); err != nil {
		return false, err
	}
	return true, nil
}
