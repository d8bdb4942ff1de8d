// AngelaMos | 2026
// repository.go

package report

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/salescrm/internal/core"
)

type Repository interface {
	DealStats(ctx context.Context, userID string) ([]DealStat, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) DealStats(ctx context.Context, userID string) ([]DealStat, error) {
	query := `
		SELECT stage, value, created_at, closing_date
		FROM deals
		WHERE user_id = $1`

	stats := []DealStat{}
	if err := core.Conn(ctx, r.db).SelectContext(ctx, &stats, query, userID); err != nil {
		return nil, fmt.Errorf("load deal stats: %w", err)
	}
	return stats, nil
}
