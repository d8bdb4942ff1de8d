// AngelaMos | 2026
// entity.go

package pipeline

import (
	"time"

	"github.com/carterperez-dev/salescrm/internal/deal"
)

// Stage is a user defined kanban column. Position orders the columns and is
// unique per user.
type Stage struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	Position  int       `db:"position"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type Column struct {
	Stage Stage
	Deals []deal.Deal
}

// Board holds one column per stage in position order. Deals without a
// stage, or pinned to a stage that no longer exists, land in Unstaged.
type Board struct {
	Columns  []Column
	Unstaged []deal.Deal
}
