// AngelaMos | 2026
// dto.go

package pipeline

import (
	"time"

	"github.com/carterperez-dev/salescrm/internal/deal"
)

type CreateStageRequest struct {
	Name string `json:"name" form:"name" validate:"required,notblank,max=100"`
}

type UpdateStageRequest struct {
	Name     *string `json:"name,omitempty"     form:"name"     validate:"omitempty,notblank,max=100"`
	Position *int    `json:"position,omitempty" form:"position" validate:"omitempty,min=1"`
}

// ReorderStagesRequest lists every stage id in the new left to right order.
type ReorderStagesRequest struct {
	StageIDs []string `json:"stage_ids" form:"stage_ids" validate:"required,min=1,dive,uuid"`
}

type StageResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

type ColumnResponse struct {
	Stage      StageResponse       `json:"stage"`
	Deals      []deal.DealResponse `json:"deals"`
	TotalValue int64               `json:"total_value"`
}

type BoardResponse struct {
	Columns  []ColumnResponse    `json:"columns"`
	Unstaged []deal.DealResponse `json:"unstaged"`
}

func ToStageResponse(s *Stage) StageResponse {
	return StageResponse{
		ID:        s.ID,
		Name:      s.Name,
		Position:  s.Position,
		CreatedAt: s.CreatedAt,
	}
}

func ToStageResponseList(stages []Stage) []StageResponse {
	out := make([]StageResponse, 0, len(stages))
	for i := range stages {
		out = append(out, ToStageResponse(&stages[i]))
	}
	return out
}

func ToBoardResponse(b Board) BoardResponse {
	columns := make([]ColumnResponse, 0, len(b.Columns))
	for i := range b.Columns {
		col := &b.Columns[i]
		var total int64
		for _, d := range col.Deals {
			total += d.Value
		}
		columns = append(columns, ColumnResponse{
			Stage:      ToStageResponse(&col.Stage),
			Deals:      deal.ToDealResponseList(col.Deals),
			TotalValue: total,
		})
	}

	return BoardResponse{
		Columns:  columns,
		Unstaged: deal.ToDealResponseList(b.Unstaged),
	}
}
