// AngelaMos | 2026
// board.go

package pipeline

import (
	"github.com/carterperez-dev/salescrm/internal/deal"
)

// BuildBoard buckets deals by stage id. Stages must already be in position
// order; deals keep their input order inside each column.
func BuildBoard(stages []Stage, deals []deal.Deal) Board {
	board := Board{
		Columns:  make([]Column, len(stages)),
		Unstaged: []deal.Deal{},
	}

	index := make(map[string]int, len(stages))
	for i, s := range stages {
		board.Columns[i] = Column{Stage: s, Deals: []deal.Deal{}}
		index[s.ID] = i
	}

	for _, d := range deals {
		if d.StageID != nil {
			if i, ok := index[*d.StageID]; ok {
				board.Columns[i].Deals = append(board.Columns[i].Deals, d)
				continue
			}
		}
		board.Unstaged = append(board.Unstaged, d)
	}

	return board
}
