// AngelaMos | 2026
// service.go

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carterperez-dev/salescrm/internal/core"
	"github.com/carterperez-dev/salescrm/internal/deal"
)

// DealLister returns a user's deals in creation order. The deal
// repository satisfies it.
type DealLister interface {
	ListByUser(ctx context.Context, userID string) ([]deal.Deal, error)
}

type Service struct {
	repo  Repository
	deals DealLister
	tx    core.Transactor
}

func NewService(repo Repository, deals DealLister, tx core.Transactor) *Service {
	return &Service{repo: repo, deals: deals, tx: tx}
}

func (s *Service) Create(ctx context.Context, userID string, req CreateStageRequest) (*Stage, error) {
	name, err := core.RequireText("name", req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, userID, name, ""); err != nil {
		return nil, err
	}

	st := &Stage{
		ID:     uuid.New().String(),
		UserID: userID,
		Name:   name,
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Service) ensureNameFree(ctx context.Context, userID, name, exceptID string) error {
	existing, err := s.repo.GetByName(ctx, userID, name)
	switch {
	case errors.Is(err, core.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID == exceptID:
		return nil
	}
	return fmt.Errorf("stage %q already exists: %w", name, core.ErrDuplicateKey)
}

func (s *Service) Get(ctx context.Context, userID, id string) (*Stage, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := core.RequireOwner("get stage", st.UserID, userID); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Stage, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Update(ctx context.Context, userID, id string, req UpdateStageRequest) (*Stage, error) {
	st, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name, err := core.RequireText("name", *req.Name)
		if err != nil {
			return nil, err
		}
		if err := s.ensureNameFree(ctx, userID, name, st.ID); err != nil {
			return nil, err
		}
		st.Name = name
	}
	if req.Position != nil {
		st.Position = *req.Position
	}

	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Reorder assigns positions 1..n following stageIDs, which must name each of
// the user's stages exactly once. All moves share one transaction so two
// stages can trade places.
func (s *Service) Reorder(ctx context.Context, userID string, req ReorderStagesRequest) ([]Stage, error) {
	var ordered []Stage

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		stages, err := s.repo.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		if len(req.StageIDs) != len(stages) {
			return fmt.Errorf("reorder must list all %d stages: %w", len(stages), core.ErrInvalidInput)
		}

		byID := make(map[string]Stage, len(stages))
		for _, st := range stages {
			byID[st.ID] = st
		}

		ordered = make([]Stage, 0, len(stages))
		for i, id := range req.StageIDs {
			st, ok := byID[id]
			if !ok {
				return fmt.Errorf("stage %s is not on the board or listed twice: %w", id, core.ErrInvalidInput)
			}
			delete(byID, id)

			st.Position = i + 1
			if err := s.repo.SetPosition(ctx, st.ID, st.Position); err != nil {
				return err
			}
			ordered = append(ordered, st)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ordered, nil
}

// Delete removes the stage. Its deals keep their stage label and fall back
// to the board's unstaged list.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) StageIDByName(ctx context.Context, userID, name string) (string, error) {
	st, err := s.repo.GetByName(ctx, userID, name)
	if err != nil {
		return "", err
	}
	return st.ID, nil
}

func (s *Service) Board(ctx context.Context, userID string) (Board, error) {
	stages, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return Board{}, err
	}

	deals, err := s.deals.ListByUser(ctx, userID)
	if err != nil {
		return Board{}, err
	}

	return BuildBoard(stages, deals), nil
}
