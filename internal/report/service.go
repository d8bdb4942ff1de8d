// AngelaMos | 2026
// service.go

package report

import (
	"context"
	"time"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Summary(ctx context.Context, userID string) (Summary, error) {
	stats, err := s.repo.DealStats(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(stats, s.now()), nil
}

func (s *Service) Dashboard(ctx context.Context, userID string) (Dashboard, error) {
	stats, err := s.repo.DealStats(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	return BuildDashboard(stats), nil
}
