package services

import (
	"context"

	"github.com/Amanzhol04/esports-portal/models"
	"github.com/Amanzhol04/esports-portal/repositories"
	"golang.org/x/sync/errgroup"
)

// DashboardService собирает сводку для админ-панели; независимые счётчики
// читаются параллельно.
type DashboardService struct {
	userRepo       repositories.UserRepository
	tournamentRepo repositories.TournamentRepository
	regRepo        repositories.RegistrationRepository
}

func NewDashboardService(
	userRepo repositories.UserRepository,
	tournamentRepo repositories.TournamentRepository,
	regRepo repositories.RegistrationRepository,
) *DashboardService {
	return &DashboardService{
		userRepo:       userRepo,
		tournamentRepo: tournamentRepo,
		regRepo:        regRepo,
	}
}

func (s *DashboardService) Overview(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.userRepo.Count(gctx)
		stats.TotalUsers = count
		return err
	})
	g.Go(func() error {
		count, err := s.tournamentRepo.Count(gctx)
		stats.TotalTournaments = count
		return err
	})
	g.Go(func() error {
		count, err := s.regRepo.CountAll(gctx)
		stats.TotalRegistrations = count
		return err
	})
	g.Go(func() error {
		counts, err := s.regRepo.CountsByTournament(gctx, nil)
		stats.RegistrationsByTournament = counts
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
