package services

import (
	"context"
	"fmt"
	"log/slog"

	"shadow-raffle/internal/domain/dto"
	"shadow-raffle/internal/domain/models"

	"github.com/google/uuid"
)

const (
	maxWinnersPage = 50
	statsTopN      = 10
)

type ReportRepository interface {
	ListAvailablePrizes(ctx context.Context) ([]dto.PrizeDTO, error)
	ListPublicWinners(ctx context.Context, limit int) ([]dto.PublicWinnerDTO, error)
	ListUserWins(ctx context.Context, userID uuid.UUID) ([]dto.UserWinDTO, error)
	ListAllUsers(ctx context.Context) ([]models.User, error)
	ListAllPrizes(ctx context.Context) ([]models.Prize, error)
	ListTransactions(ctx context.Context, userID *uuid.UUID) ([]models.CoinTransaction, error)
	GetStats(ctx context.Context, topN int) (dto.StatsResponse, error)
}

// ReportService это read-only проекции поверх хранилища, никаких мутаций.
type ReportService struct {
	log  *slog.Logger
	repo ReportRepository
}

func NewReportService(log *slog.Logger, repo ReportRepository) *ReportService {
	return &ReportService{
		log:  log,
		repo: repo,
	}
}

func (s *ReportService) ListAvailablePrizes(ctx context.Context) ([]dto.PrizeDTO, error) {
	const op = "services.ReportService.ListAvailablePrizes"

	prizes, err := s.repo.ListAvailablePrizes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return prizes, nil
}

// ListPublicWinners отдает публичную доску, страница ограничена сверху.
func (s *ReportService) ListPublicWinners(ctx context.Context, limit int) ([]dto.PublicWinnerDTO, error) {
	const op = "services.ReportService.ListPublicWinners"

	if limit <= 0 || limit > maxWinnersPage {
		limit = maxWinnersPage
	}

	winners, err := s.repo.ListPublicWinners(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return winners, nil
}

func (s *ReportService) ListUserWins(ctx context.Context, userID uuid.UUID) ([]dto.UserWinDTO, error) {
	const op = "services.ReportService.ListUserWins"

	wins, err := s.repo.ListUserWins(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return wins, nil
}

func (s *ReportService) ListAllUsers(ctx context.Context) ([]models.User, error) {
	const op = "services.ReportService.ListAllUsers"

	users, err := s.repo.ListAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}

func (s *ReportService) ListAllPrizes(ctx context.Context) ([]models.Prize, error) {
	const op = "services.ReportService.ListAllPrizes"

	prizes, err := s.repo.ListAllPrizes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return prizes, nil
}

func (s *ReportService) ListTransactions(ctx context.Context, userID *uuid.UUID) ([]models.CoinTransaction, error) {
	const op = "services.ReportService.ListTransactions"

	txs, err := s.repo.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return txs, nil
}

func (s *ReportService) GetStats(ctx context.Context) (dto.StatsResponse, error) {
	const op = "services.ReportService.GetStats"

	stats, err := s.repo.GetStats(ctx, statsTopN)
	if err != nil {
		return dto.StatsResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	return stats, nil
}
