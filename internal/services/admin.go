package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"shadow-raffle/internal/domain/dto"
	"shadow-raffle/internal/metrics"
	"shadow-raffle/internal/middlewares"

	"github.com/google/uuid"
)

var (
	ErrGrantTooLarge = errors.New("amount exceeds per-transaction ceiling")
	ErrEmptyPrize    = errors.New("prize name must not be empty")
)

type AdminRepository interface {
	GetUserByNickname(ctx context.Context, nickname string) (dto.UserDTO, string, error)
	AdjustBalance(ctx context.Context, userID uuid.UUID, delta int, reason string, adminID *uuid.UUID, balanceCeiling int) (int, error)
	AddPrize(ctx context.Context, name, image, description string, price int) (dto.PrizeDTO, error)
}

type AdminService struct {
	log            *slog.Logger
	repo           AdminRepository
	grantMaxPerTx  int
	balanceCeiling int
}

func NewAdminService(log *slog.Logger, repo AdminRepository, grantMaxPerTx, balanceCeiling int) *AdminService {
	return &AdminService{
		log:            log,
		repo:           repo,
		grantMaxPerTx:  grantMaxPerTx,
		balanceCeiling: balanceCeiling,
	}
}

// GrantCoins начисляет монеты пользователю. Порядок проверок фиксирован:
// сумма парсится, сравнивается с потолком на операцию, затем ищется
// пользователь; потолок итогового баланса проверяет само хранилище под
// блокировкой строки.
func (s *AdminService) GrantCoins(ctx context.Context, nickname, amountRaw, reason string, adminID uuid.UUID) (int, error) {
	const op = "services.AdminService.GrantCoins"

	newBalance, err := s.adjust(ctx, op, nickname, amountRaw, reason, adminID, false)
	if err != nil {
		return 0, err
	}

	metrics.CoinsAdjustedTotal.WithLabelValues("grant").Inc()

	return newBalance, nil
}

// RevokeCoins списывает монеты; уйти в минус хранилище не даст.
func (s *AdminService) RevokeCoins(ctx context.Context, nickname, amountRaw, reason string, adminID uuid.UUID) (int, error) {
	const op = "services.AdminService.RevokeCoins"

	newBalance, err := s.adjust(ctx, op, nickname, amountRaw, reason, adminID, true)
	if err != nil {
		return 0, err
	}

	metrics.CoinsAdjustedTotal.WithLabelValues("revoke").Inc()

	return newBalance, nil
}

func (s *AdminService) adjust(ctx context.Context, op, nickname, amountRaw, reason string, adminID uuid.UUID, revoke bool) (int, error) {
	log := s.log.With(
		slog.String("op", op),
		slog.String("nickname", nickname),
		slog.String("admin_id", adminID.String()),
	)

	amount, err := middlewares.CheckAmount(amountRaw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if amount > s.grantMaxPerTx {
		return 0, fmt.Errorf("%s: %w", op, ErrGrantTooLarge)
	}

	user, _, err := s.repo.GetUserByNickname(ctx, nickname)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	delta := amount
	ceiling := s.balanceCeiling
	if revoke {
		delta = -amount
		ceiling = 0
	}

	newBalance, err := s.repo.AdjustBalance(ctx, user.ID, delta, reason, &adminID, ceiling)
	if err != nil {
		log.Error("balance adjustment failed", slog.String("error", err.Error()))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("balance adjusted", slog.Int("delta", delta), slog.Int("new_balance", newBalance))

	return newBalance, nil
}

func (s *AdminService) AddPrize(ctx context.Context, req dto.AddPrizeRequest) (dto.PrizeDTO, error) {
	const op = "services.AdminService.AddPrize"

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return dto.PrizeDTO{}, fmt.Errorf("%s: %w", op, ErrEmptyPrize)
	}
	if req.Price < 0 {
		return dto.PrizeDTO{}, fmt.Errorf("%s: %w", op, middlewares.ErrInvalidAmount)
	}

	prize, err := s.repo.AddPrize(ctx, name, req.Image, req.Description, req.Price)
	if err != nil {
		return dto.PrizeDTO{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("prize added",
		slog.String("op", op),
		slog.String("prize_id", prize.ID.String()),
		slog.String("name", prize.Name),
	)

	return prize, nil
}
