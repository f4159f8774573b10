package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"shadow-raffle/internal/domain/dto"
	"shadow-raffle/internal/metrics"
	"shadow-raffle/internal/repository"

	"github.com/google/uuid"
)

type RaffleRepository interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (dto.UserDTO, error)
	CountAvailablePrizes(ctx context.Context) (int, error)
	ListUserWins(ctx context.Context, userID uuid.UUID) ([]dto.UserWinDTO, error)
	DrawPrize(ctx context.Context, userID uuid.UUID, flatCost int, singleWin bool) (repository.DrawOutcome, error)
}

type RaffleService struct {
	log       *slog.Logger
	repo      RaffleRepository
	drawCost  int
	singleWin bool
}

func NewRaffleService(log *slog.Logger, repo RaffleRepository, drawCost int, singleWin bool) *RaffleService {
	return &RaffleService{
		log:       log,
		repo:      repo,
		drawCost:  drawCost,
		singleWin: singleWin,
	}
}

// Draw проводит одну попытку розыгрыша. Ожидаемые отказы (уже выигрывал,
// мало монет, призы кончились) возвращаются как ответ с success=false и
// человекочитаемым сообщением; ошибкой наружу уходит только сбой хранилища.
// Предусловия проверяются в фиксированном порядке до транзакции и
// перепроверяются внутри нее, дотранзакционное чтение лишь выбирает ответ.
func (s *RaffleService) Draw(ctx context.Context, userID uuid.UUID) (dto.DrawResponse, error) {
	const op = "services.RaffleService.Draw"

	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", userID.String()),
	)

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return dto.DrawResponse{Success: false, Message: "user not found"}, nil
		}
		metrics.DrawsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return dto.DrawResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	if s.singleWin {
		resp, stop, err := s.alreadyWonResponse(ctx, op, userID)
		if err != nil {
			return dto.DrawResponse{}, err
		}
		if stop {
			return resp, nil
		}
	}

	if s.drawCost > 0 && user.Balance < s.drawCost {
		metrics.DrawsTotal.WithLabelValues(metrics.OutcomeInsufficient).Inc()
		return dto.DrawResponse{Success: false, Message: "not enough shadow coins"}, nil
	}

	available, err := s.repo.CountAvailablePrizes(ctx)
	if err != nil {
		metrics.DrawsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return dto.DrawResponse{}, fmt.Errorf("%s: %w", op, err)
	}
	if available == 0 {
		metrics.DrawsTotal.WithLabelValues(metrics.OutcomePoolEmpty).Inc()
		return dto.DrawResponse{Success: false, Message: "all prizes are gone"}, nil
	}

	outcome, err := s.repo.DrawPrize(ctx, userID, s.drawCost, s.singleWin)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyWon):
			// гонку на уникальности базы превращаем в тот же ответ,
			// что и обычный повторный заход, с именем уже выигранного приза
			resp, _, lookupErr := s.alreadyWonResponse(ctx, op, userID)
			if lookupErr != nil {
				return dto.DrawResponse{}, lookupErr
			}
			return resp, nil
		case errors.Is(err, repository.ErrPoolExhausted):
			metrics.DrawsTotal.WithLabelValues(metrics.OutcomePoolEmpty).Inc()
			return dto.DrawResponse{Success: false, Message: "all prizes are gone"}, nil
		case errors.Is(err, repository.ErrInsufficientFunds):
			metrics.DrawsTotal.WithLabelValues(metrics.OutcomeInsufficient).Inc()
			return dto.DrawResponse{Success: false, Message: "not enough shadow coins"}, nil
		case errors.Is(err, repository.ErrUserNotFound):
			return dto.DrawResponse{Success: false, Message: "user not found"}, nil
		}

		log.Error("draw failed", slog.String("error", err.Error()))
		metrics.DrawsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return dto.DrawResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("prize drawn",
		slog.String("prize_id", outcome.Prize.ID.String()),
		slog.Int("spent", outcome.Spent),
	)
	metrics.DrawsTotal.WithLabelValues(metrics.OutcomeWin).Inc()

	prize := outcome.Prize
	newBalance := outcome.NewBalance

	return dto.DrawResponse{
		Success:    true,
		Message:    fmt.Sprintf("your prize: %s", prize.Name),
		Prize:      &prize,
		NewBalance: &newBalance,
	}, nil
}

// alreadyWonResponse смотрит, есть ли у пользователя выигрыш, и если есть,
// строит отказ с именем его приза. stop=false значит выигрышей нет.
func (s *RaffleService) alreadyWonResponse(ctx context.Context, op string, userID uuid.UUID) (dto.DrawResponse, bool, error) {
	wins, err := s.repo.ListUserWins(ctx, userID)
	if err != nil {
		metrics.DrawsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return dto.DrawResponse{}, false, fmt.Errorf("%s: %w", op, err)
	}
	if len(wins) == 0 {
		return dto.DrawResponse{}, false, nil
	}

	metrics.DrawsTotal.WithLabelValues(metrics.OutcomeAlreadyWon).Inc()

	return dto.DrawResponse{
		Success: false,
		Message: fmt.Sprintf("you already claimed your prize: %s", wins[0].PrizeName),
	}, true, nil
}
