package mocks

import (
	"context"

	"shadow-raffle/internal/domain/dto"
	"shadow-raffle/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type RaffleRepositoryMock struct {
	mock.Mock
}

func (m *RaffleRepositoryMock) GetUserByID(ctx context.Context, userID uuid.UUID) (dto.UserDTO, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(dto.UserDTO), args.Error(1)
}

func (m *RaffleRepositoryMock) CountAvailablePrizes(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *RaffleRepositoryMock) ListUserWins(ctx context.Context, userID uuid.UUID) ([]dto.UserWinDTO, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]dto.UserWinDTO), args.Error(1)
}

func (m *RaffleRepositoryMock) DrawPrize(ctx context.Context, userID uuid.UUID, flatCost int, singleWin bool) (repository.DrawOutcome, error) {
	args := m.Called(ctx, userID, flatCost, singleWin)
	return args.Get(0).(repository.DrawOutcome), args.Error(1)
}
