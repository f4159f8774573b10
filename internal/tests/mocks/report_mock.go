package mocks

import (
	"context"

	"shadow-raffle/internal/domain/dto"
	"shadow-raffle/internal/domain/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type ReportRepositoryMock struct {
	mock.Mock
}

func (m *ReportRepositoryMock) ListAvailablePrizes(ctx context.Context) ([]dto.PrizeDTO, error) {
	args := m.Called(ctx)
	return args.Get(0).([]dto.PrizeDTO), args.Error(1)
}

func (m *ReportRepositoryMock) ListPublicWinners(ctx context.Context, limit int) ([]dto.PublicWinnerDTO, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]dto.PublicWinnerDTO), args.Error(1)
}

func (m *ReportRepositoryMock) ListUserWins(ctx context.Context, userID uuid.UUID) ([]dto.UserWinDTO, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]dto.UserWinDTO), args.Error(1)
}

func (m *ReportRepositoryMock) ListAllUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *ReportRepositoryMock) ListAllPrizes(ctx context.Context) ([]models.Prize, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Prize), args.Error(1)
}

func (m *ReportRepositoryMock) ListTransactions(ctx context.Context, userID *uuid.UUID) ([]models.CoinTransaction, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.CoinTransaction), args.Error(1)
}

func (m *ReportRepositoryMock) GetStats(ctx context.Context, topN int) (dto.StatsResponse, error) {
	args := m.Called(ctx, topN)
	return args.Get(0).(dto.StatsResponse), args.Error(1)
}
