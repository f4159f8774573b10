package mocks

import (
	"context"

	"shadow-raffle/internal/domain/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type AdminRepositoryMock struct {
	mock.Mock
}

func (m *AdminRepositoryMock) GetUserByNickname(ctx context.Context, nickname string) (dto.UserDTO, string, error) {
	args := m.Called(ctx, nickname)
	return args.Get(0).(dto.UserDTO), args.String(1), args.Error(2)
}

func (m *AdminRepositoryMock) AdjustBalance(ctx context.Context, userID uuid.UUID, delta int, reason string, adminID *uuid.UUID, balanceCeiling int) (int, error) {
	args := m.Called(ctx, userID, delta, reason, adminID, balanceCeiling)
	return args.Int(0), args.Error(1)
}

func (m *AdminRepositoryMock) AddPrize(ctx context.Context, name, image, description string, price int) (dto.PrizeDTO, error) {
	args := m.Called(ctx, name, image, description, price)
	return args.Get(0).(dto.PrizeDTO), args.Error(1)
}
