package mocks

import (
	"context"

	"shadow-raffle/internal/domain/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type AuthRepositoryMock struct {
	mock.Mock
}

func (m *AuthRepositoryMock) SaveUser(ctx context.Context, nickname, passHash, telegram, siteURL string, startingBalance int) (dto.UserDTO, error) {
	args := m.Called(ctx, nickname, passHash, telegram, siteURL, startingBalance)
	return args.Get(0).(dto.UserDTO), args.Error(1)
}

func (m *AuthRepositoryMock) GetUserByNickname(ctx context.Context, nickname string) (dto.UserDTO, string, error) {
	args := m.Called(ctx, nickname)
	return args.Get(0).(dto.UserDTO), args.String(1), args.Error(2)
}

func (m *AuthRepositoryMock) GetUserByID(ctx context.Context, userID uuid.UUID) (dto.UserDTO, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(dto.UserDTO), args.Error(1)
}

func (m *AuthRepositoryMock) TouchLastLogin(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
