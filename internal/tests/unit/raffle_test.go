package unit

import (
	"context"
	"errors"
	"testing"

	"log/slog"

	"shadow-raffle/internal/domain/dto"
	"shadow-raffle/internal/repository"
	"shadow-raffle/internal/services"
	"shadow-raffle/internal/tests/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRaffleService_Draw_ReturnsWonPrizeAndNewBalance(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userID := uuid.New()
	prize := dto.PrizeSummary{ID: uuid.New(), Name: "Holo Card", Image: "holo.png"}

	repo := new(mocks.RaffleRepositoryMock)
	service := services.NewRaffleService(slog.Default(), repo, 1, true)

	repo.On("GetUserByID", ctx, userID).
		Return(dto.UserDTO{ID: userID, Balance: 2}, nil).Once()
	repo.On("ListUserWins", ctx, userID).
		Return([]dto.UserWinDTO{}, nil).Once()
	repo.On("CountAvailablePrizes", ctx).
		Return(3, nil).Once()
	repo.On("DrawPrize", ctx, userID, 1, true).
		Return(repository.DrawOutcome{Prize: prize, Spent: 1, NewBalance: 1}, nil).Once()

	// Act
	resp, err := service.Draw(ctx, userID)

	// Assert
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "your prize: Holo Card", resp.Message)
	require.NotNil(t, resp.Prize)
	assert.Equal(t, prize.ID, resp.Prize.ID)
	require.NotNil(t, resp.NewBalance)
	assert.Equal(t, 1, *resp.NewBalance)
	repo.AssertExpectations(t)
}

func TestRaffleService_Draw_RefusesSecondWinAndNamesThePrize(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userID := uuid.New()

	repo := new(mocks.RaffleRepositoryMock)
	service := services.NewRaffleService(slog.Default(), repo, 1, true)

	repo.On("GetUserByID", ctx, userID).
		Return(dto.UserDTO{ID: userID, Balance: 5}, nil).Once()
	repo.On("ListUserWins", ctx, userID).
		Return([]dto.UserWinDTO{{PrizeName: "Foil Card"}}, nil).Once()

	// Act
	resp, err := service.Draw(ctx, userID)

	// Assert
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "you already claimed your prize: Foil Card", resp.Message)
	repo.AssertNotCalled(t, "DrawPrize", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestRaffleService_Draw_RefusesWhenBalanceTooLow(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userID := uuid.New()

	repo := new(mocks.RaffleRepositoryMock)
	service := services.NewRaffleService(slog.Default(), repo, 1, true)

	repo.On("GetUserByID", ctx, userID).
		Return(dto.UserDTO{ID: userID, Balance: 0}, nil).Once()
	repo.On("ListUserWins", ctx, userID).
		Return([]dto.UserWinDTO{}, nil).Once()

	// Act
	resp, err := service.Draw(ctx, userID)

	// Assert
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "not enough shadow coins", resp.Message)
	repo.AssertNotCalled(t, "DrawPrize", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRaffleService_Draw_RefusesWhenPoolIsEmpty(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userID := uuid.New()

	repo := new(mocks.RaffleRepositoryMock)
	service := services.NewRaffleService(slog.Default(), repo, 1, true)

	repo.On("GetUserByID", ctx, userID).
		Return(dto.UserDTO{ID: userID, Balance: 3}, nil).Once()
	repo.On("ListUserWins", ctx, userID).
		Return([]dto.UserWinDTO{}, nil).Once()
	repo.On("CountAvailablePrizes", ctx).
		Return(0, nil).Once()

	// Act
	resp, err := service.Draw(ctx, userID)

	// Assert
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "all prizes are gone", resp.Message)
	repo.AssertNotCalled(t, "DrawPrize", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRaffleService_Draw_ConvertsRepositoryRaceIntoAlreadyWonAnswer(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userID := uuid.New()

	repo := new(mocks.RaffleRepositoryMock)
	service := services.NewRaffleService(slog.Default(), repo, 1, true)

	repo.On("GetUserByID", ctx, userID).
		Return(dto.UserDTO{ID: userID, Balance: 2}, nil).Once()
	// до транзакции выигрышей еще не видно, конкурент коммитит раньше
	repo.On("ListUserWins", ctx, userID).
		Return([]dto.UserWinDTO{}, nil).Once()
	repo.On("CountAvailablePrizes", ctx).
		Return(2, nil).Once()
	repo.On("DrawPrize", ctx, userID, 1, true).
		Return(repository.DrawOutcome{}, repository.ErrAlreadyWon).Once()
	repo.On("ListUserWins", ctx, userID).
		Return([]dto.UserWinDTO{{PrizeName: "Rare Card"}}, nil).Once()

	// Act
	resp, err := service.Draw(ctx, userID)

	// Assert
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "you already claimed your prize: Rare Card", resp.Message)
	repo.AssertExpectations(t)
}

func TestRaffleService_Draw_ConvertsInTransactionExhaustionIntoRefusal(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userID := uuid.New()

	repo := new(mocks.RaffleRepositoryMock)
	service := services.NewRaffleService(slog.Default(), repo, 1, false)

	repo.On("GetUserByID", ctx, userID).
		Return(dto.UserDTO{ID: userID, Balance: 2}, nil).Once()
	repo.On("CountAvailablePrizes", ctx).
		Return(1, nil).Once()
	repo.On("DrawPrize", ctx, userID, 1, false).
		Return(repository.DrawOutcome{}, repository.ErrPoolExhausted).Once()

	// Act
	resp, err := service.Draw(ctx, userID)

	// Assert
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "all prizes are gone", resp.Message)
}

func TestRaffleService_Draw_SkipsWinCheckWhenRepeatWinsAllowed(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userID := uuid.New()
	prize := dto.PrizeSummary{ID: uuid.New(), Name: "Second Card"}

	repo := new(mocks.RaffleRepositoryMock)
	service := services.NewRaffleService(slog.Default(), repo, 1, false)

	repo.On("GetUserByID", ctx, userID).
		Return(dto.UserDTO{ID: userID, Balance: 4}, nil).Once()
	repo.On("CountAvailablePrizes", ctx).
		Return(2, nil).Once()
	repo.On("DrawPrize", ctx, userID, 1, false).
		Return(repository.DrawOutcome{Prize: prize, Spent: 1, NewBalance: 3}, nil).Once()

	// Act
	resp, err := service.Draw(ctx, userID)

	// Assert
	require.NoError(t, err)
	assert.True(t, resp.Success)
	repo.AssertNotCalled(t, "ListUserWins", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestRaffleService_Draw_FreeModeIgnoresBalance(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userID := uuid.New()
	prize := dto.PrizeSummary{ID: uuid.New(), Name: "Free Card"}

	repo := new(mocks.RaffleRepositoryMock)
	service := services.NewRaffleService(slog.Default(), repo, 0, true)

	repo.On("GetUserByID", ctx, userID).
		Return(dto.UserDTO{ID: userID, Balance: 0}, nil).Once()
	repo.On("ListUserWins", ctx, userID).
		Return([]dto.UserWinDTO{}, nil).Once()
	repo.On("CountAvailablePrizes", ctx).
		Return(1, nil).Once()
	repo.On("DrawPrize", ctx, userID, 0, true).
		Return(repository.DrawOutcome{Prize: prize, Spent: 0, NewBalance: 0}, nil).Once()

	// Act
	resp, err := service.Draw(ctx, userID)

	// Assert
	require.NoError(t, err)
	assert.True(t, resp.Success)
	repo.AssertExpectations(t)
}

func TestRaffleService_Draw_UnknownUserGetsRefusalNotError(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userID := uuid.New()

	repo := new(mocks.RaffleRepositoryMock)
	service := services.NewRaffleService(slog.Default(), repo, 1, true)

	repo.On("GetUserByID", ctx, userID).
		Return(dto.UserDTO{}, repository.ErrUserNotFound).Once()

	// Act
	resp, err := service.Draw(ctx, userID)

	// Assert
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "user not found", resp.Message)
}

func TestRaffleService_Draw_PropagatesStorageFailure(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userID := uuid.New()
	storageErr := errors.New("connection reset")

	repo := new(mocks.RaffleRepositoryMock)
	service := services.NewRaffleService(slog.Default(), repo, 1, true)

	repo.On("GetUserByID", ctx, userID).
		Return(dto.UserDTO{ID: userID, Balance: 2}, nil).Once()
	repo.On("ListUserWins", ctx, userID).
		Return([]dto.UserWinDTO{}, nil).Once()
	repo.On("CountAvailablePrizes", ctx).
		Return(1, nil).Once()
	repo.On("DrawPrize", ctx, userID, 1, true).
		Return(repository.DrawOutcome{}, storageErr).Once()

	// Act
	_, err := service.Draw(ctx, userID)

	// Assert
	assert.ErrorIs(t, err, storageErr)
}
