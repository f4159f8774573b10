package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"shadow-raffle/internal/domain/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RaffleService interface {
	Draw(ctx context.Context, userID uuid.UUID) (dto.DrawResponse, error)
}

type ReportService interface {
	ListAvailablePrizes(ctx context.Context) ([]dto.PrizeDTO, error)
	ListPublicWinners(ctx context.Context, limit int) ([]dto.PublicWinnerDTO, error)
	ListUserWins(ctx context.Context, userID uuid.UUID) ([]dto.UserWinDTO, error)
}

type RaffleHandler struct {
	log           *slog.Logger
	raffleService RaffleService
	reportService ReportService
}

func NewRaffleHandler(log *slog.Logger, raffleService RaffleService, reportService ReportService) *RaffleHandler {
	return &RaffleHandler{
		log:           log,
		raffleService: raffleService,
		reportService: reportService,
	}
}

// Play
// @Summary Разыграть приз
// @Description Одна атомарная попытка: случайный приз из доступных, списание монет, запись выигрыша.
// @Tags raffle
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.DrawResponse "Результат попытки"
// @Failure 401 {object} dto.ErrorResponse "Неавторизован"
// @Failure 500 {object} dto.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/play [post]
func (h *RaffleHandler) Play(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.raffleService.Draw(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("draw failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListPrizes
// @Summary Список доступных призов
// @Tags raffle
// @Produce json
// @Success 200 {array} dto.PrizeDTO
// @Router /api/prizes [get]
func (h *RaffleHandler) ListPrizes(c *gin.Context) {
	prizes, err := h.reportService.ListAvailablePrizes(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list prizes", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "prizes": prizes})
}

// ListWinners
// @Summary Публичная доска победителей
// @Tags raffle
// @Produce json
// @Success 200 {array} dto.PublicWinnerDTO
// @Router /api/winners [get]
func (h *RaffleHandler) ListWinners(c *gin.Context) {
	// некорректный или отсутствующий limit сервис заменит страницей по умолчанию
	limit, _ := strconv.Atoi(c.Query("limit"))

	winners, err := h.reportService.ListPublicWinners(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("failed to list winners", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "winners": winners})
}

// MyWins
// @Summary Выигрыши текущего пользователя
// @Tags raffle
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.UserWinDTO
// @Failure 401 {object} dto.ErrorResponse "Неавторизован"
// @Router /api/me/wins [get]
func (h *RaffleHandler) MyWins(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	wins, err := h.reportService.ListUserWins(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("failed to list wins", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "wins": wins})
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Unauthorized"})
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDVal.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid user ID"})
		return uuid.Nil, false
	}

	return userID, true
}
