package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"shadow-raffle/internal/domain/dto"
	"shadow-raffle/internal/domain/models"
	"shadow-raffle/internal/middlewares"
	"shadow-raffle/internal/repository"
	"shadow-raffle/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminService interface {
	GrantCoins(ctx context.Context, nickname, amountRaw, reason string, adminID uuid.UUID) (int, error)
	RevokeCoins(ctx context.Context, nickname, amountRaw, reason string, adminID uuid.UUID) (int, error)
	AddPrize(ctx context.Context, req dto.AddPrizeRequest) (dto.PrizeDTO, error)
}

type AdminReportService interface {
	ListAllUsers(ctx context.Context) ([]models.User, error)
	ListAllPrizes(ctx context.Context) ([]models.Prize, error)
	ListTransactions(ctx context.Context, userID *uuid.UUID) ([]models.CoinTransaction, error)
	GetStats(ctx context.Context) (dto.StatsResponse, error)
}

type AdminHandler struct {
	log           *slog.Logger
	adminService  AdminService
	reportService AdminReportService
}

func NewAdminHandler(log *slog.Logger, adminService AdminService, reportService AdminReportService) *AdminHandler {
	return &AdminHandler{
		log:           log,
		adminService:  adminService,
		reportService: reportService,
	}
}

// GrantCoins
// @Summary Начислить теневые монеты пользователю
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param grant body dto.CoinAdjustRequest true "Ник, сумма и причина"
// @Success 200 {object} dto.CoinAdjustResponse "Новый баланс"
// @Failure 400 {object} dto.ErrorResponse "Неверная сумма или превышен потолок"
// @Failure 404 {object} dto.ErrorResponse "Пользователь не найден"
// @Router /api/admin/coins/grant [post]
func (h *AdminHandler) GrantCoins(c *gin.Context) {
	h.adjustCoins(c, h.adminService.GrantCoins)
}

// RevokeCoins
// @Summary Списать теневые монеты у пользователя
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param revoke body dto.CoinAdjustRequest true "Ник, сумма и причина"
// @Success 200 {object} dto.CoinAdjustResponse "Новый баланс"
// @Failure 400 {object} dto.ErrorResponse "Неверная сумма или недостаточно средств"
// @Failure 404 {object} dto.ErrorResponse "Пользователь не найден"
// @Router /api/admin/coins/revoke [post]
func (h *AdminHandler) RevokeCoins(c *gin.Context) {
	h.adjustCoins(c, h.adminService.RevokeCoins)
}

func (h *AdminHandler) adjustCoins(c *gin.Context, adjust func(ctx context.Context, nickname, amountRaw, reason string, adminID uuid.UUID) (int, error)) {
	var input dto.CoinAdjustRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	newBalance, err := adjust(c.Request.Context(), input.Nickname, input.Amount, input.Reason, adminID)
	if err != nil {
		switch {
		case errors.Is(err, middlewares.ErrInvalidAmount),
			errors.Is(err, services.ErrGrantTooLarge),
			errors.Is(err, repository.ErrBalanceCeiling),
			errors.Is(err, repository.ErrInsufficientFunds):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: userFacing(err)})
		case errors.Is(err, repository.ErrUserNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "user not found"})
		default:
			h.log.Error("coin adjustment failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "server error"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.CoinAdjustResponse{Success: true, NewBalance: newBalance})
}

// AddPrize
// @Summary Добавить приз в каталог
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param prize body dto.AddPrizeRequest true "Описание приза"
// @Success 200 {object} dto.PrizeDTO "Созданный приз"
// @Failure 400 {object} dto.ErrorResponse "Неверный запрос"
// @Router /api/admin/prizes [post]
func (h *AdminHandler) AddPrize(c *gin.Context) {
	var input dto.AddPrizeRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	prize, err := h.adminService.AddPrize(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyPrize), errors.Is(err, middlewares.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: userFacing(err)})
		default:
			h.log.Error("failed to add prize", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "prize": prize})
}

// ListUsers
// @Summary Полный список пользователей с контактами
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.User
// @Router /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.reportService.ListAllUsers(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list users", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

// ListPrizes
// @Summary Полный каталог призов, включая разыгранные
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Prize
// @Router /api/admin/prizes [get]
func (h *AdminHandler) ListPrizes(c *gin.Context) {
	prizes, err := h.reportService.ListAllPrizes(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list prizes", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "prizes": prizes})
}

// ListTransactions
// @Summary Леджер монет, опционально по одному пользователю
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param user_id query string false "Фильтр по пользователю"
// @Success 200 {array} models.CoinTransaction
// @Router /api/admin/transactions [get]
func (h *AdminHandler) ListTransactions(c *gin.Context) {
	var userID *uuid.UUID
	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid user_id"})
			return
		}
		userID = &id
	}

	txs, err := h.reportService.ListTransactions(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("failed to list transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "transactions": txs})
}

// GetStats
// @Summary Сводная статистика розыгрыша
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.StatsResponse
// @Router /api/admin/stats [get]
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.reportService.GetStats(c.Request.Context())
	if err != nil {
		h.log.Error("failed to get stats", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// userFacing снимает служебные префиксы op с ошибок валидации.
func userFacing(err error) string {
	for _, sentinel := range []error{
		middlewares.ErrInvalidAmount,
		services.ErrGrantTooLarge,
		services.ErrEmptyPrize,
		repository.ErrBalanceCeiling,
		repository.ErrInsufficientFunds,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
