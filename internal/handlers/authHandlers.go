package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"shadow-raffle/internal/domain/dto"
	"shadow-raffle/internal/middlewares"
	"shadow-raffle/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthService interface {
	RegisterOrLogin(ctx context.Context, nickname, telegram, siteURL string) (services.Session, error)
	RegisterWithPassword(ctx context.Context, nickname, password, telegram, siteURL string) (services.Session, error)
	LoginWithPassword(ctx context.Context, nickname, password string) (services.Session, error)
	Refresh(ctx context.Context, refreshToken string) (services.Session, error)
}

type AuthHandler struct {
	log         *slog.Logger
	authService AuthService
}

func NewAuthHandler(log *slog.Logger, authService AuthService) *AuthHandler {
	return &AuthHandler{
		log:         log,
		authService: authService,
	}
}

// Session
// @Summary Вход без пароля: регистрация или возврат по нику
// @Description Существующий ник логинится, новый регистрируется со стартовым балансом.
// @Tags auth
// @Accept json
// @Produce json
// @Param session body dto.SessionRequest true "Ник и необязательные контакты"
// @Success 200 {object} dto.SessionResponse "Сессия создана"
// @Failure 400 {object} dto.ErrorResponse "Неверный запрос"
// @Failure 409 {object} dto.ErrorResponse "Контакт уже занят"
// @Router /api/auth/session [post]
func (h *AuthHandler) Session(c *gin.Context) {
	var input dto.SessionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	session, err := h.authService.RegisterOrLogin(c.Request.Context(), input.Nickname, input.Telegram, input.SiteURL)
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"is_new_user":  session.IsNewUser,
		"user":         session.User,
		"token":        session.AccessToken,
		"refreshToken": session.RefreshToken,
	})
}

// Register
// @Summary Регистрация с паролем
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Данные регистрации"
// @Success 200 {object} dto.SessionResponse "Пользователь создан"
// @Failure 400 {object} dto.ErrorResponse "Неверный запрос"
// @Failure 409 {object} dto.ErrorResponse "Ник или контакт заняты"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var input dto.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	session, err := h.authService.RegisterWithPassword(c.Request.Context(), input.Nickname, input.Password, input.Telegram, input.SiteURL)
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"user":         session.User,
		"token":        session.AccessToken,
		"refreshToken": session.RefreshToken,
	})
}

// Login
// @Summary Вход по нику и паролю
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Учетные данные"
// @Success 200 {object} dto.SessionResponse "Успешный вход"
// @Failure 401 {object} dto.ErrorResponse "Неверные учетные данные"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	session, err := h.authService.LoginWithPassword(c.Request.Context(), input.Nickname, input.Password)
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"user":         session.User,
		"token":        session.AccessToken,
		"refreshToken": session.RefreshToken,
	})
}

// Refresh
// @Summary Обмен refresh токена на новую пару токенов
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshRequest true "Refresh токен"
// @Success 200 {object} dto.SessionResponse "Новая пара выдана"
// @Failure 401 {object} dto.ErrorResponse "Токен недействителен"
// @Router /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var input dto.RefreshRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	session, err := h.authService.Refresh(c.Request.Context(), input.RefreshToken)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRefreshToken) {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "invalid refresh token"})
			return
		}
		h.writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"user":         session.User,
		"token":        session.AccessToken,
		"refreshToken": session.RefreshToken,
	})
}

func (h *AuthHandler) writeAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, middlewares.ErrEmptyNickname),
		errors.Is(err, middlewares.ErrPasswordTooShort):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrNicknameTaken):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Message: "nickname already taken"})
	case errors.Is(err, services.ErrContactTaken):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Message: "contact already taken"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "invalid credentials"})
	default:
		h.log.Error("auth request failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "server error"})
	}
}
