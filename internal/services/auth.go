package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"shadow-raffle/internal/domain/dto"
	"shadow-raffle/internal/lib/jwt"
	"shadow-raffle/internal/lib/passhash"
	"shadow-raffle/internal/metrics"
	"shadow-raffle/internal/middlewares"
	"shadow-raffle/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrNicknameTaken             = errors.New("nickname already taken")
	ErrContactTaken              = errors.New("contact already taken")
	ErrFailedToGenerateTokens    = errors.New("failed to generate tokens")
	ErrFailedToStoreRefreshToken = errors.New("failed to store refresh token")
	ErrInvalidRefreshToken       = errors.New("invalid refresh token")
)

type AuthRepository interface {
	SaveUser(ctx context.Context, nickname, passHash, telegram, siteURL string, startingBalance int) (dto.UserDTO, error)
	GetUserByNickname(ctx context.Context, nickname string) (dto.UserDTO, string, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (dto.UserDTO, error)
	TouchLastLogin(ctx context.Context, userID uuid.UUID) error
}

type RedisClient interface {
	StoreRefreshToken(userID, refreshToken string) error
	GetRefreshToken(refreshToken string) (string, error)
}

type Session struct {
	User         dto.UserDTO
	IsNewUser    bool
	AccessToken  string
	RefreshToken string
}

type AuthService struct {
	log             *slog.Logger
	authRepository  AuthRepository
	redis           RedisClient
	jwtGen          *jwt.Generator
	startingBalance int
	admins          map[string]struct{}
}

func NewAuthService(log *slog.Logger, authRepository AuthRepository, redis RedisClient,
	jwtGen *jwt.Generator, startingBalance int, adminNicknames []string) *AuthService {
	admins := make(map[string]struct{}, len(adminNicknames))
	for _, n := range adminNicknames {
		admins[n] = struct{}{}
	}

	return &AuthService{
		log:             log,
		authRepository:  authRepository,
		redis:           redis,
		jwtGen:          jwtGen,
		startingBalance: startingBalance,
		admins:          admins,
	}
}

// RegisterOrLogin это идемпотентный вход без пароля: существующий ник
// считается возвратом, новый регистрируется со стартовым начислением.
// Флаг IsNewUser нужен фронту, он показывает разные сообщения.
func (s *AuthService) RegisterOrLogin(ctx context.Context, nickname, telegram, siteURL string) (Session, error) {
	const op = "services.AuthService.RegisterOrLogin"

	log := s.log.With(
		slog.String("op", op),
		slog.String("nickname", nickname),
	)

	nickname, err := middlewares.CheckNickname(nickname)
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	user, _, err := s.authRepository.GetUserByNickname(ctx, nickname)
	if err == nil {
		if err := s.authRepository.TouchLastLogin(ctx, user.ID); err != nil {
			return Session{}, fmt.Errorf("%s: %w", op, err)
		}

		log.Info("returning user logged in")

		return s.issueSession(op, user, false)
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		log.Error("failed to look up user", slog.String("error", err.Error()))
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err = s.authRepository.SaveUser(ctx, nickname, "", telegram, siteURL, s.startingBalance)
	if err != nil {
		// гонка двух первых заходов с одним ником: проигравший вставку
		// ведет себя как обычный возвратный вход
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			user, _, err = s.authRepository.GetUserByNickname(ctx, nickname)
			if err != nil {
				return Session{}, fmt.Errorf("%s: %w", op, err)
			}
			if err := s.authRepository.TouchLastLogin(ctx, user.ID); err != nil {
				return Session{}, fmt.Errorf("%s: %w", op, err)
			}

			log.Info("returning user logged in")

			return s.issueSession(op, user, false)
		}

		return Session{}, fmt.Errorf("%s: %w", op, s.mapSaveError(err))
	}

	metrics.RegistrationsTotal.Inc()
	log.Info("new user registered")

	return s.issueSession(op, user, true)
}

// RegisterWithPassword создает пользователя с учетными данными.
// Пароль короче четырех символов отклоняется до обращения к базе.
func (s *AuthService) RegisterWithPassword(ctx context.Context, nickname, password, telegram, siteURL string) (Session, error) {
	const op = "services.AuthService.RegisterWithPassword"

	log := s.log.With(
		slog.String("op", op),
		slog.String("nickname", nickname),
	)

	nickname, err := middlewares.CheckRegister(nickname, password)
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	passHash, err := passhash.Hash(password)
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.authRepository.SaveUser(ctx, nickname, passHash, telegram, siteURL, s.startingBalance)
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, s.mapSaveError(err))
	}

	metrics.RegistrationsTotal.Inc()
	log.Info("user registered with password")

	return s.issueSession(op, user, true)
}

func (s *AuthService) LoginWithPassword(ctx context.Context, nickname, password string) (Session, error) {
	const op = "services.AuthService.LoginWithPassword"

	log := s.log.With(
		slog.String("op", op),
		slog.String("nickname", nickname),
	)

	nickname, err := middlewares.CheckNickname(nickname)
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	user, storedHash, err := s.authRepository.GetUserByNickname(ctx, nickname)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return Session{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("failed to look up user", slog.String("error", err.Error()))
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	if storedHash == "" {
		return Session{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	ok, err := passhash.Verify(storedHash, password)
	if err != nil || !ok {
		return Session{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if err := s.authRepository.TouchLastLogin(ctx, user.ID); err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in")

	return s.issueSession(op, user, false)
}

// Refresh обменивает действующий refresh токен на новую пару.
// Токен должен пройти проверку подписи и числиться в хранилище за тем же
// пользователем; любое расхождение выглядит снаружи одинаково.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	const op = "services.AuthService.Refresh"

	claims, err := s.jwtGen.Parse(refreshToken)
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, ErrInvalidRefreshToken)
	}

	storedUserID, err := s.redis.GetRefreshToken(refreshToken)
	if err != nil || storedUserID != claims.UserID {
		return Session{}, fmt.Errorf("%s: %w", op, ErrInvalidRefreshToken)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, ErrInvalidRefreshToken)
	}

	user, err := s.authRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return Session{}, fmt.Errorf("%s: %w", op, ErrInvalidRefreshToken)
		}
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("session refreshed",
		slog.String("op", op),
		slog.String("user_id", claims.UserID),
	)

	return s.issueSession(op, user, false)
}

func (s *AuthService) issueSession(op string, user dto.UserDTO, isNew bool) (Session, error) {
	role := jwt.RoleUser
	if _, isAdmin := s.admins[user.Nickname]; isAdmin {
		role = jwt.RoleAdmin
	}

	access, refresh, err := s.jwtGen.GeneratePair(user.ID.String(), role)
	if err != nil {
		s.log.Error("failed to generate tokens", slog.String("error", err.Error()))
		return Session{}, fmt.Errorf("%s: %w", op, ErrFailedToGenerateTokens)
	}

	if err := s.redis.StoreRefreshToken(user.ID.String(), refresh); err != nil {
		s.log.Error("failed to store refresh token", slog.String("error", err.Error()))
		return Session{}, fmt.Errorf("%s: %w", op, ErrFailedToStoreRefreshToken)
	}

	return Session{
		User:         user,
		IsNewUser:    isNew,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (s *AuthService) mapSaveError(err error) error {
	switch {
	case errors.Is(err, repository.ErrUserAlreadyExists):
		return ErrNicknameTaken
	case errors.Is(err, repository.ErrContactTaken):
		return ErrContactTaken
	default:
		return err
	}
}
