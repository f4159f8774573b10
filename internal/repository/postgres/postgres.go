package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shadow-raffle/internal/domain/dto"
	"shadow-raffle/internal/repository"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type Storage struct {
	db *pgxpool.Pool
}

func NewPostgres(ctx context.Context, conn string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := pgxpool.New(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// EnsureWinPolicy включает ограничение "один выигрыш на пользователя".
// Индекс это последний рубеж: даже если блокировки не сработают, вторую
// запись о выигрыше для того же пользователя база не примет.
func (s *Storage) EnsureWinPolicy(ctx context.Context, singleWin bool) error {
	const op = "storage.Postgres.EnsureWinPolicy"

	if !singleWin {
		return nil
	}

	_, err := s.db.Exec(ctx,
		`CREATE UNIQUE INDEX IF NOT EXISTS winners_user_id_key ON winners (user_id)`)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SaveUser создает пользователя и, если стартовый баланс ненулевой, сразу
// проводит стартовое начисление через леджер в той же транзакции.
func (s *Storage) SaveUser(ctx context.Context, nickname, passHash, telegram, siteURL string, startingBalance int) (dto.UserDTO, error) {
	const op = "storage.Postgres.SaveUser"

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return dto.UserDTO{}, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	sql, args, err := squirrel.Insert("users").
		Columns("nickname", "password", "telegram", "site_url", "balance").
		Values(nickname, passHash, nullIfEmpty(telegram), nullIfEmpty(siteURL), startingBalance).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return dto.UserDTO{}, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	err = tx.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "nickname") {
				return dto.UserDTO{}, fmt.Errorf("%s: %w", op, repository.ErrUserAlreadyExists)
			}
			return dto.UserDTO{}, fmt.Errorf("%s: %w", op, repository.ErrContactTaken)
		}

		return dto.UserDTO{}, fmt.Errorf("%s: %w", op, err)
	}

	if startingBalance > 0 {
		sql, args, err = squirrel.Insert("coin_transactions").
			Columns("user_id", "amount", "reason", "created_at").
			Values(id, startingBalance, "starting grant", time.Now()).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return dto.UserDTO{}, fmt.Errorf("%s: %w", op, err)
		}

		if _, err = tx.Exec(ctx, sql, args...); err != nil {
			return dto.UserDTO{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return dto.UserDTO{}, fmt.Errorf("%s: %w", op, err)
	}

	return dto.UserDTO{
		ID:       id,
		Nickname: nickname,
		Telegram: telegram,
		SiteURL:  siteURL,
		Balance:  startingBalance,
	}, nil
}

func (s *Storage) GetUserByNickname(ctx context.Context, nickname string) (dto.UserDTO, string, error) {
	const op = "storage.Postgres.GetUserByNickname"

	return s.getUser(ctx, op, squirrel.Eq{"nickname": nickname})
}

func (s *Storage) GetUserByID(ctx context.Context, userID uuid.UUID) (dto.UserDTO, error) {
	const op = "storage.Postgres.GetUserById"

	user, _, err := s.getUser(ctx, op, squirrel.Eq{"id": userID})
	return user, err
}

func (s *Storage) getUser(ctx context.Context, op string, where squirrel.Eq) (dto.UserDTO, string, error) {
	sql, args, err := squirrel.Select("id", "nickname", "telegram", "site_url", "balance", "password").
		From("users").
		Where(where).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return dto.UserDTO{}, "", fmt.Errorf("%s: %w", op, err)
	}

	var user dto.UserDTO
	var telegram, siteURL, passHash *string
	err = s.db.QueryRow(ctx, sql, args...).
		Scan(&user.ID, &user.Nickname, &telegram, &siteURL, &user.Balance, &passHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dto.UserDTO{}, "", fmt.Errorf("%s: %w", op, repository.ErrUserNotFound)
		}
		return dto.UserDTO{}, "", fmt.Errorf("%s: %w", op, err)
	}

	if telegram != nil {
		user.Telegram = *telegram
	}
	if siteURL != nil {
		user.SiteURL = *siteURL
	}

	var stored string
	if passHash != nil {
		stored = *passHash
	}

	return user, stored, nil
}

func (s *Storage) TouchLastLogin(ctx context.Context, userID uuid.UUID) error {
	const op = "storage.Postgres.TouchLastLogin"

	sql, args, err := squirrel.Update("users").
		Set("last_login_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err = s.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Close() error {
	s.db.Close()
	return nil
}

func nullIfEmpty(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}
