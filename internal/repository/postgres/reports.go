package postgres

import (
	"context"
	"fmt"

	"shadow-raffle/internal/domain/dto"
	"shadow-raffle/internal/domain/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// ListPublicWinners отдает публичную доску победителей: ник, приз, время,
// свежие первыми. Ничего лишнего наружу не уходит.
func (s *Storage) ListPublicWinners(ctx context.Context, limit int) ([]dto.PublicWinnerDTO, error) {
	const op = "storage.Postgres.ListPublicWinners"

	sql, args, err := squirrel.Select("u.nickname", "p.name AS prize_name", "w.won_at").
		From("winners w").
		Join("users u ON w.user_id = u.id").
		Join("prizes p ON w.prize_id = p.id").
		OrderBy("w.won_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var winners []dto.PublicWinnerDTO
	for rows.Next() {
		var w dto.PublicWinnerDTO
		if err := rows.Scan(&w.Nickname, &w.PrizeName, &w.WonAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		winners = append(winners, w)
	}

	return winners, nil
}

func (s *Storage) ListUserWins(ctx context.Context, userID uuid.UUID) ([]dto.UserWinDTO, error) {
	const op = "storage.Postgres.ListUserWins"

	sql, args, err := squirrel.Select("p.name AS prize_name", "p.image", "p.description", "w.won_at").
		From("winners w").
		Join("prizes p ON w.prize_id = p.id").
		Where(squirrel.Eq{"w.user_id": userID}).
		OrderBy("w.won_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var wins []dto.UserWinDTO
	for rows.Next() {
		var w dto.UserWinDTO
		if err := rows.Scan(&w.PrizeName, &w.Image, &w.Description, &w.WonAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		wins = append(wins, w)
	}

	return wins, nil
}

// ListAllUsers это админский срез без редактирования контактов.
// Хэши паролей не выбираются вовсе.
func (s *Storage) ListAllUsers(ctx context.Context) ([]models.User, error) {
	const op = "storage.Postgres.ListAllUsers"

	sql, args, err := squirrel.Select("id", "nickname", "telegram", "site_url", "balance", "created_at", "last_login_at").
		From("users").
		OrderBy("created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		var telegram, siteURL *string
		if err := rows.Scan(&u.ID, &u.Nickname, &telegram, &siteURL, &u.Balance, &u.CreatedAt, &u.LastLoginAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if telegram != nil {
			u.Telegram = *telegram
		}
		if siteURL != nil {
			u.SiteURL = *siteURL
		}
		users = append(users, u)
	}

	return users, nil
}

func (s *Storage) ListAllPrizes(ctx context.Context) ([]models.Prize, error) {
	const op = "storage.Postgres.ListAllPrizes"

	sql, args, err := squirrel.Select("id", "name", "image", "description", "price", "available", "created_at").
		From("prizes").
		OrderBy("created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var prizes []models.Prize
	for rows.Next() {
		var p models.Prize
		if err := rows.Scan(&p.ID, &p.Name, &p.Image, &p.Description, &p.Price, &p.Available, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		prizes = append(prizes, p)
	}

	return prizes, nil
}

func (s *Storage) GetStats(ctx context.Context, topN int) (dto.StatsResponse, error) {
	const op = "storage.Postgres.GetStats"

	var stats dto.StatsResponse
	err := s.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM prizes WHERE available),
			(SELECT COUNT(*) FROM winners),
			(SELECT COALESCE(SUM(balance), 0) FROM users)
	`).Scan(&stats.TotalUsers, &stats.PrizesRemaining, &stats.TotalWinners, &stats.TotalBalance)
	if err != nil {
		return dto.StatsResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	sql, args, err := squirrel.Select("nickname", "balance").
		From("users").
		OrderBy("balance DESC", "nickname").
		Limit(uint64(topN)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return dto.StatsResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return dto.StatsResponse{}, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var e dto.BalanceEntry
		if err := rows.Scan(&e.Nickname, &e.Balance); err != nil {
			return dto.StatsResponse{}, fmt.Errorf("%s: %w", op, err)
		}
		stats.TopBalances = append(stats.TopBalances, e)
	}

	return stats, nil
}
