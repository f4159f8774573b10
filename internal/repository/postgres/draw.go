package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shadow-raffle/internal/repository"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DrawPrize выполняет весь розыгрыш одной транзакцией: блокирует строку
// пользователя, выбирает случайный доступный приз под блокировкой строки,
// гасит флаг доступности, списывает стоимость через леджер и пишет запись
// о выигрыше. Любая ошибка откатывает все целиком, частичных состояний
// не бывает.
func (s *Storage) DrawPrize(ctx context.Context, userID uuid.UUID, flatCost int, singleWin bool) (repository.DrawOutcome, error) {
	const op = "storage.Postgres.DrawPrize"

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return repository.DrawOutcome{}, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// блокируем пользователя: баланс и статус выигрыша не должны меняться
	// под ногами у конкурентного запроса
	var balance int
	err = tx.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.DrawOutcome{}, fmt.Errorf("%s: %w", op, repository.ErrUserNotFound)
		}
		return repository.DrawOutcome{}, fmt.Errorf("%s: %w", op, err)
	}

	if singleWin {
		var won bool
		err = tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM winners WHERE user_id = $1)`, userID).Scan(&won)
		if err != nil {
			return repository.DrawOutcome{}, fmt.Errorf("%s: %w", op, err)
		}
		if won {
			err = repository.ErrAlreadyWon
			return repository.DrawOutcome{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	// набор доступных призов перечитывается здесь, дотранзакционным чтениям
	// доверять нельзя
	var out repository.DrawOutcome
	var price int
	err = tx.QueryRow(ctx, `
		SELECT id, name, image, price
		FROM prizes
		WHERE available
		ORDER BY random()
		LIMIT 1
		FOR UPDATE
	`).Scan(&out.Prize.ID, &out.Prize.Name, &out.Prize.Image, &price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.DrawOutcome{}, fmt.Errorf("%s: %w", op, repository.ErrPoolExhausted)
		}
		return repository.DrawOutcome{}, fmt.Errorf("%s: %w", op, err)
	}

	// flatCost == 0 выключает валюту целиком, индивидуальная цена приза
	// действует только при включенной валюте
	cost := flatCost
	if flatCost > 0 && price > 0 {
		cost = price
	}
	if cost > 0 && balance < cost {
		err = repository.ErrInsufficientFunds
		return repository.DrawOutcome{}, fmt.Errorf("%s: %w", op, err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE prizes SET available = FALSE WHERE id = $1 AND available`, out.Prize.ID)
	if err != nil {
		return repository.DrawOutcome{}, fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		err = repository.ErrPoolExhausted
		return repository.DrawOutcome{}, fmt.Errorf("%s: %w", op, err)
	}

	out.NewBalance = balance
	if cost > 0 {
		err = tx.QueryRow(ctx,
			`UPDATE users SET balance = balance - $1 WHERE id = $2 AND balance >= $1 RETURNING balance`,
			cost, userID).Scan(&out.NewBalance)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				err = repository.ErrInsufficientFunds
			}
			return repository.DrawOutcome{}, fmt.Errorf("%s: %w", op, err)
		}

		sql, args, buildErr := squirrel.Insert("coin_transactions").
			Columns("user_id", "amount", "reason", "created_at").
			Values(userID, -cost, out.Prize.Name, time.Now()).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if buildErr != nil {
			err = buildErr
			return repository.DrawOutcome{}, fmt.Errorf("%s: %w", op, err)
		}
		if _, err = tx.Exec(ctx, sql, args...); err != nil {
			return repository.DrawOutcome{}, fmt.Errorf("%s: %w", op, err)
		}
		out.Spent = cost
	}

	sql, args, buildErr := squirrel.Insert("winners").
		Columns("user_id", "prize_id", "spent", "won_at").
		Values(userID, out.Prize.ID, out.Spent, time.Now()).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if buildErr != nil {
		err = buildErr
		return repository.DrawOutcome{}, fmt.Errorf("%s: %w", op, err)
	}
	if _, err = tx.Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// параллельный запрос уже провел выигрыш этого пользователя
			err = repository.ErrAlreadyWon
		}
		return repository.DrawOutcome{}, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return repository.DrawOutcome{}, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}
