package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shadow-raffle/internal/domain/models"
	"shadow-raffle/internal/repository"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AdjustBalance атомарно меняет баланс пользователя и дописывает строку
// леджера. delta > 0 начисление, delta < 0 списание. Строка пользователя
// держится под блокировкой, так что грант не переплетется с параллельным
// розыгрышем.
func (s *Storage) AdjustBalance(ctx context.Context, userID uuid.UUID, delta int, reason string, adminID *uuid.UUID, balanceCeiling int) (int, error) {
	const op = "storage.Postgres.AdjustBalance"

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var balance int
	err = tx.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, repository.ErrUserNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if delta < 0 && balance+delta < 0 {
		err = repository.ErrInsufficientFunds
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if delta > 0 && balanceCeiling > 0 && balance+delta > balanceCeiling {
		err = repository.ErrBalanceCeiling
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var newBalance int
	err = tx.QueryRow(ctx,
		`UPDATE users SET balance = balance + $1 WHERE id = $2 RETURNING balance`,
		delta, userID).Scan(&newBalance)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	sql, args, buildErr := squirrel.Insert("coin_transactions").
		Columns("user_id", "amount", "reason", "admin_id", "created_at").
		Values(userID, delta, reason, adminID, time.Now()).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if buildErr != nil {
		err = buildErr
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if _, err = tx.Exec(ctx, sql, args...); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return newBalance, nil
}

// ListTransactions возвращает строки леджера, свежие первыми.
// userID == nil отдает весь леджер.
func (s *Storage) ListTransactions(ctx context.Context, userID *uuid.UUID) ([]models.CoinTransaction, error) {
	const op = "storage.Postgres.ListTransactions"

	builder := squirrel.Select("id", "user_id", "amount", "reason", "admin_id", "created_at").
		From("coin_transactions").
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)
	if userID != nil {
		builder = builder.Where(squirrel.Eq{"user_id": *userID})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var txs []models.CoinTransaction
	for rows.Next() {
		var t models.CoinTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Reason, &t.AdminID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		txs = append(txs, t)
	}

	return txs, nil
}
