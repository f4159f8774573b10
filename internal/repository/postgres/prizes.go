package postgres

import (
	"context"
	"fmt"

	"shadow-raffle/internal/domain/dto"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

func (s *Storage) AddPrize(ctx context.Context, name, image, description string, price int) (dto.PrizeDTO, error) {
	const op = "storage.Postgres.AddPrize"

	sql, args, err := squirrel.Insert("prizes").
		Columns("name", "image", "description", "price").
		Values(name, image, description, price).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return dto.PrizeDTO{}, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	if err = s.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return dto.PrizeDTO{}, fmt.Errorf("%s: %w", op, err)
	}

	return dto.PrizeDTO{
		ID:          id,
		Name:        name,
		Image:       image,
		Description: description,
		Price:       price,
	}, nil
}

func (s *Storage) ListAvailablePrizes(ctx context.Context) ([]dto.PrizeDTO, error) {
	const op = "storage.Postgres.ListAvailablePrizes"

	sql, args, err := squirrel.Select("id", "name", "image", "description", "price").
		From("prizes").
		Where(squirrel.Eq{"available": true}).
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

	var prizes []dto.PrizeDTO
	for rows.Next() {
		var p dto.PrizeDTO
		if err := rows.Scan(&p.ID, &p.Name, &p.Image, &p.Description, &p.Price); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		prizes = append(prizes, p)
	}

	return prizes, nil
}

func (s *Storage) CountAvailablePrizes(ctx context.Context) (int, error) {
	const op = "storage.Postgres.CountAvailablePrizes"

	sql, args, err := squirrel.Select("COUNT(*)").
		From("prizes").
		Where(squirrel.Eq{"available": true}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var count int
	if err = s.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}
