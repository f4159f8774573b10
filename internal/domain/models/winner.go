package models

import (
	"github.com/google/uuid"
	"time"
)

// Запись о выигрыше неизменяемая: один приз уходит ровно одному пользователю.

type Winner struct {
	ID      uuid.UUID `json:"id" db:"id"`
	UserID  uuid.UUID `json:"user_id" db:"user_id"`
	PrizeID uuid.UUID `json:"prize_id" db:"prize_id"`
	Spent   int       `json:"spent" db:"spent"`
	WonAt   time.Time `json:"won_at" db:"won_at"`
}
