package models

import (
	"github.com/google/uuid"
	"time"
)

// Леджер только дописывается: amount > 0 это начисление, amount < 0 списание.
// AdminID заполнен, когда операцию провел администратор.

type CoinTransaction struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	Amount    int        `json:"amount" db:"amount"`
	Reason    string     `json:"reason" db:"reason"`
	AdminID   *uuid.UUID `json:"admin_id,omitempty" db:"admin_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
