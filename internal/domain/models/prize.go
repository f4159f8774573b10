package models

import (
	"github.com/google/uuid"
	"time"
)

// Price = 0 означает, что приз разыгрывается по плоской стоимости из конфига.
// Флаг available переключается 1 -> 0 ровно один раз, обратного пути нет.

type Prize struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Image       string    `json:"image" db:"image"`
	Description string    `json:"description" db:"description"`
	Price       int       `json:"price" db:"price"`
	Available   bool      `json:"available" db:"available"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
