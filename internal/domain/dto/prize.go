package dto

import (
	"github.com/google/uuid"
	"time"
)

type PrizeDTO struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Image       string    `json:"image" db:"image"`
	Description string    `json:"description" db:"description"`
	Price       int       `json:"price,omitempty" db:"price"`
}

// swagger:model
type AddPrizeRequest struct {
	Name        string `json:"name" example:"gift card"`
	Image       string `json:"image" example:"/img/card.png"`
	Description string `json:"description,omitempty" example:"a small gift card"`
	Price       int    `json:"price,omitempty" example:"2"`
}

type PublicWinnerDTO struct {
	Nickname  string    `json:"nickname" db:"nickname"`
	PrizeName string    `json:"prize_name" db:"prize_name"`
	WonAt     time.Time `json:"won_at" db:"won_at"`
}

type UserWinDTO struct {
	PrizeName   string    `json:"prize_name" db:"prize_name"`
	Image       string    `json:"image" db:"image"`
	Description string    `json:"description" db:"description"`
	WonAt       time.Time `json:"won_at" db:"won_at"`
}
