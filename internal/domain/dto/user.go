package dto

import (
	"github.com/google/uuid"
)

type UserDTO struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Nickname string    `json:"nickname" db:"nickname"`
	Telegram string    `json:"telegram,omitempty" db:"telegram"`
	SiteURL  string    `json:"site_url,omitempty" db:"site_url"`
	Balance  int       `json:"balance" db:"balance"`
}

// swagger:model
type SessionResponse struct {
	Success   bool    `json:"success"`
	IsNewUser bool    `json:"is_new_user"`
	User      UserDTO `json:"user"`
}
