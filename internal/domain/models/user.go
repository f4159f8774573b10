package models

import (
	"github.com/google/uuid"
	"time"
)

// Баланс храним целым числом теневых монет, дробных монет нет.
// Колонка password хранит соль и дайджест одной строкой в формате salt:hash,
// наружу поле не сериализуется никогда.

type User struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Nickname    string     `json:"nickname" db:"nickname"`
	Telegram    string     `json:"telegram,omitempty" db:"telegram"`
	SiteURL     string     `json:"site_url,omitempty" db:"site_url"`
	Password    string     `json:"-" db:"password"`
	Balance     int        `json:"balance" db:"balance"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
}
