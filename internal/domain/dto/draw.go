package dto

import (
	"github.com/google/uuid"
)

type PrizeSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Image string    `json:"image"`
}

// swagger:model
type DrawResponse struct {
	Success    bool          `json:"success"`
	Message    string        `json:"message"`
	Prize      *PrizeSummary `json:"prize,omitempty"`
	NewBalance *int          `json:"new_balance,omitempty"`
}
