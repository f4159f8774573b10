package repository

import "shadow-raffle/internal/domain/dto"

// DrawOutcome это результат успешно закоммиченного розыгрыша.
type DrawOutcome struct {
	Prize      dto.PrizeSummary
	Spent      int
	NewBalance int
}
