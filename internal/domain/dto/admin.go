package dto

// swagger:model
type CoinAdjustRequest struct {
	Nickname string `json:"nickname" example:"shadowfan"`
	Amount   string `json:"amount" example:"5"`
	Reason   string `json:"reason" example:"contest bonus"`
}

// swagger:model
type CoinAdjustResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	NewBalance int    `json:"new_balance"`
}

type BalanceEntry struct {
	Nickname string `json:"nickname" db:"nickname"`
	Balance  int    `json:"balance" db:"balance"`
}

// swagger:model
type StatsResponse struct {
	TotalUsers      int            `json:"total_users"`
	PrizesRemaining int            `json:"prizes_remaining"`
	TotalWinners    int            `json:"total_winners"`
	TotalBalance    int            `json:"total_balance"`
	TopBalances     []BalanceEntry `json:"top_balances"`
}
