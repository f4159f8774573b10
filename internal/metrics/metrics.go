package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DrawsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "raffle_draws_total",
		Help: "Draw attempts by outcome.",
	}, []string{"outcome"})

	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "raffle_registrations_total",
		Help: "Newly registered users.",
	})

	CoinsAdjustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "raffle_coins_adjusted_total",
		Help: "Coins granted or revoked by admins.",
	}, []string{"direction"})
)

const (
	OutcomeWin          = "win"
	OutcomeAlreadyWon   = "already_won"
	OutcomePoolEmpty    = "pool_exhausted"
	OutcomeInsufficient = "insufficient_funds"
	OutcomeError        = "error"
)
