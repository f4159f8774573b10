package repository

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrContactTaken      = errors.New("contact already taken")
	ErrPoolExhausted     = errors.New("no prizes left")
	ErrAlreadyWon        = errors.New("user already won")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrBalanceCeiling    = errors.New("balance ceiling exceeded")
)
