package middlewares

import "errors"

var (
	ErrEmptyNickname    = errors.New("nickname must not be empty")
	ErrPasswordTooShort = errors.New("password must be at least 4 characters")
	ErrInvalidAmount    = errors.New("amount must be a positive integer")
)
