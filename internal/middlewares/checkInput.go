package middlewares

import (
	"strconv"
	"strings"
)

const minPasswordLen = 4

func CheckNickname(nickname string) (string, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return "", ErrEmptyNickname
	}

	return nickname, nil
}

func CheckRegister(nickname, password string) (string, error) {
	nickname, err := CheckNickname(nickname)
	if err != nil {
		return "", err
	}

	if len(password) < minPasswordLen {
		return "", ErrPasswordTooShort
	}

	return nickname, nil
}

// CheckAmount парсит сумму из запроса; принимаются только положительные целые.
func CheckAmount(raw string) (int, error) {
	amount, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || amount <= 0 {
		return 0, ErrInvalidAmount
	}

	return amount, nil
}
